package backend

import (
	"path/filepath"
	"testing"

	"github.com/indigo-web/pollbin/config"
	"github.com/indigo-web/pollbin/storage/file"
	"github.com/indigo-web/pollbin/storage/memory"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		store, err := Open(config.Default().Storage)
		require.NoError(t, err)
		require.IsType(t, &memory.Storage{}, store)
	})

	t.Run("file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "pastes")
		store, err := Open(config.Storage{Backend: File, Directory: dir})
		require.NoError(t, err)
		require.IsType(t, &file.Storage{}, store)
		require.DirExists(t, dir)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Open(config.Storage{Backend: "redis"})
		require.Error(t, err)
	})
}
