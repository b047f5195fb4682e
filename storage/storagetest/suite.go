// Package storagetest holds the behaviour every storage.Storage implementation must satisfy.
package storagetest

import (
	"testing"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/pollbin/storage"
	"github.com/stretchr/testify/require"
)

// Run runs the suite. Every subtest gets a fresh storage.
func Run(t *testing.T, newStorage func(t *testing.T) storage.Storage) {
	t.Run("empty", func(t *testing.T) {
		s := newStorage(t)
		count, err := s.Count()
		require.NoError(t, err)
		require.Zero(t, count)

		_, err = s.Read(0)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("sequential ids", func(t *testing.T) {
		s := newStorage(t)
		records := []string{uniuri.New(), "", "<b>hello</b>\r\nworld", uniuri.NewLen(4096)}

		for i, record := range records {
			id, err := s.Create(record)
			require.NoError(t, err)
			require.Equal(t, i, id)
		}

		count, err := s.Count()
		require.NoError(t, err)
		require.Equal(t, len(records), count)

		for i, record := range records {
			data, err := s.Read(i)
			require.NoError(t, err)
			require.Equal(t, record, data)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		s := newStorage(t)
		_, err := s.Create("hello")
		require.NoError(t, err)

		for _, id := range []int{-1, 1, 9999} {
			_, err = s.Read(id)
			require.ErrorIs(t, err, storage.ErrNotFound, id)
		}
	})
}
