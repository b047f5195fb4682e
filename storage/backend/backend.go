// Package backend picks the storage implementation named by the configuration.
package backend

import (
	"fmt"

	"github.com/indigo-web/pollbin/config"
	"github.com/indigo-web/pollbin/storage"
	"github.com/indigo-web/pollbin/storage/file"
	"github.com/indigo-web/pollbin/storage/memory"
)

const (
	Memory = "memory"
	File   = "file"
)

func Open(cfg config.Storage) (storage.Storage, error) {
	switch cfg.Backend {
	case Memory:
		return memory.New(), nil
	case File:
		return file.New(cfg.Directory)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Backend)
	}
}
