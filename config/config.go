package config

import (
	"net"
	"strconv"
	"time"
)

type (
	NET struct {
		// Address is the host to listen on. An empty string means all the interfaces.
		Address string `json:"address" yaml:"address" toml:"address"`
		Port    uint16 `json:"port" yaml:"port" toml:"port"`
		// Backlog is passed to listen(2) as is.
		Backlog int `json:"backlog" yaml:"backlog" toml:"backlog"`
		// ReadBufferSize is how many bytes are read from a connection at most per a single
		// readiness event. A read shorter than this value marks the request as fully received.
		ReadBufferSize int `json:"read_buffer_size" yaml:"read_buffer_size" toml:"read_buffer_size"`
		// IdleTimeout drops connections which sent nothing for this period of time while still
		// being read. Zero disables it, so stalled connections live forever.
		IdleTimeout time.Duration `json:"idle_timeout" yaml:"idle_timeout" toml:"idle_timeout" test:"nullable"`
		// WriteTimeout limits how long a peer may refuse to accept the rest of a response.
		WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" toml:"write_timeout"`
	}

	HTTP struct {
		// Version is the protocol token put into every status line.
		Version string `json:"version" yaml:"version" toml:"version"`
		// ErrorPage is a path to the html/template rendered for error responses. {{.Code}}
		// and {{.Message}} are available. A built-in page is used if the file can't be read.
		ErrorPage string `json:"error_page" yaml:"error_page" toml:"error_page"`
		// BaseDirectory is the root of the files served by the static handlers. Relative
		// paths are resolved against the working directory.
		BaseDirectory string `json:"base_directory" yaml:"base_directory" toml:"base_directory"`
	}

	Storage struct {
		// Backend is either "memory" or "file".
		Backend string `json:"backend" yaml:"backend" toml:"backend"`
		// Directory holds the records of the file backend.
		Directory string `json:"directory" yaml:"directory" toml:"directory"`
	}

	Log struct {
		// Level is one of zerolog levels: trace, debug, info, warn, error.
		Level string `json:"level" yaml:"level" toml:"level"`
	}
)

// Config is loaded once at startup and never modified afterwards.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	NET     NET     `json:"net" yaml:"net" toml:"net"`
	HTTP    HTTP    `json:"http" yaml:"http" toml:"http"`
	Storage Storage `json:"storage" yaml:"storage" toml:"storage"`
	Log     Log     `json:"log" yaml:"log" toml:"log"`
}

// Default returns default config.
func Default() *Config {
	return &Config{
		NET: NET{
			Address:        "localhost",
			Port:           8080,
			Backlog:        5,
			ReadBufferSize: 8 * 1024,
			IdleTimeout:    0,
			WriteTimeout:   30 * time.Second,
		},
		HTTP: HTTP{
			Version:       "HTTP/1.0",
			ErrorPage:     "error.html",
			BaseDirectory: "www",
		},
		Storage: Storage{
			Backend:   "memory",
			Directory: "pastes",
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Addr returns the address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.NET.Address, strconv.Itoa(int(c.NET.Port)))
}
