package tcp

import (
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/indigo-web/pollbin/config"
	"github.com/indigo-web/pollbin/http/status"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const reply = "HTTP/1.0 200 Ok\r\n\r\nok"

type recorder struct {
	requests [][]byte
	remotes  []net.Addr
	err      error
}

func (r *recorder) onComplete(conn *Conn) error {
	r.requests = append(r.requests, append([]byte(nil), conn.Data()...))
	r.remotes = append(r.remotes, conn.Remote())
	if r.err != nil {
		return r.err
	}

	return conn.Write([]byte(reply))
}

func newServer(t *testing.T, tune func(cfg *config.NET)) (*Server, *recorder) {
	cfg := config.Default().NET
	cfg.Address = "127.0.0.1"
	cfg.Port = 0
	cfg.ReadBufferSize = 16
	if tune != nil {
		tune(&cfg)
	}

	rec := new(recorder)
	server, err := Listen(cfg, rec.onComplete, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = server.Close()
	})

	return server, rec
}

func dial(t *testing.T, server *Server) net.Conn {
	conn, err := net.Dial("tcp", server.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

// pollUntil polls as long as the condition isn't met. Every poll must be expected to have
// something to react on, otherwise it blocks forever.
func pollUntil(t *testing.T, server *Server, cond func() bool) {
	for i := 0; i < 50 && !cond(); i++ {
		require.NoError(t, server.Poll())
	}

	require.True(t, cond(), "condition wasn't met")
}

func onlyConn(t *testing.T, server *Server) *Conn {
	require.Equal(t, 1, server.Len())
	for _, conn := range server.conns.conns {
		return conn
	}

	return nil
}

func accept(t *testing.T, server *Server) (net.Conn, *Conn) {
	client := dial(t, server)
	pollUntil(t, server, func() bool {
		return server.Len() == 1
	})

	return client, onlyConn(t, server)
}

func readAll(t *testing.T, client net.Conn) string {
	require.NoError(t, client.SetReadDeadline(time.Now().Add(5*time.Second)))
	data, err := io.ReadAll(client)
	require.NoError(t, err)

	return string(data)
}

func TestServer(t *testing.T) {
	t.Run("one request per connection", func(t *testing.T) {
		server, rec := newServer(t, nil)
		client, conn := accept(t, server)
		require.Equal(t, Reading, conn.State())

		_, err := client.Write([]byte("GET /\r\n"))
		require.NoError(t, err)
		pollUntil(t, server, func() bool {
			return conn.State() == Writing
		})
		require.Empty(t, rec.requests)

		pollUntil(t, server, func() bool {
			return server.Len() == 0
		})
		require.Equal(t, []string{"GET /\r\n"}, stringify(rec.requests))
		require.Equal(t, client.LocalAddr().String(), rec.remotes[0].String())
		require.Equal(t, reply, readAll(t, client))
	})

	t.Run("read of exactly chunk size keeps reading", func(t *testing.T) {
		server, rec := newServer(t, nil)
		client, conn := accept(t, server)

		chunk := strings.Repeat("a", 16)
		_, err := client.Write([]byte(chunk))
		require.NoError(t, err)
		pollUntil(t, server, func() bool {
			return len(conn.Data()) == 16
		})
		require.Equal(t, Reading, conn.State())
		require.Empty(t, rec.requests)

		_, err = client.Write([]byte(chunk))
		require.NoError(t, err)
		pollUntil(t, server, func() bool {
			return len(conn.Data()) == 32
		})
		require.Equal(t, Reading, conn.State())
		require.Empty(t, rec.requests)

		_, err = client.Write([]byte("b"))
		require.NoError(t, err)
		pollUntil(t, server, func() bool {
			return server.Len() == 0
		})
		require.Equal(t, []string{chunk + chunk + "b"}, stringify(rec.requests))
		require.Equal(t, reply, readAll(t, client))
	})

	t.Run("read shorter than chunk size completes", func(t *testing.T) {
		server, rec := newServer(t, nil)
		client, conn := accept(t, server)

		_, err := client.Write([]byte(strings.Repeat("a", 15)))
		require.NoError(t, err)
		pollUntil(t, server, func() bool {
			return conn.State() == Writing
		})
		pollUntil(t, server, func() bool {
			return len(rec.requests) == 1
		})
		require.Zero(t, server.Len())
	})

	t.Run("peer closes before sending anything", func(t *testing.T) {
		server, rec := newServer(t, nil)
		client, _ := accept(t, server)

		require.NoError(t, client.Close())
		pollUntil(t, server, func() bool {
			return server.Len() == 0
		})
		require.Empty(t, rec.requests)
	})

	t.Run("failed reply still drops the connection", func(t *testing.T) {
		server, rec := newServer(t, nil)
		rec.err = errors.New("handler has failed")
		client, _ := accept(t, server)

		_, err := client.Write([]byte("GET / HTTP/1.0\r\n\r\n"))
		require.NoError(t, err)
		pollUntil(t, server, func() bool {
			return len(rec.requests) == 1
		})
		require.Zero(t, server.Len())
		require.Empty(t, readAll(t, client))
	})

	t.Run("many connections", func(t *testing.T) {
		server, rec := newServer(t, nil)

		var clients []net.Conn
		for range 5 {
			clients = append(clients, dial(t, server))
		}
		pollUntil(t, server, func() bool {
			return server.Len() == len(clients)
		})

		for _, client := range clients {
			_, err := client.Write([]byte("GET /\r\n"))
			require.NoError(t, err)
		}
		pollUntil(t, server, func() bool {
			return len(rec.requests) == len(clients)
		})
		require.Zero(t, server.Len())

		for _, client := range clients {
			require.Equal(t, reply, readAll(t, client))
		}
	})

	t.Run("idle timeout", func(t *testing.T) {
		server, rec := newServer(t, func(cfg *config.NET) {
			cfg.IdleTimeout = 50 * time.Millisecond
		})
		client, _ := accept(t, server)

		pollUntil(t, server, func() bool {
			return server.Len() == 0
		})
		require.Empty(t, rec.requests)
		require.Empty(t, readAll(t, client))
	})
}

func TestServer_Run(t *testing.T) {
	server, rec := newServer(t, nil)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	client := dial(t, server)
	_, err := client.Write([]byte("GET / HTTP/1.0\r\n\r\n"))
	require.NoError(t, err)
	require.Equal(t, reply, readAll(t, client))

	require.NoError(t, server.Stop())
	select {
	case err = <-errCh:
		require.ErrorIs(t, err, status.ErrShutdown)
	case <-time.After(5 * time.Second):
		require.Fail(t, "server hasn't stopped")
	}

	require.Len(t, rec.requests, 1)
}

func TestServer_StopBeforeRun(t *testing.T) {
	server, _ := newServer(t, nil)
	require.NoError(t, server.Stop())
	require.ErrorIs(t, server.Run(), status.ErrShutdown)
}

func TestListen(t *testing.T) {
	t.Run("address in use", func(t *testing.T) {
		first, _ := newServer(t, nil)
		cfg := config.Default().NET
		cfg.Address = "127.0.0.1"
		cfg.Port = uint16(first.Addr().(*net.TCPAddr).Port)

		_, err := Listen(cfg, nil, zerolog.Nop())
		require.Error(t, err)
	})

	t.Run("bad read buffer size", func(t *testing.T) {
		cfg := config.Default().NET
		cfg.ReadBufferSize = 0
		_, err := Listen(cfg, nil, zerolog.Nop())
		require.Error(t, err)
	})
}

func stringify(data [][]byte) []string {
	strs := make([]string, len(data))
	for i, b := range data {
		strs[i] = string(b)
	}

	return strs
}
