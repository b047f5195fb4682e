package tcp

import (
	"errors"
	"net"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/indigo-web/pollbin/http/status"
	"golang.org/x/sys/unix"
)

// State tells which readiness the connection is waiting for.
type State uint8

const (
	// Reading connections are waiting for more data of the request.
	Reading State = iota
	// Writing connections have received the whole request and are waiting for the response.
	Writing
)

func (s State) String() string {
	if s == Writing {
		return "writing"
	}

	return "reading"
}

func (s State) events() int16 {
	if s == Writing {
		return unix.POLLOUT
	}

	return unix.POLLIN
}

var errWouldBlock = errors.New("operation would block")

// Conn owns an accepted socket. It's used to serve exactly one request and is never reused.
type Conn struct {
	fd           int
	id           uuid.UUID
	remote       net.Addr
	buff         []byte
	state        State
	lastRead     time.Time
	writeTimeout time.Duration
}

func newConn(fd int, remote net.Addr, writeTimeout time.Duration) *Conn {
	return &Conn{
		fd:           fd,
		id:           uuid.New(),
		remote:       remote,
		state:        Reading,
		lastRead:     time.Now(),
		writeTimeout: writeTimeout,
	}
}

// ID identifies the connection in logs.
func (c *Conn) ID() uuid.UUID {
	return c.id
}

// Remote returns the peer address. It may be nil for unknown address families.
func (c *Conn) Remote() net.Addr {
	return c.remote
}

// Data returns everything received so far.
func (c *Conn) Data() []byte {
	return c.buff
}

func (c *Conn) State() State {
	return c.state
}

// receive performs a single read of at most n bytes, appending them to the buffer. Zero
// returned without an error means the peer has closed the connection. errWouldBlock is
// returned if there was nothing to read actually.
func (c *Conn) receive(n int) (int, error) {
	c.buff = slices.Grow(c.buff, n)
	tail := c.buff[len(c.buff) : len(c.buff)+n]

	read, err := unix.Read(c.fd, tail)
	switch err {
	case nil:
	case unix.EAGAIN, unix.EINTR:
		return 0, errWouldBlock
	default:
		return 0, err
	}

	c.buff = c.buff[:len(c.buff)+read]
	if read > 0 {
		c.lastRead = time.Now()
	}

	return read, nil
}

// Write sends the whole data, waiting for the socket to drain if necessary. The waiting is
// limited by the write timeout, after which status.ErrTimeout is returned.
func (c *Conn) Write(data []byte) error {
	var deadline time.Time
	if c.writeTimeout > 0 {
		deadline = time.Now().Add(c.writeTimeout)
	}

	for len(data) > 0 {
		n, err := unix.Write(c.fd, data)
		switch err {
		case nil:
			data = data[n:]
		case unix.EINTR:
		case unix.EAGAIN:
			if err = c.awaitWritable(deadline); err != nil {
				return err
			}
		default:
			return err
		}
	}

	return nil
}

func (c *Conn) awaitWritable(deadline time.Time) error {
	timeout := -1
	if !deadline.IsZero() {
		left := time.Until(deadline)
		if left <= 0 {
			return status.ErrTimeout
		}

		timeout = millis(left)
	}

	fds := []unix.PollFd{{Fd: int32(c.fd), Events: unix.POLLOUT}}
	if _, err := unix.Poll(fds, timeout); err != nil && err != unix.EINTR {
		return err
	}

	return nil
}

func (c *Conn) close() error {
	// the peer may have already gone, so shutdown is allowed to fail
	_ = unix.Shutdown(c.fd, unix.SHUT_WR)
	return unix.Close(c.fd)
}

// millis rounds the duration up to milliseconds, as poll(2) timeout must never undershoot.
func millis(d time.Duration) int {
	if d <= 0 {
		return 0
	}

	return int((d + time.Millisecond - 1) / time.Millisecond)
}
