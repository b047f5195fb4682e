package tcp

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/indigo-web/pollbin/config"
	"github.com/indigo-web/pollbin/http/status"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// OnComplete is called for every connection which has received the whole request. The
// connection is closed after the call returns, whatever the outcome was.
type OnComplete func(conn *Conn) error

// Server is a single-threaded event loop multiplexing the listener and all the accepted
// connections over poll(2). Except for Stop, none of its methods may be called concurrently.
type Server struct {
	listener int
	addr     net.Addr
	// wake is a self-pipe, its reading end is a part of every wait, so Stop can interrupt it.
	wake               [2]int
	conns              table
	poll               poller
	readable, writable []int
	chunkSize          int
	idleTimeout        time.Duration
	writeTimeout       time.Duration
	onComplete         OnComplete
	log                zerolog.Logger
	stopped            atomic.Bool
}

// Listen binds a listening socket. The port 0 makes the kernel pick one, Addr tells which.
func Listen(cfg config.NET, onComplete OnComplete, logger zerolog.Logger) (*Server, error) {
	if cfg.ReadBufferSize <= 0 {
		return nil, fmt.Errorf("listen: read buffer size must be positive, got %d", cfg.ReadBufferSize)
	}

	tcpAddr, err := net.ResolveTCPAddr("tcp", net.JoinHostPort(cfg.Address, strconv.Itoa(int(cfg.Port))))
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	listener, err := listen(tcpAddr, cfg.Backlog)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	bound, err := unix.Getsockname(listener)
	if err != nil {
		_ = unix.Close(listener)
		return nil, fmt.Errorf("listen: getsockname: %w", err)
	}

	wake, err := selfPipe()
	if err != nil {
		_ = unix.Close(listener)
		return nil, fmt.Errorf("listen: %w", err)
	}

	return &Server{
		listener:     listener,
		addr:         toAddr(bound),
		wake:         wake,
		conns:        newTable(),
		chunkSize:    cfg.ReadBufferSize,
		idleTimeout:  cfg.IdleTimeout,
		writeTimeout: cfg.WriteTimeout,
		onComplete:   onComplete,
		log:          logger,
	}, nil
}

// Addr returns the address the listener is actually bound to.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Len returns the number of open connections.
func (s *Server) Len() int {
	return s.conns.len()
}

// Run polls until Stop is called, then returns status.ErrShutdown. Any other returned error
// is a failure of the listener, after which the server is unusable. Connections aren't
// drained on exit, they are just left as is until Close.
func (s *Server) Run() error {
	for !s.stopped.Load() {
		if err := s.Poll(); err != nil {
			return err
		}
	}

	return status.ErrShutdown
}

// Poll waits once for any of the sockets to become ready and reacts: accepts a pending
// connection, reads from connections still receiving a request and replies to those which
// have received it. All the reads are done before any of the replies.
func (s *Server) Poll() error {
	s.poll.reset()
	s.poll.add(s.wake[0], unix.POLLIN)
	s.poll.add(s.listener, unix.POLLIN)

	for fd, conn := range s.conns.conns {
		s.poll.add(fd, conn.state.events())
	}

	if err := s.poll.wait(s.pollTimeout()); err != nil {
		return fmt.Errorf("poll: %w", err)
	}

	s.readable, s.writable = s.readable[:0], s.writable[:0]
	// errors and hang-ups are reported regardless of the interest, the following read or
	// write discovers what exactly has happened
	s.poll.ready(func(fd int, events int16) {
		if events&unix.POLLIN != 0 {
			s.readable = append(s.readable, fd)
		} else {
			s.writable = append(s.writable, fd)
		}
	})

	for _, fd := range s.readable {
		switch fd {
		case s.wake[0]:
			s.drainWake()
		case s.listener:
			if err := s.accept(); err != nil {
				return err
			}
		default:
			s.readFrom(fd)
		}
	}

	for _, fd := range s.writable {
		s.replyTo(fd)
	}

	s.dropIdle()

	return nil
}

// Stop makes Run return after the current iteration. Safe for concurrent use.
func (s *Server) Stop() error {
	s.stopped.Store(true)

	_, err := unix.Write(s.wake[1], []byte{0})
	if err == unix.EAGAIN {
		// the pipe is full, so the loop is going to wake up anyway
		return nil
	}

	return err
}

// Close closes the listener and all the connections left. Must not be called while Run
// is still running.
func (s *Server) Close() error {
	for _, conn := range s.conns.conns {
		s.drop(conn)
	}

	_ = unix.Close(s.wake[0])
	_ = unix.Close(s.wake[1])

	return unix.Close(s.listener)
}

func (s *Server) accept() error {
	fd, sa, err := unix.Accept(s.listener)
	switch err {
	case nil:
	case unix.EAGAIN, unix.EINTR, unix.ECONNABORTED:
		// the peer has gone before we've got to it
		return nil
	default:
		return fmt.Errorf("accept: %w", err)
	}

	unix.CloseOnExec(fd)
	if err = unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		s.log.Debug().Err(err).Msg("can't make accepted socket non-blocking")
		return nil
	}

	conn := newConn(fd, toAddr(sa), s.writeTimeout)
	s.conns.add(conn)
	s.log.Debug().
		Stringer("conn", conn.id).
		Str("remote", addrString(conn.remote)).
		Msg("accepted")

	return nil
}

// readFrom reads once from the connection. A read shorter than the chunk size is considered
// the end of the request. This is a heuristic: a request which length is an exact multiple
// of the chunk size isn't recognized as complete until the peer sends more.
func (s *Server) readFrom(fd int) {
	conn, found := s.conns.get(fd)
	if !found {
		return
	}

	n, err := conn.receive(s.chunkSize)
	switch {
	case errors.Is(err, errWouldBlock):
	case err != nil:
		s.log.Debug().Err(err).Stringer("conn", conn.id).Msg("read failed")
		s.drop(conn)
	case n == 0:
		s.log.Debug().Stringer("conn", conn.id).Msg("closed by peer")
		s.drop(conn)
	case n < s.chunkSize:
		conn.state = Writing
	}
}

func (s *Server) replyTo(fd int) {
	conn, found := s.conns.get(fd)
	if !found || conn.state != Writing {
		return
	}

	defer s.drop(conn)

	if err := s.onComplete(conn); err != nil {
		s.log.Debug().Err(err).Stringer("conn", conn.id).Msg("reply failed")
	}
}

func (s *Server) drop(conn *Conn) {
	s.conns.remove(conn.fd)

	if err := conn.close(); err != nil {
		s.log.Debug().Err(err).Stringer("conn", conn.id).Msg("close failed")
	}
}

// pollTimeout returns the time left until the earliest idle deadline, in milliseconds.
// If there's none, -1 is returned, which means no timeout.
func (s *Server) pollTimeout() int {
	if s.idleTimeout <= 0 {
		return -1
	}

	var earliest time.Time
	for _, conn := range s.conns.conns {
		if conn.state != Reading {
			continue
		}

		if deadline := conn.lastRead.Add(s.idleTimeout); earliest.IsZero() || deadline.Before(earliest) {
			earliest = deadline
		}
	}

	if earliest.IsZero() {
		return -1
	}

	return millis(time.Until(earliest))
}

// dropIdle closes connections which didn't send anything for longer than the idle timeout.
func (s *Server) dropIdle() {
	if s.idleTimeout <= 0 {
		return
	}

	now := time.Now()
	for _, conn := range s.conns.conns {
		if conn.state == Reading && now.Sub(conn.lastRead) >= s.idleTimeout {
			s.log.Debug().Stringer("conn", conn.id).Msg("idle timeout")
			s.drop(conn)
		}
	}
}

func (s *Server) drainWake() {
	var buff [64]byte
	for {
		if n, err := unix.Read(s.wake[0], buff[:]); err != nil || n == 0 {
			return
		}
	}
}
