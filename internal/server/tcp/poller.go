package tcp

import "golang.org/x/sys/unix"

// poller is a reusable set of descriptors for poll(2). It's rebuilt before every wait, as
// the interest of connections changes between iterations.
type poller struct {
	fds []unix.PollFd
}

func (p *poller) reset() {
	p.fds = p.fds[:0]
}

func (p *poller) add(fd int, events int16) {
	p.fds = append(p.fds, unix.PollFd{
		Fd:     int32(fd),
		Events: events,
	})
}

// wait blocks until at least one of the descriptors is ready or the timeout (in milliseconds)
// expires. Negative timeout means waiting forever. Interrupted waits are restarted.
func (p *poller) wait(timeout int) error {
	for {
		_, err := unix.Poll(p.fds, timeout)
		if err != unix.EINTR {
			return err
		}
	}
}

// ready iterates over descriptors reported by the last wait along with the events they were
// registered for.
func (p *poller) ready(yield func(fd int, events int16)) {
	for _, pfd := range p.fds {
		if pfd.Revents != 0 {
			yield(int(pfd.Fd), pfd.Events)
		}
	}
}
