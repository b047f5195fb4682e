package tcp

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

func listen(addr *net.TCPAddr, backlog int) (fd int, err error) {
	family, sa := sockaddr(addr)

	fd, err = unix.Socket(family, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, fmt.Errorf("socket: %w", err)
	}

	unix.CloseOnExec(fd)

	if err = setupListener(fd, sa, backlog); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("%s: %w", addr, err)
	}

	return fd, nil
}

func setupListener(fd int, sa unix.Sockaddr, backlog int) error {
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return fmt.Errorf("setsockopt: %w", err)
	}

	if err := unix.Bind(fd, sa); err != nil {
		return fmt.Errorf("bind: %w", err)
	}

	if err := unix.Listen(fd, backlog); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	return unix.SetNonblock(fd, true)
}

func selfPipe() (fds [2]int, err error) {
	if err = unix.Pipe(fds[:]); err != nil {
		return fds, fmt.Errorf("pipe: %w", err)
	}

	for _, fd := range fds {
		unix.CloseOnExec(fd)
		if err = unix.SetNonblock(fd, true); err != nil {
			_ = unix.Close(fds[0])
			_ = unix.Close(fds[1])
			return fds, fmt.Errorf("pipe: %w", err)
		}
	}

	return fds, nil
}

func sockaddr(addr *net.TCPAddr) (family int, sa unix.Sockaddr) {
	if ip4 := addr.IP.To4(); ip4 != nil || len(addr.IP) == 0 {
		inet4 := &unix.SockaddrInet4{Port: addr.Port}
		copy(inet4.Addr[:], ip4)
		return unix.AF_INET, inet4
	}

	inet6 := &unix.SockaddrInet6{Port: addr.Port}
	copy(inet6.Addr[:], addr.IP.To16())
	return unix.AF_INET6, inet6
}

func toAddr(sa unix.Sockaddr) net.Addr {
	switch sa := sa.(type) {
	case *unix.SockaddrInet4:
		return &net.TCPAddr{
			IP:   net.IPv4(sa.Addr[0], sa.Addr[1], sa.Addr[2], sa.Addr[3]),
			Port: sa.Port,
		}
	case *unix.SockaddrInet6:
		ip := make(net.IP, net.IPv6len)
		copy(ip, sa.Addr[:])

		return &net.TCPAddr{
			IP:   ip,
			Port: sa.Port,
		}
	}

	return nil
}

func addrString(addr net.Addr) string {
	if addr == nil {
		return "unknown"
	}

	return addr.String()
}
