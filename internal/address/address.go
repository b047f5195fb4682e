package address

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Parse splits the address into host and port. The port is optional, so "localhost",
// ":8080", "localhost:8080", "::1" and "[::1]:8080" are all valid. Empty host means all
// the interfaces.
func Parse(addr string) (host string, port uint16, hasPort bool, err error) {
	if !hasPortPart(addr) {
		return strings.Trim(addr, "[]"), 0, false, nil
	}

	host, rawPort, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, false, err
	}

	p, err := strconv.ParseUint(rawPort, 10, 16)
	if err != nil {
		return "", 0, false, fmt.Errorf("address %s: bad port: %q", addr, rawPort)
	}

	return host, uint16(p), true, nil
}

func hasPortPart(addr string) bool {
	if strings.HasPrefix(addr, "[") {
		return strings.Contains(addr, "]:")
	}

	// bare IPv6 hosts contain more than one colon
	return strings.Count(addr, ":") == 1
}
