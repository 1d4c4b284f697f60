package netstack

import (
	"errors"
	"strconv"
	"strings"
)

// SplitHostPort splits "host:port". The host may be a name, an IPv4
// address or a bare IPv6 address; the port is after the last colon.
func SplitHostPort(addr string) (host string, port uint16, err error) {
	i := strings.LastIndexByte(addr, ':')
	if i < 0 {
		return "", 0, errors.New("netstack: missing port in " + addr)
	}
	host = strings.TrimSuffix(strings.TrimPrefix(addr[:i], "["), "]")
	if host == "" {
		return "", 0, errors.New("netstack: empty host in " + addr)
	}
	p, err := strconv.ParseUint(addr[i+1:], 10, 16)
	if err != nil || p == 0 {
		return "", 0, errors.New("netstack: bad port in " + addr)
	}
	return host, uint16(p), nil
}
