//go:build tinygo

package netstack

import (
	"errors"
	"log/slog"
	"net/netip"
	"time"

	"github.com/soypat/lneto/tcp"
)

const pollTime = 5 * time.Millisecond

// Resolve returns the address of host, which may be a literal IP.
func (s *Stack) Resolve(host string) (netip.Addr, error) {
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr, nil
	}
	s.log.Info("dns:resolving", slog.String("host", host))
	addrs, err := s.s.StackRetrying(pollTime).DoLookupIP(host, 5*time.Second, 3)
	if err != nil {
		return netip.Addr{}, errors.New("netstack: lookup " + host + ": " + err.Error())
	}
	if len(addrs) == 0 {
		return netip.Addr{}, errors.New("netstack: lookup " + host + ": no addresses")
	}
	return addrs[0], nil
}

// Conn is a TCP connection on the stack.
type Conn struct {
	tcp.Conn
	log *slog.Logger
}

// NewConn allocates a connection with bufSize receive and transmit buffers.
func NewConn(bufSize int, logger *slog.Logger) (*Conn, error) {
	c := &Conn{log: logger}
	err := c.Configure(tcp.ConnConfig{
		RxBuf:             make([]byte, bufSize),
		TxBuf:             make([]byte, bufSize),
		TxPacketQueueSize: 3,
	})
	if err != nil {
		return nil, errors.New("netstack: tcp configure: " + err.Error())
	}
	return c, nil
}

// Dial connects c to addr ("host:port") from a random local port.
func (s *Stack) Dial(c *Conn, addr string) error {
	host, port, err := SplitHostPort(addr)
	if err != nil {
		return err
	}
	ip, err := s.Resolve(host)
	if err != nil {
		return err
	}
	localPort := uint16(s.s.Prand32()>>17) + 1024
	s.log.Info("tcp:dialing", slog.String("addr", addr), slog.Uint64("localPort", uint64(localPort)))
	err = s.s.StackRetrying(pollTime).DoDialTCP(&c.Conn, localPort, netip.AddrPortFrom(ip, port), 10*time.Second, 3)
	if err != nil {
		c.Shutdown("dial failed")
		return errors.New("netstack: dial " + addr + ": " + err.Error())
	}
	s.log.Info("tcp:connected", slog.String("state", c.State().String()))
	return nil
}

// Shutdown closes the connection, waits up to five seconds for the close
// handshake and then aborts it so it can be dialed again.
func (c *Conn) Shutdown(reason string) {
	c.log.Warn("tcp:closing", slog.String("reason", reason))
	c.Close()
	for i := 0; i < 50 && !c.State().IsClosed(); i++ {
		time.Sleep(100 * time.Millisecond)
	}
	c.Abort()
}
