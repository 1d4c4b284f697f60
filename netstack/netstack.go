//go:build tinygo

// Package netstack brings up WiFi on a Pico W through the CYW43439 chip and
// runs an lneto TCP/IP stack on top of it: join, DHCP with a static
// fallback, DNS and TCP dialing.
package netstack

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"net/netip"
	"time"

	"github.com/soypat/cyw43439"
	"github.com/soypat/lneto/x/xnet"
)

const mtu = cyw43439.MTU

// Set with -ldflags "-X github.com/harveysanders/lcdterm/netstack.ssid=...".
var (
	ssid string
	pass string
)

// SSID returns the WiFi SSID set via linker flags.
func SSID() string { return ssid }

// Password returns the WiFi password set via linker flags.
func Password() string { return pass }

// Config configures the stack.
type Config struct {
	// Hostname is sent in DHCP requests. Required.
	Hostname string
	// MaxTCPPorts is the number of TCP connections the stack tracks.
	MaxTCPPorts int
	// RequestedAddr is asked for over DHCP and used as a static address
	// when DHCP fails.
	RequestedAddr netip.Addr
	// JoinRetryInterval separates WiFi join attempts. Default 5s.
	JoinRetryInterval time.Duration
	Logger            *slog.Logger
}

// Stack is a joined CYW43439 device with its network stack.
type Stack struct {
	s       xnet.StackAsync
	dev     *cyw43439.Device
	log     *slog.Logger
	sendbuf []byte
}

// New initialises the radio, joins ssid (an open network when pass is
// empty) and resets the stack. Joining is retried until it succeeds.
func New(ssid, pass string, cfg Config) (*Stack, error) {
	if cfg.Hostname == "" {
		return nil, errors.New("netstack: empty hostname")
	}
	if cfg.JoinRetryInterval <= 0 {
		cfg.JoinRetryInterval = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}

	start := time.Now()
	dev := cyw43439.NewPicoWDevice()
	dev.SetLogger(logger)
	if err := dev.Init(cyw43439.DefaultWifiConfig()); err != nil {
		return nil, errors.New("netstack: wifi init: " + err.Error())
	}
	logger.Info("cyw43439:init", slog.Duration("duration", time.Since(start)))

	for {
		err := dev.JoinWPA2(ssid, pass)
		if err == nil {
			break
		}
		logger.Error("wifi:join-failed", slog.String("ssid", ssid), slog.String("err", err.Error()))
		time.Sleep(cfg.JoinRetryInterval)
	}
	mac, err := dev.HardwareAddr6()
	if err != nil {
		return nil, errors.New("netstack: hardware address: " + err.Error())
	}
	logger.Info("wifi:joined", slog.String("ssid", ssid), slog.String("mac", net.HardwareAddr(mac[:]).String()))

	s := &Stack{dev: dev, log: logger, sendbuf: make([]byte, mtu)}
	err = s.s.Reset(xnet.StackConfig{
		Hostname:        cfg.Hostname,
		MaxTCPConns:     max(cfg.MaxTCPPorts, 1),
		RandSeed:        time.Since(start).Nanoseconds(),
		HardwareAddress: mac,
		MTU:             mtu,
	})
	if err != nil {
		return nil, errors.New("netstack: reset: " + err.Error())
	}
	dev.RecvEthHandle(func(pkt []byte) error {
		return s.s.Demux(pkt, 0)
	})
	return s, nil
}

// SetupDHCP requests an address. When DHCP fails and requested is set, it
// is assigned statically.
func (s *Stack) SetupDHCP(requested netip.Addr) (netip.Addr, error) {
	if !requested.IsValid() {
		requested = netip.AddrFrom4([4]byte{})
	}
	if !requested.Is4() {
		return netip.Addr{}, errors.New("netstack: only dhcpv4 supported")
	}

	rstack := s.s.StackRetrying(50 * time.Millisecond)
	s.log.Info("dhcp:starting")
	results, err := rstack.DoDHCPv4(requested.As4(), 3*time.Second, 3)
	if err != nil {
		if !requested.IsUnspecified() {
			s.log.Warn("dhcp:static-fallback", slog.String("ip", requested.String()))
			s.s.SetIPAddr(requested)
			return requested, nil
		}
		return netip.Addr{}, errors.New("netstack: dhcp: " + err.Error())
	}
	if err := s.s.AssimilateDHCPResults(results); err != nil {
		return netip.Addr{}, errors.New("netstack: assimilate dhcp: " + err.Error())
	}
	gw, err := rstack.DoResolveHardwareAddress6(results.Router, 500*time.Millisecond, 4)
	if err != nil {
		return netip.Addr{}, errors.New("netstack: resolve gateway: " + err.Error())
	}
	s.s.SetGateway6(gw)
	s.log.Info("dhcp:complete",
		slog.String("ip", results.AssignedAddr.String()),
		slog.String("router", results.Router.String()),
		slog.Uint64("leaseSec", uint64(results.TLease)),
	)
	return results.AssignedAddr, nil
}

// Poll moves at most one packet in each direction. It reports whether any
// work was done.
func (s *Stack) Poll() (bool, error) {
	gotPacket, errRecv := s.dev.PollOne()
	if errRecv != nil {
		s.log.Error("netstack:poll", slog.String("err", errRecv.Error()))
	}
	n, err := s.s.Encapsulate(s.sendbuf, -1, 0)
	if err != nil {
		s.log.Error("netstack:encapsulate", slog.Int("plen", n), slog.String("err", err.Error()))
		return gotPacket, err
	}
	if n == 0 {
		return gotPacket, errRecv
	}
	if err := s.dev.SendEth(s.sendbuf[:n]); err != nil {
		s.log.Error("netstack:send", slog.Int("plen", n), slog.String("err", err.Error()))
		return true, err
	}
	return true, errRecv
}

// PollForever services the stack, sleeping for idle between quiet polls.
func (s *Stack) PollForever(idle time.Duration) {
	for {
		if busy, _ := s.Poll(); !busy {
			time.Sleep(idle)
		}
	}
}

// Addr returns the stack's IP address.
func (s *Stack) Addr() netip.Addr { return s.s.Addr() }
