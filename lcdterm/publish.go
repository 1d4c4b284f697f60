//go:build tinygo

package main

import (
	"context"
	"log/slog"
	"net/netip"
	"time"

	"github.com/harveysanders/lcdterm/netstack"
	"github.com/harveysanders/lcdterm/telemetry"
)

// tcpBufSize is the MTU less the Ethernet, IP and TCP headers.
const tcpBufSize = 2030

// publishForever joins WiFi and keeps an MQTT session to addr open,
// publishing every event. It never returns.
func publishForever(addr string, events <-chan telemetry.Event, logger *slog.Logger) {
	stack, err := netstack.New(netstack.SSID(), netstack.Password(), netstack.Config{
		Hostname: "lcdterm",
		Logger:   logger,
	})
	if err != nil {
		printErrForever(logger, "wifi setup", slog.String("reason", err.Error()))
	}
	go stack.PollForever(5 * time.Millisecond)
	if _, err := stack.SetupDHCP(netip.Addr{}); err != nil {
		printErrForever(logger, "dhcp", slog.String("reason", err.Error()))
	}

	conn, err := netstack.NewConn(tcpBufSize, logger)
	if err != nil {
		printErrForever(logger, "tcp setup", slog.String("reason", err.Error()))
	}
	pub := telemetry.NewPublisher(telemetry.PublisherConfig{
		ClientID: "lcdterm",
		Logger:   logger,
	})
	for {
		if err := stack.Dial(conn, addr); err != nil {
			logger.Error("mqtt:dial", slog.String("err", err.Error()))
			time.Sleep(2 * time.Second)
			continue
		}
		if err := pub.Connect(conn); err != nil {
			logger.Error("mqtt:connect", slog.String("err", err.Error()))
			conn.Shutdown("connect failed")
			continue
		}
		err := pub.Run(context.Background(), events)
		logger.Error("mqtt:disconnected", slog.String("err", err.Error()))
		conn.Shutdown("disconnected")
	}
}
