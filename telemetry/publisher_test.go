package telemetry_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harveysanders/lcdterm/telemetry"
)

type packet struct {
	kind byte
	body []byte
}

// broker is the far end of a net.Pipe that speaks just enough MQTT to
// accept a session and collect publishes.
type broker struct {
	conn    net.Conn
	packets chan packet
	connack bool
}

func newBroker(t *testing.T, connack bool) (*broker, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	b := &broker{conn: server, packets: make(chan packet, 8), connack: connack}
	t.Cleanup(func() { server.Close() })
	go b.serve()
	return b, client
}

func (b *broker) serve() {
	defer close(b.packets)
	r := bufio.NewReader(b.conn)
	for {
		pkt, err := readPacket(r)
		if err != nil {
			return
		}
		if pkt.kind == 0x10 && b.connack {
			if _, err := b.conn.Write([]byte{0x20, 0x02, 0x00, 0x00}); err != nil {
				return
			}
		}
		b.packets <- pkt
	}
}

func readPacket(r *bufio.Reader) (packet, error) {
	h, err := r.ReadByte()
	if err != nil {
		return packet{}, err
	}
	var n, shift int
	for {
		c, err := r.ReadByte()
		if err != nil {
			return packet{}, err
		}
		n |= int(c&0x7F) << shift
		if c&0x80 == 0 {
			break
		}
		shift += 7
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return packet{}, err
	}
	return packet{kind: h & 0xF0, body: body}, nil
}

func (b *broker) next(t *testing.T) packet {
	t.Helper()
	select {
	case p, ok := <-b.packets:
		require.True(t, ok, "broker closed")
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("no packet from client")
		return packet{}
	}
}

func decodePublish(t *testing.T, p packet) (topic string, e telemetry.Event) {
	t.Helper()
	require.Equal(t, byte(0x30), p.kind)
	n := int(p.body[0])<<8 | int(p.body[1])
	topic = string(p.body[2 : 2+n])
	payload := p.body[2+n:]
	start := bytes.IndexByte(payload, '{')
	require.GreaterOrEqual(t, start, 0)
	require.NoError(t, json.Unmarshal(payload[start:], &e))
	return topic, e
}

func TestPublisherConnectsAndPublishes(t *testing.T) {
	b, conn := newBroker(t, true)
	pub := telemetry.NewPublisher(telemetry.PublisherConfig{
		ClientID: "bench-1",
		Topic:    "lcd/anomalies",
		Timeout:  time.Second,
	})
	assert.ErrorIs(t, pub.Publish(telemetry.Event{}), telemetry.ErrNotConnected)

	require.NoError(t, pub.Connect(conn))
	assert.True(t, pub.Connected())
	connect := b.next(t)
	assert.Equal(t, byte(0x10), connect.kind)
	assert.Contains(t, string(connect.body), "bench-1")

	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	sent := telemetry.Event{Source: "bench", Kind: "busy-timeout", Op: "write data", Attempts: 254, At: at}
	require.NoError(t, pub.Publish(sent))

	topic, got := decodePublish(t, b.next(t))
	assert.Equal(t, "lcd/anomalies", topic)
	assert.Equal(t, sent, got)
	assert.Equal(t, uint32(1), pub.Published())
	require.NoError(t, pub.Close())
	assert.False(t, pub.Connected())
}

func TestPublisherRunDrainsChannel(t *testing.T) {
	b, conn := newBroker(t, true)
	pub := telemetry.NewPublisher(telemetry.PublisherConfig{Timeout: time.Second, HeartbeatInterval: time.Hour})
	require.NoError(t, pub.Connect(conn))
	b.next(t)

	events := make(chan telemetry.Event, 2)
	events <- telemetry.Event{Op: "clear display"}
	events <- telemetry.Event{Op: "return home"}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- pub.Run(ctx, events) }()

	topic, first := decodePublish(t, b.next(t))
	_, second := decodePublish(t, b.next(t))
	assert.Equal(t, "lcdterm/events", topic)
	assert.Equal(t, "clear display", first.Op)
	assert.Equal(t, "return home", second.Op)

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestPublisherConnectFailsWithoutConnack(t *testing.T) {
	_, conn := newBroker(t, false)
	pub := telemetry.NewPublisher(telemetry.PublisherConfig{
		Timeout:        50 * time.Millisecond,
		ConnectRetries: 2,
	})
	err := pub.Connect(conn)
	assert.Error(t, err)
	assert.False(t, pub.Connected())
}
