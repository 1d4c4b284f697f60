package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	mqtt "github.com/soypat/natiu-mqtt"
)

// Conn is the transport under the MQTT session: a net.Conn on a host, an
// lneto tcp.Conn on the Pico W.
type Conn interface {
	io.ReadWriteCloser
	SetDeadline(t time.Time) error
}

// PublisherConfig configures a Publisher.
type PublisherConfig struct {
	ClientID string
	Topic    string
	// Username and Password are optional. Password requires Username.
	Username string
	Password string
	// Timeout bounds every socket operation. Default 5s.
	Timeout time.Duration
	// HeartbeatInterval is how often the session is serviced when there is
	// nothing to publish. Default 30s.
	HeartbeatInterval time.Duration
	// ConnectRetries bounds the wait for CONNACK. Default 50.
	ConnectRetries int
	// DecoderBufSize sizes the decoder's user buffer. Default 512.
	DecoderBufSize int
	Logger         *slog.Logger
}

// Publisher publishes Events as JSON over one MQTT session.
type Publisher struct {
	cfg    PublisherConfig
	log    *slog.Logger
	client *mqtt.Client
	conn   Conn
	flags  mqtt.PacketFlags
	vars   mqtt.VariablesPublish
	nextID uint16
	count  uint32
}

// ErrNotConnected is returned when publishing without a session.
var ErrNotConnected = errors.New("telemetry: not connected")

// NewPublisher returns a Publisher with defaults applied.
func NewPublisher(cfg PublisherConfig) *Publisher {
	if cfg.ClientID == "" {
		cfg.ClientID = "lcdterm"
	}
	if cfg.Topic == "" {
		cfg.Topic = "lcdterm/events"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = 30 * time.Second
	}
	if cfg.ConnectRetries <= 0 {
		cfg.ConnectRetries = 50
	}
	if cfg.DecoderBufSize <= 0 {
		cfg.DecoderBufSize = 512
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}

	p := &Publisher{cfg: cfg, log: logger, nextID: 1}
	p.flags, _ = mqtt.NewPublishFlags(mqtt.QoS0, false, false)
	p.vars = mqtt.VariablesPublish{TopicName: []byte(cfg.Topic)}
	p.client = mqtt.NewClient(mqtt.ClientConfig{
		Decoder: mqtt.DecoderNoAlloc{UserBuffer: make([]byte, cfg.DecoderBufSize)},
		OnPub: func(_ mqtt.Header, varPub mqtt.VariablesPublish, _ io.Reader) error {
			logger.Info("mqtt:received", slog.String("topic", string(varPub.TopicName)))
			return nil
		},
	})
	return p
}

// Connect opens an MQTT session on conn and waits for the broker's CONNACK.
// On failure conn is closed.
func (p *Publisher) Connect(conn Conn) error {
	var varconn mqtt.VariablesConnect
	varconn.SetDefaultMQTT([]byte(p.cfg.ClientID))
	if p.cfg.Username != "" {
		varconn.Username = []byte(p.cfg.Username)
		if p.cfg.Password != "" {
			varconn.Password = []byte(p.cfg.Password)
		}
	}

	p.log.Info("mqtt:start-connecting", slog.String("client", p.cfg.ClientID))
	conn.SetDeadline(time.Now().Add(p.cfg.Timeout))
	if err := p.client.StartConnect(conn, &varconn); err != nil {
		conn.Close()
		return errors.New("mqtt start connect: " + err.Error())
	}
	for retries := p.cfg.ConnectRetries; retries > 0 && !p.client.IsConnected(); retries-- {
		if err := p.client.HandleNext(); err != nil {
			p.log.Error("mqtt:handle-next-failed", slog.String("err", err.Error()))
			time.Sleep(100 * time.Millisecond)
		}
	}
	if !p.client.IsConnected() {
		conn.Close()
		if err := p.client.Err(); err != nil {
			return errors.New("mqtt connect: " + err.Error())
		}
		return errors.New("mqtt connect: timed out")
	}
	p.conn = conn
	p.log.Info("mqtt:connected")
	return nil
}

// Connected reports whether the session is up.
func (p *Publisher) Connected() bool { return p.conn != nil && p.client.IsConnected() }

// Published returns the number of events sent.
func (p *Publisher) Published() uint32 { return p.count }

// Publish sends e as one QoS 0 message.
func (p *Publisher) Publish(e Event) error {
	if !p.Connected() {
		return ErrNotConnected
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	p.conn.SetDeadline(time.Now().Add(p.cfg.Timeout))
	p.vars.PacketIdentifier = p.nextID
	p.nextID++
	if err := p.client.PublishPayload(p.flags, p.vars, payload); err != nil {
		return errors.New("mqtt publish: " + err.Error())
	}
	p.count++
	p.log.Debug("mqtt:published", slog.String("kind", e.Kind), slog.String("op", e.Op))
	return nil
}

// Run publishes events until ctx is done or the session drops. It services
// the session on every heartbeat tick. Publish failures are logged and the
// event is dropped.
func (p *Publisher) Run(ctx context.Context, events <-chan Event) error {
	heartbeat := time.NewTicker(p.cfg.HeartbeatInterval)
	defer heartbeat.Stop()
	for p.Connected() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e := <-events:
			if err := p.Publish(e); err != nil {
				p.log.Error("mqtt:publish-failed", slog.String("err", err.Error()))
			}
		case <-heartbeat.C:
			p.conn.SetDeadline(time.Now().Add(p.cfg.Timeout))
			if err := p.client.HandleNext(); err != nil {
				p.log.Error("mqtt:handle-next-failed", slog.String("err", err.Error()))
			}
		}
	}
	err := p.client.Err()
	p.log.Error("mqtt:disconnected", slog.Any("reason", err))
	if err == nil {
		err = ErrNotConnected
	}
	return err
}

// Close closes the transport.
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}
