package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/litpass/internal/core/domain"
)

// Subject prefixes. The session ID is appended as the last token.
const (
	SubjectOriginPrefix = "litpass.origin."
	SubjectSharePrefix  = "litpass.share."
)

// OriginSubject is the subject carrying a session's origin changes.
func OriginSubject(sessionID string) string { return SubjectOriginPrefix + sessionID }

// ShareSubject is the subject carrying a session's shares.
func ShareSubject(sessionID string) string { return SubjectSharePrefix + sessionID }

// Streams is the JetStream layout ensured on connect.
var Streams = []nats.StreamConfig{
	{
		Name:      "LITPASS_ORIGINS",
		Subjects:  []string{SubjectOriginPrefix + ">"},
		Retention: nats.LimitsPolicy,
		MaxAge:    1 * time.Hour,
		Storage:   nats.FileStorage,
	},
	{
		Name:      "LITPASS_SHARES",
		Subjects:  []string{SubjectSharePrefix + ">"},
		Retention: nats.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	},
}

// jsConn is the part of *nats.Conn the publisher uses.
type jsConn interface {
	JetStream(opts ...nats.JSOpt) (nats.JetStreamContext, error)
	Drain() error
	Close()
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn jsConn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return newPublisher(conn)
}

// newPublisher ensures the streams exist. conn is closed on failure.
func newPublisher(conn jsConn) (*Publisher, error) {
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	for _, cfg := range Streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				conn.Close()
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishOriginChanged publishes ev on the session's origin subject.
func (p *Publisher) PublishOriginChanged(ctx context.Context, ev *domain.OriginChanged) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(OriginSubject(ev.SessionID), data, nats.Context(ctx))
	return err
}

// PublishPlaceShared publishes ev on the session's share subject.
func (p *Publisher) PublishPlaceShared(ctx context.Context, ev *domain.PlaceShared) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(ShareSubject(ev.SessionID), data, nats.Context(ctx))
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("litpass-api"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
