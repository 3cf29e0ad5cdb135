package natsadapter

import (
	"errors"
	"testing"

	"github.com/nats-io/nats.go"
)

type fakeJetStream struct {
	nats.JetStreamContext
	addErr    error
	updateErr error
	added     []string
}

func (f *fakeJetStream) AddStream(cfg *nats.StreamConfig, opts ...nats.JSOpt) (*nats.StreamInfo, error) {
	f.added = append(f.added, cfg.Name)
	return &nats.StreamInfo{Config: *cfg}, f.addErr
}

func (f *fakeJetStream) UpdateStream(cfg *nats.StreamConfig, opts ...nats.JSOpt) (*nats.StreamInfo, error) {
	return &nats.StreamInfo{Config: *cfg}, f.updateErr
}

type fakeConn struct {
	js     *fakeJetStream
	jsErr  error
	closed int
}

func (f *fakeConn) JetStream(opts ...nats.JSOpt) (nats.JetStreamContext, error) {
	if f.jsErr != nil {
		return nil, f.jsErr
	}
	return f.js, nil
}

func (f *fakeConn) Drain() error { return nil }
func (f *fakeConn) Close()       { f.closed++ }

func TestNewPublisher_EnsuresStreams(t *testing.T) {
	conn := &fakeConn{js: &fakeJetStream{}}
	p, err := newPublisher(conn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil || conn.closed != 0 {
		t.Fatalf("connection must stay open on success")
	}
	if len(conn.js.added) != len(Streams) {
		t.Errorf("expected %d streams, got %v", len(Streams), conn.js.added)
	}
}

func TestNewPublisher_ClosesConnOnFailure(t *testing.T) {
	tests := []struct {
		name string
		conn *fakeConn
	}{
		{"jetstream unavailable", &fakeConn{jsErr: errors.New("jetstream not enabled")}},
		{"stream setup fails", &fakeConn{js: &fakeJetStream{
			addErr:    errors.New("timeout"),
			updateErr: errors.New("timeout"),
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newPublisher(tt.conn); err == nil {
				t.Fatal("expected error")
			}
			if tt.conn.closed != 1 {
				t.Errorf("expected the connection to be closed once, got %d", tt.conn.closed)
			}
		})
	}
}
