// Package telemetry publishes beat events as JSON over NATS so an external
// dashboard can chart the live heart rate. Publishing is best-effort:
// failures are logged, never surfaced to the sampling loop.
package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// BeatEvent is the wire format for one confirmed beat.
type BeatEvent struct {
	Ts       int64  `json:"ts"`
	BPM      uint32 `json:"bpm"`
	Strength uint32 `json:"strength"`
	Raw      uint32 `json:"raw"`
	Filtered uint32 `json:"filtered"`
}

// publisher is the part of *nats.Conn the Publisher needs.
type publisher interface {
	Publish(subj string, data []byte) error
}

// Publisher sends beat events to a fixed subject.
type Publisher struct {
	conn    publisher
	nc      *nats.Conn
	subject string
	logger  *zap.Logger
}

// Connect dials the NATS server and returns a Publisher for the subject.
func Connect(url, subject string, logger *zap.Logger) (*Publisher, error) {
	nc, err := nats.Connect(
		url,
		nats.Name("pulsebeat"),
		nats.Timeout(3*time.Second),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: could not connect to %s: %w", url, err)
	}

	p := newPublisher(nc, subject, logger)
	p.nc = nc
	return p, nil
}

func newPublisher(conn publisher, subject string, logger *zap.Logger) *Publisher {
	return &Publisher{
		conn:    conn,
		subject: subject,
		logger:  logger,
	}
}

// PublishBeat sends one beat event.
func (p *Publisher) PublishBeat(ev BeatEvent) {
	b, err := json.Marshal(ev)
	if err != nil {
		p.logger.Warn("could not encode beat event", zap.Error(err))
		return
	}
	if err := p.conn.Publish(p.subject, b); err != nil {
		p.logger.Warn("could not publish beat event",
			zap.Error(err),
			zap.String("subject", p.subject),
		)
	}
}

// Close drains the connection, if one was dialed.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
	}
}
