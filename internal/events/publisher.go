// Package events publishes certificate issuance events to NATS for external
// consumers (mailers, dashboards). Publishing is optional and
// fire-and-forget: a failed publish is logged and dropped, never surfaced to
// the request path.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/logfields"
)

// IssuanceEvent is the wire payload published per certificate event.
type IssuanceEvent struct {
	CertificateID string    `json:"certificate_id"`
	Type          string    `json:"type"`
	Recipient     string    `json:"recipient,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Publisher emits issuance events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(event IssuanceEvent)
	Close()
}

// NoopPublisher is the default when no NATS URL is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(IssuanceEvent) {}
func (NoopPublisher) Close()                {}

// NATSPublisher publishes events to {subjectPrefix}.{eventType}.
type NATSPublisher struct {
	conn          *nats.Conn
	subjectPrefix string
}

// NewNATSPublisher connects to NATS. A connection failure here is fatal for
// the caller: events were explicitly configured, so silently running without
// them would be surprising.
func NewNATSPublisher(url, subjectPrefix string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("NATS event publisher initialized",
		logfields.URL(url),
		logfields.Subject(subjectPrefix+".*"))

	return &NATSPublisher{conn: conn, subjectPrefix: subjectPrefix}, nil
}

// Publish marshals and sends the event. Errors are logged and dropped.
func (p *NATSPublisher) Publish(event IssuanceEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal issuance event", logfields.Error(err))
		return
	}

	subject := fmt.Sprintf("%s.%s", p.subjectPrefix, event.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		slog.Error("failed to publish issuance event",
			logfields.Subject(subject), logfields.Error(err))
		return
	}

	slog.Debug("published issuance event",
		logfields.Subject(subject),
		logfields.CertificateID(event.CertificateID))
}

// Close drains the connection so queued events flush before shutdown.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		slog.Error("failed to drain NATS connection", logfields.Error(err))
		p.conn.Close()
	}
}
