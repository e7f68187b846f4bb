package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	// Must not panic.
	p.Publish(IssuanceEvent{CertificateID: "CERT-1", Type: "generated"})
	p.Close()
}

func TestIssuanceEventJSON(t *testing.T) {
	ts := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	data, err := json.Marshal(IssuanceEvent{
		CertificateID: "CERT-S-1",
		Type:          "downloaded",
		Recipient:     "Ada Lovelace",
		Timestamp:     ts,
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "CERT-S-1", decoded["certificate_id"])
	assert.Equal(t, "downloaded", decoded["type"])
	assert.Equal(t, "Ada Lovelace", decoded["recipient"])
}

func TestNewNATSPublisherUnreachable(t *testing.T) {
	// Port 1 is never a NATS server; connection must fail fast.
	_, err := NewNATSPublisher("nats://127.0.0.1:1", "certdist")
	require.Error(t, err)
}
