// Package issuance persists the certificate lifecycle audit trail (generated,
// downloaded, verified events) in SQLite.
package issuance

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// EventType enumerates recorded certificate lifecycle events.
type EventType string

const (
	EventGenerated  EventType = "generated"
	EventDownloaded EventType = "downloaded"
	EventVerified   EventType = "verified"
)

// Event is one issuance log entry.
type Event struct {
	ID            int64             `json:"id"`
	EventID       string            `json:"event_id"`
	CertificateID string            `json:"certificate_id"`
	Type          EventType         `json:"type"`
	Timestamp     time.Time         `json:"timestamp"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Log records and queries issuance events. A nil *Log is a no-op, so callers
// can leave the audit trail unconfigured without nil checks everywhere.
type Log struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a SQLite-backed issuance log. Use ":memory:" for an in-memory
// database, or a file path for persistent storage.
func Open(dbPath string) (*Log, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	l := &Log{db: db}
	if err := l.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return l, nil
}

func (l *Log) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS issuance_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id TEXT NOT NULL,
		certificate_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		metadata TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_certificate_id ON issuance_events(certificate_id);
	CREATE INDEX IF NOT EXISTS idx_timestamp ON issuance_events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_event_type ON issuance_events(event_type);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Record appends an event and returns its generated event ID.
func (l *Log) Record(ctx context.Context, certificateID string, eventType EventType, metadata map[string]string) (string, error) {
	if l == nil {
		return "", nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var metadataJSON []byte
	if metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(metadata)
		if err != nil {
			return "", fmt.Errorf("marshal metadata: %w", err)
		}
	}

	eventID := uuid.NewString()
	_, err := l.db.ExecContext(ctx,
		"INSERT INTO issuance_events (event_id, certificate_id, event_type, timestamp, metadata) VALUES (?, ?, ?, ?, ?)",
		eventID, certificateID, string(eventType), time.Now().Unix(), metadataJSON,
	)
	if err != nil {
		return "", fmt.Errorf("insert issuance event: %w", err)
	}

	return eventID, nil
}

// ByCertificate retrieves all events for one certificate, oldest first.
func (l *Log) ByCertificate(ctx context.Context, certificateID string) ([]Event, error) {
	if l == nil {
		return nil, nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	rows, err := l.db.QueryContext(ctx,
		"SELECT id, event_id, certificate_id, event_type, timestamp, metadata FROM issuance_events WHERE certificate_id = ? ORDER BY id",
		certificateID,
	)
	if err != nil {
		return nil, fmt.Errorf("query issuance events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Range retrieves events within a time range, oldest first.
func (l *Log) Range(ctx context.Context, start, end time.Time) ([]Event, error) {
	if l == nil {
		return nil, nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	rows, err := l.db.QueryContext(ctx,
		"SELECT id, event_id, certificate_id, event_type, timestamp, metadata FROM issuance_events WHERE timestamp >= ? AND timestamp <= ? ORDER BY id",
		start.Unix(), end.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("query issuance events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// CountByType returns event counts grouped by event type.
func (l *Log) CountByType(ctx context.Context) (map[EventType]int, error) {
	if l == nil {
		return map[EventType]int{}, nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	rows, err := l.db.QueryContext(ctx,
		"SELECT event_type, COUNT(*) FROM issuance_events GROUP BY event_type")
	if err != nil {
		return nil, fmt.Errorf("count issuance events: %w", err)
	}
	defer rows.Close()

	counts := map[EventType]int{}
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[EventType(typ)] = n
	}
	return counts, rows.Err()
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var e Event
		var typ string
		var timestampUnix int64
		var metadataJSON []byte

		if err := rows.Scan(&e.ID, &e.EventID, &e.CertificateID, &typ, &timestampUnix, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scan issuance event: %w", err)
		}

		e.Type = EventType(typ)
		e.Timestamp = time.Unix(timestampUnix, 0)

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &e.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata: %w", err)
			}
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return events, nil
}

// Close closes the database connection.
func (l *Log) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.db.Close()
}
