package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"
)

// Store persists audit events. The primary write lands in the events table
// through the same gorm transaction as the state change it documents, so an
// operation is never considered complete without its event. An optional
// secondary sink mirrors events to a separate audit database.
type Store struct {
	logger  *Logger
	enabled func() bool

	// external is the optional secondary audit database (AUDIT_DATABASE_URL)
	external *sql.DB
}

// NewStore creates an audit store. The syslog-line logger honours the
// enabled callback; pass nil to always log. If AUDIT_DATABASE_URL is set,
// events are additionally mirrored there.
func NewStore(enabled func() bool) (*Store, error) {
	s := &Store{
		logger:  NewLogger(),
		enabled: enabled,
	}

	if dbURL := os.Getenv("AUDIT_DATABASE_URL"); dbURL != "" {
		external, err := sql.Open("postgres", dbURL)
		if err != nil {
			return nil, fmt.Errorf("audit: failed to open audit database: %w", err)
		}
		s.external = external
	}

	return s, nil
}

// NewStoreWithExternal creates a store with an existing secondary database
// connection. Useful for testing with sqlmock.
func NewStoreWithExternal(external *sql.DB) *Store {
	return &Store{
		logger:   NewLogger(),
		external: external,
	}
}

// Logger returns the line logger so callers can redirect its output.
func (s *Store) Logger() *Logger {
	return s.logger
}

// Close closes the secondary database connection, if any.
func (s *Store) Close() error {
	if s.external != nil {
		return s.external.Close()
	}
	return nil
}

// Append durably persists an event as part of the given transaction. The
// event row carries the actor, targets, old/new values, structured data and
// origin address; rows are append-only and never touched again.
func (s *Store) Append(tx *gorm.DB, event Event) error {
	rec := event.Record()
	rec.At = time.Now().UTC()

	if data, err := json.Marshal(event.StructuredData()); err == nil {
		rec.Data = string(data)
	}

	if err := tx.Create(&rec).Error; err != nil {
		return fmt.Errorf("audit: failed to append event: %w", err)
	}

	if s.logger != nil && (s.enabled == nil || s.enabled()) {
		s.logger.Log(event)
	}

	s.mirror(event, rec.At)

	return nil
}

// mirror best-effort copies the event to the secondary audit database.
// Failures are reported to stderr and never fail the primary operation.
func (s *Store) mirror(event Event, at time.Time) {
	if s.external == nil {
		return
	}

	sdataJSON, err := json.Marshal(event.StructuredData())
	if err != nil {
		fmt.Fprintf(os.Stderr, "audit: failed to marshal event data: %v\n", err)
		return
	}

	hostname, _ := os.Hostname()

	_, err = s.external.Exec(`
		INSERT INTO messages (facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		event.Facility(),
		int(event.Severity()),
		at,
		hostname,
		"keeper",
		os.Getpid(),
		event.Type().String(),
		sdataJSON,
		event.Message(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audit: failed to mirror event: %v\n", err)
	}
}
