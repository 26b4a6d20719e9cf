package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// LedgerEntry is one appointment that reached the calendar.
type LedgerEntry struct {
	EventID            string
	PatientName        string
	PatientPhone       string
	AppointmentTime    string
	LocalizedTime      string
	ConfirmationStatus string
	MessageID          string
	NotificationError  string
	RecordedAt         time.Time
}

// Ledger keeps an audit trail of scheduled appointments. Failures are logged
// by the scheduler and never change the scheduling result.
type Ledger interface {
	Record(ctx context.Context, entry LedgerEntry) error
}

// NopLedger discards entries.
type NopLedger struct{}

func (NopLedger) Record(context.Context, LedgerEntry) error { return nil }

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS appointment_ledger (
	id BIGSERIAL PRIMARY KEY,
	event_id TEXT NOT NULL,
	patient_name TEXT NOT NULL,
	patient_phone TEXT NOT NULL,
	appointment_time TEXT NOT NULL,
	localized_time TEXT NOT NULL,
	confirmation_status TEXT NOT NULL,
	message_id TEXT,
	notification_error TEXT,
	recorded_at TIMESTAMPTZ NOT NULL
)`

const insertLedgerEntry = `
INSERT INTO appointment_ledger (
	event_id, patient_name, patient_phone, appointment_time, localized_time,
	confirmation_status, message_id, notification_error, recorded_at
) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9)`

// PostgresLedger persists entries to the appointment_ledger table.
type PostgresLedger struct {
	db execer
}

// NewPostgresLedger accepts a *pgxpool.Pool (or any pgx Exec-er).
func NewPostgresLedger(db execer) *PostgresLedger {
	if db == nil {
		panic("appointments: ledger db required")
	}
	return &PostgresLedger{db: db}
}

// EnsureSchema creates the ledger table when it does not exist.
func (l *PostgresLedger) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.Exec(ctx, ledgerSchema); err != nil {
		return fmt.Errorf("appointments: ensure ledger schema: %w", err)
	}
	return nil
}

func (l *PostgresLedger) Record(ctx context.Context, entry LedgerEntry) error {
	_, err := l.db.Exec(ctx, insertLedgerEntry,
		entry.EventID,
		entry.PatientName,
		entry.PatientPhone,
		entry.AppointmentTime,
		entry.LocalizedTime,
		entry.ConfirmationStatus,
		entry.MessageID,
		entry.NotificationError,
		entry.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("appointments: insert ledger entry: %w", err)
	}
	return nil
}
