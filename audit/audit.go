// Package audit keeps an append-only trail of every gateway operation in a
// local sqlite database, so that simulated outcomes can be inspected after a
// certification run without a search cluster.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one recorded gateway operation
type Entry struct {
	PaymentID     string  `json:"paymentId"`
	Operation     string  `json:"operation"`
	Flow          string  `json:"flow,omitempty"`
	Status        string  `json:"status,omitempty"`
	TransactionID string  `json:"transactionId,omitempty"`
	Value         float64 `json:"value,omitempty"`
	Currency      string  `json:"currency,omitempty"`
}

// Trail is a sqlite-backed audit log. Safe for concurrent use.
type Trail struct {
	db *sql.DB
	mu sync.Mutex
}

// NewTrail opens (or creates) the audit database at dbPath
func NewTrail(dbPath string) (*Trail, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_timeout=20000", dbPath)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	db.SetMaxOpenConns(1)

	trail := &Trail{db: db}
	if err := trail.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize audit schema: %w", err)
	}

	return trail, nil
}

func (t *Trail) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS gateway_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		payment_id TEXT NOT NULL,
		operation TEXT NOT NULL,
		flow TEXT,
		status TEXT,
		transaction_id TEXT,
		value REAL,
		currency TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_gateway_events_payment_id ON gateway_events(payment_id);
	`

	_, err := t.db.Exec(query)
	return err
}

// Record appends an entry to the trail
func (t *Trail) Record(ctx context.Context, e Entry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	query := `
		INSERT INTO gateway_events (payment_id, operation, flow, status, transaction_id, value, currency)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if _, err := t.db.ExecContext(ctx, query,
		e.PaymentID, e.Operation, e.Flow, e.Status, e.TransactionID, e.Value, e.Currency,
	); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// ListByPayment returns every recorded entry for a payment id, oldest first
func (t *Trail) ListByPayment(ctx context.Context, paymentID string) ([]Entry, error) {
	query := `
		SELECT payment_id, operation, flow, status, transaction_id, value, currency
		FROM gateway_events
		WHERE payment_id = ?
		ORDER BY id ASC
	`

	rows, err := t.db.QueryContext(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.PaymentID, &e.Operation, &e.Flow, &e.Status, &e.TransactionID, &e.Value, &e.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close releases the underlying database handle
func (t *Trail) Close() error {
	return t.db.Close()
}
