package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// History manages webhook delivery history in SQLite
type History struct {
	db *sql.DB
}

// NewHistory creates a new history tracker
func NewHistory(dbPath string) (*History, error) {
	// Open database connection
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for SQLite (single writer)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	h := &History{db: db}

	// Initialize schema
	if err := h.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return h, nil
}

// Close closes the database connection
func (h *History) Close() error {
	return h.db.Close()
}

// initSchema creates the database tables and indexes
func (h *History) initSchema() error {
	_, err := h.db.Exec(`
		CREATE TABLE IF NOT EXISTS deliveries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project TEXT NOT NULL,
			document_id TEXT,
			event_type TEXT,
			status TEXT NOT NULL,
			received_at TEXT NOT NULL,
			payload_bytes INTEGER NOT NULL DEFAULT 0,
			error_message TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	// Create index for efficient queries
	_, err = h.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_project_received
		ON deliveries(project, received_at DESC)
	`)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// RecordDelivery records a webhook delivery in the history
func (h *History) RecordDelivery(ctx context.Context, record *DeliveryRecord) (int64, error) {
	receivedAt := record.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}

	result, err := h.db.ExecContext(ctx, `
		INSERT INTO deliveries
		(project, document_id, event_type, status, received_at, payload_bytes, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		record.Project,
		record.DocumentID,
		record.EventType,
		record.Status,
		receivedAt.UTC().Format(time.RFC3339),
		record.PayloadBytes,
		record.ErrorMessage,
	)

	if err != nil {
		return 0, fmt.Errorf("failed to insert delivery record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	return id, nil
}

// GetLatestDelivery returns the most recent delivery for a project
func (h *History) GetLatestDelivery(ctx context.Context, project string) (*DeliveryRecord, error) {
	row := h.db.QueryRowContext(ctx, `
		SELECT id, project, document_id, event_type, status, received_at,
		       payload_bytes, error_message
		FROM deliveries
		WHERE project = ?
		ORDER BY id DESC
		LIMIT 1
	`, project)

	record, err := scanDeliveryRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest delivery: %w", err)
	}

	return record, nil
}

// GetDeliveryHistory returns delivery history for a project
func (h *History) GetDeliveryHistory(ctx context.Context, project string, limit int) ([]DeliveryRecord, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, project, document_id, event_type, status, received_at,
		       payload_bytes, error_message
		FROM deliveries
		WHERE project = ?
		ORDER BY id DESC
		LIMIT ?
	`, project, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query delivery history: %w", err)
	}
	defer rows.Close()

	var records []DeliveryRecord
	for rows.Next() {
		record, err := scanDeliveryRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery record: %w", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// GetAllProjectsStatus returns the latest delivery for each project
func (h *History) GetAllProjectsStatus(ctx context.Context) (map[string]*DeliveryRecord, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT d1.id, d1.project, d1.document_id, d1.event_type, d1.status,
		       d1.received_at, d1.payload_bytes, d1.error_message
		FROM deliveries d1
		INNER JOIN (
			SELECT project, MAX(id) as max_id
			FROM deliveries
			GROUP BY project
		) d2
		ON d1.project = d2.project AND d1.id = d2.max_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query all projects status: %w", err)
	}
	defer rows.Close()

	result := make(map[string]*DeliveryRecord)
	for rows.Next() {
		record, err := scanDeliveryRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery record: %w", err)
		}
		result[record.Project] = record
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// scanner is an interface that both *sql.Row and *sql.Rows implement
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanDeliveryRecord scans a database row into a DeliveryRecord
// Works with both *sql.Row and *sql.Rows
func scanDeliveryRecord(s scanner) (*DeliveryRecord, error) {
	var record DeliveryRecord
	var receivedAtStr string

	err := s.Scan(
		&record.ID,
		&record.Project,
		&record.DocumentID,
		&record.EventType,
		&record.Status,
		&receivedAtStr,
		&record.PayloadBytes,
		&record.ErrorMessage,
	)

	if err != nil {
		return nil, err
	}

	receivedAt, err := time.Parse(time.RFC3339, receivedAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse received_at timestamp: %w", err)
	}
	record.ReceivedAt = receivedAt

	return &record, nil
}
