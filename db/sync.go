// ABOUTME: Database operations for sync_state and sync_log tables
// ABOUTME: Tracks per-direction sync status and records completed pull/push operations
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/contactsync/models"
	"github.com/oklog/ulid/v2"
)

// SyncState represents the sync state for one direction ("pull" or "push").
type SyncState struct {
	Service      string
	LastSyncTime *time.Time
	Status       string
	ErrorMessage *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GetSyncState retrieves the sync state for a direction.
func GetSyncState(db *sql.DB, service string) (*SyncState, error) {
	var state SyncState
	var lastSyncTime sql.NullTime
	var errorMessage sql.NullString

	err := db.QueryRow(`
		SELECT service, last_sync_time, status, error_message, created_at, updated_at
		FROM sync_state
		WHERE service = ?
	`, service).Scan(
		&state.Service,
		&lastSyncTime,
		&state.Status,
		&errorMessage,
		&state.CreatedAt,
		&state.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync state: %w", err)
	}

	if lastSyncTime.Valid {
		state.LastSyncTime = &lastSyncTime.Time
	}
	if errorMessage.Valid {
		state.ErrorMessage = &errorMessage.String
	}

	return &state, nil
}

// UpdateSyncStatus upserts the sync status for a direction. A non-error status
// clears any previous error message; an idle status also bumps last_sync_time.
func UpdateSyncStatus(db *sql.DB, service, status string, errorMsg *string) error {
	var errorMsgVal sql.NullString
	if errorMsg != nil {
		errorMsgVal = sql.NullString{String: *errorMsg, Valid: true}
	}

	var err error
	if status == models.SyncStatusIdle {
		_, err = db.Exec(`
			INSERT INTO sync_state (service, last_sync_time, status, error_message, created_at, updated_at)
			VALUES (?, CURRENT_TIMESTAMP, ?, NULL, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
			ON CONFLICT(service) DO UPDATE SET
				last_sync_time = CURRENT_TIMESTAMP,
				status = excluded.status,
				error_message = NULL,
				updated_at = CURRENT_TIMESTAMP
		`, service, status)
	} else {
		_, err = db.Exec(`
			INSERT INTO sync_state (service, status, error_message, created_at, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
			ON CONFLICT(service) DO UPDATE SET
				status = excluded.status,
				error_message = excluded.error_message,
				updated_at = CURRENT_TIMESTAMP
		`, service, status, errorMsgVal)
	}

	if err != nil {
		return fmt.Errorf("failed to update sync status: %w", err)
	}

	return nil
}

// CreateSyncLog records one completed pull or push against a contact.
func CreateSyncLog(db *sql.DB, operation, externalID string, contactID uuid.UUID, metadata string) error {
	id := ulid.Make()

	_, err := db.Exec(`
		INSERT INTO sync_log (id, operation, external_id, contact_id, synced_at, metadata)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, ?)
	`, id.String(), operation, externalID, contactID.String(), metadata)

	if err != nil {
		return fmt.Errorf("failed to create sync log: %w", err)
	}

	return nil
}

// RecentSyncLogs returns the newest sync log entries, most recent first.
func RecentSyncLogs(db *sql.DB, limit int) ([]models.SyncLog, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT id, operation, external_id, contact_id, synced_at, metadata
		FROM sync_log
		ORDER BY synced_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var logs []models.SyncLog
	for rows.Next() {
		var entry models.SyncLog
		var externalID, metadata sql.NullString

		err := rows.Scan(&entry.ID, &entry.Operation, &externalID, &entry.ContactID, &entry.SyncedAt, &metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync log: %w", err)
		}

		if externalID.Valid {
			entry.ExternalID = externalID.String
		}
		if metadata.Valid {
			entry.Metadata = metadata.String
		}

		logs = append(logs, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sync log: %w", err)
	}

	return logs, nil
}

// GetAllSyncStates retrieves the sync state for all directions.
func GetAllSyncStates(db *sql.DB) ([]SyncState, error) {
	rows, err := db.Query(`
		SELECT service, last_sync_time, status, error_message, created_at, updated_at
		FROM sync_state
		ORDER BY service
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync states: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var states []SyncState
	for rows.Next() {
		var state SyncState
		var lastSyncTime sql.NullTime
		var errorMessage sql.NullString

		err := rows.Scan(
			&state.Service,
			&lastSyncTime,
			&state.Status,
			&errorMessage,
			&state.CreatedAt,
			&state.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync state: %w", err)
		}

		if lastSyncTime.Valid {
			state.LastSyncTime = &lastSyncTime.Time
		}
		if errorMessage.Valid {
			state.ErrorMessage = &errorMessage.String
		}

		states = append(states, state)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sync states: %w", err)
	}

	return states, nil
}
