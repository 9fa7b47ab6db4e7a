// ABOUTME: Sync orchestrator composing the remote client, field mapper, and local store
// ABOUTME: Implements the pull and push flows with upsert reconciliation and error containment
package sync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/contactsync/db"
	"github.com/harperreed/contactsync/models"
	"go.uber.org/zap"
)

// UserSyncer is the surface the lifecycle triggers call into.
type UserSyncer interface {
	PullUser(ctx context.Context, externalID string)
	PushUser(ctx context.Context, localID uuid.UUID)
}

// Syncer runs the two end-to-end sync flows. Both flows contain every failure
// at their boundary: they report through the logger and the sync_state table
// and return normally, so a trigger batch never aborts on one bad record.
type Syncer struct {
	db     *sql.DB
	client *Client
	logger *zap.Logger
	now    func() time.Time
}

func NewSyncer(database *sql.DB, client *Client, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		db:     database,
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// PullUser fetches the remote user and upserts the matching local contact.
// Fire-and-forget: failures are logged, never returned.
func (s *Syncer) PullUser(ctx context.Context, externalID string) {
	if err := s.pullUser(ctx, externalID); err != nil {
		s.reportFailure(models.SyncServicePull, err, zap.String("external_id", externalID))
		return
	}

	if err := db.UpdateSyncStatus(s.db, models.SyncServicePull, models.SyncStatusIdle, nil); err != nil {
		s.logger.Warn("failed to record pull sync state", zap.Error(err))
	}
}

func (s *Syncer) pullUser(ctx context.Context, externalID string) error {
	status, body, err := s.client.FetchUser(ctx, externalID)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &RemoteStatusError{Op: "fetch user", Status: status, Body: body}
	}

	fields, err := ParseRemoteUser(body)
	if err != nil {
		return err
	}
	if fields.ExternalID == "" {
		return &ParseError{Reason: "remote user has no id"}
	}

	// Manual upsert: look up by external id, then update or insert. The
	// lookup and the write are not one atomic step; callers serialize sync
	// calls per batch, which is what keeps two pulls for the same id from
	// double inserting.
	existing, err := db.FindContactByExternalID(s.db, fields.ExternalID)
	if err != nil {
		return fmt.Errorf("failed to look up contact by external id: %w", err)
	}

	var contact *models.Contact
	if existing != nil {
		// Carry the existing identity; overwrite only pulled fields.
		contact = existing
		ApplyRemoteFields(contact, fields)
		if err := db.UpdateContact(s.db, contact.ID, contact); err != nil {
			return fmt.Errorf("failed to update contact: %w", err)
		}
	} else {
		contact = &models.Contact{}
		ApplyRemoteFields(contact, fields)
		if err := db.CreateContact(s.db, contact); err != nil {
			return fmt.Errorf("failed to insert contact: %w", err)
		}
	}

	if err := db.CreateSyncLog(s.db, models.SyncServicePull, fields.ExternalID, contact.ID, ""); err != nil {
		s.logger.Warn("failed to record pull in sync log", zap.Error(err))
	}

	s.logger.Info("pulled remote user",
		zap.String("external_id", fields.ExternalID),
		zap.String("contact_id", contact.ID.String()),
		zap.Bool("created", existing == nil))

	return nil
}

// PushUser sends the local contact's fields to the remote service and, on
// success, stamps last_synced_at. Fire-and-forget like PullUser.
func (s *Syncer) PushUser(ctx context.Context, localID uuid.UUID) {
	if err := s.pushUser(ctx, localID); err != nil {
		s.reportFailure(models.SyncServicePush, err, zap.String("contact_id", localID.String()))
		return
	}

	if err := db.UpdateSyncStatus(s.db, models.SyncServicePush, models.SyncStatusIdle, nil); err != nil {
		s.logger.Warn("failed to record push sync state", zap.Error(err))
	}
}

func (s *Syncer) pushUser(ctx context.Context, localID uuid.UUID) error {
	contact, err := db.GetContact(s.db, localID)
	if err != nil {
		return fmt.Errorf("failed to load contact: %w", err)
	}
	if contact == nil {
		return &PreconditionError{Reason: fmt.Sprintf("no contact with id %s", localID)}
	}

	payload := BuildPushPayload(contact)

	status, body, err := s.client.CreateOrUpdateUser(ctx, payload)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return &RemoteStatusError{Op: "create or update user", Status: status, Body: body}
	}

	syncedAt := s.now()
	if err := db.StampContactSynced(s.db, contact.ID, syncedAt); err != nil {
		return fmt.Errorf("failed to stamp last synced: %w", err)
	}

	externalID := ""
	if contact.ExternalID != nil {
		externalID = *contact.ExternalID
	}
	if err := db.CreateSyncLog(s.db, models.SyncServicePush, externalID, contact.ID, ""); err != nil {
		s.logger.Warn("failed to record push in sync log", zap.Error(err))
	}

	s.logger.Info("pushed contact",
		zap.String("contact_id", contact.ID.String()),
		zap.Int("status", status),
		zap.Time("synced_at", syncedAt))

	return nil
}

// reportFailure logs a contained sync failure and marks the direction's state
// as errored. This is the only error surface the flows have.
func (s *Syncer) reportFailure(operation string, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("operation", operation),
		zap.String("kind", errorKind(err)),
		zap.Error(err))

	var statusErr *RemoteStatusError
	if errors.As(err, &statusErr) {
		fields = append(fields,
			zap.Int("status", statusErr.Status),
			zap.ByteString("body", statusErr.Body))
	}

	s.logger.Error("sync operation failed", fields...)

	msg := err.Error()
	if stateErr := db.UpdateSyncStatus(s.db, operation, models.SyncStatusError, &msg); stateErr != nil {
		s.logger.Warn("failed to record sync error state", zap.Error(stateErr))
	}
}

func errorKind(err error) string {
	var (
		transportErr    *TransportError
		statusErr       *RemoteStatusError
		parseErr        *ParseError
		preconditionErr *PreconditionError
	)
	switch {
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &statusErr):
		return "remote_status"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &preconditionErr):
		return "precondition"
	default:
		return "store"
	}
}
