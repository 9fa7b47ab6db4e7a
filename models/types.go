// ABOUTME: Data models for the contact sync service
// ABOUTME: Defines Contact and the change pairs consumed by the lifecycle triggers
package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact is the local record synchronized against the external user service.
// ExternalID is the join key to the remote system; it is nil until assigned
// and at most one contact may carry any given value.
type Contact struct {
	ID                uuid.UUID  `json:"id"`
	ExternalID        *string    `json:"external_id,omitempty"`
	FirstName         string     `json:"first_name,omitempty"`
	LastName          string     `json:"last_name,omitempty"`
	Email             string     `json:"email,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	BirthDate         *time.Time `json:"birth_date,omitempty"`
	MailingStreet     string     `json:"mailing_street,omitempty"`
	MailingCity       string     `json:"mailing_city,omitempty"`
	MailingState      string     `json:"mailing_state,omitempty"`
	MailingPostalCode string     `json:"mailing_postal_code,omitempty"`
	MailingCountry    string     `json:"mailing_country,omitempty"`
	LastSyncedAt      *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ContactChange is an old/new pair for one persisted update. Old is nil when
// the prior state is unknown.
type ContactChange struct {
	Old *Contact `json:"old,omitempty"`
	New Contact  `json:"new"`
}

// Sync status constants.
const (
	SyncStatusIdle    = "idle"
	SyncStatusSyncing = "syncing"
	SyncStatusError   = "error"
)

// Sync directions tracked in sync_state.
const (
	SyncServicePull = "pull"
	SyncServicePush = "push"
)

type SyncLog struct {
	ID         string    `json:"id"`
	Operation  string    `json:"operation"`
	ExternalID string    `json:"external_id,omitempty"`
	ContactID  uuid.UUID `json:"contact_id"`
	SyncedAt   time.Time `json:"synced_at"`
	Metadata   string    `json:"metadata,omitempty"`
}
