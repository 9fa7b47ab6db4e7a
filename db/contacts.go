// ABOUTME: Contact database operations
// ABOUTME: Handles CRUD operations, external-id lookups, and sync timestamp stamping
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/contactsync/models"
)

// ErrAmbiguousExternalID is returned when more than one contact carries the
// same external id. The upsert logic is supposed to keep this impossible, so
// hitting it means the store is in a state the sync flows must not guess at.
var ErrAmbiguousExternalID = errors.New("multiple contacts share one external id")

const contactColumns = `id, external_id, first_name, last_name, email, phone, birth_date,
		mailing_street, mailing_city, mailing_state, mailing_postal_code, mailing_country,
		last_synced_at, created_at, updated_at`

func CreateContact(db *sql.DB, contact *models.Contact) error {
	contact.ID = uuid.New()
	now := time.Now()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	_, err := db.Exec(`
		INSERT INTO contacts (`+contactColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, contact.ID.String(), contact.ExternalID, contact.FirstName, contact.LastName,
		contact.Email, contact.Phone, contact.BirthDate,
		contact.MailingStreet, contact.MailingCity, contact.MailingState,
		contact.MailingPostalCode, contact.MailingCountry,
		contact.LastSyncedAt, contact.CreatedAt, contact.UpdatedAt)

	return err
}

func GetContact(db *sql.DB, id uuid.UUID) (*models.Contact, error) {
	row := db.QueryRow(`
		SELECT `+contactColumns+`
		FROM contacts WHERE id = ?
	`, id.String())

	contact, err := scanContact(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return contact, nil
}

// FindContactByExternalID returns the contact holding externalID, or nil when
// none exists. An id shared by more than one contact is reported as
// ErrAmbiguousExternalID rather than picking an arbitrary row.
func FindContactByExternalID(db *sql.DB, externalID string) (*models.Contact, error) {
	rows, err := db.Query(`
		SELECT `+contactColumns+`
		FROM contacts
		WHERE external_id = ?
		LIMIT 2
	`, externalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contact *models.Contact
	for rows.Next() {
		if contact != nil {
			return nil, fmt.Errorf("external id %q: %w", externalID, ErrAmbiguousExternalID)
		}
		contact, err = scanContact(rows.Scan)
		if err != nil {
			return nil, err
		}
	}

	return contact, rows.Err()
}

// ListContacts returns the newest contacts first.
func ListContacts(db *sql.DB, limit int) ([]models.Contact, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.Query(`
		SELECT `+contactColumns+`
		FROM contacts
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		contact, err := scanContact(rows.Scan)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *contact)
	}

	return contacts, rows.Err()
}

// UpdateContact overwrites the contact-detail fields of the record identified
// by id. It does not touch last_synced_at or created_at; callers that only
// want the sync stamp use StampContactSynced instead.
func UpdateContact(db *sql.DB, id uuid.UUID, updates *models.Contact) error {
	updates.UpdatedAt = time.Now()

	_, err := db.Exec(`
		UPDATE contacts
		SET external_id = ?, first_name = ?, last_name = ?, email = ?, phone = ?,
			birth_date = ?, mailing_street = ?, mailing_city = ?, mailing_state = ?,
			mailing_postal_code = ?, mailing_country = ?, updated_at = ?
		WHERE id = ?
	`, updates.ExternalID, updates.FirstName, updates.LastName, updates.Email, updates.Phone,
		updates.BirthDate, updates.MailingStreet, updates.MailingCity, updates.MailingState,
		updates.MailingPostalCode, updates.MailingCountry, updates.UpdatedAt, id.String())

	return err
}

// StampContactSynced is a merge-patch update: it sets last_synced_at and
// nothing else, so a concurrent edit to the contact details is never clobbered
// by a push acknowledgement.
func StampContactSynced(db *sql.DB, id uuid.UUID, syncedAt time.Time) error {
	_, err := db.Exec(`
		UPDATE contacts
		SET last_synced_at = ?, updated_at = ?
		WHERE id = ?
	`, syncedAt, time.Now(), id.String())

	return err
}

func scanContact(scan func(dest ...any) error) (*models.Contact, error) {
	contact := &models.Contact{}
	var externalID sql.NullString
	var birthDate, lastSyncedAt sql.NullTime

	err := scan(
		&contact.ID,
		&externalID,
		&contact.FirstName,
		&contact.LastName,
		&contact.Email,
		&contact.Phone,
		&birthDate,
		&contact.MailingStreet,
		&contact.MailingCity,
		&contact.MailingState,
		&contact.MailingPostalCode,
		&contact.MailingCountry,
		&lastSyncedAt,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if externalID.Valid {
		contact.ExternalID = &externalID.String
	}
	if birthDate.Valid {
		contact.BirthDate = &birthDate.Time
	}
	if lastSyncedAt.Valid {
		contact.LastSyncedAt = &lastSyncedAt.Time
	}

	return contact, nil
}
