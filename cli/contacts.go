// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for creating, listing, and re-keying contacts
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/contactsync/db"
	"github.com/harperreed/contactsync/models"
	"github.com/harperreed/contactsync/sync"
)

// AddContactCommand creates a contact through the lifecycle trigger rules:
// a missing external id is seeded before the insert, and qualifying ids are
// pulled right after it.
func AddContactCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	firstName := fs.String("first-name", "", "First name")
	lastName := fs.String("last-name", "", "Last name (required)")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	externalID := fs.String("external-id", "", "External user id (random in pull range when omitted)")
	_ = fs.Parse(args)

	if *lastName == "" {
		return fmt.Errorf("--last-name is required")
	}

	contact := &models.Contact{
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     *email,
		Phone:     *phone,
	}
	if *externalID != "" {
		contact.ExternalID = externalID
	}

	batch := []*models.Contact{contact}
	sync.AssignExternalIDs(batch)

	if err := db.CreateContact(database, contact); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	fmt.Printf("✓ Created contact %s (external id %s)\n", contact.ID, *contact.ExternalID)

	syncer, cleanup, err := newSyncer(database)
	if err != nil {
		return err
	}
	defer cleanup()

	sync.AfterContactsCreated(context.Background(), syncer, batch)

	return nil
}

// SetExternalIDCommand updates a contact's external id and runs the
// edge-triggered push rule over the old/new pair.
func SetExternalIDCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("set-external-id", flag.ExitOnError)
	id := fs.String("id", "", "Contact id (required)")
	externalID := fs.String("external-id", "", "New external user id (required)")
	_ = fs.Parse(args)

	if *id == "" || *externalID == "" {
		return fmt.Errorf("--id and --external-id are required")
	}

	contactID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid contact id: %w", err)
	}

	old, err := db.GetContact(database, contactID)
	if err != nil {
		return fmt.Errorf("failed to load contact: %w", err)
	}
	if old == nil {
		return fmt.Errorf("no contact with id %s", contactID)
	}

	updated := *old
	updated.ExternalID = externalID
	if err := db.UpdateContact(database, contactID, &updated); err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	fmt.Printf("✓ Updated contact %s external id to %s\n", contactID, *externalID)

	syncer, cleanup, err := newSyncer(database)
	if err != nil {
		return err
	}
	defer cleanup()

	sync.AfterContactsUpdated(context.Background(), syncer, []models.ContactChange{
		{Old: old, New: updated},
	})

	return nil
}

// ListContactsCommand prints contacts in a table.
func ListContactsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	limit := fs.Int("limit", 50, "Maximum contacts to show")
	_ = fs.Parse(args)

	contacts, err := db.ListContacts(database, *limit)
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}

	if len(contacts) == 0 {
		fmt.Println("No contacts found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEXTERNAL ID\tNAME\tEMAIL\tPHONE\tLAST SYNCED")
	for _, c := range contacts {
		externalID := "-"
		if c.ExternalID != nil {
			externalID = *c.ExternalID
		}
		lastSynced := "never"
		if c.LastSyncedAt != nil {
			lastSynced = c.LastSyncedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%s\t%s\n",
			c.ID, externalID, c.FirstName, c.LastName, c.Email, c.Phone, lastSynced)
	}

	return w.Flush()
}
