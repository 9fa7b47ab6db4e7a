// ABOUTME: Lifecycle trigger rules deciding when a pull or push fires
// ABOUTME: Threshold-based pull on creation, edge-triggered push on external id updates
package sync

import (
	"context"
	"math/rand"
	"strconv"

	"github.com/harperreed/contactsync/models"
)

// PullThreshold partitions the external id space: ids up to and including the
// threshold are pulled after creation; an update crossing above it pushes.
const PullThreshold = 100

// AssignExternalIDs runs before a batch of contacts is persisted. Any contact
// without an external id gets a random integer in [0,PullThreshold],
// stringified. These seeded ids land in the pull range on purpose.
func AssignExternalIDs(contacts []*models.Contact) {
	for _, contact := range contacts {
		if contact.ExternalID != nil {
			continue
		}
		id := strconv.Itoa(rand.Intn(PullThreshold + 1))
		contact.ExternalID = &id
	}
}

// AfterContactsCreated runs once a creation batch is persisted. Each contact
// whose external id parses as an integer at or below the threshold gets one
// pull, in input order. Unparseable ids are skipped, not errors.
func AfterContactsCreated(ctx context.Context, syncer UserSyncer, contacts []*models.Contact) {
	for _, contact := range contacts {
		value, ok := parseExternalID(contact.ExternalID)
		if !ok || value > PullThreshold {
			continue
		}
		syncer.PullUser(ctx, *contact.ExternalID)
	}
}

// AfterContactsUpdated runs once an update batch is persisted. A push fires
// only when a contact's external id crosses the threshold upward: the new
// value parses above it while the old value was unset, unparseable, or at or
// below it. Updates already above the threshold fire nothing.
func AfterContactsUpdated(ctx context.Context, syncer UserSyncer, changes []models.ContactChange) {
	for _, change := range changes {
		newValue, ok := parseExternalID(change.New.ExternalID)
		if !ok || newValue <= PullThreshold {
			continue
		}

		var oldID *string
		if change.Old != nil {
			oldID = change.Old.ExternalID
		}
		if oldValue, ok := parseExternalID(oldID); ok && oldValue > PullThreshold {
			continue
		}

		syncer.PushUser(ctx, change.New.ID)
	}
}

func parseExternalID(id *string) (int, bool) {
	if id == nil {
		return 0, false
	}
	value, err := strconv.Atoi(*id)
	if err != nil {
		return 0, false
	}
	return value, true
}
