// ABOUTME: Tests for the field mapper
// ABOUTME: Covers typed decode edge cases and push payload placeholder behavior
package sync

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/contactsync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRemoteUserFullBody(t *testing.T) {
	body := []byte(`{
		"id": 7,
		"email": "emily@x.com",
		"phone": "+1 555-0100",
		"birthDate": "1996-05-30",
		"address": {
			"address": "626 Main Street",
			"city": "Phoenix",
			"state": "Mississippi",
			"postalCode": "29112",
			"country": "United States"
		}
	}`)

	fields, err := ParseRemoteUser(body)
	require.NoError(t, err)

	assert.Equal(t, "7", fields.ExternalID)
	require.NotNil(t, fields.Email)
	assert.Equal(t, "emily@x.com", *fields.Email)
	require.NotNil(t, fields.Phone)
	assert.Equal(t, "+1 555-0100", *fields.Phone)
	require.NotNil(t, fields.BirthDate)
	assert.Equal(t, time.Date(1996, 5, 30, 0, 0, 0, 0, time.UTC), *fields.BirthDate)
	require.NotNil(t, fields.MailingStreet)
	assert.Equal(t, "626 Main Street", *fields.MailingStreet)
	require.NotNil(t, fields.MailingPostalCode)
	assert.Equal(t, "29112", *fields.MailingPostalCode)
	require.NotNil(t, fields.MailingCountry)
	assert.Equal(t, "United States", *fields.MailingCountry)
}

func TestParseRemoteUserMissingAddress(t *testing.T) {
	fields, err := ParseRemoteUser([]byte(`{"id": 3, "email": "a@b.com"}`))
	require.NoError(t, err)

	assert.Equal(t, "3", fields.ExternalID)
	assert.Nil(t, fields.MailingStreet)
	assert.Nil(t, fields.MailingCity)
	assert.Nil(t, fields.MailingState)
	assert.Nil(t, fields.MailingPostalCode)
	assert.Nil(t, fields.MailingCountry)
}

func TestParseRemoteUserNumericPostalCode(t *testing.T) {
	fields, err := ParseRemoteUser([]byte(`{"id": 3, "address": {"postalCode": 60641}}`))
	require.NoError(t, err)

	require.NotNil(t, fields.MailingPostalCode)
	assert.Equal(t, "60641", *fields.MailingPostalCode)
}

func TestParseRemoteUserNullFieldsStayUnset(t *testing.T) {
	fields, err := ParseRemoteUser([]byte(`{"id": 9, "email": null, "birthDate": null, "address": null}`))
	require.NoError(t, err)

	assert.Equal(t, "9", fields.ExternalID)
	assert.Nil(t, fields.Email)
	assert.Nil(t, fields.BirthDate)
	assert.Nil(t, fields.MailingCity)
}

func TestParseRemoteUserMissingID(t *testing.T) {
	fields, err := ParseRemoteUser([]byte(`{"email": "a@b.com"}`))
	require.NoError(t, err)
	assert.Empty(t, fields.ExternalID)
}

func TestParseRemoteUserBadBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"json array", `[1, 2, 3]`},
		{"wrong type email", `{"id": 1, "email": 42}`},
		{"wrong type address", `{"id": 1, "address": "not an object"}`},
		{"invalid birth date", `{"id": 1, "birthDate": "yesterday"}`},
		{"wrong type birth date", `{"id": 1, "birthDate": 19960530}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRemoteUser([]byte(tt.body))
			require.Error(t, err)

			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr), "expected ParseError, got %T", err)
		})
	}
}

func TestBuildPushPayload(t *testing.T) {
	contact := &models.Contact{
		ID:        uuid.New(),
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Phone:     "+1234567890",
	}

	payload := BuildPushPayload(contact)

	assert.Equal(t, contact.ID.String(), payload.SalesforceID)
	assert.Equal(t, "Jane", payload.FirstName)
	assert.Equal(t, "Doe", payload.LastName)
	assert.Equal(t, "jane@example.com", payload.Email)
	assert.Equal(t, "+1234567890", payload.Phone)
}

func TestBuildPushPayloadAllBlank(t *testing.T) {
	payload := BuildPushPayload(&models.Contact{ID: uuid.New()})

	assert.Equal(t, "unknown", payload.FirstName)
	assert.Equal(t, "unknown", payload.LastName)
	assert.Equal(t, "unknown", payload.Email)
	assert.Equal(t, "unknown", payload.Phone)
}

func TestBuildPushPayloadMixedBlanks(t *testing.T) {
	contact := &models.Contact{
		ID:        uuid.New(),
		FirstName: "   ",
		LastName:  "Doe",
		Email:     "a@b.com",
		Phone:     "\t",
	}

	payload := BuildPushPayload(contact)

	assert.Equal(t, "unknown", payload.FirstName)
	assert.Equal(t, "Doe", payload.LastName)
	assert.Equal(t, "a@b.com", payload.Email)
	assert.Equal(t, "unknown", payload.Phone)
}

func TestApplyRemoteFieldsMerges(t *testing.T) {
	email := "new@example.com"
	fields := &RemoteUserFields{
		ExternalID: "12",
		Email:      &email,
	}

	contact := &models.Contact{
		FirstName: "Kept",
		Email:     "old@example.com",
		Phone:     "555-kept",
	}

	ApplyRemoteFields(contact, fields)

	require.NotNil(t, contact.ExternalID)
	assert.Equal(t, "12", *contact.ExternalID)
	assert.Equal(t, "new@example.com", contact.Email)
	// Fields absent from the pull stay untouched
	assert.Equal(t, "Kept", contact.FirstName)
	assert.Equal(t, "555-kept", contact.Phone)
}
