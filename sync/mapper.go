// ABOUTME: Field mapping between the external user JSON schema and the local contact record
// ABOUTME: Typed decode for pulls, payload construction with blank-field placeholders for pushes
package sync

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/contactsync/models"
)

// birthDateLayout is the ISO date format the remote service uses.
const birthDateLayout = "2006-01-02"

// unknownPlaceholder replaces blank push fields. The remote service mishandles
// empty strings, so blanks are normalized to a sentinel instead of omitted.
const unknownPlaceholder = "unknown"

// RemoteUserFields is the subset of contact fields a pull can carry. A nil
// pointer means the field was absent (or null) in the remote body and must be
// left untouched on the local record.
type RemoteUserFields struct {
	ExternalID        string
	Email             *string
	Phone             *string
	BirthDate         *time.Time
	MailingStreet     *string
	MailingCity       *string
	MailingState      *string
	MailingPostalCode *string
	MailingCountry    *string
}

// PushPayload is the outbound shape for create-or-update. It is deliberately
// smaller than the inbound user shape and does not mirror it.
type PushPayload struct {
	SalesforceID string `json:"salesforceId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

type remoteUserDoc struct {
	ID        *json.Number      `json:"id"`
	Email     *string           `json:"email"`
	Phone     *string           `json:"phone"`
	BirthDate *string           `json:"birthDate"`
	Address   *remoteAddressDoc `json:"address"`
}

type remoteAddressDoc struct {
	Address    *string     `json:"address"`
	City       *string     `json:"city"`
	State      *string     `json:"state"`
	PostalCode *flexString `json:"postalCode"`
	Country    *string     `json:"country"`
}

// flexString decodes a JSON string or number into its string form. The remote
// service serves postal codes both ways.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// ParseRemoteUser decodes a remote user body into the fields a pull may write.
// Absent and null fields stay unset; a body that is not a JSON object, a field
// of the wrong type, or an invalid birthDate is a ParseError.
func ParseRemoteUser(body []byte) (*RemoteUserFields, error) {
	var doc remoteUserDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &ParseError{Reason: "body is not a remote user object", Err: err}
	}

	fields := &RemoteUserFields{
		Email: doc.Email,
		Phone: doc.Phone,
	}

	if doc.ID != nil {
		fields.ExternalID = doc.ID.String()
	}

	if doc.BirthDate != nil {
		t, err := time.Parse(birthDateLayout, *doc.BirthDate)
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("invalid birthDate %q", *doc.BirthDate), Err: err}
		}
		fields.BirthDate = &t
	}

	if doc.Address != nil {
		fields.MailingStreet = doc.Address.Address
		fields.MailingCity = doc.Address.City
		fields.MailingState = doc.Address.State
		fields.MailingCountry = doc.Address.Country
		if doc.Address.PostalCode != nil {
			s := string(*doc.Address.PostalCode)
			fields.MailingPostalCode = &s
		}
	}

	return fields, nil
}

// ApplyRemoteFields overwrites contact details with whatever the pull carried,
// leaving absent fields alone. The local identity key is never touched.
func ApplyRemoteFields(contact *models.Contact, fields *RemoteUserFields) {
	if fields.ExternalID != "" {
		id := fields.ExternalID
		contact.ExternalID = &id
	}
	if fields.Email != nil {
		contact.Email = *fields.Email
	}
	if fields.Phone != nil {
		contact.Phone = *fields.Phone
	}
	if fields.BirthDate != nil {
		t := *fields.BirthDate
		contact.BirthDate = &t
	}
	if fields.MailingStreet != nil {
		contact.MailingStreet = *fields.MailingStreet
	}
	if fields.MailingCity != nil {
		contact.MailingCity = *fields.MailingCity
	}
	if fields.MailingState != nil {
		contact.MailingState = *fields.MailingState
	}
	if fields.MailingPostalCode != nil {
		contact.MailingPostalCode = *fields.MailingPostalCode
	}
	if fields.MailingCountry != nil {
		contact.MailingCountry = *fields.MailingCountry
	}
}

// BuildPushPayload maps a contact onto the outbound shape. Blank or
// whitespace-only name/contact fields are pinned to the placeholder; the
// function is total and never fails.
func BuildPushPayload(contact *models.Contact) PushPayload {
	return PushPayload{
		SalesforceID: contact.ID.String(),
		FirstName:    orPlaceholder(contact.FirstName),
		LastName:     orPlaceholder(contact.LastName),
		Email:        orPlaceholder(contact.Email),
		Phone:        orPlaceholder(contact.Phone),
	}
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknownPlaceholder
	}
	return s
}
