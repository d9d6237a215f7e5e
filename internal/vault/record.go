// Package vault implements the authentication and the medical records synchronization with a record store.
package vault

import (
	"strings"

	"github.com/mdouchement/medvault/internal/mverror"
	"github.com/pkg/errors"
)

// An AttachmentRef references a local file attached to a record draft.
type AttachmentRef struct {
	URI         string `json:"uri"`
	MimeType    string `json:"mimeType"`
	DisplayName string `json:"displayName"`
}

// A Record is a medical-activity entry.
// ID is assigned by the record store, UserID is always taken from the session.
type Record struct {
	ID            string          `json:"_id,omitempty"`
	Title         string          `json:"title"`
	Category      string          `json:"category"`
	Date          string          `json:"date"`
	Doctor        string          `json:"doctor"`
	Hospital      string          `json:"hospital"`
	Location      string          `json:"location"`
	Symptoms      string          `json:"symptoms"`
	Diagnosis     string          `json:"diagnosis"`
	Prescription  string          `json:"prescription"`
	BloodPressure string          `json:"bp"`
	Weight        string          `json:"weight"`
	FollowUpDate  string          `json:"followUpDate"`
	Notes         string          `json:"notes"`
	UserID        string          `json:"user_id"`
	Attachments   []AttachmentRef `json:"files"`
}

// A Field is a named scalar value of a Record.
type Field struct {
	Name  string
	Value string
}

// Fields returns the scalar fields of the record in wire order, user_id excluded.
func (r *Record) Fields() []Field {
	return []Field{
		{Name: "title", Value: r.Title},
		{Name: "category", Value: r.Category},
		{Name: "date", Value: r.Date},
		{Name: "doctor", Value: r.Doctor},
		{Name: "hospital", Value: r.Hospital},
		{Name: "location", Value: r.Location},
		{Name: "symptoms", Value: r.Symptoms},
		{Name: "diagnosis", Value: r.Diagnosis},
		{Name: "prescription", Value: r.Prescription},
		{Name: "bp", Value: r.BloodPressure},
		{Name: "weight", Value: r.Weight},
		{Name: "followUpDate", Value: r.FollowUpDate},
		{Name: "notes", Value: r.Notes},
	}
}

// Validate checks the required fields. Whitespace-only values are blank.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return mverror.MissingField("title")
	}
	if strings.TrimSpace(r.Category) == "" {
		return mverror.MissingField("category")
	}
	return nil
}

// Attach appends an attachment to the draft.
func (r *Record) Attach(ref AttachmentRef) {
	r.Attachments = append(r.Attachments, ref)
}

// RemoveAttachment removes the attachment at the given index, keeping the order of the others.
func (r *Record) RemoveAttachment(i int) error {
	if i < 0 || i >= len(r.Attachments) {
		return errors.Errorf("no attachment at index %d", i)
	}
	r.Attachments = append(r.Attachments[:i:i], r.Attachments[i+1:]...)
	return nil
}
