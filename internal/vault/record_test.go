package vault_test

import (
	"testing"

	"github.com/mdouchement/medvault/internal/vault"
	"github.com/stretchr/testify/assert"
)

func TestRecord_Attachments(t *testing.T) {
	var draft vault.Record
	for _, name := range []string{"a.pdf", "b.png", "c.jpg"} {
		draft.Attach(vault.AttachmentRef{URI: name, DisplayName: name})
	}

	assert.NoError(t, draft.RemoveAttachment(1))
	assert.Equal(t, []vault.AttachmentRef{
		{URI: "a.pdf", DisplayName: "a.pdf"},
		{URI: "c.jpg", DisplayName: "c.jpg"},
	}, draft.Attachments)

	assert.Error(t, draft.RemoveAttachment(2))
	assert.Error(t, draft.RemoveAttachment(-1))
	assert.Len(t, draft.Attachments, 2)
}

func TestRecord_Fields(t *testing.T) {
	record := vault.Record{Title: "MRI", FollowUpDate: "01/01/2025", UserID: "u1"}

	fields := record.Fields()
	assert.Len(t, fields, 13)
	assert.Equal(t, vault.Field{Name: "title", Value: "MRI"}, fields[0])
	assert.Equal(t, vault.Field{Name: "followUpDate", Value: "01/01/2025"}, fields[11])
	for _, f := range fields {
		assert.NotEqual(t, "user_id", f.Name)
	}
}
