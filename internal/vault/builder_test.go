package vault_test

import (
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/mdouchement/medvault/internal/vault"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryOpener map[string]string

func (m memoryOpener) Open(uri string) (io.ReadCloser, error) {
	content, ok := m[uri]
	if !ok {
		return nil, errors.Errorf("%s not found", uri)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func TestBuilder_Build(t *testing.T) {
	builder := vault.NewBuilder(memoryOpener{"mem://report": "report content"})

	draft := vault.Record{Title: "Checkup", Category: "Consultation", Notes: "all good"}
	draft.Attach(vault.AttachmentRef{URI: "mem://report", DisplayName: `report "final".bin`})

	payload, err := builder.Build(draft, "u1")
	require.NoError(t, err)

	mediatype, params, err := mime.ParseMediaType(payload.ContentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediatype)
	assert.NotEmpty(t, params["boundary"])

	form, err := multipart.NewReader(payload.Body, params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)
	defer form.RemoveAll()

	assert.Equal(t, []string{"all good"}, form.Value["notes"])
	assert.Equal(t, []string{"u1"}, form.Value["user_id"])
	assert.Equal(t, []string{""}, form.Value["weight"])

	require.Len(t, form.File["files"], 1)
	file := form.File["files"][0]
	assert.Equal(t, `report "final".bin`, file.Filename)
	assert.Equal(t, "application/octet-stream", file.Header.Get("Content-Type"))
}

func TestBuilder_BuildInvalid(t *testing.T) {
	builder := vault.NewBuilder(memoryOpener{})

	_, err := builder.Build(vault.Record{Title: "Checkup"}, "u1")
	assert.EqualError(t, err, "category is required")
}
