package vault

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/mdouchement/medvault/internal/mverror"
)

const defaultMimeType = "application/octet-stream"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// A Payload is a multipart body ready to be sent.
type Payload struct {
	Body        *bytes.Buffer
	ContentType string
}

// A Builder builds the multipart payload of a record submission.
type Builder struct {
	opener Opener
}

// NewBuilder returns a new Builder reading attachments with the given Opener.
func NewBuilder(opener Opener) *Builder {
	if opener == nil {
		opener = FileOpener{}
	}
	return &Builder{opener: opener}
}

// Build writes one part per scalar field, the session's user_id, then one `files` part per attachment.
func (b *Builder) Build(draft Record, userID string) (*Payload, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)

	for _, field := range draft.Fields() {
		if err := w.WriteField(field.Name, field.Value); err != nil {
			return nil, mverror.Wrap(mverror.StorageFailure, err, "could not write "+field.Name)
		}
	}
	if err := w.WriteField("user_id", userID); err != nil {
		return nil, mverror.Wrap(mverror.StorageFailure, err, "could not write user_id")
	}

	for _, attachment := range draft.Attachments {
		if err := b.attach(w, attachment); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, mverror.Wrap(mverror.StorageFailure, err, "could not finalize payload")
	}

	return &Payload{
		Body:        body,
		ContentType: w.FormDataContentType(),
	}, nil
}

func (b *Builder) attach(w *multipart.Writer, attachment AttachmentRef) error {
	r, err := b.opener.Open(attachment.URI)
	if err != nil {
		return &mverror.Error{
			Kind:    mverror.StorageFailure,
			Field:   attachment.DisplayName,
			Message: fmt.Sprintf("could not read attachment %s", attachment.DisplayName),
			Err:     err,
		}
	}
	defer r.Close()

	mimetype := attachment.MimeType
	if mimetype == "" {
		mimetype = defaultMimeType
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="files"; filename="%s"`, quoteEscaper.Replace(attachment.DisplayName)))
	h.Set("Content-Type", mimetype)

	part, err := w.CreatePart(h)
	if err != nil {
		return mverror.Wrap(mverror.StorageFailure, err, "could not create attachment part")
	}

	if _, err = io.Copy(part, r); err != nil {
		return &mverror.Error{
			Kind:    mverror.StorageFailure,
			Field:   attachment.DisplayName,
			Message: fmt.Sprintf("could not read attachment %s", attachment.DisplayName),
			Err:     err,
		}
	}
	return nil
}
