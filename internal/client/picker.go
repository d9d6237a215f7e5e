package client

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdouchement/medvault/internal/vault"
	"github.com/pkg/errors"
)

// A Picker turns local paths into attachments.
// Only PDF documents and images are accepted.
type Picker struct{}

// Pick returns the attachments of the given paths in the same order.
func (Picker) Pick(paths ...string) ([]vault.AttachmentRef, error) {
	refs := make([]vault.AttachmentRef, 0, len(paths))

	for _, path := range paths {
		ref, err := pick(path)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	return refs, nil
}

func pick(path string) (vault.AttachmentRef, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return vault.AttachmentRef{}, errors.Wrap(err, "could not resolve path")
	}

	info, err := os.Stat(path)
	if err != nil {
		return vault.AttachmentRef{}, errors.Wrapf(err, "could not pick %s", path)
	}
	if !info.Mode().IsRegular() {
		return vault.AttachmentRef{}, errors.Errorf("%s is not a regular file", path)
	}

	mimetype, err := detect(path)
	if err != nil {
		return vault.AttachmentRef{}, err
	}
	if mimetype != "application/pdf" && !strings.HasPrefix(mimetype, "image/") {
		return vault.AttachmentRef{}, errors.Errorf("%s is not a PDF or an image (%s)", filepath.Base(path), mimetype)
	}

	return vault.AttachmentRef{
		URI:         path,
		MimeType:    mimetype,
		DisplayName: filepath.Base(path),
	}, nil
}

// detect returns the MIME type from the file extension, falling back to content sniffing.
func detect(path string) (string, error) {
	if mimetype := mime.TypeByExtension(filepath.Ext(path)); mimetype != "" {
		mediatype, _, err := mime.ParseMediaType(mimetype)
		if err == nil {
			return mediatype, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "could not open %s", path)
	}
	defer f.Close()

	header := make([]byte, 512)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", errors.Wrapf(err, "could not read %s", path)
	}

	mediatype, _, _ := mime.ParseMediaType(http.DetectContentType(header[:n]))
	return mediatype, nil
}
