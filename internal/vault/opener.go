package vault

import (
	"io"
	"net/url"
	"os"

	"github.com/pkg/errors"
)

// An Opener reads the content referenced by an attachment URI.
type Opener interface {
	Open(uri string) (io.ReadCloser, error)
}

// A FileOpener opens plain paths and file:// URIs from the local filesystem.
type FileOpener struct{}

// Open implements Opener.
func (FileOpener) Open(uri string) (io.ReadCloser, error) {
	filename := uri

	if u, err := url.Parse(uri); err == nil && u.Scheme != "" {
		if u.Scheme != "file" {
			return nil, errors.Errorf("unsupported scheme %s", u.Scheme)
		}
		filename = u.Path
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %s", filename)
	}
	return f, nil
}
