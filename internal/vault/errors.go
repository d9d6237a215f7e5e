package vault

import (
	"net/http"

	"github.com/mdouchement/medvault/internal/mverror"
	"github.com/mdouchement/medvault/pkg/libmv"
	"github.com/pkg/errors"
)

const somethingWentWrong = "Something went wrong"

// A Redirector forces the navigation to the unauthenticated root.
type Redirector interface {
	Redirect()
}

// classify maps a wire client error to the error taxonomy.
// A rejection carries the server message and status only.
func classify(err error, message string) *mverror.Error {
	var merr *libmv.Error
	if errors.As(err, &merr) {
		return &mverror.Error{
			Kind:       mverror.Rejected,
			Message:    merr.Message,
			StatusCode: merr.StatusCode,
		}
	}

	var rerr *libmv.ResponseError
	if errors.As(err, &rerr) {
		return mverror.Wrap(mverror.MalformedResponse, err, message)
	}

	return mverror.Wrap(mverror.Network, err, message)
}

// authenticationFailure returns true if err is a rejection of the bearer token.
func authenticationFailure(err error) bool {
	var merr *libmv.Error
	if !errors.As(err, &merr) {
		return false
	}
	return merr.StatusCode == http.StatusUnauthorized || merr.StatusCode == mverror.StatusExpiredAccessToken
}
