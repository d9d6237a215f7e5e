package vault

import (
	"context"

	"github.com/mdouchement/medvault/internal/mverror"
	"github.com/mdouchement/medvault/internal/session"
	"github.com/mdouchement/medvault/pkg/libmv"
	"github.com/sirupsen/logrus"
)

// A Records fetches the records of the signed-in user. Nothing is cached.
type Records struct {
	client   libmv.Client
	sessions *session.Store
	gate     Redirector
	logger   logrus.FieldLogger
}

// NewRecords returns a new Records.
func NewRecords(client libmv.Client, sessions *session.Store, gate Redirector, logger logrus.FieldLogger) *Records {
	return &Records{
		client:   client,
		sessions: sessions,
		gate:     gate,
		logger:   logger.WithField("component", "records"),
	}
}

// FetchAll returns the records of the signed-in user in the order sent by the record store.
func (r *Records) FetchAll(ctx context.Context) ([]Record, error) {
	identity, ok := r.sessions.Load()
	if !ok {
		r.gate.Redirect()
		return nil, mverror.New(mverror.NotAuthenticated, "not signed in")
	}

	payload, err := r.client.WithBearerToken(identity.AccessToken).Records(ctx, identity.UserID)
	if err != nil {
		r.logger.WithError(err).Warn("could not fetch records")

		if authenticationFailure(err) {
			expire(r.sessions, r.gate, r.logger)
			return nil, mverror.Wrap(mverror.NotAuthenticated, err, "session expired")
		}

		merr := classify(err, "could not fetch records")
		if merr.Kind == mverror.Rejected {
			merr = &mverror.Error{
				Kind:       mverror.Invalid,
				Message:    "could not fetch records",
				StatusCode: merr.StatusCode,
				Err:        err,
			}
		}
		return nil, merr
	}

	records, err := Normalize(payload)
	if err != nil {
		r.logger.WithError(err).Warn("could not normalize records")
		return nil, err
	}
	return records, nil
}

// Find returns the record with the given id from a fresh listing.
func (r *Records) Find(ctx context.Context, id string) (Record, error) {
	records, err := r.FetchAll(ctx)
	if err != nil {
		return Record{}, err
	}

	for _, record := range records {
		if record.ID == id {
			return record, nil
		}
	}
	return Record{}, mverror.New(mverror.Invalid, "record not found")
}
