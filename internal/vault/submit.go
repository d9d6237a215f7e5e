package vault

import (
	"context"

	"github.com/mdouchement/medvault/internal/mverror"
	"github.com/mdouchement/medvault/internal/session"
	"github.com/mdouchement/medvault/pkg/libmv"
	"github.com/sirupsen/logrus"
)

// A Submitter validates, builds and sends record drafts.
type Submitter struct {
	client   libmv.Client
	sessions *session.Store
	gate     Redirector
	builder  *Builder
	logger   logrus.FieldLogger
}

// NewSubmitter returns a new Submitter.
func NewSubmitter(client libmv.Client, sessions *session.Store, gate Redirector, builder *Builder, logger logrus.FieldLogger) *Submitter {
	return &Submitter{
		client:   client,
		sessions: sessions,
		gate:     gate,
		builder:  builder,
		logger:   logger.WithField("component", "submitter"),
	}
}

// Submit sends the draft as a new record of the signed-in user. Exactly one attempt is made.
// Once the draft is valid and a session exists, the draft's attachments are discarded
// whatever the outcome; the user must attach them again to retry.
func (s *Submitter) Submit(ctx context.Context, draft *Record) error {
	if err := draft.Validate(); err != nil {
		return err
	}

	identity, ok := s.sessions.Load()
	if !ok {
		s.gate.Redirect()
		return mverror.New(mverror.NotAuthenticated, "not signed in")
	}

	attachments := len(draft.Attachments)
	defer func() {
		draft.Attachments = nil
	}()

	payload, err := s.builder.Build(*draft, identity.UserID)
	if err != nil {
		s.logger.WithError(err).Warn("could not build record payload")
		return err
	}

	err = s.client.WithBearerToken(identity.AccessToken).CreateRecord(ctx, payload.Body, payload.ContentType)
	if err != nil {
		return s.failure(err)
	}

	s.logger.WithField("attachments", attachments).Info("record created")
	return nil
}

func (s *Submitter) failure(err error) error {
	s.logger.WithError(err).Warn("record submission failed")

	if authenticationFailure(err) {
		expire(s.sessions, s.gate, s.logger)
		return mverror.Wrap(mverror.NotAuthenticated, err, "session expired")
	}

	merr := classify(err, "could not create record")
	if merr.Kind == mverror.Rejected && merr.Message == "" {
		merr.Message = somethingWentWrong
	}
	return merr
}

// expire performs the forced logout following an authentication failure.
func expire(sessions *session.Store, gate Redirector, logger logrus.FieldLogger) {
	if err := sessions.Clear(); err != nil {
		logger.WithError(err).Error("could not clear session")
	}
	gate.Redirect()
}
