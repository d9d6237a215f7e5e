package session

import (
	"net/http"
	"time"

	"github.com/mdouchement/medvault/internal/database"
	"github.com/mdouchement/medvault/internal/model"
	"github.com/mdouchement/medvault/internal/mverror"
	"github.com/pkg/errors"
)

type (
	// A Manager manages sessions.
	Manager interface {
		// Create creates and persists a new session for the given user.
		Create(user *model.User, userAgent string) (*model.Session, error)
		// Validate returns the session of the given access token.
		// It fails with 401 for unknown tokens and 498 for expired ones.
		Validate(token string) (*model.Session, error)
		// UserFromSession returns the user of the given session.
		UserFromSession(session *model.Session) (*model.User, error)
		// Revoke deletes the given session.
		Revoke(session *model.Session) error
	}

	manager struct {
		db                        database.Client
		accessTokenExpirationTime time.Duration
	}
)

// NewManager returns a new manager.
func NewManager(db database.Client, accessTokenExpirationTime time.Duration) Manager {
	return &manager{
		db:                        db,
		accessTokenExpirationTime: accessTokenExpirationTime,
	}
}

func (m *manager) Create(user *model.User, userAgent string) (*model.Session, error) {
	now := time.Now()
	if err := m.db.RevokeExpiredSessions(user.ID, now); err != nil {
		return nil, err
	}

	session := &model.Session{
		UserID:      user.ID,
		UserAgent:   userAgent,
		ExpireAt:    now.Add(m.accessTokenExpirationTime).UTC(),
		AccessToken: SecureToken(TokenLength),
	}

	return session, errors.Wrap(m.db.Save(session), "could not persist session")
}

func (m *manager) Validate(token string) (*model.Session, error) {
	session, err := m.db.FindSessionByAccessToken(token)
	if err != nil {
		if m.db.IsNotFound(err) {
			return nil, mverror.NewWithCode(http.StatusUnauthorized, "Invalid login credentials.")
		}
		return nil, errors.Wrap(err, "could not get access to database")
	}

	if !SecureCompare(session.AccessToken, token) {
		return nil, mverror.NewWithCode(http.StatusUnauthorized, "Invalid login credentials.")
	}

	if session.Expired(time.Now()) {
		return nil, mverror.NewWithCode(mverror.StatusExpiredAccessToken, "The provided access token has expired.")
	}

	return session, nil
}

func (m *manager) UserFromSession(session *model.Session) (*model.User, error) {
	user, err := m.db.FindUser(session.UserID)
	if err != nil {
		if m.db.IsNotFound(err) {
			return nil, mverror.NewWithCode(http.StatusUnauthorized, "Invalid login credentials.")
		}
		return nil, errors.Wrap(err, "could not get access to database")
	}
	return user, nil
}

func (m *manager) Revoke(session *model.Session) error {
	err := m.db.Delete(session)
	if err != nil && !m.db.IsNotFound(err) {
		return errors.Wrap(err, "could not revoke session")
	}
	return nil
}
