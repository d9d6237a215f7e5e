package database

import (
	"time"

	"github.com/mdouchement/medvault/internal/model"
)

type (
	// A Client can interacts with the database.
	Client interface {
		// Save inserts or updates the entry in database with the given model.
		Save(m model.Model) error
		// Delete deletes the entry in database with the given model.
		Delete(m model.Model) error
		// Close the database.
		Close() error
		// IsNotFound returns true if err is a not found error.
		IsNotFound(err error) bool
		// IsAlreadyExists returns true if err is an unique constraint violation.
		IsAlreadyExists(err error) bool

		UserInteraction
		SessionInteraction
		RecordInteraction
	}

	// An UserInteraction defines all the methods used to interact with a user record.
	UserInteraction interface {
		// FindUser returns the user for the given id (UUID).
		FindUser(id string) (*model.User, error)
		// FindUserByMail returns the user for the given email.
		FindUserByMail(email string) (*model.User, error)
	}

	// An SessionInteraction defines all the methods used to interact with a session record.
	SessionInteraction interface {
		// FindSessionByAccessToken returns the session for the given access token.
		FindSessionByAccessToken(token string) (*model.Session, error)
		// FindSessionsByUserID returns all sessions for the given user id.
		FindSessionsByUserID(userID string) ([]*model.Session, error)
		// RevokeExpiredSessions removes from database all the sessions of the given user expired at the given time.
		RevokeExpiredSessions(userID string, t time.Time) error
	}

	// A RecordInteraction defines all the methods used to interact with medical record(s).
	RecordInteraction interface {
		// FindRecordByUserID returns the record for the given id and user id (UUID).
		FindRecordByUserID(id, userID string) (*model.Record, error)
		// FindRecordsByUserID returns all the records of the given user, newest first.
		FindRecordsByUserID(userID string) ([]*model.Record, error)
	}
)
