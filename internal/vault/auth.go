package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/mdouchement/medvault/internal/mverror"
	"github.com/mdouchement/medvault/internal/session"
	"github.com/mdouchement/medvault/pkg/libmv"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

// A Registration holds the fields of the registration form.
type Registration struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// An Auth authenticates users against the record store and maintains the session.
type Auth struct {
	client   libmv.Client
	sessions *session.Store
	logger   logrus.FieldLogger
}

// NewAuth returns a new Auth.
func NewAuth(client libmv.Client, sessions *session.Store, logger logrus.FieldLogger) *Auth {
	return &Auth{
		client:   client,
		sessions: sessions,
		logger:   logger.WithField("component", "auth"),
	}
}

// Login authenticates the credentials and saves the resulting identity before returning.
func (a *Auth) Login(ctx context.Context, username, password string) (session.Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return session.Identity{}, mverror.New(mverror.MissingCredentials, "username and password are required")
	}

	login, err := a.client.Login(ctx, username, password)
	if err != nil {
		a.logger.WithError(err).Warn("login failed")
		return session.Identity{}, classify(err, "could not login")
	}

	identity, err := identify(login)
	if err != nil {
		a.logger.WithError(err).Warn("unexpected login response")
		return session.Identity{}, err
	}

	if err = a.sessions.Save(identity); err != nil {
		a.logger.WithError(err).Error("could not save session")
		return session.Identity{}, err
	}

	a.logger.WithField("user_id", identity.UserID).Info("logged in")
	return identity, nil
}

// Register creates a new account. The user is not signed in.
func (a *Auth) Register(ctx context.Context, registration Registration) error {
	if strings.TrimSpace(registration.Email) == "" || registration.Password == "" {
		return mverror.New(mverror.MissingCredentials, "email and password are required")
	}
	if registration.Password != registration.ConfirmPassword {
		return &mverror.Error{
			Kind:    mverror.MissingRequiredField,
			Field:   "confirm_password",
			Message: "passwords do not match",
		}
	}

	err := a.client.Register(ctx, libmv.Registration{
		FullName: strings.TrimSpace(registration.FullName),
		Email:    strings.TrimSpace(registration.Email),
		Password: registration.Password,
	})
	if err != nil {
		a.logger.WithError(err).Warn("registration failed")
		return classify(err, "could not register")
	}
	return nil
}

// Logout revokes the access token remotely when possible and clears the session.
func (a *Auth) Logout(ctx context.Context) error {
	if identity, ok := a.sessions.Load(); ok {
		if err := a.client.WithBearerToken(identity.AccessToken).Logout(ctx); err != nil {
			a.logger.WithError(err).Warn("could not revoke access token")
		}
	}

	return a.sessions.Clear()
}

// identify builds the identity from a login payload.
func identify(login *libmv.Login) (session.Identity, error) {
	if login.AccessToken == "" {
		return session.Identity{}, mverror.New(mverror.MalformedResponse, "missing access_token")
	}

	user, err := fastjson.ParseBytes(login.User)
	if err != nil || user.Type() != fastjson.TypeObject {
		return session.Identity{}, mverror.New(mverror.MalformedResponse, "missing user")
	}

	id := identifier(user, "id", "_id")
	if id == "" {
		return session.Identity{}, mverror.New(mverror.MalformedResponse, "missing user id")
	}

	var profile map[string]any
	dec := json.NewDecoder(bytes.NewReader(login.User))
	dec.UseNumber()
	if err = dec.Decode(&profile); err != nil {
		return session.Identity{}, mverror.Wrap(mverror.MalformedResponse, err, "could not parse user")
	}

	return session.Identity{
		UserID:      id,
		Profile:     profile,
		AccessToken: login.AccessToken,
	}, nil
}
