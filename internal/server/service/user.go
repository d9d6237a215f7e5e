package service

import (
	"net/http"
	"strings"

	argon2 "github.com/mdouchement/simple-argon2"
	"github.com/mdouchement/medvault/internal/database"
	"github.com/mdouchement/medvault/internal/model"
	"github.com/mdouchement/medvault/internal/mverror"
	"github.com/mdouchement/medvault/internal/server/serializer"
	"github.com/mdouchement/medvault/internal/server/session"
	"github.com/pkg/errors"
)

type (
	// A Render is an arbitrary payload serializable in JSON by the API.
	Render any

	// A UserService handles the accounts.
	UserService interface {
		Register(params RegisterParams) (Render, error)
		Login(params LoginParams) (Render, error)
	}

	// RegisterParams are used to register a user.
	RegisterParams struct {
		Params
		FullName string `form:"full_name" json:"full_name"`
		Email    string `form:"email"     json:"email"`
		Password string `form:"password"  json:"password"`
	}

	// LoginParams are used to login a user.
	LoginParams struct {
		Params
		Username string `form:"username" json:"username"`
		Password string `form:"password" json:"password"`
	}

	userService struct {
		db       database.Client
		sessions session.Manager
	}
)

// NewUser returns a new UserService.
func NewUser(db database.Client, sessions session.Manager) UserService {
	return &userService{
		db:       db,
		sessions: sessions,
	}
}

func (s *userService) Register(params RegisterParams) (Render, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))

	// Check if the email is free to use.
	u, err := s.db.FindUserByMail(email)
	if err != nil && !s.db.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not get access to database")
	}
	if u != nil {
		return nil, mverror.NewWithCode(http.StatusConflict, "This email is already registered.")
	}

	// Initialize user
	user := &model.User{
		FullName: strings.TrimSpace(params.FullName),
		Email:    email,
	}

	// Crypt password
	user.Password, err = argon2.GenerateFromPasswordString(params.Password, argon2.Default)
	if err != nil {
		return nil, errors.Wrap(err, "could not store user password safe")
	}

	// Persist the model
	if err := s.db.Save(user); err != nil {
		if s.db.IsAlreadyExists(err) {
			return nil, mverror.NewWithCode(http.StatusConflict, "This email is already registered.")
		}
		return nil, errors.Wrap(err, "could not persist user")
	}

	return M{
		"message": "Registered",
		"user":    serializer.User(user),
	}, nil
}

func (s *userService) Login(params LoginParams) (Render, error) {
	// Retrieve user
	user, err := s.db.FindUserByMail(strings.ToLower(strings.TrimSpace(params.Username)))
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, mverror.NewWithCode(http.StatusUnauthorized, "Invalid email or password.")
		}
		return nil, errors.Wrap(err, "could not get user")
	}

	// Verify password
	if err = argon2.CompareHashAndPasswordString(user.Password, params.Password); err != nil {
		if err == argon2.ErrMismatchedHashAndPassword {
			return nil, mverror.NewWithCode(http.StatusUnauthorized, "Invalid email or password.")
		}
		return nil, errors.Wrap(err, "could not validate password")
	}

	session, err := s.sessions.Create(user, params.UserAgent)
	if err != nil {
		return nil, errors.Wrap(err, "could not create session")
	}

	return M{
		"user":         serializer.User(user),
		"access_token": session.AccessToken,
	}, nil
}
