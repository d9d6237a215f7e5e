package session

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/mdouchement/medvault/internal/kv"
	"github.com/mdouchement/medvault/internal/mverror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	userKey  = "user"
	tokenKey = "token"
)

// An Identity is the authenticated principal and its credentials.
type Identity struct {
	UserID      string
	Profile     map[string]any
	AccessToken string
}

// Valid returns true if the identity can be used to reach the vault.
func (i Identity) Valid() bool {
	return i.UserID != "" && i.AccessToken != ""
}

// A Store persists the current Identity across application runs.
type Store struct {
	mu     sync.Mutex
	kv     kv.Store
	logger logrus.FieldLogger
}

// NewStore returns a new Store backed by the given kv.Store.
func NewStore(store kv.Store, logger logrus.FieldLogger) *Store {
	return &Store{
		kv:     store,
		logger: logger.WithField("component", "session"),
	}
}

// Save overwrites the stored identity.
// The profile is written before the token, only the token answers "is signed in".
func (s *Store) Save(identity Identity) error {
	if !identity.Valid() {
		return mverror.New(mverror.StorageFailure, "could not save an incomplete identity")
	}

	// The stored id is always the identity's one, Load reads it back from the profile.
	profile := clone(identity.Profile)
	profile["id"] = identity.UserID

	payload, err := json.Marshal(profile)
	if err != nil {
		return mverror.Wrap(mverror.StorageFailure, err, "could not serialize user profile")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.kv.Set(userKey, payload); err != nil {
		return mverror.Wrap(mverror.StorageFailure, err, "could not save user profile")
	}
	if err = s.kv.Set(tokenKey, []byte(identity.AccessToken)); err != nil {
		return mverror.Wrap(mverror.StorageFailure, err, "could not save access token")
	}
	return nil
}

// Load returns the stored identity.
// Any read or decoding failure is logged and reported as "not signed in".
func (s *Store) Load() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.kv.Get(tokenKey)
	if err != nil {
		if !kv.IsNotFound(err) {
			s.logger.WithError(err).Warn("could not read access token")
		}
		return Identity{}, false
	}
	if len(token) == 0 {
		return Identity{}, false
	}

	payload, err := s.kv.Get(userKey)
	if err != nil {
		s.logger.WithError(err).Warn("could not read user profile")
		return Identity{}, false
	}

	var profile map[string]any
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err = dec.Decode(&profile); err != nil || profile == nil {
		if err == nil {
			err = errors.New("not a JSON object")
		}
		s.logger.WithError(err).Warn("could not parse user profile")
		return Identity{}, false
	}

	identity := Identity{
		UserID:      UserID(profile),
		Profile:     profile,
		AccessToken: string(token),
	}
	if !identity.Valid() {
		s.logger.Warn("stored user profile has no id")
		return Identity{}, false
	}
	return identity, true
}

// SignedIn returns true if an access token is stored.
func (s *Store) SignedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.kv.Get(tokenKey)
	return err == nil && len(token) > 0
}

// Clear removes the stored identity. Clearing an empty store succeeds.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(tokenKey); err != nil {
		return mverror.Wrap(mverror.StorageFailure, err, "could not remove access token")
	}
	if err := s.kv.Remove(userKey); err != nil {
		return mverror.Wrap(mverror.StorageFailure, err, "could not remove user profile")
	}
	return nil
}

func clone(m map[string]any) map[string]any {
	c := make(map[string]any, len(m)+1)
	for k, v := range m {
		c[k] = v
	}
	return c
}
