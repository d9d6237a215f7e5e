package session_test

import (
	"testing"

	"github.com/mdouchement/medvault/internal/kv"
	"github.com/mdouchement/medvault/internal/mverror"
	"github.com/mdouchement/medvault/internal/session"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	logger, _ := test.NewNullLogger()
	store := session.NewStore(kv.NewMemory(), logger)

	identity := session.Identity{
		UserID:      "u1",
		Profile:     map[string]any{"id": "u1", "email": "george.abitbol@nowhere.lan"},
		AccessToken: "t1",
	}

	require.NoError(t, store.Clear())
	require.NoError(t, store.Save(identity))

	loaded, ok := store.Load()
	assert.True(t, ok)
	assert.Equal(t, "u1", loaded.UserID)
	assert.Equal(t, "t1", loaded.AccessToken)
	assert.Equal(t, "george.abitbol@nowhere.lan", loaded.Profile["email"])
	assert.True(t, store.SignedIn())

	identity.AccessToken = "t2"
	require.NoError(t, store.Save(identity))
	loaded, ok = store.Load()
	assert.True(t, ok)
	assert.Equal(t, "t2", loaded.AccessToken)
}

func TestStore_Absence(t *testing.T) {
	logger, hook := test.NewNullLogger()
	store := session.NewStore(kv.NewMemory(), logger)

	_, ok := store.Load()
	assert.False(t, ok)
	assert.False(t, store.SignedIn())
	assert.Empty(t, hook.AllEntries(), "absence is not a failure")

	require.NoError(t, store.Save(session.Identity{UserID: "u1", AccessToken: "t1"}))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	_, ok = store.Load()
	assert.False(t, ok)
}

func TestStore_Save(t *testing.T) {
	logger, _ := test.NewNullLogger()
	store := session.NewStore(kv.NewMemory(), logger)

	err := store.Save(session.Identity{UserID: "u1"})
	assert.True(t, mverror.Is(err, mverror.StorageFailure))

	// the id is kept in the profile when the remote object does not carry one
	require.NoError(t, store.Save(session.Identity{UserID: "42", AccessToken: "t1", Profile: map[string]any{"_id": "42"}}))
	loaded, ok := store.Load()
	assert.True(t, ok)
	assert.Equal(t, "42", loaded.UserID)
}

func TestStore_SaveConflictingProfileID(t *testing.T) {
	logger, _ := test.NewNullLogger()
	store := session.NewStore(kv.NewMemory(), logger)

	for _, id := range []any{"someone-else", 42, map[string]any{"x": 1}} {
		profile := map[string]any{"id": id, "email": "george.abitbol@nowhere.lan"}
		require.NoError(t, store.Save(session.Identity{UserID: "u1", Profile: profile, AccessToken: "tok"}))

		loaded, ok := store.Load()
		require.True(t, ok, "%v", id)
		assert.Equal(t, "u1", loaded.UserID)
		assert.Equal(t, "tok", loaded.AccessToken)
		assert.Equal(t, "george.abitbol@nowhere.lan", loaded.Profile["email"])
		assert.Equal(t, id, profile["id"], "the caller's profile is left untouched")
	}
}

func TestStore_SaveFailure(t *testing.T) {
	logger, _ := test.NewNullLogger()
	store := session.NewStore(&failingStore{Store: kv.NewMemory()}, logger)

	err := store.Save(session.Identity{UserID: "u1", AccessToken: "t1"})
	assert.True(t, mverror.Is(err, mverror.StorageFailure))
	assert.False(t, store.SignedIn())
}

func TestStore_CorruptProfile(t *testing.T) {
	logger, hook := test.NewNullLogger()
	memory := kv.NewMemory()
	store := session.NewStore(memory, logger)

	require.NoError(t, memory.Set("token", []byte("t1")))
	require.NoError(t, memory.Set("user", []byte("{not json")))

	_, ok := store.Load()
	assert.False(t, ok)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "could not parse user profile", hook.LastEntry().Message)

	hook.Reset()
	require.NoError(t, memory.Set("user", []byte(`{"email":"george.abitbol@nowhere.lan"}`)))
	_, ok = store.Load()
	assert.False(t, ok)
	assert.Equal(t, "stored user profile has no id", hook.LastEntry().Message)
}

func TestStore_TokenWithoutProfile(t *testing.T) {
	logger, hook := test.NewNullLogger()
	memory := kv.NewMemory()
	store := session.NewStore(memory, logger)

	require.NoError(t, memory.Set("token", []byte("t1")))

	_, ok := store.Load()
	assert.False(t, ok)
	assert.Equal(t, "could not read user profile", hook.LastEntry().Message)
}

func TestStore_SealedWrongPassphrase(t *testing.T) {
	logger, hook := test.NewNullLogger()
	memory := kv.NewMemory()

	store := session.NewStore(kv.Seal(memory, []byte("correct horse")), logger)
	require.NoError(t, store.Save(session.Identity{UserID: "u1", AccessToken: "t1"}))

	identity, ok := store.Load()
	assert.True(t, ok)
	assert.Equal(t, "u1", identity.UserID)

	store = session.NewStore(kv.Seal(memory, []byte("battery staple")), logger)
	_, ok = store.Load()
	assert.False(t, ok)
	assert.Equal(t, "could not read access token", hook.LastEntry().Message)
}

func TestUserID(t *testing.T) {
	assert.Equal(t, "u1", session.UserID(map[string]any{"id": "u1", "_id": "u2"}))
	assert.Equal(t, "u2", session.UserID(map[string]any{"_id": "u2"}))
	assert.Equal(t, "u2", session.UserID(map[string]any{"id": "", "_id": "u2"}))
	assert.Equal(t, "42", session.UserID(map[string]any{"id": float64(42)}))
	assert.Equal(t, "", session.UserID(map[string]any{"id": true}))
	assert.Equal(t, "", session.UserID(nil))
}

//
// Helpers
//

type failingStore struct {
	kv.Store
}

func (s *failingStore) Set(key string, value []byte) error {
	if key == "token" {
		return errors.New("disk full")
	}
	return s.Store.Set(key, value)
}
