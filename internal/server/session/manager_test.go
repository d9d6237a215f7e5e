package session_test

import (
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/mdouchement/medvault/internal/database"
	"github.com/mdouchement/medvault/internal/model"
	"github.com/mdouchement/medvault/internal/mverror"
	"github.com/mdouchement/medvault/internal/server/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (database.Client, *model.User) {
	db, err := database.StormOpen(filepath.Join(t.TempDir(), "medvault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	user := &model.User{Email: "george.abitbol@nowhere.lan"}
	require.NoError(t, db.Save(user))
	return db, user
}

func TestManager(t *testing.T) {
	db, user := setup(t)
	m := session.NewManager(db, time.Hour)

	s, err := m.Create(user, "mvc")
	require.NoError(t, err)
	assert.Len(t, s.AccessToken, session.TokenLength)
	assert.Equal(t, user.ID, s.UserID)

	validated, err := m.Validate(s.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, s.ID, validated.ID)

	u, err := m.UserFromSession(validated)
	require.NoError(t, err)
	assert.Equal(t, user.Email, u.Email)

	require.NoError(t, m.Revoke(validated))
	require.NoError(t, m.Revoke(validated))

	_, err = m.Validate(s.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, mverror.StatusCode(err))
}

func TestManager_Expired(t *testing.T) {
	db, user := setup(t)
	m := session.NewManager(db, -time.Minute)

	s, err := m.Create(user, "mvc")
	require.NoError(t, err)

	_, err = m.Validate(s.AccessToken)
	assert.Equal(t, mverror.StatusExpiredAccessToken, mverror.StatusCode(err))
	assert.EqualError(t, err, "The provided access token has expired.")
}
