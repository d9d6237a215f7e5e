package kv_test

import (
	"path/filepath"
	"testing"

	"github.com/mdouchement/medvault/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	testStore(t, kv.NewMemory())
}

func TestStorm(t *testing.T) {
	store, err := kv.Storm(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	defer store.Close()

	testStore(t, store)
}

func TestStorm_Persistence(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "session.db")

	store, err := kv.Storm(filename)
	require.NoError(t, err)
	require.NoError(t, store.Set("token", []byte("tok")))
	require.NoError(t, store.Close())

	store, err = kv.Storm(filename)
	require.NoError(t, err)
	defer store.Close()

	v, err := store.Get("token")
	assert.NoError(t, err)
	assert.Equal(t, []byte("tok"), v)
}

func TestSeal(t *testing.T) {
	inner := kv.NewMemory()
	store := kv.Seal(inner, []byte("passphrase"))

	testStore(t, store)

	require.NoError(t, store.Set("token", []byte("tok")))

	raw, err := inner.Get("token")
	assert.NoError(t, err)
	assert.NotContains(t, string(raw), "tok")

	v, err := store.Get("token")
	assert.NoError(t, err)
	assert.Equal(t, []byte("tok"), v)

	_, err = kv.Seal(inner, []byte("wrong")).Get("token")
	assert.Error(t, err)
	assert.False(t, kv.IsNotFound(err))

	require.NoError(t, inner.Set("token", []byte("short")))
	_, err = store.Get("token")
	assert.Error(t, err)
}

func testStore(t *testing.T, store kv.Store) {
	t.Helper()

	_, err := store.Get("missing")
	assert.True(t, kv.IsNotFound(err))

	assert.NoError(t, store.Set("user", []byte(`{"id":"u1"}`)))
	v, err := store.Get("user")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{"id":"u1"}`), v)

	assert.NoError(t, store.Set("user", []byte(`{"id":"u2"}`)))
	v, err = store.Get("user")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{"id":"u2"}`), v)

	assert.NoError(t, store.Remove("user"))
	assert.NoError(t, store.Remove("user"))
	assert.NoError(t, store.Remove("never-set"))

	_, err = store.Get("user")
	assert.True(t, kv.IsNotFound(err))
}
