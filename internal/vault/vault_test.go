package vault_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mdouchement/medvault/internal/kv"
	"github.com/mdouchement/medvault/internal/session"
	"github.com/mdouchement/medvault/pkg/libmv"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type redirector struct {
	count int
}

func (r *redirector) Redirect() {
	r.count++
}

type fixture struct {
	server   *httptest.Server
	calls    *int32
	client   libmv.Client
	sessions *session.Store
	gate     *redirector
	logger   *logrus.Logger
	hook     *test.Hook
}

func setup(t *testing.T, handler http.HandlerFunc) *fixture {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := libmv.NewClient(server.Client(), server.URL, "")
	require.NoError(t, err)

	logger, hook := test.NewNullLogger()
	return &fixture{
		server:   server,
		calls:    &calls,
		client:   client,
		sessions: session.NewStore(kv.NewMemory(), logger),
		gate:     new(redirector),
		logger:   logger,
		hook:     hook,
	}
}

func (f *fixture) signIn(t *testing.T, userID, token string) {
	require.NoError(t, f.sessions.Save(session.Identity{UserID: userID, AccessToken: token}))
}

func (f *fixture) requests() int {
	return int(atomic.LoadInt32(f.calls))
}
