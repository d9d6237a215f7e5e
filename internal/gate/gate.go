// Package gate decides which screens are reachable according to the session state.
package gate

import (
	"github.com/mdouchement/medvault/internal/mverror"
	"github.com/mdouchement/medvault/internal/session"
	"github.com/sirupsen/logrus"
)

// A Root is a navigation root.
type Root int

// Navigation roots.
const (
	RootUnauthenticated Root = iota
	RootAuthenticated
)

// String implements fmt.Stringer.
func (r Root) String() string {
	if r == RootAuthenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// A Screen is an entry point of the presentation layer.
type Screen string

// Screens.
const (
	Login         Screen = "login"
	Register      Screen = "register"
	Dashboard     Screen = "dashboard"
	AddRecord     Screen = "add-record"
	RecordDetails Screen = "record-details"
)

var roots = map[Root][]Screen{
	RootUnauthenticated: {Login, Register},
	RootAuthenticated:   {Dashboard, AddRecord, RecordDetails},
}

// Reachable returns the screens mounted under the given root.
func Reachable(root Root) []Screen {
	return append([]Screen(nil), roots[root]...)
}

// RequiresSession returns true if the screen is only reachable with a session.
func RequiresSession(screen Screen) bool {
	for _, s := range roots[RootAuthenticated] {
		if s == screen {
			return true
		}
	}
	return false
}

// A Navigator mounts navigation roots. It is implemented by the presentation layer.
type Navigator interface {
	// Mount replaces the current navigation root.
	Mount(root Root)
}

// A Sessions is the part of the session store needed by the gate.
type Sessions interface {
	Load() (session.Identity, bool)
}

// A Gate decides the reachable root from the session store.
type Gate struct {
	sessions  Sessions
	navigator Navigator
	logger    logrus.FieldLogger
}

// New returns a new Gate.
func New(sessions Sessions, navigator Navigator, logger logrus.FieldLogger) *Gate {
	return &Gate{
		sessions:  sessions,
		navigator: navigator,
		logger:    logger.WithField("component", "gate"),
	}
}

// Resolve returns the root matching the current session state.
func (g *Gate) Resolve() Root {
	if _, ok := g.sessions.Load(); ok {
		return RootAuthenticated
	}
	return RootUnauthenticated
}

// Start resolves and mounts the current root.
// It is called once at startup and after every authentication outcome.
func (g *Gate) Start() Root {
	root := g.Resolve()
	g.logger.WithField("root", root).Debug("mount")
	g.navigator.Mount(root)
	return root
}

// Enter revalidates the session each time a screen is entered.
// Entering an authenticated screen without session redirects to the unauthenticated root.
func (g *Gate) Enter(screen Screen) (session.Identity, error) {
	identity, ok := g.sessions.Load()
	if !RequiresSession(screen) {
		return identity, nil
	}

	if !ok {
		g.logger.WithField("screen", screen).Info("no session, redirecting")
		g.Redirect()
		return session.Identity{}, mverror.New(mverror.NotAuthenticated, "not signed in")
	}
	return identity, nil
}

// Redirect forces the navigation to the unauthenticated root.
func (g *Gate) Redirect() {
	g.navigator.Mount(RootUnauthenticated)
}
