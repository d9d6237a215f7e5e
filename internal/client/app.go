package client

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/mdouchement/medvault/internal/gate"
	"github.com/mdouchement/medvault/internal/kv"
	"github.com/mdouchement/medvault/internal/logger"
	"github.com/mdouchement/medvault/internal/mverror"
	"github.com/mdouchement/medvault/internal/session"
	"github.com/mdouchement/medvault/internal/vault"
	"github.com/mdouchement/medvault/pkg/libmv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// An App wires the vault components behind the commands of the terminal client.
type App struct {
	out      io.Writer
	prompter Prompter
	picker   Picker
	logger   logrus.FieldLogger
	store    kv.Store

	sessions  *session.Store
	gate      *gate.Gate
	auth      *vault.Auth
	submitter *vault.Submitter
	records   *vault.Records
}

// An Option configures an App.
type Option func(*options)

type options struct {
	http   *http.Client
	store  kv.Store
	logger logrus.FieldLogger
}

// WithHTTPClient sets the HTTP client used to reach the record store.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.http = c
	}
}

// WithStore sets the local storage instead of the one defined by the configuration.
func WithStore(store kv.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithLogger sets the logger instead of the one defined by the configuration.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New returns a new App.
func New(cfg Config, prompter Prompter, out io.Writer, opts ...Option) (*App, error) {
	o := &options{
		http: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.Filename), 0o700); err != nil {
			return nil, errors.Wrap(err, "could not create log directory")
		}
		l, err := logger.New(cfg.Log)
		if err != nil {
			return nil, errors.Wrap(err, "could not create logger")
		}
		o.logger = l
	}

	if o.store == nil {
		store, err := open(cfg, prompter)
		if err != nil {
			return nil, err
		}
		o.store = store
	}

	client, err := libmv.NewClient(o.http, cfg.Endpoint, cfg.Realm)
	if err != nil {
		o.store.Close()
		return nil, errors.Wrap(err, "could not reach MedVault endpoint")
	}

	app := &App{
		out:      out,
		prompter: prompter,
		logger:   o.logger,
		store:    o.store,
	}
	app.sessions = session.NewStore(o.store, o.logger)
	app.gate = gate.New(app.sessions, &navigator{out: out}, o.logger)
	app.auth = vault.NewAuth(client, app.sessions, o.logger)
	app.submitter = vault.NewSubmitter(client, app.sessions, app.gate, vault.NewBuilder(vault.FileOpener{}), o.logger)
	app.records = vault.NewRecords(client, app.sessions, app.gate, o.logger)

	return app, nil
}

// Close releases the local storage.
func (a *App) Close() error {
	return a.store.Close()
}

func open(cfg Config, prompter Prompter) (kv.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DataPath), 0o700); err != nil {
		return nil, errors.Wrap(err, "could not create data directory")
	}

	store, err := kv.Storm(cfg.DataPath)
	if err != nil {
		return nil, errors.Wrap(err, "could not open session database")
	}

	if !cfg.Sealed {
		return store, nil
	}

	passphrase, err := prompter.Password("Passphrase: ")
	if err != nil {
		store.Close()
		return nil, err
	}
	return kv.Seal(store, []byte(passphrase)), nil
}

// fail logs the raw error and returns the message displayed to the user.
func (a *App) fail(err error, message string) error {
	a.logger.WithError(err).WithField("kind", mverror.KindOf(err)).Error(message)
	return errors.New(mverror.UserMessage(err))
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
