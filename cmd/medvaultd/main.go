package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/mdouchement/medvault/internal/database"
	"github.com/mdouchement/medvault/internal/server"
	"github.com/mdouchement/medvault/pkg/libmv"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
)

const (
	dbname    = "medvault.db"
	envPrefix = "MEDVAULTD_"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg string
)

func main() {
	c := &coral.Command{
		Use:     "medvaultd",
		Short:   "MedVault development server for medical records",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    coral.ExactArgs(0),
	}
	initCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(initCmd)

	reindexCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(reindexCmd)

	serverCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(serverCmd)

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func dbnameWithPath(path string) string {
	if len(path) == 0 {
		return dbname
	}
	return filepath.Join(path, dbname)
}

// load reads the configuration from the defaults, the configuration file and the environment.
func load() (*koanf.Koanf, error) {
	konf := koanf.New(".")
	err := konf.Load(confmap.Provider(map[string]any{
		"address":                  "localhost:5000",
		"realm":                    libmv.DefaultRealm,
		"database_path":            "",
		"files_path":               "files",
		"no_registration":          false,
		"session.access_token_ttl": "24h",
	}, "."), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not load defaults")
	}

	if cfg != "" {
		if err = konf.Load(file.Provider(cfg), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "could not load %s", cfg)
		}
	}

	err = konf.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil)
	return konf, errors.Wrap(err, "could not load environment")
}

var (
	initCmd = &coral.Command{
		Use:   "init",
		Short: "Init the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			return database.StormInit(dbnameWithPath(konf.String("database_path")))
		},
	}

	//
	reindexCmd = &coral.Command{
		Use:   "reindex",
		Short: "Reindex the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			return database.StormReIndex(dbnameWithPath(konf.String("database_path")))
		},
	}

	//
	//
	serverCmd = &coral.Command{
		Use:   "server",
		Short: "Start server",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			ttl, err := time.ParseDuration(konf.String("session.access_token_ttl"))
			if err != nil {
				return errors.Wrap(err, "invalid session.access_token_ttl")
			}
			if ttl <= 0 {
				return errors.New("session.access_token_ttl must be positive")
			}

			filesPath := konf.String("files_path")
			if err = os.MkdirAll(filesPath, 0o700); err != nil {
				return errors.Wrap(err, "could not create files directory")
			}

			db, err := database.StormOpen(dbnameWithPath(konf.String("database_path")))
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			engine := server.EchoEngine(server.IOC{
				Version:                   version,
				Database:                  db,
				Realm:                     konf.String("realm"),
				FilesPath:                 filesPath,
				NoRegistration:            konf.Bool("no_registration"),
				AccessTokenExpirationTime: ttl,
			})
			server.PrintRoutes(engine)

			address := konf.String("address")
			message := "could not run server"
			log.Printf("Server listening on %s\n", address)
			parts := strings.Split(address, ":")
			if len(parts) == 2 && parts[0] == "unix" {
				socketFile := parts[1]
				if _, err := os.Stat(socketFile); err == nil {
					log.Printf("Removing existing %s\n", socketFile)
					os.Remove(socketFile)
				}
				defer os.Remove(socketFile)
				listener, err := net.Listen(parts[0], socketFile)
				if err != nil {
					return err
				}
				return errors.Wrap(engine.Server.Serve(listener), message)
			}
			return errors.Wrap(engine.Start(address), message)
		},
	}
)
