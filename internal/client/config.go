package client

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/mdouchement/medvault/internal/logger"
	"github.com/mdouchement/medvault/pkg/libmv"
	"github.com/pkg/errors"
)

// EnvPrefix is the prefix of the environment variables overriding the configuration.
// Nested keys are separated by a double underscore (e.g. MEDVAULT_LOG__LEVEL).
const EnvPrefix = "MEDVAULT_"

// A Config holds client's configuration.
type Config struct {
	Endpoint string
	Realm    string
	DataPath string
	Sealed   bool
	Log      logger.Config
}

// LoadConfig reads the configuration from the defaults, the given YAML file (optional) and the environment.
func LoadConfig(filename string) (Config, error) {
	workdir, err := os.UserHomeDir()
	if err != nil {
		workdir = "."
	}
	workdir = filepath.Join(workdir, ".medvault")

	konf := koanf.New(".")
	err = konf.Load(confmap.Provider(map[string]any{
		"endpoint":  "http://localhost:5000",
		"realm":     libmv.DefaultRealm,
		"data_path": filepath.Join(workdir, "session.db"),
		"sealed":    false,
		"log.file":  filepath.Join(workdir, "mvc.log"),
		"log.level": "info",
	}, "."), nil)
	if err != nil {
		return Config{}, errors.Wrap(err, "could not load defaults")
	}

	if filename != "" {
		if err = konf.Load(file.Provider(filename), yaml.Parser()); err != nil {
			return Config{}, errors.Wrapf(err, "could not load %s", filename)
		}
	}

	err = konf.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil)
	if err != nil {
		return Config{}, errors.Wrap(err, "could not load environment")
	}

	return Config{
		Endpoint: konf.String("endpoint"),
		Realm:    konf.String("realm"),
		DataPath: konf.String("data_path"),
		Sealed:   konf.Bool("sealed"),
		Log: logger.Config{
			Filename: konf.String("log.file"),
			Level:    konf.String("log.level"),
		},
	}, nil
}
