package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the top-level wattwatch configuration.
type Config struct {
	Storage  Storage  `mapstructure:"storage"`
	Analysis Analysis `mapstructure:"analysis"`
	Output   Output   `mapstructure:"output"`
	Server   Server   `mapstructure:"server"`
}

// Storage selects where household data is persisted.
type Storage struct {
	Backend string `mapstructure:"backend"` // "sqlite" or "json"
	Path    string `mapstructure:"path"`
}

// Analysis holds presentation preferences for analysis output.
type Analysis struct {
	TopN int `mapstructure:"top_n"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `mapstructure:"addr"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied. Variables from a .env file
// in the working directory and WATTWATCH_* environment variables override
// file values.
func Load(cfgFile string) (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("storage.backend", DefaultStorage.Backend)
	v.SetDefault("storage.path", DefaultStorage.Path)
	v.SetDefault("analysis.top_n", DefaultAnalysis.TopN)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
	v.SetDefault("server.addr", DefaultServer.Addr)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultDataPath(cfg.Storage.Backend)
	}
	cfg.Storage.Path = expandPath(cfg.Storage.Path)

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case "sqlite", "json":
	default:
		return fmt.Errorf("storage.backend: unsupported value %q (want sqlite or json)", c.Storage.Backend)
	}
	if c.Analysis.TopN < 0 {
		return fmt.Errorf("analysis.top_n: must not be negative, got %d", c.Analysis.TopN)
	}
	return nil
}

// DefaultDataPath returns the default storage location for a backend.
func DefaultDataPath(backend string) string {
	name := DefaultDBName
	if backend == "json" {
		name = DefaultDocumentName
	}
	return filepath.Join(expandPath(DefaultConfigDir), name)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
