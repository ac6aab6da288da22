package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const ConfigFile = "tweetql.toml"

const (
	DefaultPort          = 4000
	DefaultPath          = "/graphql"
	DefaultMoviesBaseURL = "https://yts.mx/api/v2"
	DefaultMovieTimeout  = 10
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
)

// Config holds the tweetql configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Movies MoviesConfig `toml:"movies"`
	Seed   SeedConfig   `toml:"seed"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port       int    `toml:"port"`
	Path       string `toml:"path"`
	Playground *bool  `toml:"playground,omitempty"`
}

// MoviesConfig points at the upstream movie listing API.
type MoviesConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// SeedConfig selects where users and initial tweets come from.
// An empty File means the built-in seed.
type SeedConfig struct {
	File  string `toml:"file,omitempty"`
	Watch bool   `toml:"watch,omitempty"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns a Config with default values.
func Default() *Config {
	playground := true
	return &Config{
		Server: ServerConfig{
			Port:       DefaultPort,
			Path:       DefaultPath,
			Playground: &playground,
		},
		Movies: MoviesConfig{
			BaseURL:        DefaultMoviesBaseURL,
			TimeoutSeconds: DefaultMovieTimeout,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads configuration from the given file.
// Returns default config if the file doesn't exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

// applyDefaults fills zero values with their defaults.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.Path == "" {
		c.Server.Path = d.Server.Path
	}
	if c.Server.Playground == nil {
		c.Server.Playground = d.Server.Playground
	}
	if c.Movies.BaseURL == "" {
		c.Movies.BaseURL = d.Movies.BaseURL
	}
	if c.Movies.TimeoutSeconds == 0 {
		c.Movies.TimeoutSeconds = d.Movies.TimeoutSeconds
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if !strings.HasPrefix(c.Server.Path, "/") {
		return fmt.Errorf("server.path %q must start with /", c.Server.Path)
	}
	if c.Movies.TimeoutSeconds < 0 {
		return fmt.Errorf("movies.timeout_seconds must not be negative")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format %q must be console or json", c.Log.Format)
	}
	return nil
}

// Save writes the configuration to the given file.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// PlaygroundEnabled reports whether GET requests on the GraphQL path serve the playground.
func (c *Config) PlaygroundEnabled() bool {
	return c.Server.Playground == nil || *c.Server.Playground
}

// MovieTimeout returns the upstream request timeout.
func (c *Config) MovieTimeout() time.Duration {
	return time.Duration(c.Movies.TimeoutSeconds) * time.Second
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
