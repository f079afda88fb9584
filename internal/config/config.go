package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
)

// Config holds the application configuration
type Config struct {
	// Environment
	Environment string `yaml:"environment"`
	Port        string `yaml:"port"`

	// Observability
	SentryDSN string `yaml:"sentry_dsn"` // Sentry DSN for error tracking

	// Persistence
	// - "badger": embedded store under DataDir (default)
	// - "postgres": gorm with DatabaseURL
	StoreDriver string `yaml:"store_driver"`
	DatabaseURL string `yaml:"database_url"`
	DataDir     string `yaml:"data_dir"`

	// Generated artifacts go to S3 when a bucket is set, otherwise OutputDir
	OutputDir string `yaml:"output_dir"`
	S3Bucket  string `yaml:"s3_bucket"`
	S3Prefix  string `yaml:"s3_prefix"`

	// Rendering
	SoundFont     string        `yaml:"soundfont"`
	FluidSynth    string        `yaml:"fluidsynth"`
	FFmpeg        string        `yaml:"ffmpeg"`
	RenderTimeout time.Duration `yaml:"render_timeout"`
}

const (
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
)

// Defaults returns the configuration used when neither a file nor the
// environment sets a value.
func Defaults() *Config {
	return &Config{
		Environment:   "development",
		Port:          "3105",
		StoreDriver:   DriverBadger,
		DataDir:       "data",
		OutputDir:     "output",
		RenderTimeout: 2 * time.Minute,
	}
}

// Load reads the configuration from the environment.
func Load() *Config {
	cfg := Defaults()
	cfg.applyEnv()
	return cfg
}

// LoadFile reads a YAML configuration file and applies the environment on
// top of it. An empty path selects DefaultPath, which may be absent.
func LoadFile(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// DefaultPath is ~/.midi-cli/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".midi-cli", "config.yaml")
	}
	return filepath.Join(home, ".midi-cli", "config.yaml")
}

func (c *Config) applyEnv() {
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.Port = getEnv("PORT", c.Port)
	c.SentryDSN = getEnv("SENTRY_DSN", c.SentryDSN)
	c.StoreDriver = getEnv("STORE_DRIVER", c.StoreDriver)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	c.OutputDir = getEnv("OUTPUT_DIR", c.OutputDir)
	c.S3Bucket = getEnv("S3_BUCKET", c.S3Bucket)
	c.S3Prefix = getEnv("S3_PREFIX", c.S3Prefix)
	c.SoundFont = getEnv("SOUNDFONT", c.SoundFont)
	c.FluidSynth = getEnv("FLUIDSYNTH", c.FluidSynth)
	c.FFmpeg = getEnv("FFMPEG", c.FFmpeg)
	if d, err := time.ParseDuration(getEnv("RENDER_TIMEOUT", "")); err == nil && d > 0 {
		c.RenderTimeout = d
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

// IsProduction reports whether metrics and error reporting should be live
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate checks the store selection.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverBadger:
		return nil
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
		return nil
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want badger or postgres)", c.StoreDriver)
	}
}
