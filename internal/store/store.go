// Package store persists saved presets and melodies. Badger is the default
// embedded backend; Postgres through gorm is used when the service runs
// against a shared database.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/softwarewrighter/midi-cli/internal/config"
	"github.com/softwarewrighter/midi-cli/internal/models"
)

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New("store: not found")

// Store is safe for concurrent use. List calls return records newest first.
type Store interface {
	ListPresets(ctx context.Context) ([]models.Preset, error)
	GetPreset(ctx context.Context, id string) (*models.Preset, error)
	SavePreset(ctx context.Context, p *models.Preset) error
	DeletePreset(ctx context.Context, id string) error

	ListMelodies(ctx context.Context) ([]models.Melody, error)
	GetMelody(ctx context.Context, id string) (*models.Melody, error)
	SaveMelody(ctx context.Context, m *models.Melody) error
	DeleteMelody(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close() error
}

// Open selects the backend named by cfg.StoreDriver.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return NewGorm(cfg.DatabaseURL)
	case config.DriverBadger, "":
		return NewBadger(BadgerOptions{Dir: filepath.Join(cfg.DataDir, "badger")})
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.StoreDriver)
	}
}
