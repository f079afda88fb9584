package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/softwarewrighter/midi-cli/internal/models"
)

// Gorm keeps records in Postgres.
type Gorm struct {
	db *gorm.DB
}

// NewGorm connects to databaseURL and migrates the schema.
func NewGorm(databaseURL string) (*Gorm, error) {
	if databaseURL == "" {
		return nil, errors.New("store: DATABASE_URL is empty")
	}
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	return NewGormFromDB(db)
}

// NewGormFromDB wraps an open connection and migrates the schema.
func NewGormFromDB(db *gorm.DB) (*Gorm, error) {
	if err := db.AutoMigrate(&models.Preset{}, &models.Melody{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Gorm{db: db}, nil
}

func (g *Gorm) ListPresets(ctx context.Context) ([]models.Preset, error) {
	presets := []models.Preset{}
	err := g.db.WithContext(ctx).Order("created_at desc").Find(&presets).Error
	return presets, err
}

func (g *Gorm) GetPreset(ctx context.Context, id string) (*models.Preset, error) {
	var p models.Preset
	if err := g.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (g *Gorm) SavePreset(ctx context.Context, p *models.Preset) error {
	return g.db.WithContext(ctx).Save(p).Error
}

func (g *Gorm) DeletePreset(ctx context.Context, id string) error {
	return deleteByID(g.db.WithContext(ctx), &models.Preset{}, id)
}

func (g *Gorm) ListMelodies(ctx context.Context) ([]models.Melody, error) {
	melodies := []models.Melody{}
	err := g.db.WithContext(ctx).Order("created_at desc").Find(&melodies).Error
	return melodies, err
}

func (g *Gorm) GetMelody(ctx context.Context, id string) (*models.Melody, error) {
	var m models.Melody
	if err := g.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (g *Gorm) SaveMelody(ctx context.Context, m *models.Melody) error {
	return g.db.WithContext(ctx).Save(m).Error
}

func (g *Gorm) DeleteMelody(ctx context.Context, id string) error {
	return deleteByID(g.db.WithContext(ctx), &models.Melody{}, id)
}

func (g *Gorm) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func deleteByID(db *gorm.DB, model interface{}, id string) error {
	res := db.Delete(model, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
