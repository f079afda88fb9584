package models

import (
	"time"

	"github.com/softwarewrighter/midi-cli/internal/preset"
)

// Preset is a saved mood composition request
type Preset struct {
	ID            string     `gorm:"primaryKey;type:varchar(36)" json:"id" msgpack:"id"`
	CreatedAt     time.Time  `json:"created_at" msgpack:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" msgpack:"updated_at"`
	Name          string     `gorm:"not null" json:"name" msgpack:"name"`
	Mood          string     `gorm:"not null;index" json:"mood" msgpack:"mood"`
	Duration      float64    `gorm:"not null" json:"duration" msgpack:"duration"`
	Key           string     `json:"key,omitempty" msgpack:"key"`
	Intensity     int        `gorm:"not null" json:"intensity" msgpack:"intensity"`
	Tempo         int        `gorm:"not null" json:"tempo" msgpack:"tempo"`
	Seed          int64      `gorm:"not null" json:"seed" msgpack:"seed"`
	LastGenerated *time.Time `json:"last_generated,omitempty" msgpack:"last_generated"`
}

// PresetRequest is the body of preset create and update calls
type PresetRequest struct {
	Name      string  `json:"name" binding:"required"`
	Mood      string  `json:"mood" binding:"required"`
	Duration  float64 `json:"duration"`
	Key       string  `json:"key"`
	Intensity *int    `json:"intensity"`
	Tempo     int     `json:"tempo"`
	Seed      int64   `json:"seed"`
}

// Apply copies the request onto p, filling the generation defaults, and
// checks that the result would compose.
func (r PresetRequest) Apply(p *Preset) error {
	p.Name = r.Name
	p.Mood = r.Mood
	p.Duration = r.Duration
	if p.Duration == 0 {
		p.Duration = preset.DefaultDuration
	}
	p.Key = r.Key
	p.Intensity = preset.DefaultIntensity
	if r.Intensity != nil {
		p.Intensity = *r.Intensity
	}
	p.Tempo = r.Tempo
	if p.Tempo == 0 {
		p.Tempo = preset.DefaultTempo
	}
	p.Seed = r.Seed

	_, _, err := p.Request().Resolve()
	return err
}

// Request converts the saved preset into a generation request
func (p *Preset) Request() preset.Request {
	intensity := p.Intensity
	return preset.Request{
		Mood:            p.Mood,
		DurationSeconds: p.Duration,
		Key:             p.Key,
		Intensity:       &intensity,
		Tempo:           p.Tempo,
		Seed:            uint64(p.Seed),
	}
}
