package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/softwarewrighter/midi-cli/internal/midi"
)

// RestPitch marks a melody note that only advances time
const RestPitch = "rest"

var ErrNoPlayableNotes = errors.New("melody has no playable notes")

// MelodyNote is one step of a hand-entered melody. Notes follow each other
// without overlap.
type MelodyNote struct {
	Pitch    string  `json:"pitch" msgpack:"pitch"`
	Duration float64 `json:"duration" msgpack:"duration"`
	Velocity int     `json:"velocity" msgpack:"velocity"`
}

// MelodyNotes is stored as a JSON column
type MelodyNotes []MelodyNote

func (n MelodyNotes) Value() (driver.Value, error) {
	if n == nil {
		return "[]", nil
	}
	data, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (n *MelodyNotes) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*n = nil
		return nil
	case []byte:
		return json.Unmarshal(v, n)
	case string:
		return json.Unmarshal([]byte(v), n)
	default:
		return fmt.Errorf("unsupported melody notes column type %T", src)
	}
}

// Melody is a saved monophonic line
type Melody struct {
	ID            string      `gorm:"primaryKey;type:varchar(36)" json:"id" msgpack:"id"`
	CreatedAt     time.Time   `json:"created_at" msgpack:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" msgpack:"updated_at"`
	Name          string      `gorm:"not null" json:"name" msgpack:"name"`
	Notes         MelodyNotes `gorm:"type:jsonb" json:"notes" msgpack:"notes"`
	Key           string      `json:"key" msgpack:"key"`
	Tempo         int         `gorm:"not null" json:"tempo" msgpack:"tempo"`
	Instrument    string      `json:"instrument" msgpack:"instrument"`
	Attack        int         `json:"attack" msgpack:"attack"`
	Decay         int         `json:"decay" msgpack:"decay"`
	LastGenerated *time.Time  `json:"last_generated,omitempty" msgpack:"last_generated"`
}

// MelodyRequest is the body of melody create and update calls
type MelodyRequest struct {
	Name       string       `json:"name" binding:"required"`
	Notes      []MelodyNote `json:"notes"`
	Key        string       `json:"key"`
	Tempo      int          `json:"tempo"`
	Instrument string       `json:"instrument"`
	Attack     int          `json:"attack"`
	Decay      int          `json:"decay"`
}

// Apply copies the request onto m
func (r MelodyRequest) Apply(m *Melody) {
	m.Name = r.Name
	m.Notes = r.Notes
	m.Key = r.Key
	m.Tempo = r.Tempo
	if m.Tempo == 0 {
		m.Tempo = midi.DefaultTempo
	}
	m.Instrument = r.Instrument
	if m.Instrument == "" {
		m.Instrument = "piano"
	}
	m.Attack = r.Attack
	m.Decay = r.Decay
}

// TimedNotes lays the melody out end to end. Rests advance the offset.
func (m *Melody) TimedNotes() ([]midi.Note, error) {
	var notes []midi.Note
	offset := 0.0
	for i, step := range m.Notes {
		if strings.EqualFold(strings.TrimSpace(step.Pitch), RestPitch) {
			offset += step.Duration
			continue
		}
		note, err := midi.ParseNoteToken(fmt.Sprintf("%s:%g:%d@%g", step.Pitch, step.Duration, step.Velocity, offset))
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", i, err)
		}
		notes = append(notes, note)
		offset += step.Duration
	}
	if len(notes) == 0 {
		return nil, ErrNoPlayableNotes
	}
	return notes, nil
}

// Sequence builds the single track the melody plays on
func (m *Melody) Sequence() (midi.NoteSequence, error) {
	notes, err := m.TimedNotes()
	if err != nil {
		return midi.NoteSequence{}, err
	}
	return midi.BuildSequence(notes, m.Instrument, 0, m.Tempo)
}
