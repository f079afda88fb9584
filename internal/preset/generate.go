package preset

import (
	"github.com/softwarewrighter/midi-cli/internal/midi"
)

const (
	DefaultDuration  = 5.0
	DefaultIntensity = 50
	DefaultTempo     = 90
)

// Request is a mood preset request. Zero values select the defaults: five
// seconds, the mood's default key, intensity 50, 90 BPM and a clock seed.
type Request struct {
	Mood            string  `json:"mood" yaml:"mood"`
	DurationSeconds float64 `json:"duration,omitempty" yaml:"duration,omitempty"`
	Key             string  `json:"key,omitempty" yaml:"key,omitempty"`
	Intensity       *int    `json:"intensity,omitempty" yaml:"intensity,omitempty"`
	Tempo           int     `json:"tempo,omitempty" yaml:"tempo,omitempty"`
	Seed            uint64  `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// LayerSummary reports what one layer of a preset contains.
type LayerSummary struct {
	Name       string `json:"name" yaml:"name"`
	Program    uint8  `json:"program" yaml:"program"`
	Instrument string `json:"instrument" yaml:"instrument"`
	Channel    uint8  `json:"channel" yaml:"channel"`
	Notes      int    `json:"notes" yaml:"notes"`
}

// Result is a composed preset with the parameters that produced it.
type Result struct {
	Mood            Mood                `json:"mood" yaml:"mood"`
	Key             Key                 `json:"key" yaml:"key"`
	Seed            uint64              `json:"seed" yaml:"seed"`
	Tempo           int                 `json:"tempo" yaml:"tempo"`
	Intensity       int                 `json:"intensity" yaml:"intensity"`
	DurationSeconds float64             `json:"duration" yaml:"duration"`
	Layers          []LayerSummary      `json:"layers" yaml:"layers"`
	Sequences       []midi.NoteSequence `json:"-" yaml:"-"`
}

// Resolve fills defaults and parses names, returning the mood and config the
// request describes.
func (r Request) Resolve() (Mood, Config, error) {
	mood, err := ParseMood(r.Mood)
	if err != nil {
		return 0, Config{}, err
	}

	cfg := Config{
		DurationSeconds: r.DurationSeconds,
		Key:             mood.DefaultKey(),
		Intensity:       DefaultIntensity,
		Tempo:           r.Tempo,
	}
	if cfg.DurationSeconds == 0 {
		cfg.DurationSeconds = DefaultDuration
	}
	if cfg.Tempo == 0 {
		cfg.Tempo = DefaultTempo
	}
	if r.Intensity != nil {
		cfg.Intensity = *r.Intensity
	}
	if r.Key != "" {
		if cfg.Key, err = ParseKey(r.Key); err != nil {
			return 0, Config{}, err
		}
	}
	return mood, cfg, cfg.Validate()
}

// Generate resolves the request and composes it with a fresh Context.
func Generate(r Request) (*Result, error) {
	mood, cfg, err := r.Resolve()
	if err != nil {
		return nil, err
	}

	ctx := NewContext(r.Seed)
	layers, err := ComposeLayers(mood, cfg, ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Mood:            mood,
		Key:             cfg.Key,
		Seed:            ctx.Seed(),
		Tempo:           cfg.Tempo,
		Intensity:       cfg.Intensity,
		DurationSeconds: cfg.DurationSeconds,
		Layers:          make([]LayerSummary, len(layers)),
		Sequences:       make([]midi.NoteSequence, len(layers)),
	}
	for i, l := range layers {
		seq := l.Sequence
		res.Sequences[i] = seq
		res.Layers[i] = LayerSummary{
			Name:       l.Name,
			Program:    seq.Program,
			Instrument: midi.InstrumentName(seq.Program, seq.Percussion),
			Channel:    seq.OutputChannel(),
			Notes:      len(seq.Notes),
		}
	}
	if err := midi.ValidateAll(res.Sequences); err != nil {
		return nil, err
	}
	return res, nil
}

// Encode serializes the composed sequences as a Standard MIDI File.
func (r *Result) Encode() ([]byte, error) {
	return midi.Encode(r.Sequences)
}

// TotalNotes counts the notes across all layers.
func (r *Result) TotalNotes() int {
	return midi.TotalNotes(r.Sequences)
}
