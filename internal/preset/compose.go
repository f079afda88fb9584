package preset

import (
	"fmt"
	"math"

	"github.com/softwarewrighter/midi-cli/internal/midi"
)

const (
	MinIntensity = 0
	MaxIntensity = 100
)

// Config holds the musical parameters of a composition.
type Config struct {
	DurationSeconds float64
	Key             Key
	Intensity       int
	Tempo           int
}

// Validate checks ranges. Values are never clamped.
func (c Config) Validate() error {
	if !(c.DurationSeconds > 0) || math.IsInf(c.DurationSeconds, 0) {
		return midi.NewError(midi.KindOutOfRange, "duration", c.DurationSeconds, "> 0 seconds")
	}
	if !c.Key.Valid() {
		return midi.NewError(midi.KindInvalidKey, "key", int(c.Key), "a defined key")
	}
	if c.Intensity < MinIntensity || c.Intensity > MaxIntensity {
		return midi.NewError(midi.KindInvalidIntensity, "intensity", c.Intensity, "0-100")
	}
	if c.Tempo < midi.MinTempo || c.Tempo > midi.MaxTempo {
		return midi.NewError(midi.KindInvalidTempo, "tempo", c.Tempo, "20-300 BPM")
	}
	return nil
}

// Beats converts the duration to beats at the configured tempo.
func (c Config) Beats() float64 {
	return c.DurationSeconds * float64(c.Tempo) / 60
}

// Layer is one named instrument part of a composition.
type Layer struct {
	Name     string
	Sequence midi.NoteSequence
}

// session is the state shared by the layers of one composition.
type session struct {
	cfg   Config
	key   Key
	root  int
	beats float64
	rand  *Source
}

// part is the layer under construction. Builders append notes and may swap
// the program.
type part struct {
	program uint8
	notes   []midi.Note
}

func (p *part) add(pitch int, duration float64, velocity int, start float64) {
	p.notes = append(p.notes, midi.Note{
		Pitch:    uint8(clamp(pitch, 0, midi.MaxPitch)),
		Duration: duration,
		Velocity: uint8(clamp(velocity, 0, midi.MaxVelocity)),
		Start:    max(start, 0),
	})
}

type layerFunc func(s *session, p *part)

var layerFuncs = map[Mood]map[string]layerFunc{
	MoodSuspense: suspenseLayers,
	MoodEerie:    eerieLayers,
	MoodUpbeat:   upbeatLayers,
	MoodCalm:     calmLayers,
	MoodAmbient:  ambientLayers,
	MoodJazz:     jazzLayers,
}

// ComposeLayers runs the layers of mood in catalog order. Gated layers come
// last in every mood, so enabling one never shifts the draws of the layers
// before it.
func ComposeLayers(mood Mood, cfg Config, ctx *Context) ([]Layer, error) {
	if !mood.Valid() {
		return nil, midi.NewError(midi.KindUnknownMood, "mood", int(mood), "a defined mood")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &session{
		cfg:   cfg,
		key:   cfg.Key,
		root:  int(cfg.Key.Root()),
		beats: cfg.Beats(),
		rand:  ctx.Rand(),
	}

	var layers []Layer
	channel := uint8(0)
	for _, def := range catalog[mood].layers {
		if def.gated && cfg.Intensity <= def.gate {
			continue
		}

		p := &part{program: def.instrument.Program}
		def.build(s, p)

		seq := midi.NewSequence(p.notes, p.program, cfg.Tempo)
		seq.Percussion = def.instrument.Percussion
		if seq.Percussion {
			seq.Channel = midi.PercussionChannel
		} else {
			if channel == midi.PercussionChannel {
				channel++
			}
			seq.Channel = channel
			channel++
		}

		if err := seq.Validate(); err != nil {
			return nil, fmt.Errorf("%s layer %s: %w", mood, def.name, err)
		}
		layers = append(layers, Layer{Name: def.name, Sequence: seq})
	}
	return layers, nil
}

// Compose returns the layers of mood as independent sequences, one per
// instrument and channel.
func Compose(mood Mood, cfg Config, ctx *Context) ([]midi.NoteSequence, error) {
	layers, err := ComposeLayers(mood, cfg, ctx)
	if err != nil {
		return nil, err
	}
	seqs := make([]midi.NoteSequence, len(layers))
	for i, l := range layers {
		seqs[i] = l.Sequence
	}
	return seqs, nil
}

func clamp(v, low, high int) int {
	return min(max(v, low), high)
}
