package midi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// InputFormat selects the document syntax accepted by DecodeInput.
type InputFormat string

const (
	FormatJSON InputFormat = "json"
	FormatYAML InputFormat = "yaml"

	defaultInstrument = "piano"
)

// PitchValue accepts either a note name ("C4") or a MIDI number (60).
type PitchValue string

func (p *PitchValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PitchValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("pitch must be a note name or number: %w", err)
	}
	*p = PitchValue(n.String())
	return nil
}

// InputNote is one note of an input document.
type InputNote struct {
	Pitch    PitchValue `json:"pitch"`
	Duration float64    `json:"duration"`
	Velocity int        `json:"velocity"`
	Offset   float64    `json:"offset"`
}

// InputTrack is one instrument layer of a multi-track input document.
type InputTrack struct {
	Instrument string      `json:"instrument"`
	Channel    *int        `json:"channel"`
	Notes      []InputNote `json:"notes"`
}

// Input is the document accepted by the generate command and the melody
// API: either a single notes list or a list of tracks sharing one tempo.
type Input struct {
	Tempo      int          `json:"tempo"`
	Instrument string       `json:"instrument"`
	Channel    int          `json:"channel"`
	Notes      []InputNote  `json:"notes"`
	Tracks     []InputTrack `json:"tracks"`
}

// DecodeInput parses a JSON or YAML document into validated sequences.
func DecodeInput(data []byte, format InputFormat) ([]NoteSequence, error) {
	if format == FormatYAML {
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML input: %w", err)
		}
		data = converted
	}

	var in Input
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("failed to parse %s input: %w", strings.ToUpper(string(format)), err)
	}
	return in.Sequences()
}

// Sequences converts the document into validated sequences.
func (in Input) Sequences() ([]NoteSequence, error) {
	tempo := in.Tempo
	if tempo == 0 {
		tempo = DefaultTempo
	}

	tracks := in.Tracks
	if len(tracks) == 0 {
		channel := in.Channel
		tracks = []InputTrack{{Instrument: in.Instrument, Channel: &channel, Notes: in.Notes}}
	}

	seqs := make([]NoteSequence, 0, len(tracks))
	for i, t := range tracks {
		seq, err := t.sequence(tempo, i, in.Instrument)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i, err)
		}
		seqs = append(seqs, seq)
	}
	return seqs, nil
}

func (t InputTrack) sequence(tempo, index int, fallback string) (NoteSequence, error) {
	name := t.Instrument
	if name == "" {
		name = fallback
	}

	notes := make([]Note, 0, len(t.Notes))
	for i, n := range t.Notes {
		note, err := n.note()
		if err != nil {
			return NoteSequence{}, withIndex(err, i)
		}
		notes = append(notes, note)
	}

	channel := index
	if t.Channel != nil {
		channel = *t.Channel
	}
	return BuildSequence(notes, name, channel, tempo)
}

// BuildSequence resolves the instrument, assigns the channel and validates
// the resulting sequence.
func BuildSequence(notes []Note, instrument string, channel, tempo int) (NoteSequence, error) {
	if instrument == "" {
		instrument = defaultInstrument
	}
	inst, err := ResolveInstrument(instrument)
	if err != nil {
		return NoteSequence{}, err
	}
	if channel < 0 || channel > MaxChannel {
		return NoteSequence{}, NewError(KindOutOfRange, "channel", channel, "0-15")
	}

	seq := NewSequence(notes, inst.Program, tempo)
	seq.Percussion = inst.Percussion
	seq.Channel = uint8(channel)

	if err := seq.Validate(); err != nil {
		return NoteSequence{}, err
	}
	return seq, nil
}

func (n InputNote) note() (Note, error) {
	pitch, err := ParsePitch(string(n.Pitch))
	if err != nil {
		return Note{}, err
	}
	if n.Velocity < 0 || n.Velocity > MaxVelocity {
		return Note{}, NewError(KindOutOfRange, "velocity", n.Velocity, "0-127")
	}
	note := Note{Pitch: pitch, Duration: n.Duration, Velocity: uint8(n.Velocity), Start: n.Offset}
	if err := note.Validate(); err != nil {
		return Note{}, err
	}
	return note, nil
}

// FormatFromPath picks the input format from a file extension.
func FormatFromPath(path string) InputFormat {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}

// ParseSequence builds a single validated sequence from a note-token string.
func ParseSequence(tokens string, instrument string, channel, tempo int) (NoteSequence, error) {
	notes, err := ParseNotes(tokens)
	if err != nil {
		return NoteSequence{}, err
	}
	return BuildSequence(notes, instrument, channel, tempo)
}
