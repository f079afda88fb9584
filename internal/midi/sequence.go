package midi

import (
	"fmt"
	"slices"
)

const (
	// MinTempo and MaxTempo bound a sequence's tempo in BPM.
	MinTempo = 20
	MaxTempo = 300

	// DefaultTempo is used when an input omits the tempo.
	DefaultTempo = 120

	// MaxChannel is the highest zero-based MIDI channel.
	MaxChannel = 15
	// PercussionChannel is the General MIDI drum channel (channel 10, zero-based 9).
	PercussionChannel = 9

	secondsPerMinute = 60.0
)

// NoteSequence is an ordered set of notes bound to one instrument, channel
// and tempo. One sequence becomes one track in the encoded file.
type NoteSequence struct {
	Notes []Note `json:"notes"`
	// Program is the General MIDI program number (0-127).
	Program uint8 `json:"program"`
	// Percussion routes the sequence to the percussion channel regardless of Channel.
	Percussion bool  `json:"percussion,omitempty"`
	Channel    uint8 `json:"channel"`
	// Tempo in beats per minute.
	Tempo int `json:"tempo"`
}

// NewSequence builds a sequence on channel 0 with its notes ordered by start
// time. Notes with equal start times keep their input order.
func NewSequence(notes []Note, program uint8, tempo int) NoteSequence {
	sorted := slices.Clone(notes)
	slices.SortStableFunc(sorted, func(a, b Note) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		default:
			return 0
		}
	})
	return NoteSequence{
		Notes:   sorted,
		Program: program,
		Tempo:   tempo,
	}
}

// OutputChannel is the channel the sequence's events are written on.
func (s NoteSequence) OutputChannel() uint8 {
	if s.Percussion {
		return PercussionChannel
	}
	return s.Channel
}

// DurationBeats is the end of the last sounding note.
func (s NoteSequence) DurationBeats() float64 {
	var end float64
	for _, n := range s.Notes {
		end = max(end, n.End())
	}
	return end
}

// DurationSeconds converts DurationBeats at the sequence tempo.
func (s NoteSequence) DurationSeconds() float64 {
	if s.Tempo <= 0 {
		return 0
	}
	return s.DurationBeats() * secondsPerMinute / float64(s.Tempo)
}

// Validate checks the sequence invariants and every note in it.
func (s NoteSequence) Validate() error {
	if len(s.Notes) == 0 {
		return NewError(KindEmptySequence, "notes", 0, "at least one note")
	}
	if s.Tempo < MinTempo || s.Tempo > MaxTempo {
		return NewError(KindInvalidTempo, "tempo", s.Tempo, "20-300")
	}
	if s.Program > MaxPitch {
		return NewError(KindOutOfRange, "program", s.Program, "0-127")
	}
	if s.Channel > MaxChannel {
		return NewError(KindOutOfRange, "channel", s.Channel, "0-15")
	}
	for i, n := range s.Notes {
		if err := n.Validate(); err != nil {
			return &Error{Kind: KindInvalidNote, Index: i, Err: err}
		}
	}
	return nil
}

// ValidateAll validates a complete set of sequences before encoding.
func ValidateAll(seqs []NoteSequence) error {
	if len(seqs) == 0 {
		return NewError(KindEmptyTrackSet, "sequences", 0, "at least one sequence")
	}
	for i, s := range seqs {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("track %d: %w", i, err)
		}
	}
	return nil
}

// TotalNotes counts the notes across all sequences.
func TotalNotes(seqs []NoteSequence) int {
	total := 0
	for _, s := range seqs {
		total += len(s.Notes)
	}
	return total
}
