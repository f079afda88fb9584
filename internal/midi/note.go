package midi

import (
	"math"
	"strconv"
	"strings"
)

const (
	// MaxVelocity is the highest MIDI velocity.
	MaxVelocity = 127

	tokenFieldSep  = ":"
	tokenOffsetSep = "@"
	tokenListSep   = ","
)

// Note is a single timed note. Times are in beats relative to the start of
// its sequence.
type Note struct {
	Pitch    uint8   `json:"pitch"`
	Duration float64 `json:"duration"`
	Velocity uint8   `json:"velocity"`
	Start    float64 `json:"start"`
}

// End returns the beat at which the note stops sounding.
func (n Note) End() float64 {
	return n.Start + n.Duration
}

// Shift returns a copy of the note moved by delta beats.
func (n Note) Shift(delta float64) Note {
	n.Start += delta
	return n
}

// Validate checks the note invariants.
func (n Note) Validate() error {
	if n.Pitch > MaxPitch {
		return NewError(KindInvalidPitch, "pitch", n.Pitch, "0-127")
	}
	if n.Velocity > MaxVelocity {
		return NewError(KindOutOfRange, "velocity", n.Velocity, "0-127")
	}
	if !(n.Duration > 0) || math.IsInf(n.Duration, 0) {
		return NewError(KindOutOfRange, "duration", n.Duration, "> 0")
	}
	if !(n.Start >= 0) || math.IsInf(n.Start, 0) {
		return NewError(KindOutOfRange, "offset", n.Start, ">= 0")
	}
	return nil
}

// ParseNoteToken parses PITCH:DURATION:VELOCITY[@OFFSET], e.g. "C4:0.5:80@1.5".
func ParseNoteToken(text string) (Note, error) {
	s := strings.TrimSpace(text)

	body, offsetText, hasOffset := strings.Cut(s, tokenOffsetSep)
	offset := 0.0
	if hasOffset {
		v, err := strconv.ParseFloat(strings.TrimSpace(offsetText), 64)
		if err != nil {
			return Note{}, NewError(KindInvalidNoteFormat, "offset", offsetText, "number")
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Note{}, NewError(KindOutOfRange, "offset", v, ">= 0")
		}
		offset = v
	}

	parts := strings.Split(body, tokenFieldSep)
	if len(parts) != 3 {
		return Note{}, NewError(KindInvalidNoteFormat, "note", text, "PITCH:DURATION:VELOCITY[@OFFSET]")
	}

	pitch, err := ParsePitch(parts[0])
	if err != nil {
		return Note{}, err
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Note{}, NewError(KindInvalidNoteFormat, "duration", parts[1], "number")
	}
	if !(duration > 0) || math.IsInf(duration, 0) {
		return Note{}, NewError(KindOutOfRange, "duration", duration, "> 0")
	}

	velocity, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return Note{}, NewError(KindInvalidNoteFormat, "velocity", parts[2], "integer")
	}
	if velocity < 0 || velocity > MaxVelocity {
		return Note{}, NewError(KindOutOfRange, "velocity", velocity, "0-127")
	}

	return Note{
		Pitch:    pitch,
		Duration: duration,
		Velocity: uint8(velocity),
		Start:    offset,
	}, nil
}

// ParseNotes parses a comma-separated list of note tokens. Empty tokens are
// skipped; errors carry the index of the failing token.
func ParseNotes(text string) ([]Note, error) {
	var notes []Note
	for i, token := range strings.Split(text, tokenListSep) {
		if strings.TrimSpace(token) == "" {
			continue
		}
		n, err := ParseNoteToken(token)
		if err != nil {
			return nil, withIndex(err, i)
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// FormatNoteToken is the inverse of ParseNoteToken.
func FormatNoteToken(n Note) string {
	var b strings.Builder
	b.WriteString(PitchName(n.Pitch))
	b.WriteString(tokenFieldSep)
	b.WriteString(strconv.FormatFloat(n.Duration, 'g', -1, 64))
	b.WriteString(tokenFieldSep)
	b.WriteString(strconv.Itoa(int(n.Velocity)))
	if n.Start != 0 {
		b.WriteString(tokenOffsetSep)
		b.WriteString(strconv.FormatFloat(n.Start, 'g', -1, 64))
	}
	return b.String()
}
