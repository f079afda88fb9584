package midi

import (
	"math"
	"strconv"
	"strings"
)

const (
	// TicksPerQuarter is the fixed time division of every file we write.
	TicksPerQuarter = 480

	// MaxPitch is the highest MIDI note number.
	MaxPitch = 127
	// MiddleC is MIDI note 60 (C4).
	MiddleC = 60

	minOctave = 0
	maxOctave = 10
)

// Note semitone offsets from C
var letterOffsets = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// ParsePitch converts a note name like "C4", "F#3", "Bb2" or a bare MIDI
// number like "60" to a MIDI note number.
// Format: <note><accidental?><octave> where:
//   - note: A-G (case insensitive)
//   - accidental: # (sharp) or b (flat), optional
//   - octave: 0 to 10 (C4 = 60 = middle C)
func ParsePitch(text string) (uint8, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, NewError(KindInvalidPitch, "pitch", text, "note name or 0-127")
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > MaxPitch {
			return 0, NewError(KindInvalidPitch, "pitch", text, "0-127")
		}
		return uint8(n), nil
	}

	semitone, ok := letterOffsets[upper(s[0])]
	if !ok {
		return 0, NewError(KindInvalidPitch, "pitch", text, "letter A-G")
	}

	idx := 1
	if idx < len(s) {
		switch s[idx] {
		case '#':
			semitone++
			idx++
		case 'b':
			semitone--
			idx++
		}
	}

	if idx >= len(s) {
		return 0, NewError(KindInvalidPitch, "pitch", text, "octave 0-10")
	}
	octave, err := strconv.Atoi(s[idx:])
	if err != nil || octave < minOctave || octave > maxOctave {
		return 0, NewError(KindInvalidPitch, "pitch", text, "octave 0-10")
	}

	// (octave + 1) * 12 + semitone gives C0 = 12, C4 = 60
	midi := (octave+1)*12 + semitone
	if midi < 0 || midi > MaxPitch {
		return 0, NewError(KindInvalidPitch, "pitch", text, "0-127")
	}
	return uint8(midi), nil
}

// PitchName renders a MIDI note number with sharp spelling. Note numbers
// below C0 (0-11) have no name in the parseable octave range and are
// rendered as bare numbers.
func PitchName(pitch uint8) string {
	if pitch < 12 {
		return strconv.Itoa(int(pitch))
	}
	octave := int(pitch)/12 - 1
	return sharpNames[pitch%12] + strconv.Itoa(octave)
}

// BeatsToTicks converts a position in beats to ticks, rounding to the
// nearest tick.
func BeatsToTicks(beats float64, ticksPerBeat int) int {
	return int(math.Round(beats * float64(ticksPerBeat)))
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
