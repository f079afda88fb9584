package midi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePitch(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint8
		wantErr bool
	}{
		{name: "middle C", input: "C4", want: 60},
		{name: "A440", input: "A4", want: 69},
		{name: "sharp", input: "F#3", want: 54},
		{name: "flat", input: "Bb5", want: 82},
		{name: "lowercase letter", input: "c4", want: 60},
		{name: "lowercase b flat", input: "bb4", want: 70},
		{name: "lowest named", input: "C0", want: 12},
		{name: "highest named", input: "G9", want: 127},
		{name: "flat below C", input: "Cb0", want: 11},
		{name: "bare number", input: "64", want: 64},
		{name: "bare zero", input: "0", want: 0},
		{name: "whitespace", input: "  E2 ", want: 40},
		{name: "bad letter", input: "H4", wantErr: true},
		{name: "missing octave", input: "C", wantErr: true},
		{name: "octave too high", input: "C11", wantErr: true},
		{name: "negative octave", input: "C-1", wantErr: true},
		{name: "above 127", input: "G#9", wantErr: true},
		{name: "octave 10 above 127", input: "C10", wantErr: true},
		{name: "number above 127", input: "128", wantErr: true},
		{name: "negative number", input: "-1", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePitch(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidPitch), "expected ErrInvalidPitch, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPitchNameRoundTrip(t *testing.T) {
	for p := 0; p <= MaxPitch; p++ {
		name := PitchName(uint8(p))
		got, err := ParsePitch(name)
		require.NoError(t, err, "pitch %d rendered as %q", p, name)
		assert.Equal(t, uint8(p), got, "round trip of %q", name)
	}
}

func TestPitchNameSpelling(t *testing.T) {
	assert.Equal(t, "C4", PitchName(60))
	assert.Equal(t, "A#4", PitchName(70))
	assert.Equal(t, "G9", PitchName(127))
}

func TestBeatsToTicks(t *testing.T) {
	tests := []struct {
		beats float64
		want  int
	}{
		{beats: 1, want: 480},
		{beats: 0.5, want: 240},
		{beats: 2, want: 960},
		{beats: 0.25, want: 120},
		{beats: 0, want: 0},
		// rounding rather than truncation
		{beats: 0.0019, want: 1},
		{beats: 1.0 / 3.0, want: 160},
		{beats: 0.9999, want: 480},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BeatsToTicks(tt.beats, TicksPerQuarter), "beats=%v", tt.beats)
	}
}
