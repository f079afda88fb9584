package preset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softwarewrighter/midi-cli/internal/midi"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		input string
		want  Key
	}{
		{input: "C", want: KeyC},
		{input: "Am", want: KeyAm},
		{input: "am", want: KeyAm},
		{input: "dm", want: KeyDm},
		{input: "Bb", want: KeyBb},
		{input: "A#", want: KeyBb},
		{input: "d#m", want: KeyEbm},
		{input: " G ", want: KeyG},
	}
	for _, tt := range tests {
		got, err := ParseKey(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ParseKey("H")
	assert.True(t, errors.Is(err, midi.ErrInvalidKey))
	_, err = ParseKey("F#")
	assert.True(t, errors.Is(err, midi.ErrInvalidKey))
}

func TestKeyNamesRoundTrip(t *testing.T) {
	for _, k := range Keys() {
		got, err := ParseKey(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	assert.Len(t, Keys(), 18)
}

func TestKeyHarmony(t *testing.T) {
	assert.Equal(t, uint8(60), KeyC.Root())
	assert.Equal(t, uint8(69), KeyA.Root())
	assert.Equal(t, uint8(69), KeyAm.Root())
	assert.Equal(t, uint8(71), KeyBm.Root())

	assert.True(t, KeyAm.Minor())
	assert.False(t, KeyG.Minor())

	assert.Equal(t, []uint8{60, 64, 67}, KeyC.ChordTones())
	assert.Equal(t, []uint8{69, 72, 76}, KeyAm.ChordTones())
	assert.Equal(t, []uint8{60, 64, 67, 71}, KeyC.SeventhChord())
	assert.Equal(t, []uint8{62, 65, 69, 72}, KeyDm.SeventhChord())

	assert.Equal(t, []int{0, 2, 4, 5, 7, 9, 11}, KeyC.ScaleIntervals())
	assert.Equal(t, []int{0, 2, 3, 5, 7, 8, 10}, KeyEm.ScaleIntervals())
}

func TestScaleIntervalsIsCopy(t *testing.T) {
	scale := KeyC.ScaleIntervals()
	scale[0] = 99
	assert.Equal(t, 0, KeyC.ScaleIntervals()[0])
}

func TestKeyText(t *testing.T) {
	var k Key
	require.NoError(t, k.UnmarshalText([]byte("ebm")))
	assert.Equal(t, KeyEbm, k)

	text, err := KeyEbm.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Ebm", string(text))
}
