package preset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softwarewrighter/midi-cli/internal/midi"
)

func intensity(v int) *int { return &v }

func TestGenerateDefaults(t *testing.T) {
	res, err := Generate(Request{Mood: "suspense", Seed: 42})
	require.NoError(t, err)

	assert.Equal(t, MoodSuspense, res.Mood)
	assert.Equal(t, KeyAm, res.Key)
	assert.Equal(t, uint64(42), res.Seed)
	assert.Equal(t, DefaultTempo, res.Tempo)
	assert.Equal(t, DefaultIntensity, res.Intensity)
	assert.Equal(t, DefaultDuration, res.DurationSeconds)
	// intensity 50 is below the hits gate
	assert.Len(t, res.Layers, 2)
	assert.Len(t, res.Sequences, 2)
}

func TestGenerateByteIdentical(t *testing.T) {
	req := Request{Mood: "suspense", Key: "Am", DurationSeconds: 5, Intensity: intensity(70), Seed: 42}

	a, err := Generate(req)
	require.NoError(t, err)
	b, err := Generate(req)
	require.NoError(t, err)

	bytesA, err := a.Encode()
	require.NoError(t, err)
	bytesB, err := b.Encode()
	require.NoError(t, err)
	assert.Equal(t, bytesA, bytesB)
	assert.Len(t, a.Layers, 3)
}

func TestGenerateLayerSummaries(t *testing.T) {
	res, err := Generate(Request{Mood: "jazzy", Intensity: intensity(90), Seed: 7})
	require.NoError(t, err)
	require.Len(t, res.Layers, 3)

	assert.Equal(t, "bass", res.Layers[0].Name)
	assert.Equal(t, "acoustic_bass", res.Layers[0].Instrument)
	assert.Equal(t, uint8(0), res.Layers[0].Channel)

	assert.Equal(t, "drums", res.Layers[2].Name)
	assert.Equal(t, "drums", res.Layers[2].Instrument)
	assert.Equal(t, uint8(midi.PercussionChannel), res.Layers[2].Channel)

	total := 0
	for i, l := range res.Layers {
		assert.Equal(t, len(res.Sequences[i].Notes), l.Notes)
		total += l.Notes
	}
	assert.Equal(t, total, res.TotalNotes())
}

func TestGenerateZeroIntensityIsExplicit(t *testing.T) {
	res, err := Generate(Request{Mood: "eerie", Intensity: intensity(0), Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Intensity)
	assert.Len(t, res.Layers, 2)
}

func TestGenerateClockSeed(t *testing.T) {
	res, err := Generate(Request{Mood: "calm"})
	require.NoError(t, err)
	assert.NotZero(t, res.Seed)

	replay, err := Generate(Request{Mood: "calm", Seed: res.Seed})
	require.NoError(t, err)
	a, _ := res.Encode()
	b, _ := replay.Encode()
	assert.Equal(t, a, b)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{name: "unknown mood", req: Request{Mood: "melancholy"}, wantErr: midi.ErrUnknownMood},
		{name: "bad key", req: Request{Mood: "calm", Key: "X"}, wantErr: midi.ErrInvalidKey},
		{name: "intensity high", req: Request{Mood: "calm", Intensity: intensity(150)}, wantErr: midi.ErrInvalidIntensity},
		{name: "intensity negative", req: Request{Mood: "calm", Intensity: intensity(-5)}, wantErr: midi.ErrOutOfRange},
		{name: "tempo", req: Request{Mood: "calm", Tempo: 400}, wantErr: midi.ErrInvalidTempo},
		{name: "duration", req: Request{Mood: "calm", DurationSeconds: -1}, wantErr: midi.ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
		})
	}
}
