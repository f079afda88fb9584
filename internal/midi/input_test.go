package midi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInputSingleTrackJSON(t *testing.T) {
	doc := `{
		"tempo": 100,
		"instrument": "cello",
		"notes": [
			{"pitch": "E4", "duration": 1, "velocity": 70, "offset": 1},
			{"pitch": 60, "duration": 0.5, "velocity": 80}
		]
	}`

	seqs, err := DecodeInput([]byte(doc), FormatJSON)
	require.NoError(t, err)
	require.Len(t, seqs, 1)

	seq := seqs[0]
	assert.Equal(t, 100, seq.Tempo)
	assert.Equal(t, uint8(42), seq.Program)
	assert.Equal(t, uint8(0), seq.Channel)
	require.Len(t, seq.Notes, 2)
	// sorted by start
	assert.Equal(t, uint8(60), seq.Notes[0].Pitch)
	assert.Equal(t, uint8(64), seq.Notes[1].Pitch)
	assert.Equal(t, 1.0, seq.Notes[1].Start)
}

func TestDecodeInputMultiTrackYAML(t *testing.T) {
	doc := `
tempo: 90
tracks:
  - instrument: strings
    notes:
      - {pitch: C3, duration: 4, velocity: 50}
  - instrument: drums
    channel: 9
    notes:
      - {pitch: 42, duration: 0.25, velocity: 70}
      - {pitch: 38, duration: 0.25, velocity: 90, offset: 1}
  - notes:
      - {pitch: G5, duration: 1, velocity: 60, offset: 2}
`

	seqs, err := DecodeInput([]byte(doc), FormatYAML)
	require.NoError(t, err)
	require.Len(t, seqs, 3)

	assert.Equal(t, uint8(48), seqs[0].Program)
	assert.Equal(t, uint8(0), seqs[0].Channel)

	assert.True(t, seqs[1].Percussion)
	assert.Equal(t, uint8(PercussionChannel), seqs[1].OutputChannel())

	// channel defaults to the track index, instrument to piano
	assert.Equal(t, uint8(2), seqs[2].Channel)
	assert.Equal(t, uint8(0), seqs[2].Program)

	for _, s := range seqs {
		assert.Equal(t, 90, s.Tempo)
	}
}

func TestDecodeInputDefaults(t *testing.T) {
	seqs, err := DecodeInput([]byte(`{"notes":[{"pitch":"A4","duration":1,"velocity":64}]}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, DefaultTempo, seqs[0].Tempo)
	assert.Equal(t, uint8(0), seqs[0].Program)
}

func TestDecodeInputErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "unknown instrument",
			doc:     `{"instrument":"kazoo","notes":[{"pitch":"C4","duration":1,"velocity":80}]}`,
			wantErr: ErrUnknownInstrument,
		},
		{
			name:    "bad channel",
			doc:     `{"channel":16,"notes":[{"pitch":"C4","duration":1,"velocity":80}]}`,
			wantErr: ErrOutOfRange,
		},
		{
			name:    "bad pitch",
			doc:     `{"notes":[{"pitch":"Z9","duration":1,"velocity":80}]}`,
			wantErr: ErrInvalidPitch,
		},
		{
			name:    "velocity too high",
			doc:     `{"notes":[{"pitch":"C4","duration":1,"velocity":300}]}`,
			wantErr: ErrOutOfRange,
		},
		{
			name:    "zero duration",
			doc:     `{"notes":[{"pitch":"C4","duration":0,"velocity":80}]}`,
			wantErr: ErrOutOfRange,
		},
		{
			name:    "no notes",
			doc:     `{"tempo":120,"notes":[]}`,
			wantErr: ErrEmptySequence,
		},
		{
			name:    "tempo out of range",
			doc:     `{"tempo":500,"notes":[{"pitch":"C4","duration":1,"velocity":80}]}`,
			wantErr: ErrInvalidTempo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeInput([]byte(tt.doc), FormatJSON)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
		})
	}
}

func TestDecodeInputRejectsMalformed(t *testing.T) {
	_, err := DecodeInput([]byte(`{"notes": [`), FormatJSON)
	assert.Error(t, err)

	_, err = DecodeInput([]byte(`{"notes":[],"unexpected":true}`), FormatJSON)
	assert.Error(t, err)
}

func TestDecodeInputReportsTrackAndNote(t *testing.T) {
	doc := `{"tracks":[
		{"notes":[{"pitch":"C4","duration":1,"velocity":80}]},
		{"notes":[{"pitch":"C4","duration":1,"velocity":80},{"pitch":"C4","duration":-1,"velocity":80}]}
	]}`

	_, err := DecodeInput([]byte(doc), FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "track 1")

	var merr *Error
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, 1, merr.Index)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("song.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("SONG.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("song.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("song"))
}

func TestParseSequence(t *testing.T) {
	seq, err := ParseSequence("C4:1:80@0,E4:1:80@1", "harp", 3, 110)
	require.NoError(t, err)
	assert.Equal(t, uint8(46), seq.Program)
	assert.Equal(t, uint8(3), seq.Channel)
	assert.Equal(t, 110, seq.Tempo)
	assert.Len(t, seq.Notes, 2)

	_, err = ParseSequence("C4:1", "harp", 0, 120)
	assert.True(t, errors.Is(err, ErrInvalidNoteFormat))
}
