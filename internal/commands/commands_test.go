package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softwarewrighter/midi-cli/internal/midi"
	"github.com/softwarewrighter/midi-cli/internal/preset"
)

func runCmd(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd("test")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func inspectFile(t *testing.T, path string) *midi.FileInfo {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	info, err := midi.Inspect(data)
	require.NoError(t, err)
	return info
}

func TestPresetWritesReproducibleFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mid")
	b := filepath.Join(dir, "nested", "b.mid")

	_, stderr, err := runCmd(t, "", "preset", "-m", "calm", "-s", "7", "-o", a)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Generated calm preset (seed: 7")
	_, _, err = runCmd(t, "", "preset", "--mood", "calm", "--seed", "7", "--output", b)
	require.NoError(t, err)

	first, err := os.ReadFile(a)
	require.NoError(t, err)
	second, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	res, err := preset.Generate(preset.Request{Mood: "calm", Seed: 7})
	require.NoError(t, err)
	want, err := res.Encode()
	require.NoError(t, err)
	assert.Equal(t, want, first)
}

func TestPresetOptions(t *testing.T) {
	out := filepath.Join(t.TempDir(), "jazz.mid")
	_, stderr, err := runCmd(t, "", "preset", "-m", "jazz", "-d", "4", "-k", "Bb", "--intensity", "90", "-t", "120", "-s", "3", "-v", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, "key: Bb")
	assert.Contains(t, stderr, "90/100")

	info := inspectFile(t, out)
	assert.InDelta(t, 120.0, info.Tempo, 0.01)
	assert.Greater(t, info.TotalNotes, 0)
}

func TestPresetRandomSeedIsReported(t *testing.T) {
	out := filepath.Join(t.TempDir(), "r.mid")
	_, stderr, err := runCmd(t, "", "preset", "-m", "eerie", "-s", "0", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Generated eerie preset (seed: ")
	assert.NotContains(t, stderr, "seed: 0,")
}

func TestPresetErrors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "x.mid")
	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "unknown mood", args: []string{"preset", "-m", "angry", "-o", out}, want: midi.ErrUnknownMood},
		{name: "bad key", args: []string{"preset", "-m", "calm", "-k", "H", "-o", out}, want: midi.ErrInvalidKey},
		{name: "intensity", args: []string{"preset", "-m", "calm", "--intensity", "101", "-o", out}, want: midi.ErrInvalidIntensity},
		{name: "tempo", args: []string{"preset", "-m", "calm", "-t", "10", "-o", out}, want: midi.ErrInvalidTempo},
		{name: "sharp minor key", args: []string{"preset", "-m", "calm", "-k", "F#m", "-o", out}, want: midi.ErrInvalidKey},
		{name: "zero duration", args: []string{"preset", "-m", "calm", "-d", "0", "-o", out}, want: midi.ErrOutOfRange},
		{name: "negative duration", args: []string{"preset", "-m", "calm", "-d", "-2", "-o", out}, want: midi.ErrOutOfRange},
		{name: "zero tempo", args: []string{"preset", "-m", "calm", "-t", "0", "-o", out}, want: midi.ErrInvalidTempo},
		{name: "missing output", args: []string{"preset", "-m", "calm"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCmd(t, "", tt.args...)
			require.Error(t, err)
			if tt.want != nil {
				assert.True(t, errors.Is(err, tt.want), "got %v", err)
			}
		})
	}
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "nothing is written on error")
}

func TestPresetKeyHelpListsParsableKeys(t *testing.T) {
	cmd, _, err := newRootCmd("test").Find([]string{"preset"})
	require.NoError(t, err)
	usage := cmd.Flags().Lookup("key").Usage

	list, _, ok := strings.Cut(strings.TrimPrefix(usage, "musical key: "), " (")
	require.True(t, ok, usage)
	names := strings.Split(list, ", ")
	assert.Len(t, names, len(preset.Keys()))
	for _, name := range names {
		_, err := preset.ParseKey(name)
		assert.NoError(t, err, name)
	}
}

func TestGenerateFromNotes(t *testing.T) {
	out := filepath.Join(t.TempDir(), "melody.mid")
	_, stderr, err := runCmd(t, "", "generate", "--notes", "C4:1:80,E4:0.5:100@1", "-i", "cello", "-t", "100", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Generated MIDI: "+out)

	info := inspectFile(t, out)
	assert.Equal(t, 2, info.TotalNotes)
	assert.InDelta(t, 100.0, info.Tempo, 0.01)
	require.Len(t, info.Tracks, 2)
	assert.Equal(t, "cello", info.Tracks[1].Instrument)
}

func TestGenerateFromStdinJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "tracks.mid")
	doc := `{"tempo": 90, "tracks": [
		{"instrument": "piano", "notes": [{"pitch": "C4", "duration": 1, "velocity": 80}]},
		{"instrument": "bass", "channel": 1, "notes": [{"pitch": "C2", "duration": 2, "velocity": 90}]}
	]}`
	_, _, err := runCmd(t, doc, "generate", "--json", "-o", out)
	require.NoError(t, err)

	info := inspectFile(t, out)
	assert.Equal(t, 3, info.TrackCount)
	assert.Equal(t, 2, info.TotalNotes)
}

func TestGenerateFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "song.yaml")
	require.NoError(t, os.WriteFile(in, []byte("tempo: 110\nnotes:\n  - {pitch: A4, duration: 1, velocity: 70}\n"), 0o644))
	out := filepath.Join(dir, "song.mid")

	_, _, err := runCmd(t, "", "generate", "-f", in, "-o", out)
	require.NoError(t, err)
	assert.InDelta(t, 110.0, inspectFile(t, out).Tempo, 0.01)
}

func TestGenerateErrors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "x.mid")

	_, _, err := runCmd(t, "", "generate", "-o", out)
	assert.ErrorContains(t, err, "--notes")

	_, _, err = runCmd(t, "", "generate", "--notes", "C4:1:80", "--json", "-o", out)
	assert.Error(t, err)

	_, _, err = runCmd(t, "", "generate", "--notes", "C4:0:80", "-o", out)
	assert.True(t, errors.Is(err, midi.ErrOutOfRange), "got %v", err)

	_, _, err = runCmd(t, "", "generate", "--notes", "C4:1:80", "-i", "kazoo", "-o", out)
	assert.True(t, errors.Is(err, midi.ErrUnknownInstrument), "got %v", err)
}

func TestMoodsAndInstruments(t *testing.T) {
	stdout, _, err := runCmd(t, "", "moods")
	require.NoError(t, err)
	for _, m := range []string{"suspense", "eerie", "upbeat", "calm", "ambient", "jazz"} {
		assert.Contains(t, stdout, m)
	}

	stdout, _, err = runCmd(t, "", "moods", "--format", "json")
	require.NoError(t, err)
	var moods []preset.MoodInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &moods))
	assert.Len(t, moods, 6)

	stdout, _, err = runCmd(t, "", "instruments", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "name: piano")

	stdout, _, err = runCmd(t, "", "instruments")
	require.NoError(t, err)
	assert.Contains(t, stdout, "GM PROGRAM")

	_, _, err = runCmd(t, "", "instruments", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestInfo(t *testing.T) {
	out := filepath.Join(t.TempDir(), "in.mid")
	_, _, err := runCmd(t, "", "generate", "--notes", "C4:1:80,G4:1:80@1", "-o", out)
	require.NoError(t, err)

	stdout, _, err := runCmd(t, "", "info", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Format:")
	assert.Contains(t, stdout, "480 ticks per quarter")
	assert.Contains(t, stdout, "2 notes C4-G4")

	stdout, _, err = runCmd(t, "", "info", out, "--format", "json")
	require.NoError(t, err)
	var info midi.FileInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, uint16(1), info.Format)

	stdout, _, err = runCmd(t, "", "info", out, "--query", ".total_notes")
	require.NoError(t, err)
	assert.Equal(t, "2\n", stdout)

	stdout, _, err = runCmd(t, "", "info", out, "-q", ".tracks[] | .events")
	require.NoError(t, err)
	assert.Len(t, strings.Fields(stdout), 2)

	_, _, err = runCmd(t, "", "info", out, "--query", ".[")
	assert.ErrorContains(t, err, "invalid jq expression")

	garbage := filepath.Join(t.TempDir(), "bad.mid")
	require.NoError(t, os.WriteFile(garbage, []byte("nope"), 0o644))
	_, _, err = runCmd(t, "", "info", garbage)
	assert.Error(t, err)
}

const fakeFluidSynth = `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-F" ]; then out="$2"; shift; fi
  shift
done
printf 'RIFFfull' > "$out"
`

const fakeFFmpeg = `#!/bin/sh
for a in "$@"; do last="$a"; done
printf 'RIFFtrim' > "$last"
`

func fakeRenderEnv(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	dir := t.TempDir()
	write := func(name, body string, mode os.FileMode) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), mode))
		return p
	}
	t.Setenv("FLUIDSYNTH", write("fluidsynth", fakeFluidSynth, 0o755))
	t.Setenv("FFMPEG", write("ffmpeg", fakeFFmpeg, 0o755))
	t.Setenv("SOUNDFONT", write("test.sf2", "sfbk", 0o644))
}

func TestPresetRendersWAV(t *testing.T) {
	fakeRenderEnv(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "intro.wav")

	_, stderr, err := runCmd(t, "", "preset", "-m", "suspense", "-d", "3", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Rendered WAV: "+out)

	wav, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "RIFFtrim", string(wav))
	assert.FileExists(t, filepath.Join(dir, "intro.mid"))
}

func TestGenerateAndRenderWAV(t *testing.T) {
	fakeRenderEnv(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "melody.wav")

	_, _, err := runCmd(t, "", "generate", "--notes", "C4:1:80", "-o", out)
	require.NoError(t, err)
	wav, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "RIFFfull", string(wav), "explicit notes are not trimmed")

	rendered := filepath.Join(dir, "again.wav")
	_, _, err = runCmd(t, "", "render", "-i", filepath.Join(dir, "melody.mid"), "-o", rendered)
	require.NoError(t, err)
	assert.FileExists(t, rendered)
}

func TestConfigFlagRequiresFile(t *testing.T) {
	_, _, err := runCmd(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "moods")
	assert.Error(t, err)
}

func TestFilterSensitiveHeaders(t *testing.T) {
	got := filterSensitiveHeaders(map[string]string{
		"authorization": "Bearer x",
		"cookie":        "a=b",
		"content-type":  "application/json",
	})
	assert.Equal(t, "[REDACTED]", got["authorization"])
	assert.Equal(t, "[REDACTED]", got["cookie"])
	assert.Equal(t, "application/json", got["content-type"])
}
