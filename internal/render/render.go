// Package render turns Standard MIDI Files into WAV audio with FluidSynth,
// optionally trimming the reverb tail with ffmpeg.
package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/softwarewrighter/midi-cli/internal/logger"
)

const (
	sampleRate      = "44100"
	gain            = "1.0"
	fadeOutSeconds  = 0.5
	defaultTimeout  = 2 * time.Minute
	fluidSynthBin   = "fluidsynth"
	ffmpegBin       = "ffmpeg"
	renderedTmpName = "render.tmp.wav"
)

var (
	ErrFluidSynthNotFound = errors.New("FluidSynth not found (macOS: brew install fluid-synth, Ubuntu: apt install fluidsynth)")
	ErrSoundFontNotFound  = errors.New("no SoundFont found (install FluidR3_GM or pass --soundfont)")
)

// Locations searched after PATH.
var fluidSynthPaths = []string{
	"/opt/homebrew/bin/fluidsynth",
	"/usr/local/bin/fluidsynth",
	"/usr/bin/fluidsynth",
}

// Project-local SoundFonts win over system ones.
var soundFontPaths = []string{
	"soundfonts/FluidR3_GM.sf2",
	"soundfonts/GeneralUser_GS.sf2",
	"soundfonts/MuseScore_General.sf2",
	"soundfonts/default.sf2",
	"/opt/homebrew/share/sounds/sf2/FluidR3_GM.sf2",
	"/opt/homebrew/share/soundfonts/default.sf2",
	"/usr/local/share/soundfonts/default.sf2",
	"/usr/share/sounds/sf2/FluidR3_GM.sf2",
	"/usr/share/soundfonts/FluidR3_GM.sf2",
	"/usr/share/soundfonts/default.sf2",
	"/usr/share/soundfonts/freepats-general-midi.sf2",
}

// Options selects the external tools. Empty fields are discovered.
type Options struct {
	FluidSynth string
	SoundFont  string
	FFmpeg     string
	Timeout    time.Duration
}

// Renderer runs FluidSynth and ffmpeg as subprocesses.
type Renderer struct {
	fluidSynth string
	soundFont  string
	ffmpeg     string // empty disables trimming
	timeout    time.Duration
}

// New resolves the tools named by opts. FluidSynth and a SoundFont are
// required; ffmpeg is optional.
func New(opts Options) (*Renderer, error) {
	fs, err := FindFluidSynth(opts.FluidSynth)
	if err != nil {
		return nil, err
	}
	sf, err := FindSoundFont(opts.SoundFont)
	if err != nil {
		return nil, err
	}
	ff := opts.FFmpeg
	if ff == "" {
		ff, _ = exec.LookPath(ffmpegBin)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Renderer{fluidSynth: fs, soundFont: sf, ffmpeg: ff, timeout: timeout}, nil
}

// SoundFont is the resolved SoundFont path.
func (r *Renderer) SoundFont() string {
	return r.soundFont
}

// FindFluidSynth returns explicit when set, else the first FluidSynth on PATH
// or in a standard install location.
func FindFluidSynth(explicit string) (string, error) {
	if explicit != "" {
		if p, err := exec.LookPath(explicit); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("%w: %s", ErrFluidSynthNotFound, explicit)
	}
	if p, err := exec.LookPath(fluidSynthBin); err == nil {
		return p, nil
	}
	for _, p := range fluidSynthPaths {
		if isFile(p) {
			return p, nil
		}
	}
	return "", ErrFluidSynthNotFound
}

// FindSoundFont returns explicit when it exists, else the first SoundFont in
// the search list.
func FindSoundFont(explicit string) (string, error) {
	if explicit != "" {
		if isFile(explicit) {
			return explicit, nil
		}
		return "", fmt.Errorf("%w: %s", ErrSoundFontNotFound, explicit)
	}
	for _, p := range soundFontPaths {
		if isFile(p) {
			return p, nil
		}
	}
	return "", ErrSoundFontNotFound
}

// Render writes wavPath from midiPath. When trimSeconds is positive the
// audio is cut to that length with a short fade-out; if ffmpeg is missing or
// fails the untrimmed render is kept.
func (r *Renderer) Render(ctx context.Context, midiPath, wavPath string, trimSeconds float64) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := os.MkdirAll(filepath.Dir(wavPath), 0o755); err != nil {
		return err
	}

	target := wavPath
	if trimSeconds > 0 {
		target = filepath.Join(filepath.Dir(wavPath), "."+filepath.Base(wavPath)+"."+renderedTmpName)
	}

	// -F must precede the SoundFont and MIDI arguments.
	args := []string{"-ni", "-g", gain, "-r", sampleRate, "-F", target, r.soundFont, midiPath}
	logger.Debug("Rendering MIDI", logger.Fields{"fluidsynth": r.fluidSynth, "args": strings.Join(args, " ")})
	if err := run(ctx, r.fluidSynth, args); err != nil {
		os.Remove(target)
		return fmt.Errorf("fluidsynth: %w", err)
	}

	if trimSeconds <= 0 {
		return nil
	}
	defer os.Remove(target)
	return r.trim(ctx, target, wavPath, trimSeconds)
}

// RenderBytes renders an in-memory MIDI file and returns the WAV bytes.
func (r *Renderer) RenderBytes(ctx context.Context, midiData []byte, trimSeconds float64) ([]byte, error) {
	dir, err := os.MkdirTemp("", "midi-cli-render-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	midiPath := filepath.Join(dir, "in.mid")
	wavPath := filepath.Join(dir, "out.wav")
	if err := os.WriteFile(midiPath, midiData, 0o644); err != nil {
		return nil, err
	}
	if err := r.Render(ctx, midiPath, wavPath, trimSeconds); err != nil {
		return nil, err
	}
	return os.ReadFile(wavPath)
}

func (r *Renderer) trim(ctx context.Context, src, dst string, seconds float64) error {
	if r.ffmpeg == "" {
		logger.Warn("ffmpeg not found, audio may be longer than requested", nil)
		return os.Rename(src, dst)
	}

	fadeStart := seconds - fadeOutSeconds
	if fadeStart < 0 {
		fadeStart = 0
	}
	args := []string{
		"-y",
		"-i", src,
		"-t", fmt.Sprintf("%.2f", seconds),
		"-af", fmt.Sprintf("afade=t=out:st=%.2f:d=%.2f", fadeStart, fadeOutSeconds),
		dst,
	}
	if err := run(ctx, r.ffmpeg, args); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg: %w", err)
		}
		logger.Warn("ffmpeg trim failed, using untrimmed audio", logger.Fields{"error": err.Error()})
		return os.Rename(src, dst)
	}
	return nil
}

func run(ctx context.Context, bin string, args []string) error {
	out, err := exec.CommandContext(ctx, bin, args...).CombinedOutput()
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if msg := strings.TrimSpace(string(out)); msg != "" {
		return fmt.Errorf("%w: %s", err, msg)
	}
	return err
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
