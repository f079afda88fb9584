package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/softwarewrighter/midi-cli/internal/midi"
	"github.com/softwarewrighter/midi-cli/internal/render"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
	labelStyle  = lipgloss.NewStyle().Bold(true).Width(12)
)

// column renders s left-aligned in a fixed-width cell.
func column(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

// saveToFile writes data, creating parent directories.
func saveToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// renderOptions builds renderer options from the config and a --soundfont
// override.
func (a *app) renderOptions(soundFont string) render.Options {
	opts := render.Options{
		FluidSynth: a.cfg.FluidSynth,
		SoundFont:  a.cfg.SoundFont,
		FFmpeg:     a.cfg.FFmpeg,
		Timeout:    a.cfg.RenderTimeout,
	}
	if soundFont != "" {
		opts.SoundFont = soundFont
	}
	return opts
}

// writeOutput stores an encoded file at output. A .wav output also keeps the
// MIDI next to it and renders audio, trimmed to trim seconds when trim > 0.
// It returns the MIDI path written.
func (a *app) writeOutput(cmd *cobra.Command, data []byte, output, soundFont string, trim float64) (string, error) {
	ext := strings.ToLower(filepath.Ext(output))
	midiPath := output
	if ext == ".wav" {
		midiPath = strings.TrimSuffix(output, filepath.Ext(output)) + ".mid"
	}
	if err := saveToFile(midiPath, data); err != nil {
		return "", fmt.Errorf("failed to write MIDI: %w", err)
	}
	if ext != ".wav" {
		return midiPath, nil
	}

	r, err := render.New(a.renderOptions(soundFont))
	if err != nil {
		return midiPath, err
	}
	if err := r.Render(cmd.Context(), midiPath, output, trim); err != nil {
		return midiPath, err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Rendered WAV: %s\n", output)
	return midiPath, nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// describeSequences prints one line per track to w.
func describeSequences(w io.Writer, seqs []midi.NoteSequence) {
	for i, seq := range seqs {
		name := midi.InstrumentName(seq.Program, seq.Percussion)
		fmt.Fprintf(w, "  %s %d notes, program %d (%s), channel %d\n",
			labelStyle.Render(fmt.Sprintf("Track %d:", i+1)), len(seq.Notes), seq.Program, name, seq.OutputChannel())
	}
}
