package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/softwarewrighter/midi-cli/internal/midi"
	"github.com/softwarewrighter/midi-cli/internal/preset"
)

type presetOptions struct {
	mood      string
	duration  float64
	key       string
	intensity int
	tempo     int
	seed      int64
	output    string
	soundFont string
}

func newPresetCmd(a *app) *cobra.Command {
	var opts presetOptions

	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Generate MIDI/audio from a mood preset",
		Long: `Generate MIDI/audio using a mood preset.

Examples:
  midi-cli preset -m jazz -d 8 -o intro.wav            # default seed 1
  midi-cli preset -m jazz -d 8 --seed 0 -o intro.wav   # random seed, printed for replay
  midi-cli preset -m jazz -d 8 --seed 42 -o intro.wav  # exact reproduction

Moods: suspense, eerie, upbeat, calm, ambient, jazz.
Use 'moods' to see descriptions and default keys.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.request(cmd.Flags().Changed)
			if err != nil {
				return err
			}
			res, err := preset.Generate(req)
			if err != nil {
				return err
			}
			if a.verbose {
				printPresetDetails(cmd.ErrOrStderr(), res, opts.seed <= 0)
			}

			data, err := res.Encode()
			if err != nil {
				return err
			}
			midiPath, err := a.writeOutput(cmd, data, opts.output, opts.soundFont, res.DurationSeconds)
			if midiPath != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Generated %s preset (seed: %d, key: %s): %s\n", res.Mood, res.Seed, res.Key, midiPath)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.mood, "mood", "m", "", "mood preset: suspense, eerie, upbeat, calm, ambient, jazz")
	cmd.Flags().Float64VarP(&opts.duration, "duration", "d", preset.DefaultDuration, "duration in seconds")
	cmd.Flags().StringVarP(&opts.key, "key", "k", "", keyUsage())
	cmd.Flags().IntVar(&opts.intensity, "intensity", preset.DefaultIntensity, "intensity 0-100, controls layering and dynamics")
	cmd.Flags().IntVarP(&opts.tempo, "tempo", "t", preset.DefaultTempo, "tempo in BPM")
	cmd.Flags().Int64VarP(&opts.seed, "seed", "s", 1, "random seed for reproducible output, 0 for a random seed")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.mid, or .wav to render audio)")
	cmd.Flags().StringVar(&opts.soundFont, "soundfont", "", "SoundFont for WAV rendering (auto-detected if not set)")
	cmd.MarkFlagRequired("mood")
	cmd.MarkFlagRequired("output")

	return cmd
}

// request builds the preset request. A zero duration or tempo in a Request
// selects the default, so zeros given explicitly on the command line are
// rejected here instead.
func (o presetOptions) request(changed func(name string) bool) (preset.Request, error) {
	if changed("duration") && o.duration == 0 {
		return preset.Request{}, midi.NewError(midi.KindOutOfRange, "duration", o.duration, "> 0 seconds")
	}
	if changed("tempo") && o.tempo == 0 {
		return preset.Request{}, midi.NewError(midi.KindInvalidTempo, "tempo", o.tempo, "20-300 BPM")
	}

	req := preset.Request{
		Mood:            o.mood,
		DurationSeconds: o.duration,
		Key:             o.key,
		Tempo:           o.tempo,
	}
	if changed("intensity") {
		intensity := o.intensity
		req.Intensity = &intensity
	}
	if o.seed > 0 {
		req.Seed = uint64(o.seed)
	}
	return req, nil
}

func keyUsage() string {
	names := make([]string, 0, len(preset.Keys()))
	for _, k := range preset.Keys() {
		names = append(names, k.String())
	}
	return "musical key: " + strings.Join(names, ", ") + " (default: the mood's key)"
}

func printPresetDetails(w io.Writer, res *preset.Result, randomSeed bool) {
	seed := fmt.Sprint(res.Seed)
	if randomSeed {
		seed += dimStyle.Render(" (random)")
	}
	fmt.Fprintln(w, headerStyle.Render("Preset"))
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Mood:"), res.Mood)
	fmt.Fprintf(w, "  %s %s (root MIDI note %d)\n", labelStyle.Render("Key:"), res.Key, res.Key.Root())
	fmt.Fprintf(w, "  %s %.1fs (%.1f beats at %d BPM)\n", labelStyle.Render("Duration:"),
		res.DurationSeconds, res.DurationSeconds*float64(res.Tempo)/60, res.Tempo)
	fmt.Fprintf(w, "  %s %d/100\n", labelStyle.Render("Intensity:"), res.Intensity)
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Seed:"), seed)
	fmt.Fprintf(w, "  %s %d\n", labelStyle.Render("Layers:"), len(res.Layers))
	for i, l := range res.Layers {
		fmt.Fprintf(w, "    %d. %s %s %d notes, program %d, channel %d\n",
			i+1, column(l.Name, 10), column(l.Instrument, 18), l.Notes, l.Program, l.Channel)
	}
}
