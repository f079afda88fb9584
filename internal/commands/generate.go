package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/softwarewrighter/midi-cli/internal/logger"
	"github.com/softwarewrighter/midi-cli/internal/midi"
)

type generateOptions struct {
	notes      string
	json       bool
	file       string
	instrument string
	tempo      int
	channel    int
	output     string
	soundFont  string
}

func newGenerateCmd(a *app) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate MIDI/audio from explicit notes",
		Long: `Generate MIDI/audio from explicit note lists.

Examples:
  midi-cli generate --notes "C4:1:80,E4:0.5:100@1" -i piano -o melody.wav
  echo '{"tempo":120,"notes":[...]}' | midi-cli generate --json -o out.mid
  midi-cli generate --file song.yaml -o song.mid

Note format: PITCH:DURATION:VELOCITY[@OFFSET]
  C4:1:80        middle C, 1 beat, velocity 80
  F#3:0.5:100@2  F# octave 3, half beat, loud, starts at beat 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seqs, err := opts.sequences(cmd.InOrStdin())
			if err != nil {
				return err
			}

			if a.verbose {
				w := cmd.ErrOrStderr()
				fmt.Fprintln(w, headerStyle.Render("Generate"))
				fmt.Fprintf(w, "  %s %d BPM\n", labelStyle.Render("Tempo:"), seqs[0].Tempo)
				describeSequences(w, seqs)
				for i, seq := range seqs {
					for _, n := range seq.Notes {
						logger.Debug("note", logger.Fields{"track": i + 1, "note": midi.FormatNoteToken(n)})
					}
				}
			}

			data, err := midi.Encode(seqs)
			if err != nil {
				return err
			}
			midiPath, err := a.writeOutput(cmd, data, opts.output, opts.soundFont, 0)
			if midiPath != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Generated MIDI: %s\n", midiPath)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.notes, "notes", "n", "", `notes as "PITCH:DURATION:VELOCITY[@OFFSET],..."`)
	cmd.Flags().BoolVarP(&opts.json, "json", "j", false, "read a JSON note document from stdin")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read a JSON or YAML note document from a file")
	cmd.Flags().StringVarP(&opts.instrument, "instrument", "i", "piano", "instrument name or GM program number (see 'instruments')")
	cmd.Flags().IntVarP(&opts.tempo, "tempo", "t", midi.DefaultTempo, "tempo in BPM")
	cmd.Flags().IntVarP(&opts.channel, "channel", "c", 0, "MIDI channel 0-15")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.mid, or .wav to render audio)")
	cmd.Flags().StringVar(&opts.soundFont, "soundfont", "", "SoundFont for WAV rendering (auto-detected if not set)")
	cmd.MarkFlagRequired("output")
	cmd.MarkFlagsMutuallyExclusive("notes", "json", "file")

	return cmd
}

// sequences builds the tracks from whichever input flag was given.
func (o generateOptions) sequences(stdin io.Reader) ([]midi.NoteSequence, error) {
	switch {
	case o.json:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return midi.DecodeInput(data, midi.FormatJSON)
	case o.file != "":
		data, err := os.ReadFile(o.file)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", o.file, err)
		}
		return midi.DecodeInput(data, midi.FormatFromPath(o.file))
	case o.notes != "":
		seq, err := midi.ParseSequence(o.notes, o.instrument, o.channel, o.tempo)
		if err != nil {
			return nil, err
		}
		return []midi.NoteSequence{seq}, nil
	default:
		return nil, errors.New("one of --notes, --json or --file must be specified")
	}
}
