// Package commands implements the midi-cli command line.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/softwarewrighter/midi-cli/internal/config"
	"github.com/softwarewrighter/midi-cli/internal/logger"
)

// app carries the global flags and the configuration loaded from them.
type app struct {
	version    string
	verbose    bool
	configPath string
	cfg        *config.Config
}

// Execute runs the root command.
func Execute(version string) error {
	return newRootCmd(version).Execute()
}

func newRootCmd(version string) *cobra.Command {
	a := &app{version: version}

	root := &cobra.Command{
		Use:   "midi-cli",
		Short: "Generate MIDI music from notes or mood presets",
		Long: `midi-cli - generate MIDI files and WAV audio from note lists or mood presets.

Note format: PITCH:DURATION:VELOCITY[@OFFSET]
  PITCH     note name and octave (C4, F#3, Bb5) or MIDI number (60)
  DURATION  length in beats (1.0 = quarter note at tempo)
  VELOCITY  0-127 (80 = normal, 100+ = accented)
  OFFSET    start time in beats (optional, for chords and timing)

Output files ending in .mid are written directly; .wav also renders the
MIDI through FluidSynth.

Examples:
  # Mood presets
  midi-cli preset --mood suspense --duration 5 -o intro.wav
  midi-cli preset -m upbeat -d 7 --key C --seed 42 -o outro.mid

  # Explicit notes
  midi-cli generate --notes "C4:1:80,E4:0.5:100@1" -i piano -o melody.mid

  # Web server
  midi-cli serve --port 3105`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger.SetVerbose(a.verbose)
			cfg, err := config.LoadFile(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.midi-cli/config.yaml)")

	root.AddCommand(
		newGenerateCmd(a),
		newPresetCmd(a),
		newRenderCmd(a),
		newInstrumentsCmd(),
		newMoodsCmd(),
		newInfoCmd(),
		newServeCmd(a),
	)
	return root
}

// Main runs the command line and exits with its status.
func Main(version string) {
	if err := Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
