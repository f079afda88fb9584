package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/softwarewrighter/midi-cli/internal/render"
)

func newRenderCmd(a *app) *cobra.Command {
	var input, output, soundFont string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render an existing MIDI file to WAV audio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := render.New(a.renderOptions(soundFont))
			if err != nil {
				return err
			}
			if err := r.Render(cmd.Context(), input, output, 0); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Rendered WAV: %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "MIDI file to render")
	cmd.Flags().StringVarP(&output, "output", "o", "", "WAV file to write")
	cmd.Flags().StringVar(&soundFont, "soundfont", "", "SoundFont for rendering (auto-detected if not set)")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}
