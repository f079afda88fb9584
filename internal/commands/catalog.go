package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/softwarewrighter/midi-cli/internal/midi"
	"github.com/softwarewrighter/midi-cli/internal/preset"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// printFormatted writes v as JSON or YAML, or calls table for the default
// format.
func printFormatted(cmd *cobra.Command, format string, v any, table func()) error {
	switch format {
	case formatJSON:
		return printJSON(cmd.OutOrStdout(), v)
	case formatYAML:
		return printYAML(cmd.OutOrStdout(), v)
	case formatTable, "":
		table()
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}

func newInstrumentsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "instruments",
		Short: "List instrument names and their General MIDI programs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			instruments := midi.Instruments()
			return printFormatted(cmd, format, instruments, func() {
				w := cmd.OutOrStdout()
				fmt.Fprintln(w, headerStyle.Render(column("NAME", 22)+"GM PROGRAM"))
				for _, inst := range instruments {
					program := fmt.Sprint(inst.Program)
					if inst.Percussion {
						program += dimStyle.Render(" (drum kit, channel 10)")
					}
					fmt.Fprintln(w, column(inst.Name, 22)+program)
				}
				fmt.Fprintln(w, dimStyle.Render("\nProgram numbers 0-127 are accepted directly."))
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table, json or yaml")
	return cmd
}

func newMoodsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "moods",
		Short: "List mood presets with their default keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			moods := preset.Catalog()
			return printFormatted(cmd, format, moods, func() {
				w := cmd.OutOrStdout()
				fmt.Fprintln(w, headerStyle.Render(column("MOOD", 12)+column("KEY", 8)+"DESCRIPTION"))
				for _, m := range moods {
					fmt.Fprintln(w, column(m.Name, 12)+column(m.DefaultKey, 8)+m.Description)
					var layers []string
					for _, l := range m.Layers {
						layers = append(layers, l.Name)
					}
					fmt.Fprintln(w, dimStyle.Render(strings.Repeat(" ", 20)+"layers: "+strings.Join(layers, ", ")))
				}
				fmt.Fprintln(w, dimStyle.Render("\nUsage: midi-cli preset --mood suspense --duration 5 -o out.wav"))
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table, json or yaml")
	return cmd
}
