package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/softwarewrighter/midi-cli/internal/midi"
)

func newInfoCmd() *cobra.Command {
	var format, query string

	cmd := &cobra.Command{
		Use:   "info <file.mid>",
		Short: "Show the structure of a MIDI file",
		Long: `Show the format, tempo and per-track contents of a MIDI file.

Examples:
  midi-cli info intro.mid
  midi-cli info intro.mid --format json
  midi-cli info intro.mid --query '.tracks[] | select(.notes > 0) | .instrument'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			info, err := midi.Inspect(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			if query != "" {
				return runQuery(cmd, query, info)
			}
			return printFormatted(cmd, format, info, func() {
				printFileInfo(cmd, args[0], info)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table, json or yaml")
	cmd.Flags().StringVarP(&query, "query", "q", "", "jq expression applied to the JSON form")
	return cmd
}

func printFileInfo(cmd *cobra.Command, path string, info *midi.FileInfo) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("MIDI file:"), path)
	fmt.Fprintf(w, "%s %d\n", labelStyle.Render("Format:"), info.Format)
	fmt.Fprintf(w, "%s %d ticks per quarter\n", labelStyle.Render("Timing:"), info.Division)
	fmt.Fprintf(w, "%s %.1f BPM\n", labelStyle.Render("Tempo:"), info.Tempo)
	fmt.Fprintf(w, "%s %.2f beats, %.2fs\n", labelStyle.Render("Length:"), info.DurationBeats, info.DurationSeconds)
	fmt.Fprintf(w, "%s %d\n", labelStyle.Render("Tracks:"), info.TrackCount)
	for _, t := range info.Tracks {
		line := fmt.Sprintf("  Track %d: %d events", t.Index, t.Events)
		if t.Notes > 0 {
			line += fmt.Sprintf(", %d notes %s-%s", t.Notes, t.LowPitch, t.HighPitch)
		}
		if t.Instrument != "" {
			line += dimStyle.Render(" " + t.Instrument)
		}
		fmt.Fprintln(w, line)
	}
}

// runQuery evaluates a jq expression over v and prints every result as JSON.
func runQuery(cmd *cobra.Command, expr string, v any) error {
	q, err := gojq.Parse(expr)
	if err != nil {
		return fmt.Errorf("invalid jq expression %q: %w", expr, err)
	}

	// gojq works on plain JSON values
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var input any
	if err := json.Unmarshal(raw, &input); err != nil {
		return err
	}

	iter := q.RunWithContext(cmd.Context(), input)
	for {
		out, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, ok := out.(error); ok {
			return fmt.Errorf("jq error: %w", err)
		}
		data, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("marshal jq result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}
}
