// Command midi-cli generates MIDI files and WAV audio from note
// lists or mood presets, and serves the same engine over HTTP.
package main

import (
	"github.com/softwarewrighter/midi-cli/internal/commands"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	commands.Main(GetVersion())
}
