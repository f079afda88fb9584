package midi

import (
	"strconv"
	"strings"
)

// Instrument is a named General MIDI program.
type Instrument struct {
	Name       string `json:"name" yaml:"name"`
	Program    uint8  `json:"program" yaml:"program"`
	Percussion bool   `json:"percussion,omitempty" yaml:"percussion,omitempty"`
}

// instrumentTable lists the accepted instrument names in display order.
var instrumentTable = []Instrument{
	// Keys
	{Name: "piano", Program: 0},
	{Name: "acoustic_piano", Program: 0},
	{Name: "bright_piano", Program: 1},
	{Name: "electric_piano", Program: 4},
	{Name: "celesta", Program: 8},
	{Name: "glockenspiel", Program: 9},
	{Name: "vibraphone", Program: 11},
	{Name: "marimba", Program: 12},
	{Name: "xylophone", Program: 13},
	{Name: "tubular_bells", Program: 14},
	// Guitar and bass
	{Name: "acoustic_guitar", Program: 25},
	{Name: "electric_guitar", Program: 27},
	{Name: "acoustic_bass", Program: 32},
	{Name: "bass", Program: 33},
	{Name: "electric_bass", Program: 33},
	// Strings
	{Name: "violin", Program: 40},
	{Name: "viola", Program: 41},
	{Name: "cello", Program: 42},
	{Name: "contrabass", Program: 43},
	{Name: "tremolo_strings", Program: 44},
	{Name: "pizzicato_strings", Program: 45},
	{Name: "harp", Program: 46},
	{Name: "strings", Program: 48},
	// Brass
	{Name: "trumpet", Program: 56},
	{Name: "trombone", Program: 57},
	{Name: "tuba", Program: 58},
	{Name: "french_horn", Program: 60},
	// Woodwinds
	{Name: "oboe", Program: 68},
	{Name: "bassoon", Program: 70},
	{Name: "clarinet", Program: 71},
	{Name: "flute", Program: 73},
	// Synth
	{Name: "synth_lead", Program: 80},
	{Name: "synth_pad", Program: 88},
	{Name: "pad_warm", Program: 89},
	{Name: "pad_choir", Program: 91},
	{Name: "soundtrack", Program: 97},
	{Name: "atmosphere", Program: 99},
	// Percussion channel
	{Name: "drums", Program: 0, Percussion: true},
	{Name: "percussion", Program: 0, Percussion: true},
}

var instrumentsByName = func() map[string]Instrument {
	m := make(map[string]Instrument, len(instrumentTable))
	for _, inst := range instrumentTable {
		m[inst.Name] = inst
	}
	return m
}()

// Instruments returns the instrument table in display order.
func Instruments() []Instrument {
	out := make([]Instrument, len(instrumentTable))
	copy(out, instrumentTable)
	return out
}

// ResolveInstrument accepts a program number (0-127) or an instrument name.
// Names are case-insensitive and may use spaces or hyphens for underscores.
func ResolveInstrument(name string) (Instrument, error) {
	s := strings.TrimSpace(name)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > MaxPitch {
			return Instrument{}, NewError(KindOutOfRange, "instrument", name, "program 0-127")
		}
		return Instrument{Name: s, Program: uint8(n)}, nil
	}

	key := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(s))
	inst, ok := instrumentsByName[key]
	if !ok {
		return Instrument{}, NewError(KindUnknownInstrument, "instrument", name, "GM program number or known name")
	}
	return inst, nil
}

// InstrumentName returns the first table name for a program, or the number.
func InstrumentName(program uint8, percussion bool) string {
	for _, inst := range instrumentTable {
		if inst.Program == program && inst.Percussion == percussion {
			return inst.Name
		}
	}
	return strconv.Itoa(int(program))
}
