package preset

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/softwarewrighter/midi-cli/internal/midi"
	"github.com/softwarewrighter/midi-cli/pkg/embedded"
)

// MoodInfo describes a mood preset as listed in the embedded catalog.
type MoodInfo struct {
	Name        string      `json:"name" yaml:"name"`
	Aliases     []string    `json:"aliases" yaml:"aliases"`
	DefaultKey  string      `json:"default_key" yaml:"default_key"`
	Description string      `json:"description" yaml:"description"`
	Layers      []LayerInfo `json:"layers" yaml:"layers"`
}

// LayerInfo describes one layer of a mood. A layer with a Gate is only
// composed when the intensity exceeds it.
type LayerInfo struct {
	Name       string `json:"name" yaml:"name"`
	Instrument string `json:"instrument" yaml:"instrument"`
	Gate       *int   `json:"gate,omitempty" yaml:"gate,omitempty"`
}

type catalogFile struct {
	Moods []MoodInfo `yaml:"moods"`
}

// catalogEntry is a MoodInfo resolved against the instrument table and the
// layer functions.
type catalogEntry struct {
	info       MoodInfo
	defaultKey Key
	layers     []layerDef
}

type layerDef struct {
	name       string
	instrument midi.Instrument
	gate       int
	gated      bool
	build      layerFunc
}

var catalog = mustLoadCatalog(embedded.MoodsYAML)

func mustLoadCatalog(data []byte) []catalogEntry {
	entries, err := loadCatalog(data)
	if err != nil {
		panic(fmt.Sprintf("preset: embedded mood catalog: %v", err))
	}
	return entries
}

func loadCatalog(data []byte) ([]catalogEntry, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(file.Moods) != len(moodNames) {
		return nil, fmt.Errorf("catalog lists %d moods, want %d", len(file.Moods), len(moodNames))
	}

	entries := make([]catalogEntry, len(file.Moods))
	for i, info := range file.Moods {
		if info.Name != moodNames[i] {
			return nil, fmt.Errorf("catalog mood %d is %q, want %q", i, info.Name, moodNames[i])
		}
		key, err := ParseKey(info.DefaultKey)
		if err != nil {
			return nil, fmt.Errorf("mood %s: %w", info.Name, err)
		}

		funcs := layerFuncs[Mood(i)]
		layers := make([]layerDef, 0, len(info.Layers))
		for _, l := range info.Layers {
			inst, err := midi.ResolveInstrument(l.Instrument)
			if err != nil {
				return nil, fmt.Errorf("mood %s layer %s: %w", info.Name, l.Name, err)
			}
			build, ok := funcs[l.Name]
			if !ok {
				return nil, fmt.Errorf("mood %s: no composer for layer %q", info.Name, l.Name)
			}
			def := layerDef{name: l.Name, instrument: inst, build: build}
			if l.Gate != nil {
				def.gate = *l.Gate
				def.gated = true
			}
			layers = append(layers, def)
		}
		entries[i] = catalogEntry{info: info, defaultKey: key, layers: layers}
	}
	return entries, nil
}

// Catalog returns the mood catalog in display order.
func Catalog() []MoodInfo {
	out := make([]MoodInfo, len(catalog))
	for i, e := range catalog {
		out[i] = e.info
	}
	return out
}
