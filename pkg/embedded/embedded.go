package embedded

import (
	_ "embed"
)

// Mood catalog: names, aliases, default keys and descriptions.
//
//go:embed data/moods.yaml
var MoodsYAML []byte
