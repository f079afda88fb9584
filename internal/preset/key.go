package preset

import (
	"slices"
	"strings"

	"github.com/softwarewrighter/midi-cli/internal/midi"
)

// Key is a tonal center: a root pitch class and a major or minor mode.
type Key int

const (
	KeyC Key = iota
	KeyCm
	KeyD
	KeyDm
	KeyEb
	KeyEbm
	KeyE
	KeyEm
	KeyF
	KeyFm
	KeyG
	KeyGm
	KeyA
	KeyAm
	KeyBb
	KeyBbm
	KeyB
	KeyBm
)

var keyNames = [...]string{
	"C", "Cm", "D", "Dm", "Eb", "Ebm", "E", "Em", "F", "Fm",
	"G", "Gm", "A", "Am", "Bb", "Bbm", "B", "Bm",
}

// root pitch in octave 4, indexed by Key/2
var keyRoots = [...]uint8{60, 62, 63, 64, 65, 67, 69, 70, 71}

var keyAliases = map[string]Key{
	"d#":  KeyEb,
	"d#m": KeyEbm,
	"a#":  KeyBb,
	"a#m": KeyBbm,
}

var (
	majorScale = []int{0, 2, 4, 5, 7, 9, 11}
	minorScale = []int{0, 2, 3, 5, 7, 8, 10}
)

// Keys returns every supported key in order.
func Keys() []Key {
	keys := make([]Key, len(keyNames))
	for i := range keys {
		keys[i] = Key(i)
	}
	return keys
}

// ParseKey accepts names like "Am", "c", "Bb" or "D#m", case-insensitively.
func ParseKey(s string) (Key, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if k, ok := keyAliases[name]; ok {
		return k, nil
	}
	for i, n := range keyNames {
		if strings.ToLower(n) == name {
			return Key(i), nil
		}
	}
	return 0, midi.NewError(midi.KindInvalidKey, "key", s, strings.Join(keyNames[:], ", "))
}

// Valid reports whether k is one of the defined keys.
func (k Key) Valid() bool {
	return k >= KeyC && k <= KeyBm
}

func (k Key) String() string {
	if !k.Valid() {
		return "Key(?)"
	}
	return keyNames[k]
}

// MarshalText lets keys appear by name in JSON and YAML output.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Root returns the root pitch in octave 4 (C4 = 60 through B4 = 71).
func (k Key) Root() uint8 {
	return keyRoots[k/2]
}

// Minor reports whether the key is in a minor mode.
func (k Key) Minor() bool {
	return k%2 == 1
}

// ScaleIntervals returns the natural minor or major scale in semitones.
func (k Key) ScaleIntervals() []int {
	if k.Minor() {
		return slices.Clone(minorScale)
	}
	return slices.Clone(majorScale)
}

// Third returns the interval of the third above the root.
func (k Key) Third() int {
	if k.Minor() {
		return 3
	}
	return 4
}

// Fifth returns the interval of the fifth above the root.
func (k Key) Fifth() int {
	return 7
}

// Seventh returns the interval of the diatonic seventh above the root.
func (k Key) Seventh() int {
	if k.Minor() {
		return 10
	}
	return 11
}

// ChordTones returns the root triad in octave 4.
func (k Key) ChordTones() []uint8 {
	r := k.Root()
	return []uint8{r, r + uint8(k.Third()), r + uint8(k.Fifth())}
}

// SeventhChord returns the root seventh chord (maj7 or m7) in octave 4.
func (k Key) SeventhChord() []uint8 {
	return append(k.ChordTones(), k.Root()+uint8(k.Seventh()))
}
