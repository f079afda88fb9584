package preset

import (
	"strings"

	"github.com/softwarewrighter/midi-cli/internal/midi"
)

// Mood selects one of the preset composers.
type Mood int

const (
	MoodSuspense Mood = iota
	MoodEerie
	MoodUpbeat
	MoodCalm
	MoodAmbient
	MoodJazz
)

var moodNames = [...]string{"suspense", "eerie", "upbeat", "calm", "ambient", "jazz"}

// Moods returns every mood in catalog order.
func Moods() []Mood {
	moods := make([]Mood, len(moodNames))
	for i := range moods {
		moods[i] = Mood(i)
	}
	return moods
}

// ParseMood accepts a mood name or one of its aliases, case-insensitively.
func ParseMood(s string) (Mood, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, e := range catalog {
		if e.info.Name == name {
			return Mood(i), nil
		}
		for _, alias := range e.info.Aliases {
			if alias == name {
				return Mood(i), nil
			}
		}
	}
	return 0, midi.NewError(midi.KindUnknownMood, "mood", s, strings.Join(moodNames[:], ", "))
}

// Valid reports whether m is a defined mood.
func (m Mood) Valid() bool {
	return m >= MoodSuspense && m <= MoodJazz
}

func (m Mood) String() string {
	if !m.Valid() {
		return "Mood(?)"
	}
	return moodNames[m]
}

func (m Mood) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mood) UnmarshalText(text []byte) error {
	parsed, err := ParseMood(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// DefaultKey returns the key used when a request does not name one.
func (m Mood) DefaultKey() Key {
	return catalog[m].defaultKey
}

// Description returns the catalog description.
func (m Mood) Description() string {
	return catalog[m].info.Description
}

// Info returns the catalog entry for m.
func (m Mood) Info() MoodInfo {
	return catalog[m].info
}
