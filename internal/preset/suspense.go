package preset

import (
	"slices"
)

var suspenseLayers = map[string]layerFunc{
	"drone":   suspenseDrone,
	"tremolo": suspenseTremolo,
	"hits":    suspenseHits,
}

// suspenseDrone holds the root and fifth two octaves down for the whole clip.
func suspenseDrone(s *session, p *part) {
	p.add(s.root-24, s.beats, 40+s.cfg.Intensity/5, 0)
	p.add(s.root+s.key.Fifth()-24, s.beats, 40+s.cfg.Intensity/10, 0)
}

// suspenseTremolo alternates an octave-up root with the minor second above it
// in 32nd notes.
func suspenseTremolo(s *session, p *part) {
	const step = 0.125
	low, high := s.root+12, s.root+13
	base := 20 + s.cfg.Intensity/10

	pitch := low
	for t := 0.0; t < s.beats; t += step {
		p.add(pitch, step, base+s.rand.BoundedInt(0, 11), t)
		if pitch == low {
			pitch = high
		} else {
			pitch = low
		}
	}
}

// suspenseHits places one to three dissonant piano clusters. Louder hits
// become possible as intensity rises past the gate.
func suspenseHits(s *session, p *part) {
	cluster := []int{s.root, s.root + 1, s.root + 6}

	count := s.rand.BoundedInt(1, 4)
	positions := make([]float64, count)
	for i := range positions {
		positions[i] = s.rand.Uniform(0.5, s.beats-0.5)
	}
	slices.Sort(positions)

	spread := 11 + max(s.cfg.Intensity-60, 0)/2
	for _, pos := range positions {
		vel := 60 + s.rand.BoundedInt(0, spread)
		for _, pitch := range cluster {
			p.add(pitch, 0.5, vel, pos)
		}
	}
}
