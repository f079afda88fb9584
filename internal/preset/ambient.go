package preset

import (
	"slices"
)

var ambientLayers = map[string]layerFunc{
	"drone": ambientDrone,
	"tones": ambientTones,
}

var (
	pentatonicMajor = []int{0, 2, 4, 7, 9}
	pentatonicMinor = []int{0, 3, 5, 7, 10}
)

// ambientDrone stacks root, fifth and octave across the two octaves below
// middle register. The clip is cut into segments whose velocity drifts.
func ambientDrone(s *session, p *part) {
	const segment = 4.0
	pitches := []int{s.root - 24, s.root - 24 + s.key.Fifth(), s.root - 12}

	vel := 35
	for t := 0.0; t < s.beats; t += segment {
		dur := min(segment, s.beats-t)
		for _, pitch := range pitches {
			p.add(pitch, dur, vel, t)
		}
		vel = clamp(vel+s.rand.BoundedInt(-3, 4), 30, 45)
	}
}

// ambientTones scatters pentatonic notes; intensity adds more of them.
func ambientTones(s *session, p *part) {
	scale := pentatonicMajor
	if s.key.Minor() {
		scale = pentatonicMinor
	}

	count := 3 + s.cfg.Intensity/30
	positions := make([]float64, count)
	for i := range positions {
		positions[i] = s.rand.Uniform(0.5, s.beats-1)
	}
	slices.Sort(positions)

	for _, pos := range positions {
		interval := scale[s.rand.Pick(len(scale))]
		octave := s.rand.BoundedInt(0, 3) * 12
		vel := 20 + s.rand.BoundedInt(0, 21)
		dur := s.rand.Uniform(1.5, 3)
		p.add(s.root+interval+octave, dur, vel, pos)
	}
}
