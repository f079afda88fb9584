package preset

var eerieLayers = map[string]layerFunc{
	"pad":     eeriePad,
	"bells":   eerieBells,
	"texture": eerieTexture,
}

var diminishedScale = []int{0, 2, 3, 5, 6, 8, 9, 11}

// eeriePad spreads root, minor third and tritone over three octaves. Voices
// enter one after another, each a little louder, so the chord fades in.
func eeriePad(s *session, p *part) {
	stagger := min(1.0, s.beats/6)
	voices := []int{s.root - 12, s.root + 3, s.root + 18}
	for i, pitch := range voices {
		start := float64(float64(i) * stagger)
		p.add(pitch, s.beats-start, 30+5*i, start)
	}
}

func eerieBells(s *session, p *part) {
	count := s.rand.BoundedInt(1, 4)
	for i := range count {
		interval := diminishedScale[s.rand.Pick(len(diminishedScale))]
		octave := s.rand.BoundedInt(1, 3) * 12
		pos := float64(i) / float64(count) * s.beats * 0.8
		vel := 30 + s.rand.BoundedInt(0, 21)
		dur := s.rand.Uniform(1, 2)
		p.add(s.root+interval+octave, dur, vel, pos)
	}
}

// eerieTexture is a soft chromatic random walk that stays within a tritone of
// the root.
func eerieTexture(s *session, p *part) {
	const step = 0.5
	pitch := s.root
	for t := 0.0; t < s.beats; t += step {
		pitch = clamp(pitch, s.root-6, s.root+6)
		p.add(pitch, step, 15+s.rand.BoundedInt(0, 11), t)
		pitch += s.rand.BoundedInt(-1, 2)
	}
}
