package preset

var upbeatLayers = map[string]layerFunc{
	"rhythm": upbeatRhythm,
	"bass":   upbeatBass,
	"melody": upbeatMelody,
}

// one bar of eighth-note chord stabs with accents on 1 and the "and" of 3
var upbeatPattern = []float64{0, 0.5, 1, 1.5, 2.5, 3, 3.5}

func upbeatRhythm(s *session, p *part) {
	chord := s.key.ChordTones()
	for bar := 0.0; bar < s.beats; bar += 4 {
		for _, offset := range upbeatPattern {
			pos := bar + offset
			if pos >= s.beats {
				break
			}

			accent := offset == 0 || offset == 2.5
			vel := 70 + s.rand.BoundedInt(0, 11)
			dur := 0.25
			if accent {
				vel += 10
			}
			if offset == 2.5 {
				dur = 0.75
			}
			for _, pitch := range chord {
				p.add(int(pitch), dur, vel, pos)
			}
		}
	}
}

// upbeatBass alternates root and fifth an octave down on every beat.
func upbeatBass(s *session, p *part) {
	root := s.root - 12
	fifth := root + s.key.Fifth()
	for i, t := 0, 0.0; t < s.beats; i, t = i+1, t+1 {
		pitch := root
		if i%2 == 1 {
			pitch = fifth
		}
		p.add(pitch, 0.9, 85+s.rand.BoundedInt(0, 11), t)
	}
}

// upbeatMelody is a short sixteenth-note run in the last stretch of the clip.
func upbeatMelody(s *session, p *part) {
	scale := s.key.ScaleIntervals()
	count := s.rand.BoundedInt(2, 5)
	start := s.beats * 0.6

	for i := range count {
		interval := scale[s.rand.Pick(len(scale))]
		octave := 0
		if s.rand.Chance(0.3) {
			octave = 12
		}
		vel := 70 + s.cfg.Intensity/10 + s.rand.BoundedInt(0, 11)

		pos := start + float64(float64(i)*0.25)
		if pos >= s.beats {
			break
		}
		dur := 0.25
		if i == count-1 {
			dur = 0.5
		}
		p.add(s.root+interval+octave, dur, vel, pos)
	}
}
