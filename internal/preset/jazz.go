package preset

import (
	"slices"
)

var jazzLayers = map[string]layerFunc{
	"bass":    jazzBass,
	"comping": jazzComping,
	"drums":   jazzDrums,
}

// GM percussion keys
const (
	drumSideStick   = 37
	drumSnare       = 38
	drumClosedHiHat = 42
	drumPedalHiHat  = 44
	drumRide        = 51
	drumRideBell    = 53
	drumHighBlock   = 76
	drumLowBlock    = 77
)

// lowest bass pitch (E1)
const bassFloor = 28

type bassStyle int

const (
	bassWalking bassStyle = iota
	bassTwoFeel
	bassSyncopated
)

// acoustic grand is weighted over bright piano and electric piano
var compingPrograms = []uint8{0, 0, 0, 1, 4}

var (
	minorVoicings = [][]int{
		{3, 7, 10, 14},
		{3, 10, 14},
		{10, 14, 17},
		{-2, 3, 7, 10},
		{3, 7, 10},
		{7, 10, 14, 17},
	}
	majorVoicings = [][]int{
		{4, 7, 11, 14},
		{4, 11, 14},
		{11, 14, 16},
		{-1, 4, 7, 11},
		{4, 7, 11},
		{7, 11, 14, 18},
	}
)

// jazzBass walks through the scale and the seventh chord two octaves down,
// with swung off-beats, chromatic approach tones and the odd grace note.
func jazzBass(s *session, p *part) {
	var style bassStyle
	switch s.rand.BoundedInt(0, 4) {
	case 0, 1:
		style = bassWalking
	case 2:
		style = bassTwoFeel
	default:
		style = bassSyncopated
	}

	root := max(s.root-24, bassFloor)

	var scaleNotes []int
	for _, octave := range []int{-12, 0, 12} {
		for _, interval := range append(s.key.ScaleIntervals(), 12) { // with the octave
			n := root + octave + interval
			if n >= bassFloor && n <= root+14 {
				scaleNotes = append(scaleNotes, n)
			}
		}
	}
	slices.Sort(scaleNotes)
	scaleNotes = slices.Compact(scaleNotes)

	chord := []int{root, root + s.key.Third(), root + s.key.Fifth(), root + s.key.Seventh()}

	step, length := 1.0, 0.95
	switch style {
	case bassTwoFeel:
		step, length = 2.0, 1.9
	case bassSyncopated:
		length = 0.8
	}

	scaleStep := func(from, dir int) int {
		idx, _ := slices.BinarySearch(scaleNotes, from)
		if dir > 0 {
			if idx+1 < len(scaleNotes) {
				return scaleNotes[idx+1]
			}
			return from
		}
		if idx > 0 {
			return scaleNotes[idx-1]
		}
		return from
	}

	last := root
	base := 95 + s.cfg.Intensity/10
	for t := 0.0; t < s.beats; {
		if style == bassSyncopated && t > 0 && s.rand.Chance(0.15) {
			t += 0.5
			continue
		}

		var pitch int
		switch {
		case t == 0:
			pitch = root
		case s.rand.Chance(0.55):
			dir := 1
			if s.rand.Chance(0.5) {
				dir = -1
			}
			pitch = scaleStep(last, dir)
		case s.rand.Chance(0.5):
			pitch = chord[s.rand.Pick(len(chord))]
		default:
			target := chord[s.rand.Pick(len(chord))]
			if s.rand.Chance(0.5) {
				pitch = max(target-1, bassFloor)
			} else {
				pitch = min(target+1, root+12)
			}
		}

		accent := -3
		if beat := int(t) % 4; beat == 0 || beat == 2 {
			accent = 5
		}
		vel := min(base+accent+s.rand.BoundedInt(0, 8), 127)

		var swing float64
		if int(t*2)%2 == 1 {
			swing = s.rand.Uniform(0.02, 0.08)
		} else {
			swing = s.rand.Uniform(-0.02, 0.02)
		}
		at := max(t+swing, 0)
		dur := max(length+s.rand.Uniform(-0.05, 0.05), 0.1)

		if s.rand.Chance(0.15) && at > 0.1 {
			grace := pitch + 1
			if s.rand.Chance(0.5) {
				grace = pitch - 1
			}
			p.add(grace, 0.08, max(vel-20, 40), at-0.08)
		}
		p.add(pitch, dur, vel, at)
		last = pitch

		if style == bassSyncopated && s.rand.Chance(0.25) {
			ghost := chord[s.rand.Pick(len(chord))]
			ghostAt := t + 0.5 + s.rand.Uniform(0, 0.05)
			if ghostAt < s.beats {
				p.add(ghost, 0.2, base-35, ghostAt)
			}
		}
		t += step
	}
}

// jazzComping places chord voicings around the off-beats and drifts between
// neighbouring voicings. Sparser styles skip more often and leave more room.
func jazzComping(s *session, p *part) {
	p.program = compingPrograms[s.rand.Pick(len(compingPrograms))]

	skip, stride := 0.25, 1.5
	switch s.rand.BoundedInt(0, 4) {
	case 0:
		skip, stride = 0.45, 2.0
	case 3:
		skip, stride = 0.10, 1.0
	}

	voicings := majorVoicings
	if s.key.Minor() {
		voicings = minorVoicings
	}
	idx := s.rand.Pick(len(voicings))

	base := 30 + s.cfg.Intensity/12
	for t := 0.5; t < s.beats-0.5; {
		if s.rand.Chance(skip * 0.5) {
			t += s.rand.Uniform(0.5, 1)
			continue
		}

		at := t
		if s.rand.Chance(0.4) {
			at += s.rand.Uniform(0.1, 0.4)
		}
		if at >= s.beats {
			break
		}

		var dur float64
		switch {
		case s.rand.Chance(0.3):
			dur = 0.2
		case s.rand.Chance(0.4):
			dur = 0.5
		default:
			dur = s.rand.Uniform(0.8, 1.2)
		}

		for i, interval := range voicings[idx] {
			pitch := clamp(s.root+interval, 48, 84)
			vel := min(base+i*2+s.rand.BoundedInt(0, 10), 110)
			p.add(pitch, dur, vel, at)
		}

		if s.rand.Chance(0.15) && at+0.5 < s.beats {
			jazzFlourish(s, p, at)
		}

		idx = (idx + s.rand.BoundedInt(-1, 2) + len(voicings)) % len(voicings)
		t += stride + s.rand.Uniform(-0.3, 0.3)
	}

	if len(p.notes) == 0 {
		for i, interval := range voicings[idx] {
			p.add(clamp(s.root+interval, 48, 84), 0.5, base+i*2, min(0.5, s.beats/2))
		}
	}
}

// jazzFlourish is a quick scalar run in the upper octave after a chord.
func jazzFlourish(s *session, p *part, after float64) {
	scale := s.key.ScaleIntervals()
	start := after + s.rand.Uniform(0.5, 0.8)
	degree := s.rand.Pick(len(scale))
	dir := 1
	if s.rand.Chance(0.5) {
		dir = -1
	}
	count := s.rand.BoundedInt(2, 5)

	for i := range count {
		d := ((degree+dir*i)%len(scale) + len(scale)) % len(scale)
		pitch := clamp(s.root+scale[d]+12, 60, 84)
		p.add(pitch, 0.15, 35+s.rand.BoundedInt(0, 15), start+float64(float64(i)*0.1))
	}
}

// jazzDrums is a brushed ride pattern with swung skip notes, the hi-hat foot
// on 2 and 4, and woodblock accents that grow more frequent and louder with
// intensity.
func jazzDrums(s *session, p *part) {
	swing := s.rand.Uniform(0.62, 0.72)
	accentChance := float64(s.cfg.Intensity) / 200

	for t := 0.0; t < s.beats; t++ {
		beat := int(t)

		p.add(drumRide, 0.2, 65+s.rand.BoundedInt(0, 20), t)

		if and := t + swing; and < s.beats && s.rand.Chance(0.85) {
			key := drumRide
			if !s.rand.Chance(0.8) {
				key = drumRideBell
			}
			p.add(key, 0.15, 55+s.rand.BoundedInt(0, 15), and)
		}

		if beat%2 == 1 {
			p.add(drumPedalHiHat, 0.1, 50+s.rand.BoundedInt(0, 15), t)
		}

		if s.rand.Chance(0.2) && t+0.5 < s.beats {
			p.add(drumClosedHiHat, 0.08, 45+s.rand.BoundedInt(0, 10), t+0.5)
		}

		if beat%2 == 1 && s.rand.Chance(0.7) {
			key := drumSnare
			if s.rand.Chance(0.6) {
				key = drumSideStick
			}
			p.add(key, 0.15, 50+s.rand.BoundedInt(0, 20), t)
		}

		// brush swirl: a soft, longer snare
		if s.rand.Chance(0.1) {
			if at := t + s.rand.Uniform(0.2, 0.4); at < s.beats {
				p.add(drumSnare, 0.3, 40+s.rand.BoundedInt(0, 10), at)
			}
		}

		if s.rand.Chance(accentChance) {
			key := drumHighBlock
			if s.rand.Chance(0.5) {
				key = drumLowBlock
			}
			at := t + swing
			if at >= s.beats {
				at = t
			}
			p.add(key, 0.1, 60+s.cfg.Intensity/5+s.rand.BoundedInt(0, 10), at)
		}
	}
}
