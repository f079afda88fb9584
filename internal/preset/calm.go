package preset

var calmLayers = map[string]layerFunc{
	"pad":      calmPad,
	"arpeggio": calmArpeggio,
}

// calmPad sustains an open major seventh, or a minor chord with an added
// ninth in minor keys.
func calmPad(s *session, p *part) {
	r := s.root
	upper := []int{r + 4, r + 7, r + 11}
	if s.key.Minor() {
		upper = []int{r + 3, r + 7, r + 14}
	}
	p.add(r-12, s.beats, 40, 0)
	p.add(upper[0], s.beats, 35, 0)
	p.add(upper[1], s.beats, 35, 0)
	p.add(upper[2], s.beats, 30, 0)
}

// calmArpeggio walks up and down the triad an octave up, one note per beat.
func calmArpeggio(s *session, p *part) {
	chord := s.key.ChordTones()
	idx, dir := 0, 1

	start := min(0.25, s.beats/4)
	for t := start; t < s.beats-0.5 || len(p.notes) == 0; t += 1 {
		p.add(int(chord[idx])+12, 0.75, 40+s.rand.BoundedInt(0, 21), t)

		if idx+dir < 0 || idx+dir >= len(chord) {
			dir = -dir
		}
		idx += dir
	}
}
