package midi

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"slices"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	microsecondsPerMinute = 60_000_000

	// MaxTicks is the largest absolute tick a 4-byte delta-time can carry.
	MaxTicks = 0x0FFFFFFF

	metaTempo      = 0x51
	maxTempoValue  = 0xFFFFFF
	maxChunkLength = math.MaxInt32
	maxDeltaBytes  = 4
)

// trackEvent is one note-on or note-off at an absolute tick.
type trackEvent struct {
	tick uint32
	on   bool
	msg  gomidi.Message
}

// Encode serializes sequences into a format 1 Standard MIDI File: a tempo
// track followed by one track per sequence. The tempo comes from the first
// sequence. Sequences are expected to be validated already.
func Encode(seqs []NoteSequence) ([]byte, error) {
	if len(seqs) == 0 {
		return nil, NewError(KindEmptyTrackSet, "sequences", 0, "at least one sequence")
	}

	file := smf.NewSMF1()
	file.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	meta, err := tempoTrack(seqs[0].Tempo)
	if err != nil {
		return nil, err
	}
	if err := file.Add(meta); err != nil {
		return nil, fmt.Errorf("add tempo track: %w", err)
	}

	for i, seq := range seqs {
		track, err := noteTrack(seq)
		if err != nil {
			return nil, withIndex(err, i)
		}
		if err := file.Add(track); err != nil {
			return nil, fmt.Errorf("add track %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write smf: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeTo encodes sequences and writes the complete file in a single call.
// Nothing is written when encoding fails.
func EncodeTo(w io.Writer, seqs []NoteSequence) error {
	data, err := Encode(seqs)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// tempoTrack holds the tempo and a 4/4 meter. The tempo is written from the
// truncated microseconds per quarter, so it is built by hand rather than
// with smf.MetaTempo, which rounds.
func tempoTrack(bpm int) (smf.Track, error) {
	if bpm <= 0 || microsecondsPerMinute/bpm > maxTempoValue {
		return nil, NewError(KindEncodingOverflow, "tempo", bpm, "microseconds per quarter within 24 bits")
	}
	us := uint32(microsecondsPerMinute / bpm)

	var track smf.Track
	track.Add(0, smf.Message{0xFF, metaTempo, 0x03, byte(us >> 16), byte(us >> 8), byte(us)})
	// 24 MIDI clocks per metronome click, 8 32nds per quarter
	track.Add(0, smf.MetaTimeSig(4, 4, 24, 8))
	track.Close(0)
	return track, nil
}

func noteTrack(seq NoteSequence) (smf.Track, error) {
	channel := seq.OutputChannel()

	events := make([]trackEvent, 0, len(seq.Notes)*2)
	for _, n := range seq.Notes {
		on, err := noteTick(n.Start, "start")
		if err != nil {
			return nil, err
		}
		off, err := noteTick(n.End(), "end")
		if err != nil {
			return nil, err
		}
		// very short notes still sound for one tick
		if off <= on {
			if on == MaxTicks {
				return nil, NewError(KindEncodingOverflow, "end", n.End(), "<= 268435455 ticks")
			}
			off = on + 1
		}
		events = append(events,
			trackEvent{tick: on, on: true, msg: gomidi.NoteOn(channel, n.Pitch, n.Velocity)},
			trackEvent{tick: off, on: false, msg: gomidi.NoteOff(channel, n.Pitch)},
		)
	}

	// note-offs precede note-ons at the same tick; otherwise input order
	slices.SortStableFunc(events, func(a, b trackEvent) int {
		switch {
		case a.tick != b.tick:
			if a.tick < b.tick {
				return -1
			}
			return 1
		case a.on == b.on:
			return 0
		case !a.on:
			return -1
		default:
			return 1
		}
	})

	program := gomidi.ProgramChange(channel, seq.Program)
	if size := trackSizeBound(program, events); size > maxChunkLength {
		return nil, NewError(KindEncodingOverflow, "chunk_length", size, "<= 2147483647 bytes")
	}

	track := make(smf.Track, 0, len(events)+2)
	track.Add(0, program)
	var last uint32
	for _, ev := range events {
		track.Add(ev.tick-last, ev.msg)
		last = ev.tick
	}
	track.Close(0)
	return track, nil
}

// trackSizeBound is the serialized size of a track without running status.
func trackSizeBound(program gomidi.Message, events []trackEvent) uint64 {
	size := uint64(maxDeltaBytes + len(program))
	for _, ev := range events {
		size += uint64(maxDeltaBytes + len(ev.msg))
	}
	return size + uint64(maxDeltaBytes+len(smf.EOT))
}

func noteTick(beats float64, field string) (uint32, error) {
	if math.IsNaN(beats) || math.IsInf(beats, 0) || beats < 0 {
		return 0, NewError(KindEncodingOverflow, field, beats, "finite, non-negative beats")
	}
	ticks := math.Round(beats * TicksPerQuarter)
	if ticks > MaxTicks {
		return 0, NewError(KindEncodingOverflow, field, beats, "<= 268435455 ticks")
	}
	return uint32(ticks), nil
}
