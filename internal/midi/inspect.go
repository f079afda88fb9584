package midi

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

var errNotSMF = errors.New("not a standard MIDI file")

// headerChunk mirrors the MThd chunk body.
type headerChunk struct {
	ID       [4]byte
	Length   uint32
	Format   uint16
	Tracks   uint16
	Division uint16
}

// TrackInfo summarizes one track of a decoded file.
type TrackInfo struct {
	Index      int     `json:"index" yaml:"index"`
	Program    *uint8  `json:"program,omitempty" yaml:"program,omitempty"`
	Instrument string  `json:"instrument,omitempty" yaml:"instrument,omitempty"`
	Channel    *uint8  `json:"channel,omitempty" yaml:"channel,omitempty"`
	Events     int     `json:"events" yaml:"events"`
	Notes      int     `json:"notes" yaml:"notes"`
	LowPitch   string  `json:"low_pitch,omitempty" yaml:"low_pitch,omitempty"`
	HighPitch  string  `json:"high_pitch,omitempty" yaml:"high_pitch,omitempty"`
	FirstTick  uint32  `json:"first_tick" yaml:"first_tick"`
	LastTick   uint32  `json:"last_tick" yaml:"last_tick"`
	Tempo      float64 `json:"tempo,omitempty" yaml:"tempo,omitempty"`
}

// FileInfo summarizes a decoded Standard MIDI File.
type FileInfo struct {
	Format          uint16      `json:"format" yaml:"format"`
	Division        uint16      `json:"division" yaml:"division"`
	TrackCount      int         `json:"track_count" yaml:"track_count"`
	Tempo           float64     `json:"tempo" yaml:"tempo"`
	TotalTicks      uint32      `json:"total_ticks" yaml:"total_ticks"`
	DurationBeats   float64     `json:"duration_beats" yaml:"duration_beats"`
	DurationSeconds float64     `json:"duration_seconds" yaml:"duration_seconds"`
	TotalNotes      int         `json:"total_notes" yaml:"total_notes"`
	Tracks          []TrackInfo `json:"tracks" yaml:"tracks"`
}

// Inspect decodes data and reports its structure.
func Inspect(data []byte) (*FileInfo, error) {
	var hdr headerChunk
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: %v", errNotSMF, err)
	}
	if string(hdr.ID[:]) != "MThd" {
		return nil, errNotSMF
	}

	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode MIDI file: %w", err)
	}

	info := &FileInfo{
		Format:     hdr.Format,
		Division:   hdr.Division,
		TrackCount: len(s.Tracks),
		Tempo:      DefaultTempo,
	}

	tempoSeen := false
	for i, track := range s.Tracks {
		ti := TrackInfo{Index: i}
		var tick uint32
		low, high := -1, -1
		first := true

		for _, ev := range track {
			tick += ev.Delta
			ti.Events++

			var bpm float64
			if ev.Message.GetMetaTempo(&bpm) {
				ti.Tempo = bpm
				if !tempoSeen {
					info.Tempo = bpm
					tempoSeen = true
				}
				continue
			}

			msg := gomidi.Message(ev.Message)
			var ch, key, vel, prog uint8
			switch {
			case msg.GetProgramChange(&ch, &prog):
				ti.Program = &prog
				ti.Channel = &ch
				ti.Instrument = InstrumentName(prog, ch == PercussionChannel)
			case msg.GetNoteStart(&ch, &key, &vel):
				ti.Notes++
				if first {
					ti.FirstTick = tick
					first = false
				}
				if low < 0 || int(key) < low {
					low = int(key)
				}
				if int(key) > high {
					high = int(key)
				}
			}
		}

		ti.LastTick = tick
		if low >= 0 {
			ti.LowPitch = PitchName(uint8(low))
			ti.HighPitch = PitchName(uint8(high))
		}
		info.TotalNotes += ti.Notes
		info.TotalTicks = max(info.TotalTicks, tick)
		info.Tracks = append(info.Tracks, ti)
	}

	if info.Division > 0 {
		info.DurationBeats = float64(info.TotalTicks) / float64(info.Division)
	}
	if info.Tempo > 0 {
		info.DurationSeconds = info.DurationBeats * secondsPerMinute / info.Tempo
	}
	return info, nil
}
