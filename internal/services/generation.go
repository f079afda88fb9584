package services

import (
	"context"
	"fmt"
	"time"

	"github.com/softwarewrighter/midi-cli/internal/logger"
	"github.com/softwarewrighter/midi-cli/internal/metrics"
	"github.com/softwarewrighter/midi-cli/internal/midi"
	"github.com/softwarewrighter/midi-cli/internal/models"
	"github.com/softwarewrighter/midi-cli/internal/preset"
	"github.com/softwarewrighter/midi-cli/internal/render"
	"github.com/softwarewrighter/midi-cli/internal/storage"
)

const artifactTimeLayout = "20060102_150405"

// Artifact names the files written for one generation. AudioPath is empty
// when no renderer is configured.
type Artifact struct {
	MIDIPath    string
	AudioPath   string
	GeneratedAt time.Time
}

// GenerationService composes presets and melodies, encodes them and stores
// the resulting files.
type GenerationService struct {
	files    storage.FileStore
	renderer *render.Renderer
	cw       *metrics.Client
	spans    *metrics.SentryMetrics
	now      func() time.Time
}

// NewGenerationService wires the service. renderer and cw may be nil.
func NewGenerationService(files storage.FileStore, renderer *render.Renderer, cw *metrics.Client) *GenerationService {
	return &GenerationService{
		files:    files,
		renderer: renderer,
		cw:       cw,
		spans:    metrics.NewSentryMetrics(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CanRender reports whether generations also produce WAV audio.
func (s *GenerationService) CanRender() bool {
	return s.renderer != nil
}

// Compose runs a preset request and returns the result with its SMF bytes.
func (s *GenerationService) Compose(ctx context.Context, req preset.Request) (*preset.Result, []byte, error) {
	start := time.Now()
	span := s.spans.StartGeneration(ctx, req.Mood)
	res, err := preset.Generate(req)
	if err == nil {
		var data []byte
		if data, err = res.Encode(); err == nil {
			elapsed := time.Since(start)
			s.spans.FinishGeneration(span, res.Mood.String(), res.Seed, res.TotalNotes(), true)
			s.cw.RecordGeneration(res.Mood.String(), res.TotalNotes(), elapsed, true)
			logger.LogGeneration(res.Mood.String(), res.Seed, len(res.Layers), res.TotalNotes(), elapsed, logger.Fields{
				"key":   res.Key.String(),
				"tempo": res.Tempo,
			})
			return res, data, nil
		}
	}

	s.spans.FinishGeneration(span, req.Mood, req.Seed, 0, false)
	s.cw.RecordGeneration(req.Mood, 0, time.Since(start), false)
	return nil, nil, err
}

// GeneratePreset composes a saved preset and stores its artifacts under
// presets/<id>_<timestamp>.
func (s *GenerationService) GeneratePreset(ctx context.Context, p *models.Preset) (*Artifact, *preset.Result, error) {
	res, data, err := s.Compose(ctx, p.Request())
	if err != nil {
		return nil, nil, err
	}
	art, err := s.store(ctx, "presets/"+p.ID, data, res.DurationSeconds)
	if err != nil {
		return nil, nil, err
	}
	return art, res, nil
}

// GenerateMelody encodes a saved melody and stores its artifacts under
// melodies/<id>_<timestamp>. Melodies keep their natural release.
func (s *GenerationService) GenerateMelody(ctx context.Context, m *models.Melody) (*Artifact, error) {
	seq, err := m.Sequence()
	if err != nil {
		return nil, err
	}
	data, err := midi.Encode([]midi.NoteSequence{seq})
	if err != nil {
		return nil, err
	}
	logger.Info("Melody encoded", logger.Fields{
		"melody_id": m.ID,
		"notes":     len(seq.Notes),
		"program":   seq.Program,
	})
	return s.store(ctx, "melodies/"+m.ID, data, 0)
}

func (s *GenerationService) store(ctx context.Context, base string, data []byte, trimSeconds float64) (*Artifact, error) {
	now := s.now()
	name := fmt.Sprintf("%s_%s", base, now.Format(artifactTimeLayout))
	art := &Artifact{MIDIPath: name + ".mid", GeneratedAt: now}

	if err := storage.Put(ctx, s.files, art.MIDIPath, data); err != nil {
		return nil, fmt.Errorf("failed to store MIDI: %w", err)
	}
	if s.renderer == nil {
		return art, nil
	}

	start := time.Now()
	span := s.spans.StartRender(ctx, s.renderer.SoundFont())
	wav, err := s.renderer.RenderBytes(span.Context(), data, trimSeconds)
	s.spans.FinishRender(span, err == nil)
	s.cw.RecordRender(time.Since(start), err == nil)
	if err != nil {
		return nil, fmt.Errorf("failed to render audio: %w", err)
	}

	art.AudioPath = name + ".wav"
	if err := storage.Put(ctx, s.files, art.AudioPath, wav); err != nil {
		return nil, fmt.Errorf("failed to store audio: %w", err)
	}
	return art, nil
}
