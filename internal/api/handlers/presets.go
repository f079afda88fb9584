package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/softwarewrighter/midi-cli/internal/models"
	"github.com/softwarewrighter/midi-cli/internal/services"
	"github.com/softwarewrighter/midi-cli/internal/store"
)

// GenerateResponse reports the artifacts of a preset or melody generation
type GenerateResponse struct {
	PresetID    string   `json:"preset_id"`
	AudioURL    string   `json:"audio_url,omitempty"`
	MIDIURL     string   `json:"midi_url"`
	Seed        *uint64  `json:"seed,omitempty"`
	Key         string   `json:"key,omitempty"`
	Layers      []string `json:"layers,omitempty"`
	GeneratedAt string   `json:"generated_at"`
}

func newGenerateResponse(id string, art *services.Artifact) GenerateResponse {
	resp := GenerateResponse{
		PresetID:    id,
		MIDIURL:     audioURL(art.MIDIPath),
		GeneratedAt: art.GeneratedAt.Format(time.RFC3339),
	}
	if art.AudioPath != "" {
		resp.AudioURL = audioURL(art.AudioPath)
	}
	return resp
}

func audioURL(path string) string {
	return "/audio/" + path
}

type PresetHandler struct {
	store store.Store
	gen   *services.GenerationService
}

func NewPresetHandler(st store.Store, gen *services.GenerationService) *PresetHandler {
	return &PresetHandler{store: st, gen: gen}
}

// ListPresets returns saved presets, newest first
func (h *PresetHandler) ListPresets(c *gin.Context) {
	presets, err := h.store.ListPresets(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list presets")
		return
	}
	c.JSON(http.StatusOK, presets)
}

// CreatePreset validates and saves a new preset
func (h *PresetHandler) CreatePreset(c *gin.Context) {
	var req models.PresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	p := models.Preset{ID: uuid.New().String()}
	if err := req.Apply(&p); err != nil {
		respondError(c, err, "Invalid preset")
		return
	}
	if err := h.store.SavePreset(c.Request.Context(), &p); err != nil {
		respondError(c, err, "Failed to save preset")
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PresetHandler) GetPreset(c *gin.Context) {
	p, err := h.store.GetPreset(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load preset")
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdatePreset replaces a preset's parameters, keeping its timestamps
func (h *PresetHandler) UpdatePreset(c *gin.Context) {
	var req models.PresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	p, err := h.store.GetPreset(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load preset")
		return
	}
	if err := req.Apply(p); err != nil {
		respondError(c, err, "Invalid preset")
		return
	}
	if err := h.store.SavePreset(ctx, p); err != nil {
		respondError(c, err, "Failed to save preset")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PresetHandler) DeletePreset(c *gin.Context) {
	if err := h.store.DeletePreset(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete preset")
		return
	}
	c.Status(http.StatusNoContent)
}

// GeneratePreset composes the preset, stores the artifacts and stamps
// last_generated
func (h *PresetHandler) GeneratePreset(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.store.GetPreset(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load preset")
		return
	}

	art, res, err := h.gen.GeneratePreset(ctx, p)
	if err != nil {
		respondError(c, err, "Audio generation failed")
		return
	}

	generated := art.GeneratedAt
	p.LastGenerated = &generated
	if err := h.store.SavePreset(ctx, p); err != nil {
		respondError(c, err, "Failed to save preset")
		return
	}

	resp := newGenerateResponse(p.ID, art)
	resp.Seed = &res.Seed
	resp.Key = res.Key.String()
	for _, l := range res.Layers {
		resp.Layers = append(resp.Layers, l.Name)
	}
	c.JSON(http.StatusOK, resp)
}
