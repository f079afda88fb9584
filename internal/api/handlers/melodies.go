package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/softwarewrighter/midi-cli/internal/models"
	"github.com/softwarewrighter/midi-cli/internal/services"
	"github.com/softwarewrighter/midi-cli/internal/store"
)

type MelodyHandler struct {
	store store.Store
	gen   *services.GenerationService
}

func NewMelodyHandler(st store.Store, gen *services.GenerationService) *MelodyHandler {
	return &MelodyHandler{store: st, gen: gen}
}

func (h *MelodyHandler) ListMelodies(c *gin.Context) {
	melodies, err := h.store.ListMelodies(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list melodies")
		return
	}
	c.JSON(http.StatusOK, melodies)
}

func (h *MelodyHandler) CreateMelody(c *gin.Context) {
	var req models.MelodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	m := models.Melody{ID: uuid.New().String()}
	req.Apply(&m)
	if err := h.store.SaveMelody(c.Request.Context(), &m); err != nil {
		respondError(c, err, "Failed to save melody")
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *MelodyHandler) GetMelody(c *gin.Context) {
	m, err := h.store.GetMelody(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load melody")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MelodyHandler) UpdateMelody(c *gin.Context) {
	var req models.MelodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	m, err := h.store.GetMelody(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load melody")
		return
	}
	req.Apply(m)
	if err := h.store.SaveMelody(ctx, m); err != nil {
		respondError(c, err, "Failed to save melody")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MelodyHandler) DeleteMelody(c *gin.Context) {
	if err := h.store.DeleteMelody(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete melody")
		return
	}
	c.Status(http.StatusNoContent)
}

// GenerateMelody encodes the melody, rests included, and stores the artifacts
func (h *MelodyHandler) GenerateMelody(c *gin.Context) {
	ctx := c.Request.Context()
	m, err := h.store.GetMelody(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load melody")
		return
	}

	art, err := h.gen.GenerateMelody(ctx, m)
	if err != nil {
		respondError(c, err, "Audio generation failed")
		return
	}

	generated := art.GeneratedAt
	m.LastGenerated = &generated
	if err := h.store.SaveMelody(ctx, m); err != nil {
		respondError(c, err, "Failed to save melody")
		return
	}
	c.JSON(http.StatusOK, newGenerateResponse(m.ID, art))
}
