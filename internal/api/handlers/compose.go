package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/softwarewrighter/midi-cli/internal/midi"
	"github.com/softwarewrighter/midi-cli/internal/preset"
	"github.com/softwarewrighter/midi-cli/internal/services"
)

const (
	contentTypeMIDI = "audio/midi"
	maxInputBytes   = 1 << 20
)

type ComposeHandler struct {
	gen *services.GenerationService
}

func NewComposeHandler(gen *services.GenerationService) *ComposeHandler {
	return &ComposeHandler{gen: gen}
}

// Compose runs a preset request and streams back the MIDI file. The resolved
// parameters travel in headers so the result can be replayed.
func (h *ComposeHandler) Compose(c *gin.Context) {
	var req preset.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	res, data, err := h.gen.Compose(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Composition failed")
		return
	}

	layers := make([]string, len(res.Layers))
	for i, l := range res.Layers {
		layers[i] = l.Name
	}
	c.Header("X-Mood", res.Mood.String())
	c.Header("X-Seed", strconv.FormatUint(res.Seed, 10))
	c.Header("X-Key", res.Key.String())
	c.Header("X-Tempo", strconv.Itoa(res.Tempo))
	c.Header("X-Layers", strings.Join(layers, ","))
	c.Header("Content-Disposition", `attachment; filename="`+res.Mood.String()+`.mid"`)
	c.Data(http.StatusOK, contentTypeMIDI, data)
}

// Encode turns an explicit note document into a MIDI file. JSON is the
// default; YAML is accepted with a YAML content type.
func (h *ComposeHandler) Encode(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxInputBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read body"})
		return
	}

	format := midi.FormatJSON
	if strings.Contains(c.ContentType(), "yaml") {
		format = midi.FormatYAML
	}

	seqs, err := midi.DecodeInput(body, format)
	if err != nil {
		// every decode failure is the caller's
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	data, err := midi.Encode(seqs)
	if err != nil {
		respondError(c, err, "Encoding failed")
		return
	}
	c.Header("X-Tracks", strconv.Itoa(len(seqs)))
	c.Header("X-Notes", strconv.Itoa(midi.TotalNotes(seqs)))
	c.Data(http.StatusOK, contentTypeMIDI, data)
}
