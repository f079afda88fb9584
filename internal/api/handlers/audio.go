package handlers

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/softwarewrighter/midi-cli/internal/storage"
)

type AudioHandler struct {
	files storage.FileStore
}

func NewAudioHandler(files storage.FileStore) *AudioHandler {
	return &AudioHandler{files: files}
}

// ServeAudio streams a stored artifact
func (h *AudioHandler) ServeAudio(c *gin.Context) {
	path, err := storage.CleanPath(c.Param("path"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid path"})
		return
	}

	data, err := storage.Get(c.Request.Context(), h.files, path)
	if errors.Is(err, fs.ErrNotExist) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "File not found: " + path})
		return
	}
	if err != nil {
		respondError(c, err, "Failed to read file")
		return
	}
	c.Data(http.StatusOK, storage.ContentType(path), data)
}
