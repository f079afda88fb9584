package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/softwarewrighter/midi-cli/internal/midi"
	"github.com/softwarewrighter/midi-cli/internal/preset"
)

// ListMoods returns the mood catalog
func ListMoods(c *gin.Context) {
	c.JSON(http.StatusOK, preset.Catalog())
}

// ListInstruments returns the accepted instrument names with their programs
func ListInstruments(c *gin.Context) {
	c.JSON(http.StatusOK, midi.Instruments())
}
