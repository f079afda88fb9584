package handlers

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/softwarewrighter/midi-cli/internal/midi"
	"github.com/softwarewrighter/midi-cli/internal/preset"
	"github.com/softwarewrighter/midi-cli/internal/services"
)

const bytesPerMB = 1 << 20

// MetricsHandler reports process and engine state for dashboards.
type MetricsHandler struct {
	started time.Time
	version string
	gen     *services.GenerationService
}

func NewMetricsHandler(version string, gen *services.GenerationService) *MetricsHandler {
	return &MetricsHandler{started: time.Now(), version: version, gen: gen}
}

type MetricsResponse struct {
	Status    string        `json:"status"`
	Uptime    string        `json:"uptime"`
	Timestamp string        `json:"timestamp"`
	Version   string        `json:"version"`
	StartTime string        `json:"start_time"`
	System    SystemMetrics `json:"system"`
	Engine    EngineInfo    `json:"engine"`
}

// EngineInfo describes what this build can compose.
type EngineInfo struct {
	Moods           int  `json:"moods"`
	Instruments     int  `json:"instruments"`
	TicksPerQuarter int  `json:"ticks_per_quarter"`
	RenderEnabled   bool `json:"render_enabled"`
}

type SystemMetrics struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAllocMB   uint64 `json:"mem_alloc_mb"`
	MemTotalMB   uint64 `json:"mem_total_mb"`
	NumGC        uint32 `json:"num_gc"`
}

// formatUptime renders d as 1h2m3.45s, dropping leading zero units.
func formatUptime(d time.Duration) string {
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := (d % time.Minute).Seconds()

	switch {
	case h > 0:
		return fmt.Sprintf("%dh%dm%.2fs", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm%.2fs", m, s)
	default:
		return fmt.Sprintf("%.2fs", s)
	}
}

func readSystemMetrics() SystemMetrics {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return SystemMetrics{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		MemAllocMB:   mem.Alloc / bytesPerMB,
		MemTotalMB:   mem.TotalAlloc / bytesPerMB,
		NumGC:        mem.NumGC,
	}
}

func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	now := time.Now()
	c.JSON(http.StatusOK, MetricsResponse{
		Status:    "healthy",
		Uptime:    formatUptime(now.Sub(h.started)),
		Timestamp: now.UTC().Format(time.RFC3339),
		Version:   h.version,
		StartTime: h.started.UTC().Format(time.RFC3339),
		System:    readSystemMetrics(),
		Engine: EngineInfo{
			Moods:           len(preset.Moods()),
			Instruments:     len(midi.Instruments()),
			TicksPerQuarter: midi.TicksPerQuarter,
			RenderEnabled:   h.gen.CanRender(),
		},
	})
}
