package api

import (
	"github.com/gin-gonic/gin"

	"github.com/softwarewrighter/midi-cli/internal/api/handlers"
	apimiddleware "github.com/softwarewrighter/midi-cli/internal/api/middleware"
	"github.com/softwarewrighter/midi-cli/internal/metrics"
	"github.com/softwarewrighter/midi-cli/internal/services"
	"github.com/softwarewrighter/midi-cli/internal/storage"
	"github.com/softwarewrighter/midi-cli/internal/store"
)

// SetupRouter builds the HTTP API. cw may be nil.
func SetupRouter(st store.Store, files storage.FileStore, gen *services.GenerationService, cw *metrics.Client, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(cw))

	router.Use(apimiddleware.CORS())

	healthHandler := handlers.NewHealthHandler(st, gen)
	router.GET("/health", healthHandler.HealthCheck)

	// Generated artifacts
	audioHandler := handlers.NewAudioHandler(files)
	router.GET("/audio/*path", audioHandler.ServeAudio)

	api := router.Group("/api")
	{
		metricsHandler := handlers.NewMetricsHandler(version, gen)
		api.GET("/metrics", metricsHandler.GetMetrics)

		api.GET("/moods", handlers.ListMoods)
		api.GET("/instruments", handlers.ListInstruments)

		presetHandler := handlers.NewPresetHandler(st, gen)
		api.GET("/presets", presetHandler.ListPresets)
		api.POST("/presets", presetHandler.CreatePreset)
		api.GET("/presets/:id", presetHandler.GetPreset)
		api.PUT("/presets/:id", presetHandler.UpdatePreset)
		api.DELETE("/presets/:id", presetHandler.DeletePreset)
		api.POST("/generate/:id", presetHandler.GeneratePreset)

		melodyHandler := handlers.NewMelodyHandler(st, gen)
		api.GET("/melodies", melodyHandler.ListMelodies)
		api.POST("/melodies", melodyHandler.CreateMelody)
		api.GET("/melodies/:id", melodyHandler.GetMelody)
		api.PUT("/melodies/:id", melodyHandler.UpdateMelody)
		api.DELETE("/melodies/:id", melodyHandler.DeleteMelody)
		api.POST("/melodies/:id/generate", melodyHandler.GenerateMelody)

		// Stateless composition
		composeHandler := handlers.NewComposeHandler(gen)
		api.POST("/compose", composeHandler.Compose)
		api.POST("/encode", composeHandler.Encode)

		streamHandler := handlers.NewStreamHandler(gen)
		api.GET("/ws/compose", streamHandler.Compose)
	}

	return router
}
