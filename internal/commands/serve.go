package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/softwarewrighter/midi-cli/internal/api"
	"github.com/softwarewrighter/midi-cli/internal/config"
	"github.com/softwarewrighter/midi-cli/internal/logger"
	"github.com/softwarewrighter/midi-cli/internal/metrics"
	"github.com/softwarewrighter/midi-cli/internal/render"
	"github.com/softwarewrighter/midi-cli/internal/services"
	"github.com/softwarewrighter/midi-cli/internal/storage"
	"github.com/softwarewrighter/midi-cli/internal/store"
)

const (
	sentryFlushTimeout = 2 * time.Second
	shutdownTimeout    = 10 * time.Second
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API for saved presets and melodies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Load environment variables
			if err := godotenv.Load(); err != nil {
				logger.Debug("No .env file found, using environment variables", nil)
			} else if a.cfg, err = config.LoadFile(a.configPath); err != nil {
				return err
			}
			cfg := a.cfg
			if cmd.Flags().Changed("port") {
				cfg.Port = strconv.Itoa(port)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, a.version)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 3105, "port to listen on (overrides PORT)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, version string) error {
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "midi-cli@" + version,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
			EnableLogs:       true,
			Debug:            !cfg.IsProduction(),
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			logger.Warn("Failed to initialize Sentry", logger.Fields{"error": err.Error()})
		} else {
			logger.Info("Sentry initialized", logger.Fields{"environment": cfg.Environment, "release": version})
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		logger.Info("Sentry not configured (SENTRY_DSN not set)", nil)
	}

	st, err := store.Open(cfg)
	if err != nil {
		sentry.CaptureException(err)
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	files, err := storage.Open(ctx, cfg)
	if err != nil {
		sentry.CaptureException(err)
		return fmt.Errorf("failed to open artifact storage: %w", err)
	}

	// WAV rendering is optional for the server; MIDI is always produced
	renderer, err := render.New(render.Options{
		FluidSynth: cfg.FluidSynth,
		SoundFont:  cfg.SoundFont,
		FFmpeg:     cfg.FFmpeg,
		Timeout:    cfg.RenderTimeout,
	})
	if err != nil {
		logger.Warn("Audio rendering disabled", logger.Fields{"reason": err.Error()})
	}

	cw, err := metrics.NewClient(ctx, cfg.Environment)
	if err != nil {
		logger.Warn("CloudWatch metrics disabled", logger.Fields{"error": err.Error()})
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	gen := services.NewGenerationService(files, renderer, cw)
	router := api.SetupRouter(st, files, gen, cw, version)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", logger.Fields{
			"port":   cfg.Port,
			"store":  cfg.StoreDriver,
			"render": renderer != nil,
		})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		sentry.CaptureException(err)
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[k] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
