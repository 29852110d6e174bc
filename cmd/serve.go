package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"example.com/backstage/services/routedelivery/internal/api"
	"example.com/backstage/services/routedelivery/internal/db"
	"example.com/backstage/services/routedelivery/internal/telemetry"
)

var seedOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := loadConfig()

		application, err := newApp(cfg, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize: %v", err)
		}

		// Run migrations
		if err := db.Migrate(application.db); err != nil {
			logger.Fatalf("Failed to run database migrations: %v", err)
		}

		if seedOnStart {
			if err := db.Seed(cmd.Context(), application.db, cfg.Location(), logger); err != nil {
				logger.Fatalf("Failed to seed database: %v", err)
			}
		}

		nrApp, err := telemetry.InitNewRelic(cfg.NewRelic)
		if err != nil {
			logger.Warnf("Failed to initialize New Relic, continuing without it: %v", err)
		}

		server, err := api.NewServer(cfg, application.services, application.health, nrApp, logger)
		if err != nil {
			logger.Fatalf("Failed to create server: %v", err)
		}

		// Start server in a goroutine
		go func() {
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatalf("Failed to start server: %v", err)
			}
		}()

		// Wait for interrupt signal
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		logger.Info("Shutting down server...")
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Server shutdown failed: %v", err)
		}

		application.Close(shutdownCtx)
		telemetry.Shutdown(nrApp)

		logger.Info("Server shutdown complete")
	},
}

func init() {
	serveCmd.Flags().BoolVar(&seedOnStart, "seed", false, "insert demo data when the database is empty")
}
