package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"example.com/backstage/services/routedelivery/internal/metrics"
)

// republishWindow bounds how far back the worker looks for unpublished reports
const republishWindow = 7 * 24 * time.Hour

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long:  `Start the background worker that republishes closeout reports the WMS has not received`,
	RunE:  runWorker,
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg, logger := loadConfig()

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close(context.Background())

	g, ctx := errgroup.WithContext(ctx)

	// Expose metrics for the worker process
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Worker.MetricsPort),
		Handler: metrics.GetMetricsCollector().Handler(),
	}
	g.Go(func() error {
		logger.Infof("Serving worker metrics on %s", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.Worker.RepublishInterval),
			gocron.NewTask(func() {
				count, err := application.services.RouteSessions.RepublishPending(ctx, time.Now().Add(-republishWindow))
				if err != nil {
					logger.WithError(err).Error("Failed to republish closeout reports")
					return
				}
				if count > 0 {
					logger.Infof("Republished %d closeout reports", count)
				}
			}),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return err
		}

		scheduler.Start()

		<-ctx.Done()

		return scheduler.Shutdown()
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("Worker error")
		return err
	}

	logger.Info("Worker shutting down gracefully")
	return nil
}
