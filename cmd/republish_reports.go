package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

var sinceTime string

var republishReportsCmd = &cobra.Command{
	Use:   "republish-reports",
	Short: "Republish closeout reports the WMS has not received",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := loadConfig()

		since, err := time.ParseInLocation(time.DateTime, sinceTime, cfg.Location())
		if err != nil {
			logger.Fatalf("Failed to parse since time: %v", err)
		}

		application, err := newApp(cfg, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		defer application.Close(ctx)

		count, err := application.services.RouteSessions.RepublishPending(ctx, since)
		if err != nil {
			logger.Fatalf("Failed to republish reports: %v", err)
		}

		logger.Infof("Republished %d reports", count)
	},
}

func init() {
	// Default to 24 hours ago
	defaultSince := time.Now().Add(-24 * time.Hour).Format(time.DateTime)

	republishReportsCmd.Flags().StringVarP(&sinceTime, "since", "s", defaultSince, "Republish reports created after this time (format: 2006-01-02 15:04:05)")
}
