package cmd

import (
	"github.com/spf13/cobra"

	"example.com/backstage/services/routedelivery/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := loadConfig()

		dbConn, err := db.Connect(&cfg.Database, logger)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close(dbConn)

		logger.Info("Running database migrations...")
		if err := db.Migrate(dbConn); err != nil {
			logger.Fatalf("Failed to run database migrations: %v", err)
		}

		logger.Info("Database migrations completed successfully")
	},
}
