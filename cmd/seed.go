package cmd

import (
	"github.com/spf13/cobra"

	"example.com/backstage/services/routedelivery/internal/db"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Migrate and insert demo data into an empty database",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := loadConfig()

		dbConn, err := db.Connect(&cfg.Database, logger)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close(dbConn)

		if err := db.Migrate(dbConn); err != nil {
			logger.Fatalf("Failed to run database migrations: %v", err)
		}

		if err := db.Seed(cmd.Context(), dbConn, cfg.Location(), logger); err != nil {
			logger.Fatalf("Failed to seed database: %v", err)
		}

		logger.Infof("Seed complete, driver login is %s/%s", db.SeedDriverUsername, db.SeedDriverPassword)
	},
}
