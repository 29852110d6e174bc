package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"example.com/backstage/services/routedelivery/config"
)

var (
	// Flags
	cfgFile   string
	logLevel  string
	logFormat string

	// Root command
	rootCmd = &cobra.Command{
		Use:   "routedelivery",
		Short: "Route Delivery Service",
		Long: `Route Delivery Service for drivers working a daily route.

Functions:
- Serve orders, customers, products and routes to the driver app over a REST HTTP server
- Record deliveries, failed deliveries and GPS captures
- Open and close working days, producing the daily Z-closeout report
- Publish closeout reports to the warehouse management system`,
	}
)

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override the configured log format (json, text)")

	// Add commands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(republishReportsCmd)
}

// loadConfig loads the configuration and builds the logger, exiting on failure
func loadConfig() (*config.Config, *logrus.Logger) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	return cfg, newLogger(cfg.Logging)
}

// newLogger creates a logger from the logging configuration
func newLogger(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.JSON() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Package-level calls share the configuration
	logrus.SetFormatter(logger.Formatter)
	logrus.SetLevel(level)

	return logger
}
