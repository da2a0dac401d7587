package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tanzim/portfolio-api/bootstrap"
	"github.com/tanzim/portfolio-api/config"
)

var (
	hotReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the portfolio API server.

The server will:
  - Load configuration from portfolio.yaml (or --config)
  - Or load configuration from PORTFOLIO_* environment variables
  - Connect to the document store, exiting if it is unreachable
  - Serve the resource routes until SIGINT or SIGTERM

Environment variables (for container deployments):
  PORT                    - Server port (default: 5000)
  DB_USER, DB_PASS        - MongoDB Atlas credentials
  PORTFOLIO_STORE_DRIVER  - mongo, sqlite or memory
  PORTFOLIO_STORE_URI     - MongoDB connection string
  PORTFOLIO_LOG_LEVEL     - Log level: debug, info, warn, error

Examples:
  portfolio-api serve
  portfolio-api serve --config /etc/portfolio/config.yaml
  PORTFOLIO_STORE_DRIVER=memory portfolio-api serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "reload logging.level when the config file changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	bootstrap.Version = version

	hasConfigFile := false
	if _, err := os.Stat(cfgFile); err == nil {
		hasConfigFile = true
	}

	var (
		cfg    *config.Config
		holder *config.Holder
		err    error
	)
	if hasConfigFile && hotReload {
		holder, err = config.NewHolder(cfgFile, zerolog.New(os.Stderr).With().Timestamp().Logger())
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		cfg = holder.Get()
	} else {
		cfg, err = config.LoadWithFallback(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		if !hasConfigFile {
			fmt.Fprintln(cmd.ErrOrStderr(), "Running with environment variables (no config file)")
		}
	}

	app, err := bootstrap.NewWithOptions(cfg, bootstrap.Options{Holder: holder})
	if err != nil {
		if holder != nil {
			holder.Stop()
		}
		return fmt.Errorf("error initializing: %w", err)
	}

	// Run (blocks until shutdown)
	return app.Run()
}
