package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tanzim/portfolio-api/adapters/mongo"
	"github.com/tanzim/portfolio-api/adapters/sqlite"
	"github.com/tanzim/portfolio-api/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration before deployment",
	Long: `Validate the portfolio-api configuration.

Checks:
  - YAML syntax is valid (when a config file exists)
  - Required fields are present
  - Document store is reachable (optional)

Examples:
  portfolio-api validate
  portfolio-api validate --check-store
  portfolio-api validate --config /etc/portfolio/config.yaml`,
	RunE: runValidate,
}

var validateCheckStore bool

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateCheckStore, "check-store", false, "check the document store is reachable")
}

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if _, err := os.Stat(cfgFile); err == nil {
		fmt.Fprintf(out, "Validating %s...\n\n", cfgFile)
	} else {
		fmt.Fprintf(out, "No config file at %s, validating environment...\n\n", cfgFile)
	}

	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		fmt.Fprintf(out, "  %s Config valid\n", crossMark)
		return fmt.Errorf("config error: %w", err)
	}
	fmt.Fprintf(out, "  %s Config valid\n", checkMark)

	fmt.Fprintf(out, "  %s Listen: %s:%d\n", checkMark, cfg.Server.Host, cfg.Server.Port)
	fmt.Fprintf(out, "  %s Store: %s\n", checkMark, cfg.Store.Driver)
	fmt.Fprintf(out, "  %s Legacy routes: %v\n", checkMark, cfg.Server.LegacyRoutesEnabled())
	if cfg.Server.TLS.Enabled() {
		fmt.Fprintf(out, "  %s TLS domains: %v\n", checkMark, cfg.Server.TLS.Domains)
	}

	if validateCheckStore {
		if err := checkStore(cfg.Store); err != nil {
			fmt.Fprintf(out, "  %s Store reachable\n", crossMark)
			fmt.Fprintf(out, "      Error: %v\n", err)
			return fmt.Errorf("store unreachable: %w", err)
		}
		fmt.Fprintf(out, "  %s Store reachable\n", checkMark)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration is valid.")
	return nil
}

func checkStore(cfg config.StoreConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout+5*time.Second)
	defer cancel()

	switch cfg.Driver {
	case config.DriverMongo:
		s, err := mongo.Connect(ctx, mongo.Options{
			URI:            cfg.MongoURI(),
			Database:       cfg.Database,
			AppName:        cfg.AppName,
			ConnectTimeout: cfg.ConnectTimeout,
		}, zerolog.Nop())
		if err != nil {
			return err
		}
		return s.Close(ctx)

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.PingContext(ctx)

	default:
		return nil
	}
}
