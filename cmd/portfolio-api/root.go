package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "portfolio-api",
	Short: "REST backend for the portfolio website",
	Long: `portfolio-api serves CRUD endpoints over the portfolio collections
(settings, appointments, experience, gallery, certificates and more),
backed by MongoDB, SQLite or an in-memory store.

Quick start:
  portfolio-api serve       # Start the server
  portfolio-api resources   # List the mounted resources
  portfolio-api validate    # Validate configuration`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "portfolio.yaml", "config file path")
}
