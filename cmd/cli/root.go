package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"telugudb/pkg/utils"
)

var version = "dev"

var (
	serverURL  string
	keyPath    string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "telugudb",
	Short: "Admin client for the TeluguDB catalog",
	Long: `telugudb - admin client for the TeluguDB catalog

Browse the catalog, manage movies and web series, and watch the
live change feed.

Write commands need an admin key: run 'telugudb login --key <key>' once
and the verified key is cached for later commands.`,
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().StringVar(&keyPath, "key-file", utils.DefaultTokenPath(), "Cached admin key file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("telugudb {{.Version}}\n")
}
