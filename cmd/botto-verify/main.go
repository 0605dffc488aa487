package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cufee/botto-verify/config"
	"github.com/cufee/botto-verify/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	logLevel string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd runs the bot when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "botto-verify",
	Short: "Discord bot granting a role for a subscription screenshot",
	Long: `botto-verify posts a Verify button in a configured channel, asks users for a
screenshot in DMs and grants the configured role when the screenshot shows the
expected channel name.

Run without arguments to start the bot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, dotenv, err := config.Load()
		if err != nil {
			return err
		}
		if logLevel != "" {
			c.LogLevel = logLevel
		}
		l, err := logging.New(logging.Options{Level: c.LogLevel, File: c.LogFile, Dev: c.LogDev})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if !dotenv {
			l.Debug("no .env file found, reading from environment")
		}
		cfg, logger = c, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runBot,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")

	checkImageCmd.Flags().StringVar(&checkMarker, "marker", "", "also decide whether the image shows this marker")

	rootCmd.AddCommand(runCmd, registerCommandsCmd, checkImageCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
