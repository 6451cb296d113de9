package main

import (
	"fmt"

	"household-app-go/internal/config"
	"household-app-go/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	// Set during PersistentPreRunE.
	cfg config.Config
	log logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "household-app",
	Short: "Household groceries and recipes backend",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log = logger.NewFromEnv()
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		loaded, err := config.Load(log)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		cfg = loaded
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(allowEmailCmd)

	// Running the binary without a subcommand serves.
	rootCmd.RunE = serveCmd.RunE
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())
}
