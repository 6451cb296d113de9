package main

import (
	"fmt"

	"household-app-go/internal/app"
	"household-app-go/internal/config"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.StorageDriver != config.StorageDriverPostgres {
			return fmt.Errorf("migrate needs STORAGE_DRIVER=%s", config.StorageDriverPostgres)
		}

		application, err := app.New(cfg, log)
		if err != nil {
			return err
		}
		defer application.Close()

		applied, err := application.Migrate()
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "database is up to date")
			return nil
		}
		for _, name := range applied {
			fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
		}
		return nil
	},
}
