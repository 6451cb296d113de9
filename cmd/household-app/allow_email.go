package main

import (
	"fmt"

	"household-app-go/internal/app"
	"household-app-go/internal/config"

	"github.com/spf13/cobra"
)

var allowEmailCmd = &cobra.Command{
	Use:   "allow-email",
	Short: "Manage the sign-up email allow-list",
	Example: `  household-app allow-email add jane@example.com
  household-app allow-email remove jane@example.com
  household-app allow-email list`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		if cfg.StorageDriver != config.StorageDriverPostgres {
			return fmt.Errorf("allow-email needs STORAGE_DRIVER=%s", config.StorageDriverPostgres)
		}
		return nil
	},
}

var allowEmailAddCmd = &cobra.Command{
	Use:   "add <email>...",
	Short: "Allow emails to sign up",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(application *app.App) error {
			for _, email := range args {
				if err := application.Users().AllowEmail(cmd.Context(), email); err != nil {
					return fmt.Errorf("allow %s: %w", email, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "allowed %s\n", email)
			}
			return nil
		})
	},
}

var allowEmailRemoveCmd = &cobra.Command{
	Use:   "remove <email>...",
	Short: "Remove emails from the allow-list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(application *app.App) error {
			for _, email := range args {
				removed, err := application.Users().DisallowEmail(cmd.Context(), email)
				if err != nil {
					return fmt.Errorf("remove %s: %w", email, err)
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "%s was not allowed\n", email)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", email)
			}
			return nil
		})
	},
}

var allowEmailListCmd = &cobra.Command{
	Use:   "list",
	Short: "List allowed emails",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(application *app.App) error {
			items, err := application.Users().ListAllowedEmails(cmd.Context())
			if err != nil {
				return err
			}
			for _, item := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", item.Email, item.CreatedAt.Format("2006-01-02"))
			}
			return nil
		})
	},
}

func init() {
	allowEmailCmd.AddCommand(allowEmailAddCmd)
	allowEmailCmd.AddCommand(allowEmailRemoveCmd)
	allowEmailCmd.AddCommand(allowEmailListCmd)
}

func withApp(fn func(*app.App) error) error {
	application, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	defer application.Close()
	return fn(application)
}
