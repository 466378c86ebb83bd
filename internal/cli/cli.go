// Package cli holds the operator commands for the lettings portal.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/services"
)

// Opener returns the database the commands operate on.
type Opener func() (*gorm.DB, error)

// FromConfig opens the Postgres database described by the environment.
func FromConfig() Opener {
	return func() (*gorm.DB, error) {
		return database.Connect(config.Load())
	}
}

func NewRootCmd(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Lettings portal operations tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		MigrateCmd(open),
		VerifyUserCmd(open),
		PurgeLogsCmd(open),
	)
	return root
}

func MigrateCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(open, func(db *gorm.DB) error {
				if err := database.Migrate(db); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
				return nil
			})
		},
	}
}

func VerifyUserCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-user <email>",
		Short: "Mark an account's email as verified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(open, func(db *gorm.DB) error {
				ctx := cmd.Context()
				if ctx == nil {
					ctx = context.Background()
				}
				if err := services.MarkVerified(ctx, db, args[0]); err != nil {
					return fmt.Errorf("verify %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Verified %s\n", args[0])
				return nil
			})
		},
	}
}

func PurgeLogsCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge-logs",
		Short: "Delete persisted system logs older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := cmd.Flags().GetInt("days")
			if err != nil {
				return err
			}
			if days <= 0 {
				return fmt.Errorf("--days must be positive, got %d", days)
			}
			return withDB(open, func(db *gorm.DB) error {
				deleted, err := logging.Purge(db, days)
				if err != nil {
					return fmt.Errorf("purge logs: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d log entries\n", deleted)
				return nil
			})
		},
	}
	cmd.Flags().Int("days", 30, "retention window in days")
	return cmd
}

func withDB(open Opener, fn func(db *gorm.DB) error) error {
	db, err := open()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close(db)
	return fn(db)
}
