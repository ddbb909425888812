package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/alg/internal/database"
)

func newDBCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "db",
		Short: "Database commands for the database learning state backend",
	}
	command.AddCommand(newDBMigrateCommand())
	return command
}

func newDBMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg.Database)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			applied, err := database.Migrate(cmd.Context(), db, slog.Default())
			if err != nil {
				return fmt.Errorf("database.Migrate() > %w", err)
			}
			if len(applied) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "The database is up to date.")
				return nil
			}
			for _, version := range applied {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", version)
			}
			return nil
		},
	}
}
