package cmd

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_engine/pkg/database"
	"github.com/spf13/cobra"
)

// migrateCmd applies or rolls back the schema migrations.
var migrateCmd = &cobra.Command{
	Use:       "migrate up|down",
	Short:     "Apply or roll back database migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(database.MigrateUp), string(database.MigrateDown)},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		direction := database.MigrationDirection(args[0])
		slog.Info("Running migrations", "direction", direction, "path", cfg.MigrationsPath)

		changed, err := database.Migrate(slog.Default(), cfg.DatabaseURL, cfg.MigrationsPath, direction)
		if err != nil {
			return fmt.Errorf("migrate %s: %w", direction, err)
		}
		if !changed {
			fmt.Fprintln(cmd.OutOrStdout(), "no change")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "migrated %s\n", direction)
		return nil
	},
}
