// Package cmd provides the ledgerctl commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_engine/pkg/database"
	"github.com/spf13/cobra"
)

var (
	databaseURL string
	debug       bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Administer the ledger engine database",
	Long: `ledgerctl runs maintenance tasks against the ledger database:
schema migrations, loading the default chart of accounts, rebuilding
closing balance snapshots and printing a trial balance.

Connection settings come from PGSQL_URL (or .env) unless --database-url is given.

Example:
  ledgerctl migrate up
  ledgerctl seed
  ledgerctl closing-balance rebuild --category 12
  ledgerctl trial-balance --from 2024-01-01 --to 2024-12-31`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL (default is $PGSQL_URL)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(closingBalanceCmd)
	rootCmd.AddCommand(trialBalanceCmd)
}

// loadConfig reads the service configuration, applying the --database-url override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("no database URL: set PGSQL_URL or pass --database-url")
	}
	return cfg, nil
}

// openRepositories connects to the database. The returned func closes the pool.
func openRepositories(ctx context.Context, cfg *config.Config) (portsrepo.RepositoryProvider, func(), error) {
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil
}
