package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/ledger_engine/internal/seed"
	"github.com/spf13/cobra"
)

var seedFile string

// seedCmd loads the chart of accounts and the system categories.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the chart of accounts and system categories",
	Long: `Load the chart of accounts and the system transaction categories.
Existing categories are left untouched, so the command can be re-run safely.

Example:
  ledgerctl seed
  ledgerctl seed --file ./chart.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		chart, err := loadChart()
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		repos, closeDB, err := openRepositories(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		result, err := seed.Load(cmd.Context(), repos, chart, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		slog.Info("Seed complete",
			"chart_of_accounts", result.ChartOfAccounts,
			"categories_created", result.CategoriesCreated,
			"categories_kept", result.CategoriesKept)
		fmt.Fprintf(cmd.OutOrStdout(), "chart of accounts: %d, categories created: %d, kept: %d\n",
			result.ChartOfAccounts, result.CategoriesCreated, result.CategoriesKept)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML chart to load instead of the built-in one")
}

func loadChart() (*seed.Chart, error) {
	if seedFile == "" {
		return seed.DefaultChart()
	}
	data, err := os.ReadFile(seedFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", seedFile, err)
	}
	return seed.Parse(data)
}
