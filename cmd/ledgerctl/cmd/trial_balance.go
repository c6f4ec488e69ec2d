package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/spf13/cobra"
)

var (
	trialBalanceFrom string
	trialBalanceTo   string
)

// trialBalanceCmd prints every category's balance on its normal side.
var trialBalanceCmd = &cobra.Command{
	Use:   "trial-balance",
	Short: "Print the trial balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := dto.ReportQuery{StartDate: trialBalanceFrom, EndDate: trialBalanceTo}.ToDomain()
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

		container := services.NewServiceContainer(cfg, repos)
		rows, err := container.Reporting.TrialBalance(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("trial balance: %w", err)
		}
		printTrialBalance(cmd, dto.ToTrialBalanceResponse(req, rows))
		return nil
	},
}

func init() {
	today := time.Now().UTC().Format(time.DateOnly)
	trialBalanceCmd.Flags().StringVar(&trialBalanceFrom, "from", today[:4]+"-01-01", "window start (YYYY-MM-DD)")
	trialBalanceCmd.Flags().StringVar(&trialBalanceTo, "to", today, "as-of date (YYYY-MM-DD)")
}

func printTrialBalance(cmd *cobra.Command, tb dto.TrialBalanceResponse) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "CODE\tNAME\tDEBIT\tCREDIT\t\n")
	for _, row := range tb.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", row.Category.Code, row.Category.Name,
			row.Debit.StringFixed(2), row.Credit.StringFixed(2))
	}
	fmt.Fprintf(w, "\tTOTAL\t%s\t%s\t\n", tb.TotalDebit.StringFixed(2), tb.TotalCredit.StringFixed(2))
	_ = w.Flush()
	if !tb.Balanced {
		fmt.Fprintf(cmd.ErrOrStderr(), "trial balance as of %s does not balance\n", tb.AsOf)
	}
}
