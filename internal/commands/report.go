package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/moneta-dev/moneta/internal/fx"
	"github.com/moneta-dev/moneta/internal/report"
)

func newReportCommand() *cobra.Command {
	var (
		month   string
		quarter int
		year    int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show budget-vs-actual breakdown for a timeframe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			tf, err := parseTimeframe(month, quarter, year)
			if err != nil {
				return err
			}

			repo, userID, err := openRepo(cmd, cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			ctx := cmd.Context()
			txns, err := repo.LoadTransactions(ctx, userID, tf)
			if err != nil {
				return err
			}
			budgets, err := repo.LoadBudgets(ctx, userID, tf)
			if err != nil {
				return err
			}

			engine := report.NewEngine(fx.NewResolver(repo, cfg.FX.BaseCurrency))
			breakdown, err := engine.Build(ctx, userID, tf, txns, budgets)
			if err != nil {
				return err
			}

			printBreakdown(cmd.OutOrStdout(), breakdown)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as MM/YY, e.g. 01/25")
	cmd.Flags().IntVar(&quarter, "quarter", 0, "quarter 1-4 (with --year)")
	cmd.Flags().IntVar(&year, "year", 0, "calendar year")

	return cmd
}

func printBreakdown(w io.Writer, b *report.Breakdown) {
	fmt.Fprintf(w, "Breakdown %s (amounts in %s)\n\n", b.Timeframe, b.BaseCurrency)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tCATEGORY\tSUBCATEGORY\tACTUAL\tBUDGET\tDELTA")
	for _, line := range b.Categories {
		fmt.Fprintf(tw, "%s\t%s\t\t%s\t%s\t%s\n",
			line.Type, line.Category,
			line.Actual.StringFixed(2), line.Budget.StringFixed(2), line.Delta.StringFixed(2))
		for _, sub := range b.Subcategories {
			if sub.Type == line.Type && sub.Category == line.Category {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					sub.Type, sub.Category, sub.Subcategory,
					sub.Actual.StringFixed(2), sub.Budget.StringFixed(2), sub.Delta.StringFixed(2))
			}
		}
	}
	tw.Flush()

	if b.Incomplete() {
		fmt.Fprintln(w, "\nTotals are incomplete:")
		for _, u := range b.Unconverted {
			fmt.Fprintf(w, "  unconverted transaction %d (%s %s on %s): %s\n",
				u.Transaction.ID, u.Transaction.Amount, u.Transaction.Currency,
				u.Transaction.Date.Format("2006-01-02"), u.Reason)
		}
		for _, u := range b.SkippedBudget {
			fmt.Fprintf(w, "  unconverted budget %d (%s %s): %s\n",
				u.Budget.ID, u.Budget.Amount, u.Budget.Currency, u.Reason)
		}
	}
}
