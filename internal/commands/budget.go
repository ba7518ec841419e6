package commands

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/moneta-dev/moneta/internal/fx"
	"github.com/moneta-dev/moneta/internal/model"
	"github.com/moneta-dev/moneta/internal/storage"
)

func newBudgetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage budgets per category and timeframe",
	}
	cmd.AddCommand(newBudgetAddCommand())
	cmd.AddCommand(newBudgetListCommand())
	return cmd
}

func newBudgetAddCommand() *cobra.Command {
	var (
		txnType     string
		category    string
		subcategory string
		amount      string
		currency    string
		month       string
		quarter     int
		year        int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a budget for a category over a timeframe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			typ := model.TxnType(txnType)
			if !typ.Valid() {
				return fmt.Errorf("type must be income or expense, got %q", txnType)
			}
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", amount, err)
			}
			if !amt.IsPositive() {
				return fmt.Errorf("amount must be positive, got %s", amt)
			}
			tf, err := parseTimeframe(month, quarter, year)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if currency == "" {
				currency = cfg.FX.BaseCurrency
			}
			code := fx.Normalize(currency)
			if !fx.ValidCode(code) {
				return fmt.Errorf("currency %q is not a 3-letter code", currency)
			}

			repo, userID, err := openRepo(cmd, cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			id, err := repo.InsertBudget(cmd.Context(), model.Budget{
				UserID:      userID,
				Type:        typ,
				Category:    category,
				Subcategory: subcategory,
				Timeframe:   tf,
				Amount:      amt,
				Currency:    code,
			})
			if errors.Is(err, storage.ErrBudgetOverlap) {
				return fmt.Errorf("a budget for %s/%s already covers part of %s", category, subcategory, tf)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Budget %d created: %s %s/%s %s %s over %s\n",
				id, typ, category, subcategory, amt, code, tf)
			return nil
		},
	}

	cmd.Flags().StringVar(&txnType, "type", "expense", "income or expense")
	cmd.Flags().StringVar(&category, "category", "", "category (required)")
	_ = cmd.MarkFlagRequired("category")
	cmd.Flags().StringVar(&subcategory, "subcategory", "", "subcategory (optional)")
	cmd.Flags().StringVar(&amount, "amount", "", "budget amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code (default: base currency)")
	cmd.Flags().StringVar(&month, "month", "", "month as MM/YY")
	cmd.Flags().IntVar(&quarter, "quarter", 0, "quarter 1-4 (with --year)")
	cmd.Flags().IntVar(&year, "year", 0, "calendar year")

	return cmd
}

func newBudgetListCommand() *cobra.Command {
	var (
		month   string
		quarter int
		year    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List budgets overlapping a timeframe",
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

			budgets, err := repo.LoadBudgets(cmd.Context(), userID, tf)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(budgets) == 0 {
				fmt.Fprintln(out, "No budgets in timeframe.")
				return nil
			}
			for _, b := range budgets {
				sub := b.Subcategory
				if sub == "" {
					sub = "-"
				}
				fmt.Fprintf(out, "%d  %s  %s/%s  %s %s  %s\n",
					b.ID, b.Type, b.Category, sub, b.Amount, b.Currency, b.Timeframe)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as MM/YY")
	cmd.Flags().IntVar(&quarter, "quarter", 0, "quarter 1-4 (with --year)")
	cmd.Flags().IntVar(&year, "year", 0, "calendar year")

	return cmd
}
