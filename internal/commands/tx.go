package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/moneta-dev/moneta/internal/fx"
	"github.com/moneta-dev/moneta/internal/model"
)

func newTxCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Record and inspect transactions",
	}
	cmd.AddCommand(newTxAddCommand())
	cmd.AddCommand(newTxListCommand())
	cmd.AddCommand(newTxDeleteCommand())
	return cmd
}

func newTxAddCommand() *cobra.Command {
	var (
		txnType     string
		category    string
		subcategory string
		amount      string
		currency    string
		date        string
		note        string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction manually",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", amount, err)
			}
			if amt.IsZero() {
				return fmt.Errorf("a zero amount carries no meaning")
			}

			typ := model.TxnType(txnType)
			if txnType == "" {
				typ = model.TypeFromSign(amt)
			} else if !typ.Valid() {
				return fmt.Errorf("type must be income or expense, got %q", txnType)
			}

			when, err := time.Parse("2006-01-02", date)
			if err != nil {
				return fmt.Errorf("parsing date %q: %w", date, err)
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

			id, err := repo.InsertTransaction(cmd.Context(), model.Transaction{
				UserID:      userID,
				Type:        typ,
				Category:    category,
				Subcategory: subcategory,
				Date:        when,
				Amount:      amt.Abs(),
				Currency:    code,
				Note:        note,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Transaction %d recorded: %s %s %s %s\n",
				id, typ, amt.Abs(), code, category)
			return nil
		},
	}

	cmd.Flags().StringVar(&txnType, "type", "", "income or expense (default: derived from amount sign)")
	cmd.Flags().StringVar(&category, "category", "", "category (required)")
	_ = cmd.MarkFlagRequired("category")
	cmd.Flags().StringVar(&subcategory, "subcategory", "", "subcategory (optional)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, negative = expense (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code (default: base currency)")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("date")
	cmd.Flags().StringVar(&note, "note", "", "free-text note")

	return cmd
}

func newTxListCommand() *cobra.Command {
	var (
		month   string
		quarter int
		year    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions in a timeframe",
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

			txns, err := repo.LoadTransactions(cmd.Context(), userID, tf)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(txns) == 0 {
				fmt.Fprintln(out, "No transactions in timeframe.")
				return nil
			}
			for _, t := range txns {
				sub := t.Subcategory
				if sub == "" {
					sub = "-"
				}
				fmt.Fprintf(out, "%d  %s  %s  %s/%s  %s %s  %s\n",
					t.ID, t.Date.Format("2006-01-02"), t.Type, t.Category, sub,
					t.Amount, t.Currency, t.Note)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month as MM/YY")
	cmd.Flags().IntVar(&quarter, "quarter", 0, "quarter 1-4 (with --year)")
	cmd.Flags().IntVar(&year, "year", 0, "calendar year")

	return cmd
}

func newTxDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parsing id %q: %w", args[0], err)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			repo, userID, err := openRepo(cmd, cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.DeleteTransaction(cmd.Context(), userID, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Transaction %d deleted\n", id)
			return nil
		},
	}
}
