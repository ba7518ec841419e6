package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/moneta-dev/moneta/internal/fx"
	"github.com/moneta-dev/moneta/internal/model"
)

func newRatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Manage exchange rates to the base currency",
	}
	cmd.AddCommand(newRatesAddCommand())
	cmd.AddCommand(newRatesListCommand())
	return cmd
}

func newRatesAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <currency> <rate> <valid-from>",
		Short: "Add or replace a rate effective from a date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := fx.Normalize(args[0])
			if !fx.ValidCode(code) {
				return fmt.Errorf("currency %q is not a 3-letter code", args[0])
			}

			rate, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("parsing rate %q: %w", args[1], err)
			}
			if !rate.IsPositive() {
				return fmt.Errorf("rate must be positive, got %s", rate)
			}

			validFrom, err := time.Parse("2006-01-02", args[2])
			if err != nil {
				return fmt.Errorf("parsing valid-from %q: %w", args[2], err)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if code == fx.Normalize(cfg.FX.BaseCurrency) {
				return fmt.Errorf("%s is the base currency; its rate is always 1", code)
			}

			repo, userID, err := openRepo(cmd, cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			err = repo.UpsertRate(cmd.Context(), model.FXRate{
				UserID:    userID,
				Currency:  code,
				Rate:      rate,
				ValidFrom: validFrom,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rate set: 1 %s = %s %s from %s\n",
				code, rate, cfg.FX.BaseCurrency, validFrom.Format("2006-01-02"))
			return nil
		},
	}
}

func newRatesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [currency]",
		Short: "List stored exchange rates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			repo, userID, err := openRepo(cmd, cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			var rates []model.FXRate
			if len(args) == 1 {
				rates, err = repo.LoadFXRates(cmd.Context(), userID, fx.Normalize(args[0]))
			} else {
				rates, err = repo.ListRates(cmd.Context(), userID)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(rates) == 0 {
				fmt.Fprintln(out, "No rates stored.")
				return nil
			}
			for _, r := range rates {
				fmt.Fprintf(out, "%s  %s  from %s\n", r.Currency, r.Rate, r.ValidFrom.Format("2006-01-02"))
			}
			return nil
		},
	}
}
