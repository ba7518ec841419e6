package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/moneta-dev/moneta/internal/buildinfo"
	"github.com/moneta-dev/moneta/internal/config"
	"github.com/moneta-dev/moneta/internal/model"
	"github.com/moneta-dev/moneta/internal/period"
	"github.com/moneta-dev/moneta/internal/storage"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "moneta",
		Short:   "Local personal-finance tracker",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "path to moneta.yaml (default: ./moneta.yaml or $MONETA_CONFIG)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newRatesCommand())
	rootCmd.AddCommand(newBudgetCommand())
	rootCmd.AddCommand(newTxCommand())

	return rootCmd
}

// loadConfig resolves the config path (flag, then $MONETA_CONFIG, then
// ./moneta.yaml) and loads it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("MONETA_CONFIG")
	}
	if path == "" {
		path = "moneta.yaml"
	}
	return config.Load(path)
}

// openRepo opens the configured datastore and resolves the owning user.
// $MONETA_DB overrides the configured path.
func openRepo(cmd *cobra.Command, cfg *config.Config) (*storage.Repository, int64, error) {
	dbPath := os.Getenv("MONETA_DB")
	if dbPath == "" {
		dbPath = cfg.Storage.DBPath
	}
	repo, err := storage.Open(dbPath)
	if err != nil {
		return nil, 0, fmt.Errorf("opening datastore: %w", err)
	}
	userID, err := repo.EnsureUser(cmd.Context(), cfg.Owner)
	if err != nil {
		repo.Close()
		return nil, 0, err
	}
	return repo, userID, nil
}

// parseTimeframe turns the shared --month/--quarter/--year flags into a
// timeframe. Exactly one selection must be made.
func parseTimeframe(month string, quarter, year int) (model.Timeframe, error) {
	switch {
	case month != "":
		ym, err := period.ParseMMYY(month)
		if err != nil {
			return model.Timeframe{}, err
		}
		return period.TimeframeFromYM(ym)
	case quarter != 0:
		if year == 0 {
			return model.Timeframe{}, fmt.Errorf("--quarter requires --year")
		}
		if quarter < 1 || quarter > 4 {
			return model.Timeframe{}, fmt.Errorf("quarter must be 1-4")
		}
		return model.QuarterOf(year, quarter), nil
	case year != 0:
		return model.YearOf(year), nil
	default:
		now := time.Now().UTC()
		return model.MonthOf(now.Year(), now.Month()), nil
	}
}
