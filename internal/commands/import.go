package commands

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moneta-dev/moneta/internal/config"
	"github.com/moneta-dev/moneta/internal/importer"
)

// templateRows is the downloadable CSV template: header plus one example
// row per transaction type.
var templateRows = [][]string{
	{"date", "type", "category", "subcategory", "amount", "currency", "notes"},
	{"2025-01-01", "income", "Salary", "", "1000", "EUR", "January salary"},
	{"2025-01-15", "expense", "Groceries", "", "45.30", "EUR", "Weekly shop"},
}

func newImportCommand() *cobra.Command {
	var (
		profile   string
		commit    bool
		errorsOut string
		template  bool
	)

	cmd := &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Import transactions from a CSV file (dry-run by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if template {
				return writeTemplate(cmd)
			}
			if len(args) == 0 {
				return fmt.Errorf("a CSV file is required (or --template)")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runImport(cmd, cfg, args[0], profile, commit, errorsOut)
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "header profile (default from config)")
	cmd.Flags().BoolVar(&commit, "commit", false, "persist accepted rows (default is dry-run)")
	cmd.Flags().StringVar(&errorsOut, "errors-out", "", "write rejected rows to this CSV file")
	cmd.Flags().BoolVar(&template, "template", false, "print a CSV template and exit")

	return cmd
}

func writeTemplate(cmd *cobra.Command) error {
	cw := csv.NewWriter(cmd.OutOrStdout())
	defer cw.Flush()
	for _, row := range templateRows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing template: %w", err)
		}
	}
	return cw.Error()
}

func runImport(cmd *cobra.Command, cfg *config.Config, path, profileName string, commit bool, errorsOut string) error {
	if profileName == "" {
		profileName = cfg.Import.Profile
	}
	prof := importer.DefaultRegistry().Get(profileName)
	if prof == nil {
		return fmt.Errorf("unknown profile %q (available: %s)",
			profileName, strings.Join(importer.DefaultRegistry().Names(), ", "))
	}

	proc := importer.NewProcessor(importer.Options{
		Aliases:     importer.MergeAliases(prof.Aliases, cfg.Import.Aliases),
		DateFormats: cfg.Import.DateFormats,
		MaxRows:     cfg.Import.MaxRows,
	})

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var batch *importer.Batch
	if commit {
		repo, userID, err := openRepo(cmd, cfg)
		if err != nil {
			return err
		}
		defer repo.Close()
		batch, err = proc.Commit(cmd.Context(), f, repo, userID)
		if err != nil {
			return err
		}
	} else {
		batch, err = proc.DryRun(f)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	mode := "Dry-run"
	if commit {
		mode = "Committed"
	}
	fmt.Fprintf(out, "%s batch %s: %d accepted, %d rejected of %d rows\n",
		mode, batch.ID, len(batch.Accepted), len(batch.Errors), batch.Rows())

	for _, w := range batch.Warnings {
		fmt.Fprintf(out, "warning: row %d: unrecognized currency %s (add an FX rate before reporting)\n", w.Row, w.Currency)
	}
	for _, e := range batch.Errors {
		fmt.Fprintf(out, "error: %s\n", e.Error())
	}

	if errorsOut != "" && len(batch.Errors) > 0 {
		ef, err := os.Create(errorsOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", errorsOut, err)
		}
		defer ef.Close()
		if err := importer.WriteErrorReport(ef, batch.Errors); err != nil {
			return fmt.Errorf("writing error report: %w", err)
		}
		fmt.Fprintf(out, "Wrote %d rejected rows to %s\n", len(batch.Errors), errorsOut)
	}
	return nil
}
