package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/moneta-dev/moneta/internal/config"
)

func newInitCommand() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new moneta project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(cmd, absDir, owner)
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owner name (required)")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func runInit(cmd *cobra.Command, dir, owner string) error {
	for _, d := range []string{"data", "import"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfgPath := filepath.Join(dir, "moneta.yaml")
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default(owner)
	cfg.Storage.DBPath = filepath.Join(dir, "data", "moneta.db")
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized moneta project for %s in %s\n", owner, dir)
	return nil
}
