package commands

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/apbook-dev/apbook/internal/buildinfo"
	"github.com/apbook-dev/apbook/internal/config"
	"github.com/apbook-dev/apbook/internal/importer"
	"github.com/apbook-dev/apbook/internal/store"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "apbook",
		Short:   "Advance/prepayment record reporting",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "apbook.yaml", "config file")
	rootCmd.PersistentFlags().StringP("file", "f", "", "CSV export to load (overrides config)")

	rootCmd.AddCommand(newStatsCommand())
	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newExportCommand())

	return rootCmd
}

// loadConfig reads the configured apbook.yaml, falling back to defaults
// when the file does not exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadStore builds a parser from config and loads the source file into a
// fresh store. The --file flag overrides the configured source path.
func loadStore(cmd *cobra.Command) (*store.Store, importer.Result, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, importer.Result{}, err
	}

	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		path = cfg.Source.Path
	}

	st := store.New()
	result := st.LoadFile(path, cfg.NewParser())
	return st, result, nil
}
