package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/apbook-dev/apbook/internal/analysis"
	"github.com/apbook-dev/apbook/internal/export"
)

func newExportCommand() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write grouped rollups as CSV",
	}
	exportCmd.AddCommand(newExportProjectCommand())
	exportCmd.AddCommand(newExportManagerCommand())
	return exportCmd
}

func newExportProjectCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Export the by-project rollup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadStore(cmd)
			if err != nil {
				return err
			}

			a := analysis.NewProjectAnalysis()
			a.Generate(st.Records())
			if a.Err != "" {
				return fmt.Errorf("%s", a.Err)
			}

			if outPath == "" {
				outPath = export.FileName("프로젝트별_분석", time.Now())
			}
			return writeCSV(outPath, func(f *os.File) error {
				return export.WriteProjectCSV(f, a.Filtered())
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: dated name)")
	return cmd
}

func newExportManagerCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "manager",
		Short: "Export the by-manager rollup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadStore(cmd)
			if err != nil {
				return err
			}

			a := analysis.NewManagerAnalysis()
			a.Generate(st.Records())
			if a.Err != "" {
				return fmt.Errorf("%s", a.Err)
			}

			if outPath == "" {
				outPath = export.FileName("담당자별_분석", time.Now())
			}
			return writeCSV(outPath, func(f *os.File) error {
				return export.WriteManagerCSV(f, a.Filtered())
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: dated name)")
	return cmd
}

func writeCSV(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
