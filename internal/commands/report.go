package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/apbook-dev/apbook/internal/analysis"
)

func newReportCommand() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Grouped department rollups",
	}
	reportCmd.AddCommand(newReportProjectCommand())
	reportCmd.AddCommand(newReportManagerCommand())
	return reportCmd
}

func newReportProjectCommand() *cobra.Command {
	var filter analysis.ProjectFilter

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Rollup by department and mold master",
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
			a.SetFilter(filter)

			out := cmd.OutOrStdout()
			printSummaries(out, a.Filtered(), true)
			printStats(out, a.Stats(), "projects")
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Department, "department", "", "department (exact)")
	cmd.Flags().StringVar(&filter.MoldMaster, "mold-master", "", "mold master code or details (substring)")
	cmd.Flags().StringVar(&filter.PaymentStatus, "status", "", "payment status (exact)")
	cmd.Flags().StringVar(&filter.SettlementProgress, "progress", "", "settlement progress (exact)")
	cmd.Flags().StringVar(&filter.Currency, "currency", "", "currency code (exact)")
	cmd.Flags().StringVar(&filter.SearchTerm, "search", "", "free-text search")

	return cmd
}

func newReportManagerCommand() *cobra.Command {
	var filter analysis.ManagerFilter

	cmd := &cobra.Command{
		Use:   "manager",
		Short: "Rollup by department and collection manager",
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
			a.SetFilter(filter)

			out := cmd.OutOrStdout()
			printSummaries(out, a.Filtered(), false)
			printStats(out, a.Stats(), "managers")
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Department, "department", "", "department (exact)")
	cmd.Flags().StringVar(&filter.CollectionManager, "manager", "", "collection manager (substring)")
	cmd.Flags().StringVar(&filter.SettlementProgress, "progress", "", "settlement progress (exact)")
	cmd.Flags().StringVar(&filter.SearchTerm, "search", "", "free-text search")

	return cmd
}

func printSummaries(out io.Writer, summaries []*analysis.DepartmentSummary, withDetails bool) {
	for _, dept := range summaries {
		fmt.Fprintf(out, "%s  (%d items, total %s)\n",
			dept.Department, dept.ItemCount, money(dept.TotalAmount))
		for _, c := range dept.Children {
			if withDetails && c.Details != "" {
				fmt.Fprintf(out, "  %s [%s]: advance %s, prepaid %s, total %s (%d items)\n",
					c.Key, c.Details, money(c.AdvancePayment), money(c.Prepayment), money(c.Total), c.ItemCount)
			} else {
				fmt.Fprintf(out, "  %s: advance %s, prepaid %s, total %s (%d items)\n",
					c.Key, money(c.AdvancePayment), money(c.Prepayment), money(c.Total), c.ItemCount)
			}
		}
	}
}

func printStats(out io.Writer, stats analysis.Stats, childLabel string) {
	fmt.Fprintf(out, "\n%d departments, %d %s\n", stats.TotalDepartments, stats.TotalChildren, childLabel)
	fmt.Fprintf(out, "advance %s, prepaid %s, grand total %s\n",
		money(stats.TotalAdvancePayment), money(stats.TotalPrepayment), money(stats.GrandTotal))
	if stats.TopDepartment != "" {
		fmt.Fprintf(out, "top department: %s  top: %s\n", stats.TopDepartment, stats.TopChild)
	}
}
