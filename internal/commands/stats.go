package commands

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print flat statistics over the loaded record set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, result, err := loadStore(cmd)
			if err != nil {
				return err
			}
			if st.Err != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", st.Err)
			}

			out := cmd.OutOrStdout()
			stats := st.Stats()

			fmt.Fprintf(out, "rows parsed: %d/%d (%d errors)\n",
				result.ParsedRows, result.TotalRows, len(result.Errors))
			fmt.Fprintf(out, "records: %d  total: %s\n", stats.TotalCount, money(stats.TotalAmount))
			fmt.Fprintf(out, "overdue: %d  amount: %s\n", stats.OverdueCount, money(stats.OverdueAmount))

			fmt.Fprintln(out, "\nby department:")
			for _, key := range sortedKeys(stats.ByDepartment) {
				b := stats.ByDepartment[key]
				fmt.Fprintf(out, "  %s: %d items, %s\n", key, b.Count, money(b.Amount))
			}

			fmt.Fprintln(out, "\nby payment status:")
			for _, key := range sortedKeys(stats.ByStatus) {
				b := stats.ByStatus[key]
				fmt.Fprintf(out, "  %s: %d items, %s\n", key, b.Count, money(b.Amount))
			}
			return nil
		},
	}
}

// money renders an amount with thousands separators for terminal output.
func money(d decimal.Decimal) string {
	if d.IsInteger() {
		return humanize.Comma(d.IntPart())
	}
	return humanize.CommafWithDigits(d.InexactFloat64(), 2)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
