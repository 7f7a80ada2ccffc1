package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jasonKoogler/zcommit/internal/ui"
)

var (
	statsDays int

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Summarize recent generations from the audit log",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}
)

func init() {
	statsCmd.Flags().IntVarP(&statsDays, "days", "d", 30, "number of days to include")
}

func runStats(cmd *cobra.Command, args []string) error {
	if !appContext.Settings.Security.EnableAuditLogging {
		fmt.Fprintln(cmd.OutOrStdout(), "Audit logging is disabled (zcommit config set --audit).")
		return nil
	}

	sum, err := appContext.AuditLogger.Summarize(statsDays)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}
	if sum.Total == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No generations in the last %d days.\n", statsDays)
		return nil
	}

	statuses := make([]string, 0, len(sum.ByStatus))
	for status := range sum.ByStatus {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	rows := make([][]string, 0, len(statuses)+1)
	for _, status := range statuses {
		rows = append(rows, []string{status, strconv.Itoa(sum.ByStatus[status])})
	}
	rows = append(rows, []string{"total", strconv.Itoa(sum.Total)})

	fmt.Fprintf(cmd.OutOrStdout(), "Generations in the last %d days:\n\n", statsDays)
	fmt.Fprint(cmd.OutOrStdout(), ui.FormatTable([]string{"STATUS", "COUNT"}, rows))
	return nil
}
