package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"gridlake/internal/domain"
)

func newStatsCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <sheet-id>",
		Short: "Show recorded preview and refresh durations for a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.openApp()
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			ctx := cmd.Context()
			// Unknown sheet ids error rather than render zero-count stats.
			if _, err := a.Sheets.Get(ctx, args[0]); err != nil {
				return err
			}

			metrics := []domain.MetricType{domain.MetricQueryDurationMS, domain.MetricRefreshDurationMS}
			rows := make([][]string, 0, len(metrics))
			for _, metric := range metrics {
				stats, err := a.Metrics.Stats(ctx, args[0], metric)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					string(metric),
					strconv.Itoa(stats.Count),
					formatMillis(stats.P50),
					formatMillis(stats.P95),
					formatMillis(stats.Max),
				})
			}
			printTable(os.Stdout, []string{"metric", "count", "p50", "p95", "max"}, rows)
			return nil
		},
	}
}

func formatMillis(v float64) string {
	return fmt.Sprintf("%.2f ms", v)
}
