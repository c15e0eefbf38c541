package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/analytics"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/db"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/jobs"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize job outcomes and processing times",
	RunE: func(cmd *cobra.Command, args []string) error {
		since, _ := cmd.Flags().GetDuration("since")
		format, _ := cmd.Flags().GetString("format")
		if since <= 0 {
			return fmt.Errorf("--since must be positive")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := db.Open(cmd.Context(), cfg.Database.URL)
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.JobsSince(cmd.Context(), time.Now().Add(-since))
		if err != nil {
			return err
		}
		return printStats(cmd.OutOrStdout(), since, records, format)
	},
}

type statsReport struct {
	Since string                 `json:"since"`
	Kinds []analytics.KindStats  `json:"kinds"`
	Daily []analytics.Throughput `json:"daily"`
}

func printStats(out io.Writer, since time.Duration, records []jobs.Job, format string) error {
	report := statsReport{
		Since: since.String(),
		Kinds: analytics.Summarize(records),
		Daily: analytics.DailyThroughput(records),
	}

	if format == "json" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(records) == 0 {
		fmt.Fprintf(out, "No jobs in the last %s.\n", report.Since)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tTOTAL\tQUEUED\tRUNNING\tDONE\tFAILED\tSUCCESS\tAVG\tP50\tP95")
	for _, k := range report.Kinds {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%.1f%%\t%.1fs\t%.1fs\t%.1fs\n",
			k.Kind, k.Total, k.Queued, k.Processing, k.Completed, k.Failed,
			k.SuccessPct, k.Avg, k.P50, k.P95)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(report.Daily) > 0 {
		fmt.Fprintln(out)
		w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DAY\tDONE\tFAILED")
		for _, d := range report.Daily {
			fmt.Fprintf(w, "%s\t%d\t%d\n", d.Day, d.Completed, d.Failed)
		}
		return w.Flush()
	}
	return nil
}

func init() {
	statsCmd.Flags().Duration("since", 7*24*time.Hour, "window of job creation times to include")
	statsCmd.Flags().String("format", "text", "Output format: text or json")
}
