package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/db"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/jobs"
	"github.com/spf13/cobra"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Inspect job records",
}

var jobShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a job record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := db.Open(cmd.Context(), cfg.Database.URL)
		if err != nil {
			return err
		}
		defer store.Close()

		j, err := store.GetJob(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJob(cmd.OutOrStdout(), j, format)
	},
}

func printJob(out io.Writer, j *jobs.Job, format string) error {
	if format == "json" {
		data, err := json.MarshalIndent(j, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", j.ID)
	fmt.Fprintf(w, "Project:\t%s\n", j.ProjectID)
	fmt.Fprintf(w, "Type:\t%s\n", j.Kind)
	fmt.Fprintf(w, "Status:\t%s\n", j.Status)
	fmt.Fprintf(w, "Progress:\t%d%%\n", j.Progress)
	if j.CurrentFile != nil {
		fmt.Fprintf(w, "Current:\t%s\n", *j.CurrentFile)
	}
	fmt.Fprintf(w, "Question:\t%s\n", j.Question)
	if j.Summary != "" {
		fmt.Fprintf(w, "Summary:\t%s\n", j.Summary)
	}
	fmt.Fprintf(w, "Updated:\t%s\n", j.UpdatedAt.Format(time.RFC3339))
	if j.CompletedAt != nil {
		fmt.Fprintf(w, "Completed:\t%s\n", j.CompletedAt.Format(time.RFC3339))
	}
	if j.Error != nil {
		fmt.Fprintf(w, "Error:\t%s\n", *j.Error)
	}
	if len(j.Result) > 0 {
		fmt.Fprintf(w, "Result:\t%d bytes (use --format json)\n", len(j.Result))
	}
	return w.Flush()
}

func init() {
	jobShowCmd.Flags().String("format", "text", "Output format: text or json")
	jobCmd.AddCommand(jobShowCmd)
}
