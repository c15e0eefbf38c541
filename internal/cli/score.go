package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/scoring"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score <path>...",
	Short: "Rank local files against an issue as the fix path would",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		issue, _ := cmd.Flags().GetString("issue")
		if issue == "" {
			return fmt.Errorf("--issue is required")
		}
		files, err := readFiles(args)
		if err != nil {
			return err
		}

		ranked := scoring.Rank(files, issue)
		limit := scoring.Limit(issue)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RANK\tSCORE\tSELECTED\tFILE")
		for i, f := range ranked {
			mark := ""
			if i < limit {
				mark = "*"
			}
			fmt.Fprintf(w, "%d\t%.2f\t%s\t%s\n", i+1, f.PriorityScore, mark, f.FileName)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d files selected (limit %d for a %d-character issue)\n",
			min(limit, len(ranked)), len(ranked), limit, len([]rune(issue)))
		return nil
	},
}

func init() {
	scoreCmd.Flags().String("issue", "", "issue text to score against (required)")
}
