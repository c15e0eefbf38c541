package cli

import (
	"fmt"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/queue"
	"github.com/spf13/cobra"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect the job queue",
}

var queueLenCmd = &cobra.Command{
	Use:   "len",
	Short: "Print the number of waiting jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		q, err := queue.Open(cmd.Context(), cfg.Queue.URL, cfg.Queue.Name, cfg.Queue.PopTimeout)
		if err != nil {
			return err
		}
		defer q.Close()

		n, err := q.Len(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d waiting\n", q.Name(), n)
		return nil
	},
}

func init() {
	queueCmd.AddCommand(queueLenCmd)
}
