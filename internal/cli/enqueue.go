package cli

import (
	"fmt"
	"os"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/db"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/jobs"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/queue"
	"github.com/spf13/cobra"
)

var enqueueCmd = &cobra.Command{
	Use:   "enqueue",
	Short: "Create a job row and push it onto the queue",
	Long: `Create a QUEUED job and push its payload. Local files passed with --file
become candidate files with similarity 0; feature jobs (--type FILE_CREATION)
usually need none.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := payloadFromFlags(cmd)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		store, err := db.Open(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer store.Close()

		q, err := queue.Open(ctx, cfg.Queue.URL, cfg.Queue.Name, cfg.Queue.PopTimeout)
		if err != nil {
			return err
		}
		defer q.Close()

		if err := store.CreateJob(ctx, jobs.NewJob(p)); err != nil {
			return err
		}
		if err := q.Push(ctx, p); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Enqueued %s job %s on %s\n", p.Kind(), p.JobID, q.Name())
		return nil
	},
}

// payloadFromFlags builds a payload with a fresh job ID.
func payloadFromFlags(cmd *cobra.Command) (*jobs.Payload, error) {
	projectID, _ := cmd.Flags().GetString("project")
	question, _ := cmd.Flags().GetString("question")
	summary, _ := cmd.Flags().GetString("summary")
	kind, _ := cmd.Flags().GetString("type")
	paths, _ := cmd.Flags().GetStringArray("file")

	if projectID == "" {
		return nil, fmt.Errorf("--project is required")
	}
	if question == "" {
		return nil, fmt.Errorf("--question is required")
	}
	switch jobs.Kind(kind) {
	case jobs.KindFix, jobs.KindFileCreation:
	default:
		return nil, fmt.Errorf("invalid --type %q: must be %s or %s", kind, jobs.KindFix, jobs.KindFileCreation)
	}

	files, err := readFiles(paths)
	if err != nil {
		return nil, err
	}
	return &jobs.Payload{
		JobID:        jobs.NewID(),
		ProjectID:    projectID,
		Question:     question,
		Summary:      summary,
		Files:        files,
		JobType:      jobs.Kind(kind),
		IsCreateMode: jobs.Kind(kind) == jobs.KindFileCreation,
	}, nil
}

func readFiles(paths []string) ([]jobs.FileReference, error) {
	files := make([]jobs.FileReference, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, jobs.FileReference{FileName: path, SourceCode: string(data)})
	}
	return files, nil
}

func init() {
	enqueueCmd.Flags().String("project", "", "project ID (required)")
	enqueueCmd.Flags().String("question", "", "issue description (required)")
	enqueueCmd.Flags().String("summary", "", "short issue summary")
	enqueueCmd.Flags().String("type", string(jobs.KindFix), "job type: FIX or FILE_CREATION")
	enqueueCmd.Flags().StringArray("file", nil, "local file to include as a candidate (repeatable)")
}
