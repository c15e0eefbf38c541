package cli

import (
	"context"
	"fmt"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/config"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/db"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/fixer"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/github"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/llm"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/orchestrator"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/prompt"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/queue"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/web"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/worker"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the worker loop and the health server",
	Long: `Start consuming jobs. One job is processed at a time. SIGINT or SIGTERM stops
further dequeues; a job already dequeued runs to completion before exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		migrate, _ := cmd.Flags().GetBool("migrate")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := checkConfig(cmd, cfg); err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		progress := cmd.ErrOrStderr()

		store, err := db.Open(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer store.Close()
		if migrate {
			if err := store.Migrate(ctx); err != nil {
				return err
			}
		}

		q, err := queue.Open(ctx, cfg.Queue.URL, cfg.Queue.Name, cfg.Queue.PopTimeout)
		if err != nil {
			return err
		}
		defer q.Close()

		client, err := newModelClient(cfg)
		if err != nil {
			return err
		}
		prompts := prompt.Library{Dir: cfg.Prompts.Dir}

		gen := fixer.New(client, prompts, fixer.Options{
			Temperature:  cfg.Model.Temperature,
			MaxTokens:    cfg.Model.MaxTokens,
			MaxCodeChars: cfg.Fixer.MaxCodeChars,
		})
		gen.SetProgress(progress)

		orch := orchestrator.New(store, client, github.NewClient(&github.ExecRunner{}), prompts, orchestrator.Options{
			Temperature:     cfg.Model.Temperature,
			MaxTokens:       cfg.Model.MaxTokens,
			ModifyMaxTokens: cfg.Model.ModifyMaxTokens,
			ContextFiles:    cfg.Planner.ContextFiles,
			ContextDirs:     cfg.Planner.ContextDirs,
		})
		orch.SetProgress(progress)

		runner := worker.New(q, store, orch, gen, worker.Backoff{
			Initial: cfg.Backoff.Initial,
			Max:     cfg.Backoff.Max,
		})
		runner.SetProgress(progress)

		healthErr := make(chan error, 1)
		go func() {
			err := web.NewServer(q, cfg.Worker.Name, cfg.Health.Port).Start(ctx)
			if err != nil {
				cancel()
			}
			healthErr <- err
		}()

		fmt.Fprintf(progress, "%s %s: consuming queue %q with %s model %s\n",
			cfg.Worker.Name, version, q.Name(), cfg.Model.Provider, cfg.Model.Name)
		if err := runner.Run(ctx); err != nil {
			return err
		}
		cancel()
		return <-healthErr
	},
}

// checkConfig prints validation errors and fails when there are any.
func checkConfig(cmd *cobra.Command, cfg *config.Config) error {
	errs := config.Validate(cfg)
	if len(errs) == 0 {
		return nil
	}
	cmd.PrintErrln("Validation errors:")
	for _, e := range errs {
		cmd.PrintErrf("  - %s\n", e)
	}
	return fmt.Errorf("config has %d validation error(s)", len(errs))
}

func newModelClient(cfg *config.Config) (llm.Client, error) {
	switch cfg.Model.Provider {
	case config.ProviderAnthropic:
		return llm.NewAnthropic(cfg.Model.APIKey, cfg.Model.Name), nil
	case config.ProviderClaudeCLI:
		return llm.NewCLI(cfg.Model.Name, llm.ExecRunner{}), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Model.Provider)
	}
}

func init() {
	runCmd.Flags().Bool("migrate", false, "apply the schema before starting")
}
