package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/config"
	"github.com/spf13/cobra"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var (
	configFile string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "fixworker",
	Short: "fixworker: background worker for code-fix and feature jobs",
	Long: `fixworker consumes fix and feature-creation jobs from a Redis queue, asks a
model for line-level fixes or a multi-file implementation plan, and records
progress and results on the job row in PostgreSQL.

Configuration is read from ./fixworker.yaml or ~/.fixworker/config.yaml
(or --config), then overridden by REDIS_URL, DATABASE_URL, ANTHROPIC_API_KEY,
PORT and FIXWORKER_QUEUE. A .env file is read first when present.`,
	SilenceUsage: true,
}

// Execute runs the command tree. Cancelling ctx stops a running worker.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig resolves the effective configuration: .env, file, environment.
func loadConfig() (*config.Config, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.Load(configFile)
	} else {
		cfg, _, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config file (.yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to a .env file read before the environment")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(enqueueCmd)
	rootCmd.AddCommand(jobCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(promptsCmd)
	rootCmd.AddCommand(statsCmd)
}
