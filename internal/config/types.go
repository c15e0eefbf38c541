package config

import "time"

// Config is the worker configuration, read from YAML or TOML.
type Config struct {
	Queue    QueueConfig    `yaml:"queue" toml:"queue"`
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Model    ModelConfig    `yaml:"model" toml:"model"`
	Fixer    FixerConfig    `yaml:"fixer" toml:"fixer"`
	Planner  PlannerConfig  `yaml:"planner" toml:"planner"`
	Backoff  BackoffConfig  `yaml:"backoff" toml:"backoff"`
	Health   HealthConfig   `yaml:"health" toml:"health"`
	Worker   WorkerConfig   `yaml:"worker" toml:"worker"`
	Prompts  PromptsConfig  `yaml:"prompts" toml:"prompts"`
}

// QueueConfig locates the job queue.
type QueueConfig struct {
	URL        string        `yaml:"url" toml:"url"`
	Name       string        `yaml:"name" toml:"name"`
	PopTimeout time.Duration `yaml:"pop_timeout" toml:"pop_timeout"`
}

// DatabaseConfig locates the job store.
type DatabaseConfig struct {
	URL string `yaml:"url" toml:"url"`
}

// Model providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderClaudeCLI = "claude-cli"
)

// ModelConfig selects the model client and request limits.
type ModelConfig struct {
	Provider        string  `yaml:"provider" toml:"provider"`
	Name            string  `yaml:"name" toml:"name"`
	APIKey          string  `yaml:"api_key" toml:"api_key"`
	Temperature     float64 `yaml:"temperature" toml:"temperature"`
	MaxTokens       int64   `yaml:"max_tokens" toml:"max_tokens"`
	ModifyMaxTokens int64   `yaml:"modify_max_tokens" toml:"modify_max_tokens"`
}

// FixerConfig bounds the code listing sent with fix prompts.
type FixerConfig struct {
	MaxCodeChars int `yaml:"max_code_chars" toml:"max_code_chars"`
}

// PlannerConfig bounds the repository context gathered for planning.
type PlannerConfig struct {
	ContextFiles int `yaml:"context_files" toml:"context_files"`
	ContextDirs  int `yaml:"context_dirs" toml:"context_dirs"`
}

// BackoffConfig is the pause policy after a failed loop iteration.
type BackoffConfig struct {
	Initial time.Duration `yaml:"initial" toml:"initial"`
	Max     time.Duration `yaml:"max" toml:"max"`
}

type HealthConfig struct {
	Port int `yaml:"port" toml:"port"`
}

type WorkerConfig struct {
	Name string `yaml:"name" toml:"name"`
}

// PromptsConfig points at a directory of template overrides.
type PromptsConfig struct {
	Dir string `yaml:"dir" toml:"dir"`
}

// Default returns the configuration used for keys a file leaves unset.
func Default() *Config {
	return &Config{
		Queue: QueueConfig{
			Name:       "fix-jobs",
			PopTimeout: 30 * time.Second,
		},
		Model: ModelConfig{
			Provider:        ProviderAnthropic,
			Name:            "claude-sonnet-4-20250514",
			Temperature:     0.1,
			MaxTokens:       40000,
			ModifyMaxTokens: 50000,
		},
		Fixer:   FixerConfig{MaxCodeChars: 50000},
		Planner: PlannerConfig{ContextFiles: 50, ContextDirs: 20},
		Backoff: BackoffConfig{Initial: 5 * time.Second, Max: time.Minute},
		Health:  HealthConfig{Port: 3001},
		Worker:  WorkerConfig{Name: "gitosys-background-worker"},
	}
}
