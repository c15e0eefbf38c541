package config

import "fmt"

// ValidationError represents a single validation issue with a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var recognizedProviders = map[string]bool{
	ProviderAnthropic: true,
	ProviderClaudeCLI: true,
}

// Validate checks a Config for missing and out-of-range values.
// It returns a slice of all validation errors found (empty if valid).
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.Queue.URL == "" {
		add("queue.url", "is required (or set REDIS_URL)")
	}
	if cfg.Queue.Name == "" {
		add("queue.name", "is required")
	}
	if cfg.Queue.PopTimeout <= 0 {
		add("queue.pop_timeout", "must be positive")
	}
	if cfg.Database.URL == "" {
		add("database.url", "is required (or set DATABASE_URL)")
	}

	m := cfg.Model
	if !recognizedProviders[m.Provider] {
		add("model.provider", fmt.Sprintf("unrecognized provider %q (want %q or %q)", m.Provider, ProviderAnthropic, ProviderClaudeCLI))
	}
	if m.Provider == ProviderAnthropic {
		if m.APIKey == "" {
			add("model.api_key", "is required for the anthropic provider (or set ANTHROPIC_API_KEY)")
		}
		if m.Name == "" {
			add("model.name", "is required for the anthropic provider")
		}
	}
	if m.Temperature < 0 || m.Temperature > 1 {
		add("model.temperature", fmt.Sprintf("must be between 0 and 1, got %g", m.Temperature))
	}
	if m.MaxTokens <= 0 {
		add("model.max_tokens", "must be positive")
	}
	if m.ModifyMaxTokens < 0 {
		add("model.modify_max_tokens", "must not be negative")
	}

	if cfg.Fixer.MaxCodeChars < 0 {
		add("fixer.max_code_chars", "must not be negative")
	}
	if cfg.Planner.ContextFiles <= 0 {
		add("planner.context_files", "must be positive")
	}
	if cfg.Planner.ContextDirs <= 0 {
		add("planner.context_dirs", "must be positive")
	}

	b := cfg.Backoff
	if b.Initial <= 0 {
		add("backoff.initial", "must be positive")
	}
	if b.Max < b.Initial {
		add("backoff.max", fmt.Sprintf("must be at least backoff.initial (%s)", b.Initial))
	}

	if cfg.Health.Port < 0 || cfg.Health.Port > 65535 {
		add("health.port", fmt.Sprintf("invalid port %d", cfg.Health.Port))
	}
	if cfg.Worker.Name == "" {
		add("worker.name", "is required")
	}
	return errs
}
