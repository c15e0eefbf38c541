package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads a configuration file over the defaults. Files ending in .toml
// are decoded as TOML, anything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing config TOML: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	return cfg, nil
}

// Candidates lists the default search locations in order:
// ./fixworker.yaml, ~/.fixworker/config.yaml
func Candidates() []string {
	candidates := []string{"fixworker.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".fixworker", "config.yaml"))
	}
	return candidates
}

// LoadDefault loads the first candidate file that exists. With no file the
// defaults are returned, since the worker can be configured from the
// environment alone. The returned path is empty in that case.
func LoadDefault() (*Config, string, error) {
	for _, path := range Candidates() {
		if _, err := os.Stat(path); err == nil {
			cfg, err := Load(path)
			return cfg, path, err
		}
	}
	return Default(), "", nil
}

// ApplyEnv overrides file values with the environment variables the
// deployment sets: REDIS_URL, DATABASE_URL, ANTHROPIC_API_KEY, PORT and
// FIXWORKER_QUEUE.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("REDIS_URL"); v != "" {
		cfg.Queue.URL = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Model.APIKey = v
	}
	if v := getenv("FIXWORKER_QUEUE"); v != "" {
		cfg.Queue.Name = v
	}
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: invalid port %q", v)
		}
		cfg.Health.Port = port
	}
	return nil
}

// ReadEnvFile parses a .env file. Supports both "KEY=VALUE" and
// "export KEY=VALUE"; blank lines and # comments are skipped, and one pair
// of surrounding quotes is removed from values.
func ReadEnvFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vars := map[string]string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		if key == "" {
			continue
		}
		vars[key] = unquote(strings.TrimSpace(parts[1]))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return vars, nil
}

func unquote(v string) string {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}

// LoadEnvFile exports the variables of a .env file that are not already
// set in the process environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	vars, err := ReadEnvFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for k, v := range vars {
		if _, ok := os.LookupEnv(k); ok {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return nil
}
