// Package lang holds per-language project conventions: where dependencies
// are declared, what the entrypoint looks like, how imports are written.
package lang

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Fallback is the language used for typescript and anything unknown.
const Fallback = "javascript"

//go:embed conventions.toml
var conventionsTOML string

// Conventions describes one language's project layout idioms.
type Conventions struct {
	Key              string   `toml:"-"`
	DisplayName      string   `toml:"display_name"`
	DependencyFile   string   `toml:"dependency_file"`
	MainFile         string   `toml:"main_file"`
	IndexFile        string   `toml:"index_file"`
	ImportPattern    string   `toml:"import_pattern"`
	ExamplePath      string   `toml:"example_path"`
	FileTypes        string   `toml:"file_types"`
	ConfigFiles      []string `toml:"config_files"`
	TestDir          string   `toml:"test_dir"`
	PackageManager   string   `toml:"package_manager"`
	DependencyFormat string   `toml:"dependency_format"`
	IntegrationFiles []string `toml:"integration_files"`
	Requirements     []string `toml:"requirements"`
	Naming           []string `toml:"naming"`
}

type conventionsFile struct {
	Language map[string]Conventions `toml:"language"`
}

var table = mustParse(conventionsTOML)

func parse(data string) (map[string]Conventions, error) {
	var f conventionsFile
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, fmt.Errorf("parse language conventions: %w", err)
	}
	if _, ok := f.Language[Fallback]; !ok {
		return nil, fmt.Errorf("parse language conventions: no %q entry", Fallback)
	}
	for k, c := range f.Language {
		c.Key = k
		f.Language[k] = c
	}
	return f.Language, nil
}

func mustParse(data string) map[string]Conventions {
	t, err := parse(data)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the conventions for a language name. Unknown names,
// including typescript, get the javascript entry.
func Lookup(name string) Conventions {
	if c, ok := table[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return table[Fallback]
}

// Known lists the languages with their own entry, sorted.
func Known() []string {
	names := make([]string, 0, len(table))
	for k := range table {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// NumberedRequirements renders the requirement list as "1. ...", starting
// with the completeness rule every generated file shares.
func (c Conventions) NumberedRequirements(displayName string) string {
	lines := []string{fmt.Sprintf("1. Generate COMPLETE, working %s code", displayName)}
	for i, r := range c.Requirements {
		lines = append(lines, fmt.Sprintf("%d. %s", i+2, r))
	}
	return strings.Join(lines, "\n")
}

// NamingList renders the naming conventions as a bullet list.
func (c Conventions) NamingList() string {
	var lines []string
	for _, n := range c.Naming {
		lines = append(lines, "- "+n)
	}
	return strings.Join(lines, "\n")
}
