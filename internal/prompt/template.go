package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	varRe    = regexp.MustCompile(`\{\{([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)
	ifOpenRe = regexp.MustCompile(`\{\{#if\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)
	ifClose  = "{{/if}}"
)

// Vars maps template variable names to values.
type Vars map[string]string

// Render expands {{name}} placeholders and {{#if name}}...{{/if}} blocks.
// A block is kept only when its variable is set and non-empty. Every
// placeholder left after conditionals are resolved must have a value.
// Values are inserted once and never re-expanded.
func Render(tmpl string, vars Vars) (string, error) {
	body, err := resolveConditionals(tmpl, vars)
	if err != nil {
		return "", err
	}

	var missing []string
	out := varRe.ReplaceAllStringFunc(body, func(match string) string {
		name := varRe.FindStringSubmatch(match)[1]
		if val, ok := vars[name]; ok {
			return val
		}
		missing = append(missing, name)
		return match
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("missing template variables: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// resolveConditionals collapses {{#if}} blocks innermost first: for each
// {{/if}} the nearest preceding {{#if}} is its partner.
func resolveConditionals(tmpl string, vars Vars) (string, error) {
	out := tmpl
	for {
		closeAt := strings.Index(out, ifClose)
		if closeAt < 0 {
			break
		}
		opens := ifOpenRe.FindAllStringSubmatchIndex(out[:closeAt], -1)
		if opens == nil {
			return "", fmt.Errorf("dangling {{/if}} without matching {{#if}}")
		}
		open := opens[len(opens)-1]
		name := out[open[2]:open[3]]

		var keep string
		if vars[name] != "" {
			keep = out[open[1]:closeAt]
		}
		out = out[:open[0]] + keep + out[closeAt+len(ifClose):]
	}
	if tag := ifOpenRe.FindString(out); tag != "" {
		return "", fmt.Errorf("unclosed conditional block: %s", tag)
	}
	return out, nil
}

// Library resolves prompt templates by name. Files in Dir override the
// built-in templates of the same name.
type Library struct {
	Dir string
}

// Load returns the named template. Only built-in template names are
// accepted, so an override can replace a prompt but never add a new one.
func (l Library) Load(name string) (string, error) {
	builtin, ok := builtinTemplates[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q", name)
	}
	if l.Dir == "" {
		return builtin, nil
	}
	data, err := os.ReadFile(filepath.Join(l.Dir, name))
	switch {
	case err == nil:
		return string(data), nil
	case os.IsNotExist(err):
		return builtin, nil
	default:
		return "", fmt.Errorf("read template override %q: %w", name, err)
	}
}

// Render loads and renders the named template.
func (l Library) Render(name string, vars Vars) (string, error) {
	tmpl, err := l.Load(name)
	if err != nil {
		return "", err
	}
	out, err := Render(tmpl, vars)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return out, nil
}

// Names lists the built-in template names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtinTemplates))
	for n := range builtinTemplates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Export writes the built-in templates into dir so they can be edited and
// used as overrides. Existing files are left alone unless overwrite is set.
// It returns the paths written.
func Export(dir string, overwrite bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create templates dir: %w", err)
	}
	var written []string
	for _, name := range Names() {
		path := filepath.Join(dir, name)
		if !overwrite {
			if _, err := os.Stat(path); err == nil {
				continue
			}
		}
		if err := os.WriteFile(path, []byte(builtinTemplates[name]), 0o644); err != nil {
			return written, fmt.Errorf("write template %q: %w", name, err)
		}
		written = append(written, path)
	}
	return written, nil
}
