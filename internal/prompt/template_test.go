package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRender_SimpleVars(t *testing.T) {
	tmpl := "Fix {{file_name}} for issue: {{question}}."
	vars := Vars{
		"file_name": "src/auth/login.ts",
		"question":  "JWT expires early",
	}

	result, err := Render(tmpl, vars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "Fix src/auth/login.ts for issue: JWT expires early."
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestRender_MissingVar(t *testing.T) {
	_, err := Render("{{file_name}} {{question}}", Vars{"file_name": "a.go"})
	if err == nil {
		t.Fatal("expected error for missing variable")
	}
	if !strings.Contains(err.Error(), "question") {
		t.Errorf("error should mention missing variable, got: %v", err)
	}
}

func TestRender_MultipleMissing(t *testing.T) {
	_, err := Render("{{a}} and {{b}} and {{c}}", Vars{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "a") || !strings.Contains(err.Error(), "b") || !strings.Contains(err.Error(), "c") {
		t.Errorf("error should mention all missing vars, got: %v", err)
	}
}

func TestRender_Conditionals(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		vars Vars
		want string
	}{
		{"present", "Start.{{#if summary}} Summary: {{summary}}.{{/if}} End.", Vars{"summary": "s"}, "Start. Summary: s. End."},
		{"absent", "Start.{{#if summary}} Summary: {{summary}}.{{/if}} End.", Vars{}, "Start. End."},
		{"empty value", "{{#if summary}}has summary{{/if}}", Vars{"summary": ""}, ""},
		{"two blocks", "{{#if a}}A={{a}}{{/if}} {{#if b}}B={{b}}{{/if}}", Vars{"a": "yes"}, "A=yes "},
		{"nested both", "{{#if a}}outer {{#if b}}inner{{/if}} end{{/if}}", Vars{"a": "1", "b": "1"}, "outer inner end"},
		{"nested outer absent", "START{{#if a}}outer {{#if b}}inner{{/if}} end{{/if}}FINISH", Vars{}, "STARTFINISH"},
		{"trailing whitespace in tag", "{{#if x }}content{{/if}}", Vars{"x": "yes"}, "content"},
		{"newline in tag", "{{#if\nx}}content{{/if}}", Vars{"x": "yes"}, "content"},
		{"absent block hides its vars", "START{{#if x}}content with {{y}}{{/if}}MORE", Vars{}, "STARTMORE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, tt.vars)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRender_UnclosedConditional(t *testing.T) {
	_, err := Render("START{{#if x}}content with {{y}}MORE", Vars{"x": "yes", "y": "val"})
	if err == nil || !strings.Contains(err.Error(), "unclosed") {
		t.Fatalf("expected unclosed error, got: %v", err)
	}
}

func TestRender_DanglingClose(t *testing.T) {
	if _, err := Render("text{{/if}}", Vars{}); err == nil {
		t.Fatal("expected error for dangling {{/if}}")
	}
}

// Source code pasted into a prompt routinely contains braces; it must go in
// verbatim and never be expanded a second time.
func TestRender_ValuesInsertedLiterally(t *testing.T) {
	result, err := Render("{{a}} and {{b}}", Vars{"a": "{{b}}", "b": "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "{{b}} and hello" {
		t.Errorf("expected '{{b}} and hello', got %q", result)
	}

	result, err = Render("{{#if note}}Note: {{note}}{{/if}} done", Vars{"note": "use {{/if}} carefully"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "Note: use {{/if}} carefully done" {
		t.Errorf("expected value preserved, got %q", result)
	}
}

func TestNames(t *testing.T) {
	want := "fix.md,generate.md,modify.md,plan.md"
	if got := strings.Join(Names(), ","); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestLibrary_LoadBuiltin(t *testing.T) {
	lib := Library{}
	for _, name := range Names() {
		content, err := lib.Load(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if content != builtinTemplates[name] {
			t.Errorf("%s: expected built-in content", name)
		}
	}
}

func TestLibrary_Override(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, Fix), []byte("custom {{question}}"), 0o644); err != nil {
		t.Fatal(err)
	}
	lib := Library{Dir: dir}

	got, err := lib.Render(Fix, Vars{"question": "q"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "custom q" {
		t.Errorf("expected override to win, got %q", got)
	}

	plan, err := lib.Load(Plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan != planTemplate {
		t.Error("expected built-in plan when no override file exists")
	}
}

func TestLibrary_RejectsUnknownNames(t *testing.T) {
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, "prompts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "secret.txt"), []byte("SECRET"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "extra.md"), []byte("extra"), 0o644); err != nil {
		t.Fatal(err)
	}

	lib := Library{Dir: dir}
	for _, name := range []string{"../secret.txt", filepath.Join(tmpDir, "secret.txt"), "extra.md", ""} {
		if content, err := lib.Load(name); err == nil {
			t.Errorf("%q: expected error, got %q", name, content)
		}
	}
}

func TestExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")

	written, err := Export(dir, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(written) != len(builtinTemplates) {
		t.Fatalf("expected %d files, got %d", len(builtinTemplates), len(written))
	}
	for name, content := range builtinTemplates {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("%s not written: %v", name, err)
		}
		if string(data) != content {
			t.Errorf("%s content mismatch", name)
		}
	}

	// Edited files survive a second export unless overwrite is set.
	edited := filepath.Join(dir, Fix)
	if err := os.WriteFile(edited, []byte("mine"), 0o644); err != nil {
		t.Fatal(err)
	}
	written, err = Export(dir, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(written) != 0 {
		t.Errorf("expected nothing written, got %v", written)
	}
	if data, _ := os.ReadFile(edited); string(data) != "mine" {
		t.Errorf("edited template was overwritten: %q", data)
	}

	if _, err := Export(dir, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data, _ := os.ReadFile(edited); string(data) != fixTemplate {
		t.Error("expected overwrite to restore the built-in")
	}
}

func TestBuiltins_Render(t *testing.T) {
	tests := []struct {
		name     string
		vars     Vars
		contains []string
		absent   []string
	}{
		{
			name: Fix,
			vars: Vars{
				"question":     "remove unused import",
				"file_name":    "src/app.ts",
				"file_summary": "app entry",
				"code":         "1: import x from 'x';",
			},
			contains: []string{"Context: remove unused import", "File: src/app.ts", "1: import x from 'x';", `"lineChanges"`},
			absent:   []string{"Issue Context:", "out of scope"},
		},
		{
			name: Fix,
			vars: Vars{
				"question":      "q",
				"issue_summary": "lint failure",
				"file_name":     "a.go",
				"file_summary":  "",
				"code":          "1: package a",
				"visible_lines": "1200",
				"total_lines":   "3000",
			},
			contains: []string{"Issue Context: lint failure\n\nOriginal Question: q", "Only lines 1-1200 of 3000 are shown"},
		},
		{
			name: Plan,
			vars: Vars{
				"question":        "add chat",
				"language":        "Go",
				"dependency_file": "go.mod",
				"main_file":       "main.go",
				"import_pattern":  `import "pkg"`,
				"frameworks":      "javascript",
				"file_count":      "12",
				"directories":     "cmd, internal/db",
				"example_path":    "internal/chat/chat.go",
				"file_types":      "package|handler",
			},
			contains: []string{`Request: "add chat"`, "- Dependency File: go.mod", `"path": "internal/chat/chat.go"`, `"orchestratedPlan"`},
			absent:   []string{"Summary: \""},
		},
		{
			name: Generate,
			vars: Vars{
				"language_name": "TypeScript",
				"file_type":     "component",
				"file_path":     "src/components/Chat.tsx",
				"description":   "chat box",
				"question":      "add chat",
				"requirements":  "1. Generate COMPLETE, working TypeScript code",
				"naming":        "",
			},
			contains: []string{"Generate a complete TypeScript component", "File: src/components/Chat.tsx", `"code"`},
			absent:   []string{"Project Context:", "Example patterns:"},
		},
		{
			name: Generate,
			vars: Vars{
				"language_name":      "TypeScript",
				"file_type":          "component",
				"file_path":          "src/components/Chat.tsx",
				"description":        "chat box",
				"question":           "add chat",
				"requirements":       "1. x",
				"project_frameworks": "nextjs, react",
				"uses_typescript":    "true",
			},
			contains: []string{"- Framework: nextjs, react", "- Uses TypeScript: true"},
		},
		{
			name: Modify,
			vars: Vars{
				"file_path":         "src/App.tsx",
				"modification_type": "import new component",
				"reason":            "wire chat",
				"question":          "add chat",
				"instructions":      "- import new component",
				"original_code":     "export default App;",
			},
			contains: []string{"File to modify: src/App.tsx", "export default App;", `"fixedCode"`},
		},
	}
	lib := Library{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := lib.Render(tt.name, tt.vars)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("expected output to contain %q", s)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(out, s) {
					t.Errorf("expected output not to contain %q", s)
				}
			}
			if strings.Contains(out, "{{") {
				t.Errorf("unexpanded tag left in output")
			}
		})
	}
}
