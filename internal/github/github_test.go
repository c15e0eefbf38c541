package github

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type mockCmd struct {
	calls   [][]string
	envs    [][]string
	results []mockResult
	idx     int
}

type mockResult struct {
	output string
	err    error
}

func (m *mockCmd) Run(env []string, args ...string) (string, error) {
	m.calls = append(m.calls, args)
	m.envs = append(m.envs, env)
	if m.idx >= len(m.results) {
		return "", nil
	}
	r := m.results[m.idx]
	m.idx++
	return r.output, r.err
}

func contentJSON(body string) string {
	enc := base64.StdEncoding.EncodeToString([]byte(body))
	// Wrap like the API does.
	var wrapped []string
	for len(enc) > 60 {
		wrapped = append(wrapped, enc[:60])
		enc = enc[60:]
	}
	wrapped = append(wrapped, enc)
	return fmt.Sprintf(`{"type":"file","encoding":"base64","content":%q}`, strings.Join(wrapped, "\n")+"\n")
}

func TestGetContent(t *testing.T) {
	body := "import React from 'react';\n\nexport default function App() {\n  return null;\n}\n"
	mock := &mockCmd{results: []mockResult{{output: contentJSON(body)}}}
	client := NewClient(mock)

	got, err := client.GetContent("acme", "web", "/src/App.tsx", "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != body {
		t.Errorf("expected %q, got %q", body, got)
	}

	if len(mock.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(mock.calls))
	}
	args := strings.Join(mock.calls[0], " ")
	if args != "api repos/acme/web/contents/src/App.tsx" {
		t.Errorf("unexpected args: %s", args)
	}
	if len(mock.envs[0]) != 1 || mock.envs[0][0] != "GH_TOKEN=tok" {
		t.Errorf("expected token in env, got %v", mock.envs[0])
	}
}

func TestGetContent_NoToken(t *testing.T) {
	mock := &mockCmd{results: []mockResult{{output: contentJSON("x")}}}
	if _, err := NewClient(mock).GetContent("acme", "web", "a.go", ""); err != nil {
		t.Fatal(err)
	}
	if mock.envs[0] != nil {
		t.Errorf("expected no env, got %v", mock.envs[0])
	}
}

func TestGetContent_EscapesPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"docs/release notes.md", "api repos/acme/web/contents/docs/release%20notes.md"},
		{"src/what?.ts", "api repos/acme/web/contents/src/what%3F.ts"},
		{"src/#tag/index.ts", "api repos/acme/web/contents/src/%23tag/index.ts"},
		{"/src/app/[id]/page.tsx", "api repos/acme/web/contents/src/app/%5Bid%5D/page.tsx"},
	}
	for _, tt := range tests {
		mock := &mockCmd{results: []mockResult{{output: contentJSON("x")}}}
		if _, err := NewClient(mock).GetContent("acme", "web", tt.path, ""); err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.path, err)
		}
		if args := strings.Join(mock.calls[0], " "); args != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.path, tt.want, args)
		}
	}
}

func TestGetContent_NotFound(t *testing.T) {
	mock := &mockCmd{results: []mockResult{{
		output: `{"message":"Not Found"}` + "\ngh: Not Found (HTTP 404)",
		err:    errors.New("exit status 1"),
	}}}
	_, err := NewClient(mock).GetContent("acme", "web", "missing.ts", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetContent_OtherError(t *testing.T) {
	mock := &mockCmd{results: []mockResult{{output: "gh: Bad credentials (HTTP 401)", err: errors.New("exit status 1")}}}
	_, err := NewClient(mock).GetContent("acme", "web", "a.ts", "bad")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected non-404 error, got %v", err)
	}
}

func TestGetContent_Directory(t *testing.T) {
	mock := &mockCmd{results: []mockResult{{output: `[{"type":"file","name":"a.ts"}]`}}}
	_, err := NewClient(mock).GetContent("acme", "web", "src", "")
	if err == nil || !strings.Contains(err.Error(), "directory") {
		t.Fatalf("expected directory error, got %v", err)
	}
}

func TestGetContent_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		owner, repo string
		path        string
		output      string
	}{
		{"missing owner", "", "web", "a.ts", ""},
		{"empty path", "acme", "web", "/", ""},
		{"bad json", "acme", "web", "a.ts", "not json"},
		{"bad base64", "acme", "web", "a.ts", `{"type":"file","encoding":"base64","content":"!!!"}`},
		{"symlink", "acme", "web", "a.ts", `{"type":"symlink","content":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCmd{results: []mockResult{{output: tt.output}}}
			if _, err := NewClient(mock).GetContent(tt.owner, tt.repo, tt.path, ""); err == nil {
				t.Error("expected error")
			}
		})
	}
}
