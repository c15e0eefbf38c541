package github

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"
)

// ErrNotFound is returned when the repository path does not exist.
var ErrNotFound = errors.New("not found")

// CmdRunner provides gh command execution. Interface for testing.
type CmdRunner interface {
	Run(env []string, args ...string) (string, error)
}

// ExecRunner runs gh commands via exec. env entries are added to the
// current process environment.
type ExecRunner struct{}

func (r *ExecRunner) Run(env []string, args ...string) (string, error) {
	cmd := exec.Command("gh", args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return strings.TrimSpace(string(out)), fmt.Errorf("gh %s: %s: %w", strings.Join(args, " "), strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Client provides GitHub operations.
type Client struct {
	cmd CmdRunner
}

// NewClient creates a GitHub client.
func NewClient(cmd CmdRunner) *Client {
	return &Client{cmd: cmd}
}

type contentResponse struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

// GetContent fetches and decodes one file from a repository's default
// branch. token may be empty for public repositories.
func (c *Client) GetContent(owner, repo, path, token string) (string, error) {
	if owner == "" || repo == "" {
		return "", fmt.Errorf("get content: owner and repo are required")
	}
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return "", fmt.Errorf("get content: empty path")
	}

	var env []string
	if token != "" {
		env = []string{"GH_TOKEN=" + token}
	}
	endpoint := fmt.Sprintf("repos/%s/%s/contents/%s", url.PathEscape(owner), url.PathEscape(repo), escapePath(path))
	out, err := c.cmd.Run(env, "api", endpoint)
	if err != nil {
		if strings.Contains(out, "HTTP 404") || strings.Contains(err.Error(), "HTTP 404") {
			return "", fmt.Errorf("get content %s/%s/%s: %w", owner, repo, path, ErrNotFound)
		}
		return "", fmt.Errorf("get content %s/%s/%s: %w", owner, repo, path, err)
	}

	if strings.HasPrefix(strings.TrimSpace(out), "[") {
		return "", fmt.Errorf("get content %s/%s/%s: path is a directory", owner, repo, path)
	}
	var resp contentResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		return "", fmt.Errorf("parse content JSON: %w", err)
	}
	if resp.Type != "" && resp.Type != "file" {
		return "", fmt.Errorf("get content %s/%s/%s: path is a %s", owner, repo, path, resp.Type)
	}
	if resp.Encoding != "" && resp.Encoding != "base64" {
		return "", fmt.Errorf("get content %s/%s/%s: unsupported encoding %q", owner, repo, path, resp.Encoding)
	}

	// The API wraps base64 payloads at 60 columns.
	raw := strings.NewReplacer("\n", "", "\r", "").Replace(resp.Content)
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("decode content: %w", err)
	}
	return string(data), nil
}

// escapePath escapes each segment of a repository path, keeping the slashes.
func escapePath(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
