// Package llm sends prompts to a text-completion model.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Request is a single prompt with its sampling settings.
type Request struct {
	Prompt      string
	Temperature float64
	MaxTokens   int64
}

// Client returns the raw text a model produced for a prompt. The text has
// no structural guarantee.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Func adapts a plain function to Client.
type Func func(ctx context.Context, req Request) (string, error)

func (f Func) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// AnthropicClient calls the Messages API. Replies are streamed and
// accumulated so large token budgets do not hit the non-streaming limits.
type AnthropicClient struct {
	client anthropic.Client
	model  string
}

// NewAnthropic creates a Messages API client. An empty apiKey falls back
// to ANTHROPIC_API_KEY from the environment.
func NewAnthropic(apiKey, model string, opts ...option.RequestOption) *AnthropicClient {
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &AnthropicClient{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (c *AnthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	stream := c.client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   req.MaxTokens,
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	defer stream.Close()

	message := anthropic.Message{}
	for stream.Next() {
		if err := message.Accumulate(stream.Current()); err != nil {
			return "", fmt.Errorf("accumulate model stream: %w", err)
		}
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("model request: %w", err)
	}
	return textOf(message), nil
}

func textOf(m anthropic.Message) string {
	var b strings.Builder
	for _, block := range m.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

// Runner executes a command with the prompt on stdin. Interface for testing.
type Runner interface {
	Run(ctx context.Context, stdin string, name string, args ...string) (string, error)
}

// ExecRunner runs commands via exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, stdin string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	out, err := cmd.Output()
	if err != nil {
		detail := ""
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			detail = strings.TrimSpace(string(ee.Stderr))
		}
		return "", fmt.Errorf("%s: %s: %w", name, detail, err)
	}
	return string(out), nil
}

// CLIClient calls `claude --print`. The CLI has no temperature or output
// budget flags, so those request fields are ignored.
type CLIClient struct {
	Model  string
	Binary string
	runner Runner
}

// NewCLI creates a CLI-backed client. A nil runner uses ExecRunner.
func NewCLI(model string, runner Runner) *CLIClient {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &CLIClient{Model: model, Binary: "claude", runner: runner}
}

func (c *CLIClient) Complete(ctx context.Context, req Request) (string, error) {
	args := []string{"--print"}
	if c.Model != "" {
		args = append(args, "--model", c.Model)
	}
	out, err := c.runner.Run(ctx, req.Prompt, c.Binary, args...)
	if err != nil {
		return "", fmt.Errorf("claude --print: %w", err)
	}
	return strings.TrimSpace(out), nil
}
