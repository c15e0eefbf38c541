// Package orchestrator plans and executes feature-creation jobs: new files,
// edits to existing files, dependency and configuration bookkeeping.
package orchestrator

import (
	"context"
	"fmt"
	"io"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/jobs"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/lang"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/llm"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/prompt"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/reply"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/repoctx"
)

// RedirectMessage is stored when a creation job turns out to need no new files.
const RedirectMessage = "This request requires fixing existing files, not creating new ones. Please use the regular fix feature."

// Store is the slice of the job store the orchestrator needs.
type Store interface {
	UpdateJob(ctx context.Context, id string, u jobs.Update) error
	SourceFiles(ctx context.Context, projectID string, limit int) ([]jobs.SourceFile, error)
	Project(ctx context.Context, id string) (*jobs.Project, error)
}

// ContentFetcher reads a file from the source-hosting service.
type ContentFetcher interface {
	GetContent(owner, repo, path, token string) (string, error)
}

// Options tunes model requests and context gathering.
type Options struct {
	Temperature     float64
	MaxTokens       int64
	ModifyMaxTokens int64
	ContextFiles    int
	ContextDirs     int
}

// Orchestrator runs creation jobs one at a time.
type Orchestrator struct {
	store    Store
	client   llm.Client
	gh       ContentFetcher
	prompts  prompt.Library
	opts     Options
	progress io.Writer
}

// New creates an Orchestrator.
func New(store Store, client llm.Client, gh ContentFetcher, prompts prompt.Library, opts Options) *Orchestrator {
	if opts.ModifyMaxTokens == 0 {
		opts.ModifyMaxTokens = opts.MaxTokens
	}
	return &Orchestrator{
		store:   store,
		client:  client,
		gh:      gh,
		prompts: prompts,
		opts:    opts,
	}
}

// SetProgress sets a writer for live progress output (e.g. os.Stderr).
func (o *Orchestrator) SetProgress(w io.Writer) {
	o.progress = w
}

func (o *Orchestrator) logf(format string, args ...interface{}) {
	if o.progress != nil {
		fmt.Fprintf(o.progress, "  → "+format+"\n", args...)
	}
}

// Run plans the job and executes the plan. It returns the result payload
// to store on completion: a *jobs.RedirectResult when there is nothing to
// orchestrate, otherwise a *jobs.OrchestratedResult. Progress updates are
// written as it goes; finalizing the job is the caller's responsibility.
func (o *Orchestrator) Run(ctx context.Context, p *jobs.Payload) (any, error) {
	t := &tracker{store: o.store, jobID: p.JobID}
	if err := t.planning(ctx); err != nil {
		return nil, fmt.Errorf("mark planning: %w", err)
	}

	rc := o.repoContext(ctx, p.ProjectID)
	planned, err := o.plan(ctx, p, rc)
	if err != nil {
		return nil, err
	}
	if planned.Plan.Empty() {
		o.logf("job %s: no orchestration needed, redirecting", p.JobID)
		return &jobs.RedirectResult{Action: jobs.ActionRedirect, Message: RedirectMessage}, nil
	}

	plan := planned.Plan
	t.total = plan.Steps()
	o.logf("job %s: plan has %d new, %d modified, %d dependency, %d configuration steps",
		p.JobID, len(plan.NewFiles), len(plan.ModifiedFiles), len(plan.DependencyUpdates), len(plan.ConfigurationChanges))

	out := jobs.OrchestratedOutput{
		NewFiles:             []jobs.CreatedFile{},
		ModifiedFiles:        []jobs.ModifiedFile{},
		DependencyUpdates:    []jobs.DependencyChange{},
		ConfigurationChanges: []jobs.ConfigurationChange{},
		IntegrationSteps:     plan.IntegrationSteps,
		Summary:              planned.Reasoning,
	}
	if out.IntegrationSteps == nil {
		out.IntegrationSteps = []string{}
	}
	if out.Summary == "" {
		out.Summary = "Orchestrated implementation completed"
	}

	for _, spec := range plan.NewFiles {
		if err := t.step(ctx, bandCreate, fmt.Sprintf("Creating %s...", spec.Path)); err != nil {
			return nil, fmt.Errorf("report progress: %w", err)
		}
		created, err := o.createFile(ctx, p.Question, rc, spec)
		if err != nil {
			return nil, err
		}
		out.NewFiles = append(out.NewFiles, created)
	}

	if len(plan.ModifiedFiles) > 0 {
		project, err := o.store.Project(ctx, p.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("load project: %w", err)
		}
		for _, m := range plan.ModifiedFiles {
			if err := t.step(ctx, bandModify, fmt.Sprintf("Updating %s...", m.Path)); err != nil {
				return nil, fmt.Errorf("report progress: %w", err)
			}
			modified, err := o.modifyFile(ctx, p.Question, project, m)
			if err != nil {
				return nil, err
			}
			out.ModifiedFiles = append(out.ModifiedFiles, modified)
		}
	}

	for _, d := range plan.DependencyUpdates {
		if err := t.step(ctx, bandDeps, fmt.Sprintf("Updating dependencies in %s...", d.File)); err != nil {
			return nil, fmt.Errorf("report progress: %w", err)
		}
		out.DependencyUpdates = append(out.DependencyUpdates, dependencyChange(d))
	}

	for _, c := range plan.ConfigurationChanges {
		if err := t.step(ctx, bandConfig, fmt.Sprintf("Updating configuration %s...", c.File)); err != nil {
			return nil, fmt.Errorf("report progress: %w", err)
		}
		changes := c.Changes
		if changes == nil {
			changes = []string{}
		}
		out.ConfigurationChanges = append(out.ConfigurationChanges, jobs.ConfigurationChange{
			FileName:    c.File,
			Changes:     changes,
			Explanation: "Configuration updated for new feature",
		})
	}

	o.logf("job %s: orchestration produced %d new files, %d modified files", p.JobID, len(out.NewFiles), len(out.ModifiedFiles))
	return &jobs.OrchestratedResult{Action: jobs.ActionOrchestrated, OrchestratedPlan: out}, nil
}

// repoContext reads the source index. A failed lookup falls back to the
// default context so planning can still proceed.
func (o *Orchestrator) repoContext(ctx context.Context, projectID string) *repoctx.Context {
	files, err := o.store.SourceFiles(ctx, projectID, o.opts.ContextFiles)
	if err != nil {
		o.logf("project %s: source index unavailable, using default context: %v", projectID, err)
		return repoctx.Default()
	}
	return repoctx.Build(files, o.opts.ContextDirs)
}

// plan asks the model for a cross-file plan. An unreadable reply yields a
// PlanReply with a nil plan.
func (o *Orchestrator) plan(ctx context.Context, p *jobs.Payload, rc *repoctx.Context) (*reply.PlanReply, error) {
	conv := lang.Lookup(rc.PrimaryLanguage)
	vars := rc.Vars()
	vars["question"] = p.Question
	vars["issue_summary"] = p.Summary
	vars["dependency_file"] = conv.DependencyFile
	vars["main_file"] = conv.MainFile
	vars["import_pattern"] = conv.ImportPattern
	vars["example_path"] = conv.ExamplePath
	vars["file_types"] = conv.FileTypes

	text, err := o.prompts.Render(prompt.Plan, vars)
	if err != nil {
		return nil, fmt.Errorf("build plan prompt: %w", err)
	}
	o.logf("job %s: planning for %s project", p.JobID, rc.PrimaryLanguage)
	raw, err := o.client.Complete(ctx, llm.Request{
		Prompt:      text,
		Temperature: o.opts.Temperature,
		MaxTokens:   o.opts.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("plan feature: %w", err)
	}
	r := reply.ParsePlan(raw)
	if r.Plan == nil {
		o.logf("job %s: plan reply unreadable (%s)", p.JobID, r.Strategy)
	}
	return r, nil
}
