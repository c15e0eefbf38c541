// Package worker runs the dequeue loop: one job at a time, dispatched to the
// per-file fix path or the feature orchestrator.
package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/fixer"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/jobs"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/scoring"
)

// Queue yields payloads. Pop returns nil, nil when its wait bound elapses.
type Queue interface {
	Pop(ctx context.Context) (*jobs.Payload, error)
}

// Store writes job record updates.
type Store interface {
	UpdateJob(ctx context.Context, id string, u jobs.Update) error
}

// Orchestrator executes creation jobs and returns the result payload.
type Orchestrator interface {
	Run(ctx context.Context, p *jobs.Payload) (any, error)
}

// Fixer produces a fix verdict for one file.
type Fixer interface {
	GenerateFix(ctx context.Context, file jobs.FileReference, question, summary string) *fixer.Result
}

// Runner is the supervisor loop.
type Runner struct {
	queue    Queue
	store    Store
	orch     Orchestrator
	fixer    Fixer
	backoff  Backoff
	progress io.Writer

	// wait pauses between failed iterations; replaced in tests.
	wait func(ctx context.Context, d time.Duration) error
}

// New creates a Runner.
func New(q Queue, s Store, o Orchestrator, f Fixer, b Backoff) *Runner {
	return &Runner{
		queue:   q,
		store:   s,
		orch:    o,
		fixer:   f,
		backoff: b,
		wait:    sleep,
	}
}

// SetProgress sets a writer for live progress output (e.g. os.Stderr).
func (r *Runner) SetProgress(w io.Writer) {
	r.progress = w
}

func (r *Runner) logf(format string, args ...interface{}) {
	if r.progress != nil {
		fmt.Fprintf(r.progress, "  → "+format+"\n", args...)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run loops until ctx is cancelled. Cancellation stops further dequeues; a
// job already dequeued runs to completion. Errors from individual
// iterations are logged and followed by a backoff pause, never returned.
func (r *Runner) Run(ctx context.Context) error {
	r.logf("worker started")
	for {
		if ctx.Err() != nil {
			r.logf("worker stopping")
			return nil
		}
		if _, err := r.Tick(ctx); err != nil {
			if ctx.Err() != nil {
				r.logf("worker stopping")
				return nil
			}
			d := r.backoff.Next()
			r.logf("iteration failed, retrying in %s: %v", d, err)
			if r.wait(ctx, d) != nil {
				r.logf("worker stopping")
				return nil
			}
			continue
		}
		r.backoff.Reset()
	}
}

// Tick performs one dequeue attempt and processes the job it yields. It
// reports whether a job was handled. Errors are dequeue failures or a
// failure to record a job's outcome.
func (r *Runner) Tick(ctx context.Context) (bool, error) {
	p, err := r.queue.Pop(ctx)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, nil
	}
	return true, r.Process(context.WithoutCancel(ctx), p)
}

// Process runs one job and finalizes its record. A job-level error becomes
// a FAILED record; only a failure to write that record is returned.
func (r *Runner) Process(ctx context.Context, p *jobs.Payload) error {
	start := time.Now()
	r.logf("job %s: processing %s job", p.JobID, p.Kind())

	result, err := r.execute(ctx, p)
	if err != nil {
		r.logf("job %s: failed after %s: %v", p.JobID, time.Since(start).Round(time.Millisecond), err)
		if uerr := r.store.UpdateJob(ctx, p.JobID, jobs.Failed(err.Error())); uerr != nil {
			return fmt.Errorf("mark job %s failed: %w", p.JobID, errors.Join(uerr, err))
		}
		return nil
	}

	if err := r.store.UpdateJob(ctx, p.JobID, jobs.Completed(result)); err != nil {
		// The result could not be stored; try to leave the record in a
		// terminal state.
		if uerr := r.store.UpdateJob(ctx, p.JobID, jobs.Failed(fmt.Sprintf("store result: %v", err))); uerr != nil {
			return fmt.Errorf("complete job %s: %w", p.JobID, errors.Join(err, uerr))
		}
		return nil
	}
	r.logf("job %s: completed in %s", p.JobID, time.Since(start).Round(time.Millisecond))
	return nil
}

func (r *Runner) execute(ctx context.Context, p *jobs.Payload) (any, error) {
	if err := r.store.UpdateJob(ctx, p.JobID, jobs.Processing()); err != nil {
		return nil, fmt.Errorf("mark processing: %w", err)
	}
	if p.IsCreation() {
		return r.orch.Run(ctx, p)
	}
	return r.fix(ctx, p)
}

// fix runs the per-file path over the selected candidates. Files are
// handled sequentially; only files that need a fix enter the result.
func (r *Runner) fix(ctx context.Context, p *jobs.Payload) (*jobs.FixResult, error) {
	selected := scoring.Select(p.Files, p.Question)
	r.logf("job %s: %d of %d candidate files selected", p.JobID, len(selected), len(p.Files))

	out := &jobs.FixResult{Fixes: []jobs.CodeFix{}}
	for i, f := range selected {
		pct := int(math.Round(float64(i) / float64(len(selected)) * 100))
		if err := r.store.UpdateJob(ctx, p.JobID, jobs.Progress(pct, f.FileName)); err != nil {
			return nil, fmt.Errorf("report progress: %w", err)
		}
		r.logf("job %s: %s (score %.2f)", p.JobID, f.FileName, f.PriorityScore)

		res := r.fixer.GenerateFix(ctx, f.FileReference, p.Question, p.Summary)
		if !res.NeedsFix {
			continue
		}
		out.Fixes = append(out.Fixes, jobs.CodeFix{
			FileName:     f.FileName,
			OriginalCode: f.SourceCode,
			FixedCode:    res.FixedCode,
			Summary:      f.Summary,
			Explanation:  res.Explanation,
			Changes:      res.Changes,
			LineChanges:  res.LineChanges,
		})
	}
	r.logf("job %s: %d fixes generated", p.JobID, len(out.Fixes))
	return out, nil
}
