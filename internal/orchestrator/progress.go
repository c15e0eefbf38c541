package orchestrator

import (
	"context"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/jobs"
)

// Progress bands per phase. A step reports start + (end-start)*done/total,
// where done counts the plan steps finished so far across all phases.
type band struct {
	start, end int
}

var (
	bandCreate = band{10, 30}
	bandModify = band{30, 50}
	bandDeps   = band{50, 70}
	bandConfig = band{70, 100}
)

const planningProgress = 5

func (b band) at(done, total int) int {
	if total <= 0 {
		return b.start
	}
	return b.start + (b.end-b.start)*done/total
}

// tracker writes progress updates for one job. Values never go down and a
// value equal to the last one written is not written again.
type tracker struct {
	store Store
	jobID string
	last  int
	done  int
	total int
}

// step reports the start of the next plan step inside band b.
func (t *tracker) step(ctx context.Context, b band, label string) error {
	pct := b.at(t.done, t.total)
	t.done++
	return t.report(ctx, pct, label)
}

func (t *tracker) report(ctx context.Context, pct int, label string) error {
	if pct <= t.last {
		return nil
	}
	t.last = pct
	return t.store.UpdateJob(ctx, t.jobID, jobs.Progress(pct, label))
}

// planning marks the job PROCESSING at the planning checkpoint.
func (t *tracker) planning(ctx context.Context) error {
	u := jobs.Processing()
	pct := planningProgress
	label := "Planning orchestrated implementation..."
	u.Progress = &pct
	u.CurrentFile = &label
	t.last = pct
	return t.store.UpdateJob(ctx, t.jobID, u)
}
