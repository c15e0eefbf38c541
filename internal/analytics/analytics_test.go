package analytics

import (
	"testing"
	"time"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/jobs"
)

var base = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func job(kind jobs.Kind, status jobs.Status, created time.Time, took time.Duration) jobs.Job {
	j := jobs.Job{Kind: kind, Status: status, CreatedAt: created, UpdatedAt: created.Add(took)}
	if status == jobs.StatusCompleted {
		done := created.Add(took)
		j.CompletedAt = &done
	}
	return j
}

// --- Summarize ---

func TestSummarize(t *testing.T) {
	records := []jobs.Job{
		job(jobs.KindFix, jobs.StatusCompleted, base, 10*time.Second),
		job(jobs.KindFix, jobs.StatusCompleted, base, 20*time.Second),
		job(jobs.KindFix, jobs.StatusFailed, base, 30*time.Second),
		job(jobs.KindFix, jobs.StatusQueued, base, 0),
		job(jobs.KindFileCreation, jobs.StatusProcessing, base, time.Minute),
		job(jobs.KindFileCreation, jobs.StatusCompleted, base, 2*time.Minute),
	}

	results := Summarize(records)
	if len(results) != 2 {
		t.Fatalf("expected 2 kinds, got %d", len(results))
	}
	if results[0].Kind != jobs.KindFileCreation || results[1].Kind != jobs.KindFix {
		t.Fatalf("expected kinds sorted, got %v, %v", results[0].Kind, results[1].Kind)
	}

	fix := results[1]
	if fix.Total != 4 || fix.Completed != 2 || fix.Failed != 1 || fix.Queued != 1 {
		t.Errorf("unexpected fix counts %+v", fix)
	}
	if fix.SuccessPct != 66.7 {
		t.Errorf("success pct = %v, want 66.7", fix.SuccessPct)
	}
	if fix.Avg != 20 || fix.P50 != 20 || fix.P95 != 29 {
		t.Errorf("unexpected fix durations avg=%v p50=%v p95=%v", fix.Avg, fix.P50, fix.P95)
	}

	create := results[0]
	if create.Processing != 1 || create.Completed != 1 || create.SuccessPct != 100 {
		t.Errorf("unexpected creation counts %+v", create)
	}
	if create.Avg != 120 {
		t.Errorf("in-flight jobs must not count toward durations, avg=%v", create.Avg)
	}
}

func TestSummarize_CompletedWithoutTimestamp(t *testing.T) {
	j := jobs.Job{Kind: jobs.KindFix, Status: jobs.StatusCompleted, CreatedAt: base, UpdatedAt: base.Add(5 * time.Second)}
	results := Summarize([]jobs.Job{j})
	if results[0].Avg != 5 {
		t.Errorf("expected updated_at fallback, got avg=%v", results[0].Avg)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if results := Summarize(nil); len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}

// --- DailyThroughput ---

func TestDailyThroughput(t *testing.T) {
	day2 := base.Add(24 * time.Hour)
	records := []jobs.Job{
		job(jobs.KindFix, jobs.StatusCompleted, day2, time.Second),
		job(jobs.KindFix, jobs.StatusCompleted, base, time.Second),
		job(jobs.KindFileCreation, jobs.StatusFailed, base, time.Second),
		job(jobs.KindFix, jobs.StatusQueued, base, 0),
	}
	results := DailyThroughput(records)
	if len(results) != 2 {
		t.Fatalf("expected 2 days, got %v", results)
	}
	if results[0] != (Throughput{Day: "2024-06-01", Completed: 1, Failed: 1}) {
		t.Errorf("unexpected first day %+v", results[0])
	}
	if results[1] != (Throughput{Day: "2024-06-02", Completed: 1}) {
		t.Errorf("unexpected second day %+v", results[1])
	}
}

// --- helpers ---

func TestPercentile(t *testing.T) {
	tests := []struct {
		values []float64
		p      int
		want   float64
	}{
		{nil, 50, 0},
		{[]float64{7}, 95, 7},
		{[]float64{1, 2, 3, 4}, 50, 2.5},
		{[]float64{10, 20, 30}, 95, 29},
	}
	for _, tt := range tests {
		if got := percentile(tt.values, tt.p); got != tt.want {
			t.Errorf("percentile(%v, %d) = %v, want %v", tt.values, tt.p, got, tt.want)
		}
	}
}

func TestPct(t *testing.T) {
	if pct(1, 3) != 33.3 || pct(0, 0) != 0 || pct(2, 2) != 100 {
		t.Errorf("unexpected pct values %v %v %v", pct(1, 3), pct(0, 0), pct(2, 2))
	}
}
