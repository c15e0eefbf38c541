// Package analytics summarizes job records: outcome counts, success rates,
// processing times and daily throughput.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/jobs"
)

// KindStats holds outcome and duration stats for one job kind.
type KindStats struct {
	Kind       jobs.Kind `json:"kind"`
	Total      int       `json:"total"`
	Queued     int       `json:"queued"`
	Processing int       `json:"processing"`
	Completed  int       `json:"completed"`
	Failed     int       `json:"failed"`
	SuccessPct float64   `json:"success_pct"`
	Avg        float64   `json:"avg_seconds"`
	P50        float64   `json:"p50_seconds"`
	P95        float64   `json:"p95_seconds"`
}

// Throughput counts jobs that finished on one day (UTC).
type Throughput struct {
	Day       string `json:"day"`
	Completed int    `json:"completed"`
	Failed    int    `json:"failed"`
}

// finishedAt is when a terminal job stopped changing. Failed jobs carry no
// completion time; their last update stands in.
func finishedAt(j jobs.Job) (time.Time, bool) {
	switch j.Status {
	case jobs.StatusCompleted:
		if j.CompletedAt != nil {
			return *j.CompletedAt, true
		}
		return j.UpdatedAt, true
	case jobs.StatusFailed:
		return j.UpdatedAt, true
	}
	return time.Time{}, false
}

// Summarize groups jobs by kind. Success is completed over finished jobs;
// durations run from creation to finish and cover finished jobs only.
func Summarize(records []jobs.Job) []KindStats {
	byKind := map[jobs.Kind]*KindStats{}
	durations := map[jobs.Kind][]float64{}
	for _, j := range records {
		s, ok := byKind[j.Kind]
		if !ok {
			s = &KindStats{Kind: j.Kind}
			byKind[j.Kind] = s
		}
		s.Total++
		switch j.Status {
		case jobs.StatusQueued:
			s.Queued++
		case jobs.StatusProcessing:
			s.Processing++
		case jobs.StatusCompleted:
			s.Completed++
		case jobs.StatusFailed:
			s.Failed++
		}
		if end, ok := finishedAt(j); ok {
			if secs := end.Sub(j.CreatedAt).Seconds(); secs >= 0 {
				durations[j.Kind] = append(durations[j.Kind], secs)
			}
		}
	}

	results := make([]KindStats, 0, len(byKind))
	for kind, s := range byKind {
		d := durations[kind]
		sort.Float64s(d)
		s.SuccessPct = pct(s.Completed, s.Completed+s.Failed)
		s.Avg = avg(d)
		s.P50 = percentile(d, 50)
		s.P95 = percentile(d, 95)
		results = append(results, *s)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Kind < results[j].Kind
	})
	return results
}

// DailyThroughput counts finished jobs per UTC day, oldest first.
func DailyThroughput(records []jobs.Job) []Throughput {
	byDay := map[string]*Throughput{}
	for _, j := range records {
		end, ok := finishedAt(j)
		if !ok {
			continue
		}
		day := end.UTC().Format("2006-01-02")
		t, ok := byDay[day]
		if !ok {
			t = &Throughput{Day: day}
			byDay[day] = t
		}
		if j.Status == jobs.StatusCompleted {
			t.Completed++
		} else {
			t.Failed++
		}
	}

	results := make([]Throughput, 0, len(byDay))
	for _, t := range byDay {
		results = append(results, *t)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Day < results[j].Day
	})
	return results
}

func avg(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return math.Round(sum/float64(len(values))*10) / 10
}

func percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := float64(p) / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper || upper >= len(sorted) {
		return math.Round(sorted[lower]*10) / 10
	}
	weight := rank - float64(lower)
	return math.Round((sorted[lower]*(1-weight)+sorted[upper]*weight)*10) / 10
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*1000) / 10
}
