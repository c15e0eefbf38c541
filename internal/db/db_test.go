package db

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/jobs"
)

func TestBuildJobUpdate_Processing(t *testing.T) {
	query, args, err := buildJobUpdate("j1", jobs.Processing())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "UPDATE fix_jobs SET status = $1, updated_at = now() WHERE id = $2"
	if query != want {
		t.Errorf("expected %q, got %q", want, query)
	}
	if len(args) != 2 || args[0] != "PROCESSING" || args[1] != "j1" {
		t.Errorf("unexpected args %v", args)
	}
}

func TestBuildJobUpdate_Progress(t *testing.T) {
	query, args, err := buildJobUpdate("j1", jobs.Progress(40, "src/app.ts"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "UPDATE fix_jobs SET progress = $1, current_file = $2, updated_at = now() WHERE id = $3"
	if query != want {
		t.Errorf("expected %q, got %q", want, query)
	}
	if args[0] != 40 || args[1] != "src/app.ts" {
		t.Errorf("unexpected args %v", args)
	}
}

func TestBuildJobUpdate_Completed(t *testing.T) {
	result := jobs.FixResult{Fixes: []jobs.CodeFix{{FileName: "a.go", Changes: []string{}}}}
	query, args, err := buildJobUpdate("j1", jobs.Completed(result))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, frag := range []string{
		"status = $1",
		"progress = $2",
		"current_file = NULL",
		"result = $3::jsonb",
		"updated_at = now()",
		"completed_at = now()",
		"WHERE id = $4",
	} {
		if !strings.Contains(query, frag) {
			t.Errorf("query missing %q: %s", frag, query)
		}
	}
	var decoded jobs.FixResult
	if err := json.Unmarshal([]byte(args[2].(string)), &decoded); err != nil {
		t.Fatalf("result arg is not JSON: %v", err)
	}
	if len(decoded.Fixes) != 1 || decoded.Fixes[0].FileName != "a.go" {
		t.Errorf("unexpected result %+v", decoded)
	}
}

func TestBuildJobUpdate_Failed(t *testing.T) {
	query, args, err := buildJobUpdate("j1", jobs.Failed("boom"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query != "UPDATE fix_jobs SET status = $1, error = $2, updated_at = now() WHERE id = $3" {
		t.Errorf("unexpected query %q", query)
	}
	if args[0] != "FAILED" || args[1] != "boom" {
		t.Errorf("unexpected args %v", args)
	}
}

func TestBuildJobUpdate_Empty(t *testing.T) {
	query, args, err := buildJobUpdate("j1", jobs.Update{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query != "UPDATE fix_jobs SET updated_at = now() WHERE id = $1" || len(args) != 1 {
		t.Errorf("unexpected %q %v", query, args)
	}
}

func TestBuildJobUpdate_Errors(t *testing.T) {
	bad := 101
	if _, _, err := buildJobUpdate("j1", jobs.Update{Progress: &bad}); err == nil {
		t.Error("expected out-of-range progress error")
	}
	neg := -1
	if _, _, err := buildJobUpdate("j1", jobs.Update{Progress: &neg}); err == nil {
		t.Error("expected out-of-range progress error")
	}
	if _, _, err := buildJobUpdate("j1", jobs.Update{Result: make(chan int)}); err == nil {
		t.Error("expected encode error")
	}
}

// testDB connects to FIXWORKER_TEST_DATABASE_URL and skips without it.
func testDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("FIXWORKER_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("FIXWORKER_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	d, err := Open(ctx, url)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := d.Migrate(ctx); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

func TestJobLifecycle(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	id := jobs.NewID()
	t.Cleanup(func() { _, _ = d.pool.Exec(ctx, "DELETE FROM fix_jobs WHERE id = $1", id) })

	if err := d.CreateJob(ctx, &jobs.Job{ID: id, ProjectID: "p1", Question: "fix login"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	j, err := d.GetJob(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if j.Status != jobs.StatusQueued || j.Kind != jobs.KindFix || j.Progress != 0 || j.CurrentFile != nil {
		t.Errorf("unexpected new job %+v", j)
	}

	if err := d.UpdateJob(ctx, id, jobs.Progress(50, "a.go")); err != nil {
		t.Fatalf("progress: %v", err)
	}
	j, _ = d.GetJob(ctx, id)
	if j.Progress != 50 || j.CurrentFile == nil || *j.CurrentFile != "a.go" {
		t.Errorf("unexpected progress state %+v", j)
	}

	if err := d.UpdateJob(ctx, id, jobs.Completed(jobs.FixResult{Fixes: []jobs.CodeFix{}})); err != nil {
		t.Fatalf("complete: %v", err)
	}
	j, _ = d.GetJob(ctx, id)
	if j.Status != jobs.StatusCompleted || j.Progress != 100 || j.CurrentFile != nil || j.CompletedAt == nil {
		t.Errorf("unexpected completed state %+v", j)
	}
	if !strings.Contains(string(j.Result), `"fixes"`) {
		t.Errorf("unexpected result %s", j.Result)
	}
}

func TestGetJob_NotFound(t *testing.T) {
	d := testDB(t)
	_, err := d.GetJob(context.Background(), "does-not-exist")
	if !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	err = d.UpdateJob(context.Background(), "does-not-exist", jobs.Processing())
	if !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestSourceFilesAndProject(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()
	pid := "test-" + jobs.NewID()
	t.Cleanup(func() {
		_, _ = d.pool.Exec(ctx, "DELETE FROM source_code_embeddings WHERE project_id = $1", pid)
		_, _ = d.pool.Exec(ctx, "DELETE FROM projects WHERE id = $1", pid)
	})

	for _, name := range []string{"src/b.ts", "src/a.ts", "src/c.ts"} {
		if _, err := d.pool.Exec(ctx,
			"INSERT INTO source_code_embeddings (project_id, file_name, summary) VALUES ($1, $2, 's')", pid, name); err != nil {
			t.Fatal(err)
		}
	}
	files, err := d.SourceFiles(ctx, pid, 2)
	if err != nil {
		t.Fatalf("source files: %v", err)
	}
	if len(files) != 2 || files[0].FileName != "src/a.ts" {
		t.Errorf("unexpected files %+v", files)
	}

	p, err := d.Project(ctx, pid)
	if err != nil || p != nil {
		t.Fatalf("expected nil project, got %+v %v", p, err)
	}
	if _, err := d.pool.Exec(ctx,
		"INSERT INTO projects (id, github_owner, github_repo) VALUES ($1, 'acme', 'web')", pid); err != nil {
		t.Fatal(err)
	}
	p, err = d.Project(ctx, pid)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if p.Owner != "acme" || p.Repo != "web" || p.AccessToken != "" {
		t.Errorf("unexpected project %+v", p)
	}
}

func TestJobsSince(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	id := jobs.NewID()
	t.Cleanup(func() { _, _ = d.pool.Exec(ctx, "DELETE FROM fix_jobs WHERE id = $1", id) })

	before := time.Now().Add(-time.Minute)
	if err := d.CreateJob(ctx, &jobs.Job{ID: id, ProjectID: "p1", Kind: jobs.KindFileCreation, Question: "add chat"}); err != nil {
		t.Fatal(err)
	}
	if err := d.UpdateJob(ctx, id, jobs.Failed("plan feature: boom")); err != nil {
		t.Fatal(err)
	}

	records, err := d.JobsSince(ctx, before)
	if err != nil {
		t.Fatalf("jobs since: %v", err)
	}
	var found *jobs.Job
	for i := range records {
		if records[i].ID == id {
			found = &records[i]
		}
	}
	if found == nil {
		t.Fatalf("job %s not listed", id)
	}
	if found.Kind != jobs.KindFileCreation || found.Status != jobs.StatusFailed || found.Result != nil {
		t.Errorf("unexpected record %+v", found)
	}

	records, err = d.JobsSince(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range records {
		if r.ID == id {
			t.Error("job created before since must not be listed")
		}
	}
}
