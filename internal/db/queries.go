package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/jobs"
)

// ErrJobNotFound is returned when no job has the requested ID.
var ErrJobNotFound = errors.New("job not found")

// CreateJob inserts a new job record.
func (d *DB) CreateJob(ctx context.Context, j *jobs.Job) error {
	status := j.Status
	if status == "" {
		status = jobs.StatusQueued
	}
	kind := j.Kind
	if kind == "" {
		kind = jobs.KindFix
	}
	_, err := d.pool.Exec(ctx,
		`INSERT INTO fix_jobs (id, project_id, job_type, question, summary, status, progress)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		j.ID, j.ProjectID, string(kind), j.Question, j.Summary, string(status), j.Progress,
	)
	if err != nil {
		return fmt.Errorf("create job %s: %w", j.ID, err)
	}
	return nil
}

// GetJob loads a job record by ID.
func (d *DB) GetJob(ctx context.Context, id string) (*jobs.Job, error) {
	row := d.pool.QueryRow(ctx,
		`SELECT id, project_id, job_type, question, summary, status, progress,
		        current_file, result, error, created_at, updated_at, completed_at
		 FROM fix_jobs WHERE id = $1`, id)

	var j jobs.Job
	var kind, status string
	var result []byte
	err := row.Scan(&j.ID, &j.ProjectID, &kind, &j.Question, &j.Summary, &status, &j.Progress,
		&j.CurrentFile, &result, &j.Error, &j.CreatedAt, &j.UpdatedAt, &j.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get job %s: %w", id, ErrJobNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	j.Kind = jobs.Kind(kind)
	j.Status = jobs.Status(status)
	if len(result) > 0 {
		j.Result = json.RawMessage(result)
	}
	return &j, nil
}

// UpdateJob applies a partial update. updated_at is always refreshed.
func (d *DB) UpdateJob(ctx context.Context, id string, u jobs.Update) error {
	query, args, err := buildJobUpdate(id, u)
	if err != nil {
		return fmt.Errorf("update job %s: %w", id, err)
	}
	tag, err := d.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update job %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update job %s: %w", id, ErrJobNotFound)
	}
	return nil
}

// buildJobUpdate renders the UPDATE statement for the fields set in u.
func buildJobUpdate(id string, u jobs.Update) (string, []any, error) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if u.Status != nil {
		add("status", string(*u.Status))
	}
	if u.Progress != nil {
		if *u.Progress < 0 || *u.Progress > 100 {
			return "", nil, fmt.Errorf("progress %d out of range [0,100]", *u.Progress)
		}
		add("progress", *u.Progress)
	}
	switch {
	case u.ClearCurrentFile:
		sets = append(sets, "current_file = NULL")
	case u.CurrentFile != nil:
		add("current_file", *u.CurrentFile)
	}
	if u.Result != nil {
		data, err := json.Marshal(u.Result)
		if err != nil {
			return "", nil, fmt.Errorf("encode result: %w", err)
		}
		add("result", string(data))
		sets[len(sets)-1] += "::jsonb"
	}
	if u.Error != nil {
		add("error", *u.Error)
	}
	sets = append(sets, "updated_at = now()")
	if u.Completed {
		sets = append(sets, "completed_at = now()")
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE fix_jobs SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	return query, args, nil
}

// SourceFiles returns up to limit indexed files of a project.
func (d *DB) SourceFiles(ctx context.Context, projectID string, limit int) ([]jobs.SourceFile, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT file_name, summary FROM source_code_embeddings
		 WHERE project_id = $1 ORDER BY file_name LIMIT $2`,
		projectID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list source files: %w", err)
	}
	defer rows.Close()

	var out []jobs.SourceFile
	for rows.Next() {
		var f jobs.SourceFile
		if err := rows.Scan(&f.FileName, &f.Summary); err != nil {
			return nil, fmt.Errorf("scan source file: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list source files: %w", err)
	}
	return out, nil
}

// Project returns a project's source-hosting coordinates, or nil if the
// project does not exist.
func (d *DB) Project(ctx context.Context, id string) (*jobs.Project, error) {
	var p jobs.Project
	var token *string
	err := d.pool.QueryRow(ctx,
		`SELECT id, github_owner, github_repo, github_access_token FROM projects WHERE id = $1`, id,
	).Scan(&p.ID, &p.Owner, &p.Repo, &token)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	if token != nil {
		p.AccessToken = *token
	}
	return &p, nil
}

// JobsSince returns the outcome columns of jobs created at or after since,
// oldest first. Result payloads are not loaded.
func (d *DB) JobsSince(ctx context.Context, since time.Time) ([]jobs.Job, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT id, job_type, status, progress, created_at, updated_at, completed_at
		 FROM fix_jobs WHERE created_at >= $1 ORDER BY created_at`, since)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []jobs.Job
	for rows.Next() {
		var j jobs.Job
		var kind, status string
		if err := rows.Scan(&j.ID, &kind, &status, &j.Progress, &j.CreatedAt, &j.UpdatedAt, &j.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		j.Kind = jobs.Kind(kind)
		j.Status = jobs.Status(status)
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return out, nil
}
