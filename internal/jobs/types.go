package jobs

import (
	"encoding/json"
	"time"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/patch"
)

// Status is the lifecycle state of a job record.
type Status string

const (
	StatusQueued     Status = "QUEUED"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// Kind selects the processing path for a job.
type Kind string

const (
	KindFix          Kind = "FIX"
	KindFileCreation Kind = "FILE_CREATION"
)

// FileReference is a candidate file delivered with a job.
type FileReference struct {
	FileName   string  `json:"fileName"`
	SourceCode string  `json:"sourceCode"`
	Summary    string  `json:"summary"`
	Similarity float64 `json:"similarity"`
}

// Job is the durable record for one unit of requested work.
type Job struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"projectId"`
	Kind        Kind            `json:"jobType"`
	Question    string          `json:"question"`
	Summary     string          `json:"summary"`
	Status      Status          `json:"status"`
	Progress    int             `json:"progress"`
	CurrentFile *string         `json:"currentFile,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       *string         `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

// Update is a partial write to a job record. Nil fields are left untouched.
type Update struct {
	Status           *Status
	Progress         *int
	CurrentFile      *string
	ClearCurrentFile bool
	Result           any
	Error            *string
	Completed        bool
}

// Processing marks a job as picked up by the worker.
func Processing() Update {
	s := StatusProcessing
	return Update{Status: &s}
}

// Progress reports a percentage and the current activity label.
func Progress(pct int, label string) Update {
	return Update{Progress: &pct, CurrentFile: &label}
}

// Completed finalizes a job with its result payload.
func Completed(result any) Update {
	s := StatusCompleted
	pct := 100
	return Update{Status: &s, Progress: &pct, ClearCurrentFile: true, Result: result, Completed: true}
}

// Failed finalizes a job with an error message.
func Failed(msg string) Update {
	s := StatusFailed
	return Update{Status: &s, Error: &msg}
}

// SourceFile is one entry of a project's source index.
type SourceFile struct {
	FileName string `json:"fileName"`
	Summary  string `json:"summary"`
}

// Project holds the source-hosting coordinates of a project.
type Project struct {
	ID          string `json:"id"`
	Owner       string `json:"githubOwner"`
	Repo        string `json:"githubRepo"`
	AccessToken string `json:"-"`
}

// CodeFix is one file-level entry of a fix job result.
type CodeFix struct {
	FileName     string       `json:"fileName"`
	OriginalCode string       `json:"originalCode"`
	FixedCode    *string      `json:"fixedCode"`
	Summary      string       `json:"summary"`
	Explanation  string       `json:"explanation"`
	Changes      []string     `json:"changes"`
	LineChanges  []patch.Edit `json:"lineChanges"`
}

// FixResult is the result payload of a completed fix job.
type FixResult struct {
	Fixes []CodeFix `json:"fixes"`
}

const (
	ActionOrchestrated = "ORCHESTRATED_IMPLEMENTATION"
	ActionRedirect     = "REDIRECT"
)

// RedirectResult is stored when a creation job needs no orchestration.
type RedirectResult struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}

// OrchestratedResult is the result payload of a completed creation job.
type OrchestratedResult struct {
	Action           string            `json:"action"`
	OrchestratedPlan OrchestratedOutput `json:"orchestratedPlan"`
}

// OrchestratedOutput aggregates everything produced while executing a plan.
type OrchestratedOutput struct {
	NewFiles             []CreatedFile         `json:"newFiles"`
	ModifiedFiles        []ModifiedFile        `json:"modifiedFiles"`
	DependencyUpdates    []DependencyChange    `json:"dependencyUpdates"`
	ConfigurationChanges []ConfigurationChange `json:"configurationChanges"`
	IntegrationSteps     []string              `json:"integrationSteps"`
	Summary              string                `json:"summary"`
}

// CreatedFile is a generated new file.
type CreatedFile struct {
	FileName     string   `json:"fileName"`
	Content      string   `json:"content"`
	Explanation  string   `json:"explanation"`
	FileType     string   `json:"fileType"`
	Dependencies []string `json:"dependencies"`
}

// FileChange describes one edit the model made to an existing file.
type FileChange struct {
	LineNumber int    `json:"lineNumber"`
	Type       string `json:"type"`
	OldContent string `json:"oldContent,omitempty"`
	NewContent string `json:"newContent,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// ModifiedFile is a full replacement body for an existing file.
type ModifiedFile struct {
	FileName     string       `json:"fileName"`
	OriginalCode string       `json:"originalCode"`
	FixedCode    string       `json:"fixedCode"`
	Changes      []FileChange `json:"changes"`
	Explanation  string       `json:"explanation"`
	Summary      string       `json:"summary"`
	Type         string       `json:"type"`
}

// Package is a dependency requested by a plan.
type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Reason  string `json:"reason"`
}

// DependencyChange groups the packages added to one manifest.
type DependencyChange struct {
	FileName     string    `json:"fileName"`
	Dependencies []Package `json:"dependencies"`
	Explanation  string    `json:"explanation"`
	Reasons      []string  `json:"reasons"`
}

// ConfigurationChange lists edits requested for one configuration file.
type ConfigurationChange struct {
	FileName    string   `json:"fileName"`
	Changes     []string `json:"changes"`
	Explanation string   `json:"explanation"`
}
