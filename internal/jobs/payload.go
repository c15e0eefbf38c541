package jobs

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Payload is the queue message announcing a job.
type Payload struct {
	JobID        string          `json:"jobId"`
	ProjectID    string          `json:"projectId"`
	Question     string          `json:"question"`
	Summary      string          `json:"summary"`
	Files        []FileReference `json:"files"`
	JobType      Kind            `json:"jobType,omitempty"`
	IsCreateMode bool            `json:"isCreateMode,omitempty"`
}

// IsCreation reports whether the job takes the orchestration path.
func (p *Payload) IsCreation() bool {
	return p.JobType == KindFileCreation || p.IsCreateMode
}

// Kind returns the effective job kind.
func (p *Payload) Kind() Kind {
	if p.IsCreation() {
		return KindFileCreation
	}
	return KindFix
}

// DecodePayload parses a queue message. A message without a job ID is rejected.
func DecodePayload(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse job payload: %w", err)
	}
	if strings.TrimSpace(p.JobID) == "" {
		return nil, fmt.Errorf("parse job payload: missing jobId")
	}
	return &p, nil
}

// NewID returns a fresh job identifier.
func NewID() string {
	return uuid.NewString()
}

// NewJob builds the QUEUED record matching a payload.
func NewJob(p *Payload) *Job {
	return &Job{
		ID:        p.JobID,
		ProjectID: p.ProjectID,
		Kind:      p.Kind(),
		Question:  p.Question,
		Summary:   p.Summary,
		Status:    StatusQueued,
	}
}

// Encode serializes the payload for the queue.
func (p *Payload) Encode() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode job payload: %w", err)
	}
	return data, nil
}
