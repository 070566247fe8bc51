package keiba

import (
	"context"
	"time"
)

// Run records one ingest pass over the page store.
type Run struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt"`

	Parsed    int `json:"parsed"`
	Skipped   int `json:"skipped"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
}

// RunService represents a service for recording ingest runs.
type RunService interface {
	// CreateRun starts a run and assigns its ID and start time.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun stores the final counts and sets the finish time.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, run *Run) error

	// FindRuns returns the most recent runs first.
	FindRuns(ctx context.Context, limit int) ([]*Run, error)
}
