package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind is what a run generated.
type Kind string

const (
	KindHTML    Kind = "html"
	KindFigures Kind = "figures"
	KindAll     Kind = "all"
)

// Status is the outcome of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusPartial   Status = "partial"
	StatusFailed    Status = "failed"
)

// Run is the record of one build.
type Run struct {
	ID           string             `json:"id" bson:"_id"`
	Kind         Kind               `json:"kind" bson:"kind"`
	Status       Status             `json:"status" bson:"status"`
	StartedAt    time.Time          `json:"started_at" bson:"started_at"`
	FinishedAt   time.Time          `json:"finished_at,omitempty" bson:"finished_at,omitempty"`
	OutputPath   string             `json:"output_path" bson:"output_path"`
	TestMode     bool               `json:"test_mode,omitempty" bson:"test_mode,omitempty"`
	Generator    string             `json:"generator,omitempty" bson:"generator,omitempty"`
	Dictionaries []DictionaryResult `json:"dictionaries" bson:"dictionaries"`
}

// DictionaryResult summarizes one dictionary of a run.
type DictionaryResult struct {
	Name     string        `json:"name" bson:"name"`
	Pages    int           `json:"pages" bson:"pages"`
	Figures  int           `json:"figures" bson:"figures"`
	Duration time.Duration `json:"duration" bson:"duration"`
	Errors   []string      `json:"errors,omitempty" bson:"errors,omitempty"`
}

// Failed reports whether nothing was produced for the dictionary.
func (d DictionaryResult) Failed() bool {
	return len(d.Errors) > 0 && d.Pages == 0 && d.Figures == 0
}

// NewRun starts a run record with a fresh id.
func NewRun(kind Kind, outputPath string) *Run {
	return &Run{
		ID:         uuid.NewString(),
		Kind:       kind,
		Status:     StatusRunning,
		StartedAt:  time.Now().UTC(),
		OutputPath: outputPath,
	}
}

// Finish stamps the end time and derives the status from the results.
func (r *Run) Finish() {
	r.FinishedAt = time.Now().UTC()
	failed, withErrors := 0, 0
	for _, d := range r.Dictionaries {
		if d.Failed() {
			failed++
		}
		if len(d.Errors) > 0 {
			withErrors++
		}
	}
	switch {
	case len(r.Dictionaries) > 0 && failed == len(r.Dictionaries):
		r.Status = StatusFailed
	case withErrors > 0:
		r.Status = StatusPartial
	default:
		r.Status = StatusSucceeded
	}
}

// Totals sums pages, figures and errors over all dictionaries.
func (r *Run) Totals() (pages, figures, errs int) {
	for _, d := range r.Dictionaries {
		pages += d.Pages
		figures += d.Figures
		errs += len(d.Errors)
	}
	return pages, figures, errs
}

// Duration is the wall time of a finished run.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store persists runs.
type Store interface {
	Save(ctx context.Context, r *Run) error
	Get(ctx context.Context, id string) (*Run, error)

	// List returns up to limit runs, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*Run, error)

	Close() error
}

// NullStore discards runs.
type NullStore struct{}

func (NullStore) Save(context.Context, *Run) error          { return nil }
func (NullStore) Get(context.Context, string) (*Run, error) { return nil, nil }
func (NullStore) List(context.Context, int) ([]*Run, error) { return nil, nil }
func (NullStore) Close() error                              { return nil }

var _ Store = NullStore{}
