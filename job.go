package qinfo

import (
	"context"
	"time"
)

// ExclusionKind selects which exclusion program a Job solves.
type ExclusionKind int

const (
	Conclusive ExclusionKind = iota
	Unambiguous
)

func (kind ExclusionKind) String() string {
	switch kind {
	case Conclusive:
		return "conclusive"
	case Unambiguous:
		return "unambiguous"
	}
	return "unknown"
}

// Job represents one exclusion program queued on a Pool.
type Job struct {
	ID            string
	Kind          ExclusionKind
	States        []*Matrix
	Probabilities []float64
	TTL           time.Duration
	StartTime     time.Time
}

// JobOption is a function type for configuring jobs
type JobOption func(*Job)

// WithID overrides the generated job ID.
func WithID(id string) JobOption {
	return func(job *Job) {
		job.ID = id
	}
}

func WithProbabilities(probs []float64) JobOption {
	return func(job *Job) {
		job.Probabilities = probs
	}
}

// WithTTL configures how long the result stays in the result space.
func WithTTL(ttl time.Duration) JobOption {
	return func(job *Job) {
		job.TTL = ttl
	}
}

func (job Job) run(ctx context.Context, opts ...ExclusionOption) (*ExclusionResult, error) {
	if job.Kind == Unambiguous {
		return UnambiguousStateExclusion(ctx, job.States, job.Probabilities, opts...)
	}
	return ConclusiveStateExclusion(ctx, job.States, job.Probabilities, opts...)
}
