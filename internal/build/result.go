package build

import "time"

// Status represents the outcome of a build execution.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsSuccess returns true if the build completed successfully.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}

// JobOutcome records what happened to a single job.
type JobOutcome struct {
	Job      string
	Reason   string // staleness reason, empty when skipped
	Executed bool
	Duration time.Duration
}

// Result contains the outcome of a build execution.
type Result struct {
	Status    Status
	RunID     string
	Jobs      []JobOutcome
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Executed counts jobs whose action ran.
func (r *Result) Executed() int {
	n := 0
	for _, j := range r.Jobs {
		if j.Executed {
			n++
		}
	}
	return n
}

// Skipped counts jobs that were up to date.
func (r *Result) Skipped() int {
	return len(r.Jobs) - r.Executed()
}
