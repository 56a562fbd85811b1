package build

import "context"

// Action produces a job's targets.
type Action func(ctx context.Context) error

// Job is one unit of the build: an action that writes Targets.
type Job struct {
	Basename string
	Name     string
	// Kind groups jobs for metrics (for example "note").
	Kind     string
	Targets  []string
	FileDeps []string
	// TaskDeps name other jobs, by basename or full name, that must run first.
	// Names no job in the build carries are treated as satisfied.
	TaskDeps []string
	Key      string
	Action   Action
}

// FullName returns "basename:name", the identity used for state records.
func (j Job) FullName() string {
	if j.Name == "" {
		return j.Basename
	}
	return j.Basename + ":" + j.Name
}

func (j Job) kind() string {
	if j.Kind != "" {
		return j.Kind
	}
	return j.Basename
}
