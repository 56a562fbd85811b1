package build

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/tinypub/internal/foundation/errors"
	"git.home.luguber.info/inful/tinypub/internal/incremental"
	"git.home.luguber.info/inful/tinypub/internal/logfields"
	"git.home.luguber.info/inful/tinypub/internal/metrics"
	"git.home.luguber.info/inful/tinypub/internal/state"
)

// Runner executes jobs sequentially, skipping the ones that are up to date.
type Runner struct {
	store    state.Store
	recorder metrics.Recorder
	now      func() time.Time
	newRunID func() string
}

// NewRunner creates a Runner that keeps job records in store.
func NewRunner(store state.Store) *Runner {
	return &Runner{
		store:    store,
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
		newRunID: uuid.NewString,
	}
}

// WithRecorder sets the metrics recorder.
func (r *Runner) WithRecorder(rec metrics.Recorder) *Runner {
	if rec != nil {
		r.recorder = rec
	}
	return r
}

// WithClock overrides the time source used for durations and record timestamps.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// JobStatus is the staleness verdict for one job.
type JobStatus struct {
	Job     string
	Targets []string
	Reason  string // empty when up to date
}

// Stale reports whether the job would run.
func (s JobStatus) Stale() bool { return s.Reason != incremental.ReasonUpToDate }

// Plan reports which jobs would run without executing anything.
func (r *Runner) Plan(ctx context.Context, jobs []Job) ([]JobStatus, error) {
	ordered, err := r.prepare(jobs)
	if err != nil {
		return nil, err
	}
	statuses := make([]JobStatus, 0, len(ordered))
	for _, job := range ordered {
		reason, _, err := r.staleness(ctx, job)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, JobStatus{Job: job.FullName(), Targets: job.Targets, Reason: reason})
	}
	return statuses, nil
}

// Run executes every stale job. The first failing action aborts the build and
// its error is returned unchanged.
func (r *Runner) Run(ctx context.Context, jobs []Job) (*Result, error) {
	start := r.now()
	result := &Result{RunID: r.newRunID(), StartTime: start}
	log := slog.Default().With(logfields.RunID(result.RunID))

	finish := func(status Status) {
		result.Status = status
		result.EndTime = r.now()
		result.Duration = result.EndTime.Sub(start)
		r.recorder.ObserveBuildDuration(result.Duration)
		r.recorder.SetLastBuildTimestamp(result.EndTime)
		switch status {
		case StatusSuccess:
			r.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
		case StatusCancelled:
			r.recorder.IncBuildOutcome(metrics.BuildOutcomeCanceled)
		default:
			r.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		}
	}

	ordered, err := r.prepare(jobs)
	if err != nil {
		finish(StatusFailed)
		return result, err
	}

	log.Info("Build started", slog.Int("jobs", len(ordered)), logfields.Backend(r.store.Backend()))

	for _, job := range ordered {
		if err := ctx.Err(); err != nil {
			finish(StatusCancelled)
			return result, err
		}

		outcome, err := r.runJob(ctx, log, job, result.RunID)
		result.Jobs = append(result.Jobs, outcome)
		if err != nil {
			// Keep the records of jobs that did finish.
			if ferr := state.Flush(context.WithoutCancel(ctx), r.store); ferr != nil {
				log.Warn("Failed to flush job records", logfields.Error(ferr))
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				finish(StatusCancelled)
			} else {
				finish(StatusFailed)
			}
			return result, err
		}
	}

	if err := state.Flush(ctx, r.store); err != nil {
		finish(StatusFailed)
		return result, err
	}

	finish(StatusSuccess)
	log.Info("Build finished",
		slog.Int("executed", result.Executed()),
		slog.Int("skipped", result.Skipped()),
		logfields.DurationMS(float64(result.Duration.Milliseconds())))
	return result, nil
}

func (r *Runner) prepare(jobs []Job) ([]Job, error) {
	if err := ValidateTargets(jobs); err != nil {
		return nil, err
	}
	return Order(jobs)
}

func (r *Runner) runJob(ctx context.Context, log *slog.Logger, job Job, runID string) (JobOutcome, error) {
	name := job.FullName()
	outcome := JobOutcome{Job: name}

	reason, deps, err := r.staleness(ctx, job)
	if err != nil {
		r.recorder.IncJobResult(job.kind(), metrics.ResultFailed)
		return outcome, err
	}
	if reason == incremental.ReasonUpToDate {
		r.recorder.IncJobResult(job.kind(), metrics.ResultSkipped)
		log.Debug("Job up to date", logfields.Job(name))
		return outcome, nil
	}

	outcome.Reason = reason
	log.Debug("Running job", logfields.Job(name), logfields.Reason(reason), logfields.Targets(len(job.Targets)))

	jobStart := r.now()
	if job.Action != nil {
		if err := job.Action(ctx); err != nil {
			r.recorder.IncJobResult(job.kind(), metrics.ResultFailed)
			log.Error("Job failed", logfields.Job(name), logfields.Error(err))
			return outcome, err
		}
	}
	outcome.Executed = true
	outcome.Duration = r.now().Sub(jobStart)
	r.recorder.ObserveJobDuration(job.kind(), outcome.Duration)
	r.recorder.IncJobResult(job.kind(), metrics.ResultExecuted)

	record := &incremental.JobRecord{
		Job:       name,
		Key:       job.Key,
		Deps:      deps,
		Targets:   job.Targets,
		RunID:     runID,
		Timestamp: r.now().UTC(),
	}
	data, err := record.ToJSON()
	if err != nil {
		return outcome, ferrors.InternalError("failed to encode job record").WithCause(err).Build()
	}
	if err := r.store.Put(ctx, name, data); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// staleness returns the reason job must run, or ReasonUpToDate, together with
// the current fingerprints of its file dependencies.
func (r *Runner) staleness(ctx context.Context, job Job) (string, map[string]string, error) {
	deps, err := incremental.Fingerprints(job.FileDeps)
	if err != nil {
		return "", nil, err
	}

	prev, err := r.loadRecord(ctx, job.FullName())
	if err != nil {
		return "", nil, err
	}

	return incremental.Check(prev, job.Key, deps, anyMissing(job.Targets)), deps, nil
}

func (r *Runner) loadRecord(ctx context.Context, name string) (*incremental.JobRecord, error) {
	data, found, err := r.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	rec, err := incremental.RecordFromJSON(data)
	if err != nil {
		slog.Warn("Discarding unreadable job record", logfields.Job(name), logfields.Error(err))
		return nil, nil
	}
	return rec, nil
}

func anyMissing(targets []string) bool {
	for _, t := range targets {
		if _, err := os.Stat(t); err != nil {
			return true
		}
	}
	return false
}
