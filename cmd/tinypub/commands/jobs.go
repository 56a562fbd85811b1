package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/tinypub/internal/incremental"
)

// JobsCmd implements the 'jobs' command.
type JobsCmd struct {
	Stale bool `help:"Only list jobs that would run"`
}

func (j *JobsCmd) Run(_ *Global, root *CLI) error {
	ctx := context.Background()
	s, err := openSession(ctx, root.Config)
	if err != nil {
		return err
	}
	defer s.Close()

	statuses, err := s.pipeline.Plan(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "JOB\tSTATUS\tTARGETS")
	stale := 0
	for _, st := range statuses {
		if st.Stale() {
			stale++
		} else if j.Stale {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", st.Job, reasonLabel(st.Reason), strings.Join(st.Targets, ","))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%d of %d jobs would run\n", stale, len(statuses))
	return nil
}

// reasonLabel renders an empty staleness reason as "up to date".
func reasonLabel(reason string) string {
	if reason == incremental.ReasonUpToDate {
		return "up to date"
	}
	return reason
}
