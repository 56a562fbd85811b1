package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// stdout receives the friendly user-facing messages.
var stdout io.Writer = os.Stdout

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Force bool `short:"f" help:"Forget recorded job state and rerun every job"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunBuild(ctx, root.Config, b.Force)
}

// RunBuild loads configPath and runs one build.
func RunBuild(ctx context.Context, configPath string, force bool) error {
	fmt.Fprintln(stdout, "Starting tinypub build")

	s, err := openSession(ctx, configPath)
	if err != nil {
		return err
	}
	defer s.Close()

	if force {
		n, err := forgetAll(ctx, s.store)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Forgot %d job records\n", n)
	}

	result, err := s.pipeline.Build(ctx)
	s.exportMetrics()
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Build %s: %d jobs executed, %d up to date (%s)\n",
		result.Status, result.Executed(), result.Skipped(), result.Duration.Round(time.Millisecond))
	fmt.Fprintf(stdout, "Documents written to %s\n", s.cfg.Site.OutputFolder)
	return nil
}
