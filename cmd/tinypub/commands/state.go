package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/tinypub/internal/config"
	ferrors "git.home.luguber.info/inful/tinypub/internal/foundation/errors"
	"git.home.luguber.info/inful/tinypub/internal/incremental"
	"git.home.luguber.info/inful/tinypub/internal/state"
)

// StateCmd groups the state subcommands.
type StateCmd struct {
	List   StateListCmd   `cmd:"" help:"List recorded jobs"`
	Forget StateForgetCmd `cmd:"" help:"Forget recorded jobs so they run on the next build"`
}

// StateListCmd implements 'state list'.
type StateListCmd struct{}

func (c *StateListCmd) Run(_ *Global, root *CLI) error {
	ctx := context.Background()
	store, err := openStore(ctx, root.Config)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	keys, err := store.Keys(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "JOB\tLAST RUN\tRUN ID\tDEPS")
	for _, key := range keys {
		raw, found, err := store.Get(ctx, key)
		if err != nil {
			return err
		}
		if !found {
			continue
		}
		rec, err := incremental.RecordFromJSON(raw)
		if err != nil {
			fmt.Fprintf(w, "%s\t(unreadable)\t\t\n", key)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", key, rec.Timestamp.Format("2006-01-02 15:04:05"), rec.RunID, len(rec.Deps))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%d records in %s store\n", len(keys), store.Backend())
	return nil
}

// StateForgetCmd implements 'state forget'.
type StateForgetCmd struct {
	Jobs []string `arg:"" optional:"" help:"Job names as printed by 'tinypub jobs'"`
	All  bool     `help:"Forget every recorded job"`
}

func (c *StateForgetCmd) Run(_ *Global, root *CLI) error {
	if !c.All && len(c.Jobs) == 0 {
		return ferrors.ValidationError("name at least one job or pass --all").Build()
	}
	ctx := context.Background()
	store, err := openStore(ctx, root.Config)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if c.All {
		n, err := forgetAll(ctx, store)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Forgot %d job records\n", n)
		return nil
	}
	for _, job := range c.Jobs {
		if err := store.Delete(ctx, job); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Forgot %s\n", job)
	}
	return nil
}

// openStore opens the configured store without loading posts.
func openStore(ctx context.Context, configPath string) (state.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return state.Open(ctx, cfg.State)
}

func forgetAll(ctx context.Context, store state.Store) (int, error) {
	keys, err := store.Keys(ctx)
	if err != nil {
		return 0, err
	}
	for _, key := range keys {
		if err := store.Delete(ctx, key); err != nil {
			return 0, err
		}
	}
	return len(keys), nil
}
