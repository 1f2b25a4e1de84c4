package playback

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/algoviz/internal/dataset"
	"github.com/san-kum/algoviz/internal/runner"
)

type Entry struct {
	Name   string
	Runner runner.Runner
}

// Compare runs every entry on its own controller over the same input. Runs
// are independent: a fault in one is reported in its Result and does not
// cancel the others.
func Compare(ctx context.Context, entries []Entry, data dataset.DataSet, cfg Config) ([]Result, error) {
	results := make([]Result, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	for i, e := range entries {
		g.Go(func() error {
			ecfg := cfg
			ecfg.Name = e.Name
			c := New(ecfg)
			if err := c.Load(e.Runner, e.Name, data); err != nil {
				return err
			}
			res, err := c.Start(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", e.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
