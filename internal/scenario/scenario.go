package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/algoviz/internal/algorithms"
	"github.com/san-kum/algoviz/internal/input"
	"github.com/san-kum/algoviz/internal/playback"
	"github.com/san-kum/algoviz/internal/storage"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

type Step struct {
	Algorithm string `yaml:"algorithm"`
	// Input is custom data in the algorithm's category format; when empty
	// Size and Seed drive synthetic data.
	Input       string `yaml:"input"`
	Size        int    `yaml:"size"`
	Seed        int64  `yaml:"seed"`
	SpeedMs     int    `yaml:"speed_ms"`
	StopAfterMs int    `yaml:"stop_after_ms"`
	Save        bool   `yaml:"save"`
}

type StepResult struct {
	Step   int
	Seed   int64
	Result playback.Result
	RunID  string
}

// Options carries the collaborators shared by every step.
type Options struct {
	Registry  *algorithms.Registry
	Store     *storage.Store
	Logger    *slog.Logger
	Observers []playback.Observer
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}
	return &sc, nil
}

func (o Options) withDefaults() Options {
	if o.Registry == nil {
		o.Registry = algorithms.NewRegistry()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Run executes the steps in order. A step whose algorithm fails is recorded
// and the scenario continues; configuration errors and ctx cancellation end
// it, returning the results gathered so far.
func Run(ctx context.Context, sc *Scenario, opts Options) ([]StepResult, error) {
	opts = opts.withDefaults()
	results := make([]StepResult, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		opts.Logger.Info("scenario step", "scenario", sc.Name, "step", i+1, "of", len(sc.Steps), "algorithm", step.Algorithm)

		res, err := runStep(ctx, step, opts)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		res.Step = i + 1
		results = append(results, res)
	}
	return results, nil
}

func runStep(ctx context.Context, step Step, opts Options) (StepResult, error) {
	alg, err := opts.Registry.Get(step.Algorithm)
	if err != nil {
		return StepResult{}, err
	}
	data, seed, err := input.Resolve(alg.Category, step.Input, step.Size, step.Seed)
	if err != nil {
		return StepResult{}, err
	}

	speed := time.Duration(step.SpeedMs) * time.Millisecond
	c := playback.New(playback.Config{
		Name:      alg.Key,
		Speed:     speed,
		Logger:    opts.Logger,
		Observers: opts.Observers,
	})
	if err := c.Load(alg.Runner, alg.Key, data); err != nil {
		return StepResult{}, err
	}

	runCtx := ctx
	if step.StopAfterMs > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(step.StopAfterMs)*time.Millisecond)
		defer cancel()
	}
	res, err := c.Start(runCtx)
	if err != nil {
		return StepResult{}, err
	}

	out := StepResult{Seed: seed, Result: res}
	if step.Save && opts.Store != nil {
		id, err := opts.Store.Save(storage.NewRecord(res, alg.Category, speed, seed))
		if err != nil {
			return out, fmt.Errorf("save run: %w", err)
		}
		out.RunID = id
	}
	return out, nil
}

// Sweep runs one algorithm over increasing input sizes with fixed seed and
// zero speed, reporting how many snapshots each size captured.
type Sweep struct {
	Algorithm string
	Sizes     []int
	Seed      int64
}

type SweepPoint struct {
	Size      int
	Snapshots int
	Elapsed   time.Duration
}

func RunSweep(ctx context.Context, sw Sweep, opts Options) ([]SweepPoint, error) {
	opts = opts.withDefaults()
	points := make([]SweepPoint, 0, len(sw.Sizes))
	for _, size := range sw.Sizes {
		res, err := runStep(ctx, Step{Algorithm: sw.Algorithm, Size: size, Seed: sw.Seed}, opts)
		if err != nil {
			return points, fmt.Errorf("size %d: %w", size, err)
		}
		if res.Result.Outcome != playback.StateCompleted {
			return points, fmt.Errorf("size %d: run %s", size, res.Result.Outcome)
		}
		points = append(points, SweepPoint{Size: size, Snapshots: res.Result.Snapshots, Elapsed: res.Result.Elapsed})
	}
	return points, nil
}

// TrialStats summarizes repeated runs over random inputs of one size.
type TrialStats struct {
	Trials int
	Min    int
	Max    int
	Mean   float64
	Failed int
}

// RunTrials runs the algorithm n times, each on a fresh input derived from
// seed, and aggregates snapshot counts.
func RunTrials(ctx context.Context, algorithm string, size, n int, seed int64, opts Options) (TrialStats, error) {
	opts = opts.withDefaults()
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	var st TrialStats
	total := 0
	for i := 0; i < n; i++ {
		res, err := runStep(ctx, Step{Algorithm: algorithm, Size: size, Seed: seed + int64(i)}, opts)
		if err != nil {
			return st, err
		}
		if err := ctx.Err(); err != nil {
			return st, err
		}
		st.Trials++
		if res.Result.Outcome == playback.StateFailed {
			st.Failed++
			continue
		}
		snaps := res.Result.Snapshots
		if st.Trials-st.Failed == 1 || snaps < st.Min {
			st.Min = snaps
		}
		if snaps > st.Max {
			st.Max = snaps
		}
		total += snaps
	}
	if ok := st.Trials - st.Failed; ok > 0 {
		st.Mean = float64(total) / float64(ok)
	}
	return st, nil
}
