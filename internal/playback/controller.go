package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/san-kum/algoviz/internal/dataset"
	"github.com/san-kum/algoviz/internal/history"
	"github.com/san-kum/algoviz/internal/runner"
)

// Controller drives one algorithm at a time and records every state it
// publishes. The live data set and the history are owned by the controller;
// while a run is in progress only the runner's publications change them.
type Controller struct {
	mu sync.Mutex

	name    string
	runner  runner.Runner
	initial dataset.DataSet
	live    dataset.DataSet
	step    string
	log     []string
	logCap  int
	rec     *history.Recorder
	state   State
	outcome State

	cancelled atomic.Bool
	speed     atomic.Int64

	logger    *slog.Logger
	notify    Notifier
	observers []Observer
}

func New(cfg Config) *Controller {
	if cfg.LogCapacity <= 0 {
		cfg.LogCapacity = DefaultLogCapacity
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	c := &Controller{
		name:      cfg.Name,
		logCap:    cfg.LogCapacity,
		rec:       history.New(),
		logger:    cfg.Logger,
		notify:    cfg.Notifier,
		observers: append([]Observer(nil), cfg.Observers...),
	}
	c.SetSpeed(cfg.Speed)
	return c
}

func (c *Controller) AddObserver(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// Load installs an algorithm and a fresh data set, discarding history.
func (c *Controller) Load(r runner.Runner, name string, data dataset.DataSet) error {
	if err := data.Validate(); err != nil {
		return fmt.Errorf("playback: load %s: %w", name, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRunning {
		return ErrRunning
	}
	c.runner = r
	c.name = name
	c.initial = data.Clone()
	c.live = data.Clone()
	c.reseedLocked(ReadyLabel)
	return nil
}

// Start runs the loaded algorithm and blocks until it completes, is
// cancelled or fails. Cancelling ctx is equivalent to Stop. Runner faults
// are reported through Result and the notifier, never as the returned error.
func (c *Controller) Start(ctx context.Context) (Result, error) {
	c.mu.Lock()
	if c.state == StateRunning {
		c.mu.Unlock()
		c.logger.Debug("start ignored, run in progress", "algorithm", c.name)
		return Result{}, ErrAlreadyRunning
	}
	if c.runner == nil {
		c.mu.Unlock()
		return Result{}, ErrNoRunner
	}

	c.cancelled.Store(false)
	c.rec.Reset()
	c.log = c.log[:0]
	c.setStateLocked(StateRunning)
	c.labelLocked(StartLabel)

	name, r := c.name, c.runner
	observers := append([]Observer(nil), c.observers...)
	env := runner.Env{
		Data:      c.live.Clone(),
		Publish:   c.publishData,
		Speed:     c.Speed,
		Cancelled: c.Cancelled,
		Step:      c.publishStep,
	}
	c.mu.Unlock()

	stop := context.AfterFunc(ctx, c.Stop)
	defer stop()

	c.logger.Info("run started", "algorithm", name, "speed", c.Speed())
	started := time.Now()
	err := runner.Invoke(r, env)

	res := c.finish(name, started, err)
	for _, o := range observers {
		if ro, ok := o.(ResultObserver); ok {
			ro.OnResult(res)
		}
	}

	switch res.Outcome {
	case StateFailed:
		c.logger.Error("run failed", "algorithm", name, "snapshots", res.Snapshots, "error", res.Err)
		if c.notify != nil {
			c.notify(Notification{
				Level:     LevelError,
				Algorithm: name,
				Message:   fmt.Sprintf("%s failed: %v", name, res.Err),
				Err:       res.Err,
			})
		}
	default:
		c.logger.Info("run finished", "algorithm", name, "outcome", res.Outcome,
			"snapshots", res.Snapshots, "elapsed", res.Elapsed)
	}
	return res, nil
}

func (c *Controller) finish(name string, started time.Time, err error) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := Result{Name: name, Elapsed: time.Since(started)}
	switch {
	case err != nil && !errors.Is(err, runner.ErrCancelled):
		res.Outcome = StateFailed
		res.Err = err
	case err != nil || c.cancelled.Load():
		res.Outcome = StateCancelled
	default:
		res.Outcome = StateCompleted
		c.labelLocked(CompletedLabel)
	}

	c.setStateLocked(res.Outcome)
	c.setStateLocked(StateIdle)
	c.outcome = res.Outcome
	res.Snapshots = c.rec.Len()
	res.Final = c.live.Clone()
	return res
}

// Stop requests cancellation of the current run. The runner observes it at
// its next poll; history captured so far stays navigable.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRunning {
		c.cancelled.Store(true)
	}
}

func (c *Controller) Cancelled() bool { return c.cancelled.Load() }

// publishData replaces the live data set and records it under the current
// label. Publications after a stop request are dropped.
func (c *Controller) publishData(ds dataset.DataSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRunning || c.cancelled.Load() {
		return
	}
	c.live = ds.Clone()
	c.appendLocked()
}

// publishStep records a new label against the current data.
func (c *Controller) publishStep(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRunning || c.cancelled.Load() {
		return
	}
	c.labelLocked(s)
}

func (c *Controller) StepForward() bool { return c.move(c.rec.Forward) }

func (c *Controller) StepBackward() bool { return c.move(c.rec.Backward) }

// Seek jumps to snapshot i. Out of range or during a run it does nothing.
func (c *Controller) Seek(i int) bool {
	return c.move(func() (history.Snapshot, bool) { return c.rec.Seek(i) })
}

func (c *Controller) move(fn func() (history.Snapshot, bool)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRunning {
		c.logger.Debug("navigation ignored while running", "algorithm", c.name)
		return false
	}
	snap, ok := fn()
	if !ok {
		return false
	}
	c.live = snap.Data
	c.step = snap.Step
	return true
}

// Reset restores the data set the algorithm was loaded with.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRunning {
		return ErrRunning
	}
	c.live = c.initial.Clone()
	c.reseedLocked(ReadyLabel)
	return nil
}

// InjectCustomData replaces the live data set. Invalid data is rejected and
// leaves the current state untouched.
func (c *Controller) InjectCustomData(ds dataset.DataSet) error {
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("playback: invalid custom data: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRunning {
		return ErrRunning
	}
	c.initial = ds.Clone()
	c.live = ds.Clone()
	c.reseedLocked(CustomLabel)
	return nil
}

// SetSpeed sets the pacing unit used by pauses that start after the call.
func (c *Controller) SetSpeed(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.speed.Store(int64(d))
}

func (c *Controller) Speed() time.Duration { return time.Duration(c.speed.Load()) }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) History() *history.Recorder { return c.rec }

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	idle := c.state != StateRunning
	return View{
		Name:            c.name,
		Data:            c.live.Clone(),
		Step:            c.step,
		Log:             append([]string(nil), c.log...),
		CanStepForward:  idle && c.rec.CanForward(),
		CanStepBackward: idle && c.rec.CanBackward(),
		Cursor:          c.rec.Cursor(),
		Length:          c.rec.Len(),
		State:           c.state,
		Outcome:         c.outcome,
		Speed:           c.Speed(),
	}
}

func (c *Controller) reseedLocked(label string) {
	c.rec.Reset()
	c.log = c.log[:0]
	c.outcome = StateIdle
	c.labelLocked(label)
}

func (c *Controller) labelLocked(s string) {
	c.step = s
	c.log = append([]string{s}, c.log...)
	if len(c.log) > c.logCap {
		c.log = c.log[:c.logCap]
	}
	c.appendLocked()
}

func (c *Controller) appendLocked() {
	snap := c.rec.Append(c.live, c.step)
	for _, o := range c.observers {
		o.OnSnapshot(c.name, snap)
	}
}

func (c *Controller) setStateLocked(to State) {
	from := c.state
	c.state = to
	for _, o := range c.observers {
		o.OnTransition(c.name, from, to)
	}
}
