package playback

import (
	"errors"
	"log/slog"
	"time"

	"github.com/san-kum/algoviz/internal/dataset"
	"github.com/san-kum/algoviz/internal/history"
)

var (
	// ErrAlreadyRunning is returned by Start while a run is in progress. The
	// call has no effect.
	ErrAlreadyRunning = errors.New("playback: run already in progress")

	// ErrRunning is returned by operations that are only allowed while idle.
	ErrRunning = errors.New("playback: not allowed while running")

	// ErrNoRunner is returned by Start before an algorithm is loaded.
	ErrNoRunner = errors.New("playback: no algorithm loaded")
)

const (
	StartLabel     = "Starting..."
	CompletedLabel = "Algorithm completed"
	ReadyLabel     = "Ready"
	CustomLabel    = "Custom input loaded"

	DefaultLogCapacity = 10
	DefaultSpeed       = 100 * time.Millisecond
)

type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Observer is notified of every captured snapshot and state transition, in
// order. Implementations must not call back into the controller.
type Observer interface {
	OnSnapshot(name string, snap history.Snapshot)
	OnTransition(name string, from, to State)
}

// ResultObserver is an optional extension of Observer. Controllers hand it
// the Result of every finished run, after the Idle transition and outside
// the controller lock.
type ResultObserver interface {
	OnResult(res Result)
}

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notification is a user-visible message raised by the controller.
type Notification struct {
	Level     Level
	Algorithm string
	Message   string
	Err       error
}

type Notifier func(Notification)

type Config struct {
	Name        string
	Speed       time.Duration
	LogCapacity int
	Logger      *slog.Logger
	Notifier    Notifier
	Observers   []Observer
}

// Result describes how a run ended.
type Result struct {
	Name      string
	Outcome   State
	Snapshots int
	Elapsed   time.Duration
	Final     dataset.DataSet
	Err       error
}

// View is the read-only state exposed to renderers.
type View struct {
	Name            string
	Data            dataset.DataSet
	Step            string
	Log             []string
	CanStepForward  bool
	CanStepBackward bool
	Cursor          int
	Length          int
	State           State
	Outcome         State
	Speed           time.Duration
}
