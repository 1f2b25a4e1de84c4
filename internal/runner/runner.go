package runner

import (
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/algoviz/internal/dataset"
	"github.com/san-kum/algoviz/internal/delay"
)

// ErrCancelled may be returned by a body that stopped because cancellation
// was requested. It is not treated as a fault.
var ErrCancelled = errors.New("runner: cancelled")

// Env holds the collaborators handed to one algorithm invocation.
//
// Data is a private clone for this invocation. Publish replaces what the
// viewer shows; each call is one externally observable state change. Step
// labels the current step. Cancelled must be checked at every loop
// iteration, around recursion and after every Pause.
type Env struct {
	Data      dataset.DataSet
	Publish   func(dataset.DataSet)
	Speed     func() time.Duration
	Cancelled func() bool
	Step      func(string)
}

// Runner is the contract every algorithm body implements.
type Runner interface {
	Run(env Env) error
}

type Func func(env Env) error

func (f Func) Run(env Env) error { return f(env) }

// Pause waits factor times the current speed. The speed is read when the
// pause starts, so a speed change applies to later pauses only.
func (e Env) Pause(factor float64) {
	var d time.Duration
	if e.Speed != nil {
		d = time.Duration(float64(e.Speed()) * factor)
	}
	delay.Sleep(d, e.Cancelled)
}

// Stepf formats and publishes a step label.
func (e Env) Stepf(format string, args ...any) {
	if e.Step != nil {
		e.Step(fmt.Sprintf(format, args...))
	}
}

// Show publishes d, labelled with label when it is non-empty.
func (e Env) Show(d dataset.DataSet, label string) {
	if label != "" && e.Step != nil {
		e.Step(label)
	}
	if e.Publish != nil {
		e.Publish(d)
	}
}

// PanicError wraps a value recovered from a panicking body.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("runner: panic: %v", e.Value)
}

// Invoke runs r and converts a panic into a *PanicError.
func Invoke(r Runner, env Env) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Value: v}
		}
	}()
	return r.Run(env)
}
