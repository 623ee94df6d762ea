// Package pipeline folds an ordered list of paired success/failure handlers into a
// single sequential run. A value (or an error) enters the first stage and every later
// stage sees only what its predecessor produced.
package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"
)

// ResolvedFunc handles the value produced by the previous stage.
type ResolvedFunc func(ctx context.Context, value interface{}) (interface{}, error)

// RejectedFunc handles the error produced by the previous stage. Returning a nil
// error recovers the run with the returned value.
type RejectedFunc func(ctx context.Context, err error) (interface{}, error)

// Stage is one step of a run. Either handler may be nil, in which case the stage
// passes its input through untouched.
type Stage struct {
	Name     string
	Resolved ResolvedFunc
	Rejected RejectedFunc
}

// PanicError is returned in place of a panic raised by a stage handler.
type PanicError struct {
	Stage string
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("pipeline: panic: %v", e.Value)
	}
	return fmt.Sprintf("pipeline: panic in %s: %v", e.Stage, e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Run feeds value through stages in order. While no error is pending each stage's
// Resolved handler is called; once an error is pending the next stage's Rejected
// handler receives it. Run returns whatever the last stage left behind.
func Run(ctx context.Context, stages []Stage, value interface{}) (interface{}, error) {
	var err error
	for _, stage := range stages {
		if err != nil {
			if stage.Rejected == nil {
				continue
			}
			pending := err
			value, err = Call(stage.Name, func() (interface{}, error) {
				return stage.Rejected(ctx, pending)
			})
			continue
		}

		if stage.Resolved == nil {
			continue
		}
		current := value
		value, err = Call(stage.Name, func() (interface{}, error) {
			return stage.Resolved(ctx, current)
		})
	}
	return value, err
}

// Call invokes fn, converting a panic into a *PanicError.
func Call(name string, fn func() (interface{}, error)) (value interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = &PanicError{Stage: name, Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}
