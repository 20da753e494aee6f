// Package pipeline runs typed, time-bounded stages and reports which stage failed.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/andreyxaxa/Event-Attestor/internal/entity"
)

type Stage[In, Out any] interface {
	Name() entity.Stage
	// Timeout bounds one execution; zero means no stage-level deadline.
	Timeout() time.Duration
	Execute(ctx context.Context, in In) (Out, error)
}

type StageError struct {
	Stage entity.Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Run executes s once. A stage is not started when ctx is already done.
func Run[In, Out any](ctx context.Context, s Stage[In, Out], in In) (Out, error) {
	var zero Out

	if err := ctx.Err(); err != nil {
		return zero, &StageError{Stage: s.Name(), Err: fmt.Errorf("not started: %w", err)}
	}

	if timeout := s.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	out, err := s.Execute(ctx, in)
	if err != nil {
		return zero, &StageError{Stage: s.Name(), Err: err}
	}

	return out, nil
}

// Func adapts a function to Stage.
type Func[In, Out any] struct {
	name    entity.Stage
	timeout time.Duration
	fn      func(ctx context.Context, in In) (Out, error)
}

func New[In, Out any](name entity.Stage, timeout time.Duration, fn func(ctx context.Context, in In) (Out, error)) *Func[In, Out] {
	return &Func[In, Out]{name: name, timeout: timeout, fn: fn}
}

// Pure adapts an infallible function. Pure stages carry no deadline.
func Pure[In, Out any](name entity.Stage, fn func(in In) Out) *Func[In, Out] {
	return New(name, 0, func(_ context.Context, in In) (Out, error) {
		return fn(in), nil
	})
}

func (f *Func[In, Out]) Name() entity.Stage { return f.name }

func (f *Func[In, Out]) Timeout() time.Duration { return f.timeout }

func (f *Func[In, Out]) Execute(ctx context.Context, in In) (Out, error) {
	return f.fn(ctx, in)
}
