package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	trace []string
}

func (r *recorder) at(name string) Controller {
	return ControlFunc(func(cc ControlContext) error {
		r.trace = append(r.trace, name)
		return nil
	})
}

func TestLoopPriorityOrder(t *testing.T) {
	var r recorder
	l := NewLoop().
		AddController(PrLvOutput, r.at("output")).
		AddController(PrLvInput, r.at("input")).
		AddController(PrLvClock, r.at("clock"))
	l.PreRunAt(PrLvClock, r.at("pre"))
	l.PostRunAt(PrLvInput, r.at("post"))
	l.Iterate(context.Background())
	require.Equal(t, []string{"input", "post", "pre", "clock", "output"}, r.trace)

	r.trace = nil
	l.Iterate(context.Background())
	require.Equal(t, []string{"input", "clock", "output"}, r.trace)
	require.Equal(t, uint64(2), l.Iterations())
}

func TestLoopMessages(t *testing.T) {
	var taken, seen []Message
	var iterations []uint64
	l := NewLoop()
	l.AddController(PrLvInput, ControlFunc(func(cc ControlContext) error {
		iterations = append(iterations, cc.Iteration())
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			if n, ok := mc.CurrentMessage().(int); ok && n%2 == 0 {
				mc.MessageTaken()
				taken = append(taken, n)
			}
		}))
		return nil
	}))
	l.AddController(PrLvOutput, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			mc.MessageTaken()
			seen = append(seen, mc.CurrentMessage())
		}))
		return nil
	}))
	for n := 1; n <= 4; n++ {
		l.PostMessage(n)
	}
	l.Iterate(context.Background())
	require.Equal(t, []Message{2, 4}, taken)
	require.Equal(t, []Message{1, 3}, seen)

	// nothing carried over.
	taken, seen = nil, nil
	l.Iterate(context.Background())
	require.Empty(t, taken)
	require.Empty(t, seen)
	require.Equal(t, []uint64{1, 2}, iterations)
}

func TestLoopStopProcessing(t *testing.T) {
	var first, second []Message
	l := NewLoop()
	l.AddController(PrLvInput, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			first = append(first, mc.CurrentMessage())
			mc.StopProcessing()
		}))
		return nil
	}))
	l.AddController(PrLvOutput, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			second = append(second, mc.CurrentMessage())
		}))
		return nil
	}))
	l.PostMessage("a")
	l.PostMessage("b")
	l.PostMessage("c")
	l.Iterate(context.Background())
	require.Equal(t, []Message{"a"}, first)
	require.Equal(t, []Message{"a", "b", "c"}, second)
}

func TestLoopRunTriggerNext(t *testing.T) {
	l := NewLoop()
	l.Interval = time.Hour
	doneCh := make(chan uint64, 1)
	l.AddController(PrLvClock, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			mc.MessageTaken()
			doneCh <- cc.Iteration()
		}))
		return nil
	}))
	started := make(chan LoopControl, 1)
	l.AddRunnable(RunFunc(func(ctx context.Context) error {
		started <- LoopCtlFrom(ctx)
		<-ctx.Done()
		return ctx.Err()
	}))
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()

	ctl := <-started
	ctl.PostMessage("wake")
	ctl.TriggerNext()
	select {
	case n := <-doneCh:
		require.Equal(t, uint64(1), n)
	case <-time.After(time.Second):
		t.Fatal("iteration not triggered")
	}
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}

func TestRunnerAggregatesErrors(t *testing.T) {
	errA, errB := errors.New("a failed"), errors.New("b failed")
	r := NewRunner().Go(
		NamedRun("a", RunFunc(func(context.Context) error { return errA })),
		NamedRun("b", RunFunc(func(context.Context) error { return errB })),
		RunFunc(func(context.Context) error { return context.Canceled }),
		RunFunc(func(context.Context) error { return nil }),
	)
	err := r.Wait()
	require.Error(t, err)
	agg, ok := err.(*AggregatedError)
	require.True(t, ok)
	require.Len(t, agg.Errors, 2)
	require.Contains(t, agg.Error(), "a failed")
	require.Contains(t, agg.Error(), "b failed")

	require.NoError(t, NewRunner().Go(RunFunc(func(context.Context) error { return nil })).Wait())
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestRunWithContextCloser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	unblock := make(chan struct{})
	var closes int
	closer := closerFunc(func() error {
		closes++
		close(unblock)
		return nil
	})
	go cancel()
	err := RunWithContextCloser(ctx, closer, func() error {
		<-unblock
		return errors.New("closed")
	})
	require.Equal(t, context.Canceled, err)
	require.Equal(t, 1, closes)
}

func TestAggregatedErrorFormat(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil, nil).Aggregate())
	errs.Add(errors.New("one"))
	require.EqualError(t, errs.Aggregate(), "one")
	errs.Add(errors.New("two"))
	require.EqualError(t, errs.Aggregate(), "multiple errors:\n  one\n  two")
}
