package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testMsg struct {
	val int
}

func (m *testMsg) NewMessage() Message { return &testMsg{} }

func TestLoopStepPriorityAndMessages(t *testing.T) {
	l := NewLoop()
	var order []string
	var taken []int
	var left int
	l.AddController(PrLvCommand, ControlFunc(func(cc ControlContext) error {
		order = append(order, "command")
		left = 0
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mctx MessageProcessingContext) {
			left++
		}))
		return nil
	}))
	l.AddController(PrLvSense, ControlFunc(func(cc ControlContext) error {
		order = append(order, "sense")
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mctx MessageProcessingContext) {
			if m := mctx.CurrentMessage().(*testMsg); m.val%2 == 0 {
				taken = append(taken, m.val)
				mctx.MessageTaken()
			}
		}))
		return errors.New("logged only")
	}))
	l.PostMessage(&testMsg{val: 2})
	l.PostMessage(&testMsg{val: 3})
	l.PostMessage(&testMsg{val: 4})

	l.Step(context.Background(), time.Now())
	require.Equal(t, []string{"sense", "command"}, order)
	require.Equal(t, []int{2, 4}, taken)
	require.Equal(t, 1, left)

	// leftover messages are not carried to the next iteration.
	taken = nil
	l.Step(context.Background(), time.Now())
	require.Empty(t, taken)
	require.Zero(t, left)
}

func TestPeriodic(t *testing.T) {
	var runs int
	l := NewLoop()
	l.AddController(PrLvPlan, Every(time.Second, ControlFunc(func(ControlContext) error {
		runs++
		return nil
	})))
	base := time.Unix(1000, 0)
	for _, offset := range []time.Duration{0, 300 * time.Millisecond, 999 * time.Millisecond, time.Second, 1500 * time.Millisecond, 2 * time.Second} {
		l.Step(context.Background(), base.Add(offset))
	}
	require.Equal(t, 3, runs)
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil).Aggregate())
	sentinel := errors.New("a")
	errs.Add(sentinel)
	require.Equal(t, "a", errs.Aggregate().Error())
	errs.Add(errors.New("b"))
	err := errs.Aggregate()
	require.True(t, errors.Is(err, sentinel))
	require.Equal(t, "Multiple errors:\na\nb", err.Error())
}

func TestLoopRunStops(t *testing.T) {
	l := NewLoop()
	l.Interval = time.Millisecond
	ran := make(chan struct{}, 1)
	l.AddController(PrLvPlan, ControlFunc(func(ControlContext) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	<-ran
	cancel()
	require.Equal(t, context.Canceled, <-done)
}
