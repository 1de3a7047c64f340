package supervisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	logx "homeworkbot/pkg/logx"
)

func TestStopWaitsForGoroutines(t *testing.T) {
	t.Parallel()
	s := New(context.Background(), WithLogger(logx.Nop()))
	exited := make(chan struct{})
	s.Go0("loop", func(ctx context.Context) {
		<-ctx.Done()
		close(exited)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	select {
	case <-exited:
	default:
		t.Fatal("goroutine still running after Stop")
	}
	if c := s.Counters(); c.Active != 0 || c.Started != 1 {
		t.Fatalf("counters = %+v", c)
	}
}

func TestCancelOnError(t *testing.T) {
	t.Parallel()
	s := New(context.Background(), WithCancelOnError(true))
	boom := errors.New("boom")
	s.Go("failing", func(context.Context) error { return boom })

	select {
	case <-s.Context().Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not canceled after error")
	}
	if err := s.Wait(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Wait = %v, want boom", err)
	}
}

func TestCanceledIsCleanStop(t *testing.T) {
	t.Parallel()
	s := New(context.Background(), WithCancelOnError(true))
	s.Go("loop", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop = %v, want nil", err)
	}
}

func TestPanicIsRecorded(t *testing.T) {
	t.Parallel()
	s := New(context.Background())
	s.Go0("explodes", func(context.Context) { panic("kaboom") })

	if err := s.Wait(context.Background()); err == nil || !strings.Contains(err.Error(), "kaboom") {
		t.Fatalf("Wait = %v", err)
	}
	if s.Context().Err() != nil {
		t.Fatal("context canceled without WithCancelOnError")
	}
}

func TestWaitHonorsDeadline(t *testing.T) {
	t.Parallel()
	s := New(context.Background())
	release := make(chan struct{})
	s.Go0("stuck", func(context.Context) { <-release })
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := s.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Stop = %v, want deadline exceeded", err)
	}
}
