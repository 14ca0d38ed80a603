package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SlpAus/life-gacha-backend/pkg/lifecycle"
)

func TestShutdownStopsServicesThenFinalizes(t *testing.T) {
	graceful := lifecycle.NewManager("graceful")
	forceful := lifecycle.NewManager("forceful")
	c := NewCoordinator(graceful, forceful)
	c.GracefulTimeout = time.Second

	stopped := make(chan struct{})
	if err := graceful.Go("ticker", func(h *lifecycle.Handle) {
		<-h.Done()
		close(stopped)
	}); err != nil {
		t.Fatal(err)
	}

	var order []string
	c.Shutdown(nil,
		Finalizer{Name: "db", Close: func() error {
			select {
			case <-stopped:
			default:
				t.Error("finalizer ran before services stopped")
			}
			order = append(order, "db")
			return nil
		}},
		Finalizer{Name: "redis", Close: func() error {
			order = append(order, "redis")
			return errors.New("already closed")
		}},
	)

	if len(order) != 2 || order[0] != "db" || order[1] != "redis" {
		t.Fatalf("order = %v", order)
	}
}

func TestWorkSurvivesGracefulPhase(t *testing.T) {
	c := NewCoordinator(lifecycle.NewManager("graceful"), lifecycle.NewManager("forceful"))

	finished := make(chan error, 1)
	if err := c.Go("checker", func(h *lifecycle.Handle, work context.Context) {
		<-h.Done()
		// 第一阶段信号之后，进行中的工作仍然可以继续
		finished <- work.Err()
	}); err != nil {
		t.Fatal(err)
	}
	if err := c.Go("checker", func(*lifecycle.Handle, context.Context) {}); err == nil {
		t.Fatal("duplicate service name should be rejected")
	}

	c.Shutdown(nil)
	if err := <-finished; err != nil {
		t.Fatalf("work cancelled during graceful phase: %v", err)
	}
}

func TestForcefulPhaseAbortsStuckWork(t *testing.T) {
	c := NewCoordinator(lifecycle.NewManager("graceful"), lifecycle.NewManager("forceful"))
	c.GracefulTimeout = 20 * time.Millisecond

	aborted := make(chan struct{})
	if err := c.Go("rebuild", func(h *lifecycle.Handle, work context.Context) {
		<-h.Done()
		<-work.Done()
		close(aborted)
	}); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		c.Shutdown(nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown hung")
	}
	select {
	case <-aborted:
	default:
		t.Fatal("stuck work was not aborted")
	}
}
