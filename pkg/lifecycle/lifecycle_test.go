package lifecycle

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestManagerWaitsForServices(t *testing.T) {
	m := NewManager("test")
	var ticks atomic.Int32
	if err := m.Go("ticker", func(h *Handle) {
		h.Every(time.Millisecond, func(context.Context) { ticks.Add(1) })
	}); err != nil {
		t.Fatal(err)
	}
	if err := m.Go("ticker", func(*Handle) {}); err == nil {
		t.Fatal("duplicate service name should be rejected")
	}

	time.Sleep(20 * time.Millisecond)
	m.Shutdown()
	if remaining := m.WaitWithTimeout(time.Second); len(remaining) != 0 {
		t.Fatalf("services still running: %v", remaining)
	}
	if ticks.Load() == 0 {
		t.Fatal("Every never ran")
	}
}

func TestWaitWithTimeoutReportsStragglers(t *testing.T) {
	m := NewManager("test")
	release := make(chan struct{})
	if err := m.Go("stubborn", func(*Handle) { <-release }); err != nil {
		t.Fatal(err)
	}
	m.Shutdown()
	remaining := m.WaitWithTimeout(10 * time.Millisecond)
	if len(remaining) != 1 || remaining[0] != "stubborn" {
		t.Fatalf("remaining = %v", remaining)
	}
	close(release)
}

func TestSleepInterrupted(t *testing.T) {
	m := NewManager("test")
	h, err := m.NewServiceHandle("sleeper")
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	m.Shutdown()
	if err := h.Sleep(time.Hour); err == nil {
		t.Fatal("Sleep should return the cancellation error")
	}
}
