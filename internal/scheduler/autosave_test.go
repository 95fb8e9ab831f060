package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/genrejinn/genrejinn/internal/logger"
)

type countingSaver struct {
	calls atomic.Int32
	block chan struct{}
}

func (s *countingSaver) Save(ctx context.Context) {
	s.calls.Add(1)
	if s.block != nil {
		<-s.block
	}
}

func TestSaveSkipsWhileBusy(t *testing.T) {
	saver := &countingSaver{block: make(chan struct{})}
	a := NewAutosaver(saver, logger.New("error", false), time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.Save(ctx)
	}()

	// Wait until the first save holds the lock.
	for saver.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	a.Save(ctx)
	if got := saver.calls.Load(); got != 1 {
		t.Errorf("saver called %d times during an in-flight save, want 1", got)
	}

	close(saver.block)
	wg.Wait()

	saver.block = nil
	a.Save(ctx)
	if got := saver.calls.Load(); got != 2 {
		t.Errorf("saver called %d times after the lock freed, want 2", got)
	}
}

func TestStartTicksAndStops(t *testing.T) {
	saver := &countingSaver{}
	a := NewAutosaver(saver, logger.New("error", false), 10*time.Millisecond)

	a.Start(context.Background())

	deadline := time.After(2 * time.Second)
	for saver.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("only %d ticks observed", saver.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	a.Stop()
	stopped := saver.calls.Load()
	time.Sleep(50 * time.Millisecond)
	if got := saver.calls.Load(); got != stopped {
		t.Errorf("saver ticked after Stop: %d -> %d", stopped, got)
	}
}

func TestDefaultInterval(t *testing.T) {
	a := NewAutosaver(&countingSaver{}, logger.New("error", false), 0)
	if a.interval != DefaultAutosaveInterval {
		t.Errorf("interval = %v, want %v", a.interval, DefaultAutosaveInterval)
	}
}
