package loop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLoop_RunsInOrder(t *testing.T) {
	l := New()

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		if err := l.Post(func() { got = append(got, i) }); err != nil {
			t.Fatalf("Post() failed: %v", err)
		}
	}
	l.Post(l.Stop)

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	for i, v := range got {
		if v != i {
			t.Fatalf("got %v, want ascending order", got)
		}
	}
	if len(got) != 5 {
		t.Errorf("ran %d functions, want 5", len(got))
	}
}

func TestLoop_ConcurrentPostsSerialized(t *testing.T) {
	l := New(WithQueueSize(1000))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	counter := 0
	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = l.Post(func() { counter++ })
			}
		}()
	}

	go func() {
		wg.Wait()
		_ = l.Post(l.Stop)
	}()

	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if counter != 500 {
		t.Errorf("counter = %d, want 500", counter)
	}
}

func TestLoop_ContextCancel(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if err := l.Post(func() {}); err != ErrStopped {
		t.Errorf("Post() after cancel = %v, want ErrStopped", err)
	}
}

func TestLoop_QueueFull(t *testing.T) {
	l := New(WithQueueSize(1))

	if err := l.Post(func() {}); err != nil {
		t.Fatalf("first Post() failed: %v", err)
	}
	if err := l.Post(func() {}); err != ErrQueueFull {
		t.Errorf("second Post() = %v, want ErrQueueFull", err)
	}
	if got := l.Stats().Dropped; got != 1 {
		t.Errorf("Dropped = %d, want 1", got)
	}
}

func TestLoop_PanicRecovered(t *testing.T) {
	var recovered any
	l := New(WithPanicHandler(func(r any, _ []byte) { recovered = r }))

	ran := false
	l.Post(func() { panic("boom") })
	l.Post(func() { ran = true })

	if n := l.Drain(); n != 2 {
		t.Errorf("Drain() = %d, want 2", n)
	}
	if recovered != "boom" {
		t.Errorf("recovered = %v, want boom", recovered)
	}
	if !ran {
		t.Error("function after panic did not run")
	}

	stats := l.Stats()
	if stats.Posted != 2 || stats.Executed != 1 || stats.Panicked != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestLoop_AlreadyRunning(t *testing.T) {
	l := New()
	started := make(chan struct{})
	l.Post(func() { close(started) })

	errc := make(chan error, 1)
	go func() { errc <- l.Run(context.Background()) }()

	<-started
	if err := l.Run(context.Background()); err != ErrAlreadyRunning {
		t.Errorf("second Run() = %v, want ErrAlreadyRunning", err)
	}

	l.Stop()
	if err := <-errc; err != nil {
		t.Errorf("Run() = %v", err)
	}
	l.Stop()
}

func TestLoop_PostNil(t *testing.T) {
	l := New()
	if err := l.Post(nil); err != nil {
		t.Errorf("Post(nil) = %v", err)
	}
	if l.Stats().Posted != 0 {
		t.Error("nil function was queued")
	}
}
