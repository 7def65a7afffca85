package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSettleWaitsForAllDespiteFailures(t *testing.T) {
	var finished atomic.Int32
	inputs := []int{1, 2, 3, 4}

	results := Settle(context.Background(), 0, inputs, func(ctx context.Context, n int) (int, error) {
		defer finished.Add(1)
		if n == 1 {
			return 0, errors.New("boom")
		}
		time.Sleep(time.Duration(n) * 5 * time.Millisecond)
		return n * 10, nil
	})

	if finished.Load() != int32(len(inputs)) {
		t.Fatalf("returned before every call finished: %d/%d", finished.Load(), len(inputs))
	}
	for i, r := range results {
		if r.Input != inputs[i] {
			t.Errorf("results[%d].Input = %d, want %d", i, r.Input, inputs[i])
		}
	}

	ok, failed := Split(results)
	if len(ok) != 3 || len(failed) != 1 {
		t.Fatalf("Split = %d ok, %d failed", len(ok), len(failed))
	}
	if ok[0].Value != 20 {
		t.Errorf("ok[0].Value = %d", ok[0].Value)
	}
}

func TestSettleRunsConcurrently(t *testing.T) {
	const n = 5
	var wg sync.WaitGroup
	wg.Add(n)

	// Every call blocks until all of them have started.
	done := make(chan struct{})
	go func() {
		Settle(context.Background(), 0, make([]int, n), func(ctx context.Context, _ int) (struct{}, error) {
			wg.Done()
			wg.Wait()
			return struct{}{}, nil
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("calls were not in flight at the same time")
	}
}

func TestSettleRespectsLimit(t *testing.T) {
	var current, peak atomic.Int32

	Settle(context.Background(), 2, make([]int, 8), func(ctx context.Context, _ int) (struct{}, error) {
		now := current.Add(1)
		for {
			old := peak.Load()
			if now <= old || peak.CompareAndSwap(old, now) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		current.Add(-1)
		return struct{}{}, nil
	})

	if peak.Load() > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak.Load())
	}
}

func TestSettleEmpty(t *testing.T) {
	results := Settle(context.Background(), 0, nil, func(ctx context.Context, n int) (int, error) {
		t.Fatal("fn called for empty input")
		return 0, nil
	})
	if len(results) != 0 {
		t.Errorf("results = %v", results)
	}
}
