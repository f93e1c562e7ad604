package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLocalLockerSerializesSameKey(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	var mu sync.Mutex
	inside, maxInside := 0, 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := WithLock(ctx, locker, "gratuity:w1", time.Second, func(context.Context) error {
				mu.Lock()
				inside++
				if inside > maxInside {
					maxInside = inside
				}
				mu.Unlock()

				time.Sleep(2 * time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			if err != nil {
				t.Errorf("WithLock: %v", err)
			}
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Fatalf("expected at most one holder, saw %d", maxInside)
	}
}

func TestLocalLockerTimesOut(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	held, err := locker.Obtain(ctx, "ledger:settlement", time.Second)
	if err != nil {
		t.Fatalf("Obtain: %v", err)
	}
	defer held.Release(ctx)

	_, err = locker.Obtain(ctx, "ledger:settlement", 10*time.Millisecond)
	if !errors.Is(err, ErrNotObtained) {
		t.Fatalf("expected ErrNotObtained, got %v", err)
	}

	other, err := locker.Obtain(ctx, "closing:daily", 10*time.Millisecond)
	if err != nil {
		t.Fatalf("independent key should be free: %v", err)
	}
	_ = other.Release(ctx)
}

func TestLocalLockReleaseIsIdempotent(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	lk, err := locker.Obtain(ctx, "k", time.Second)
	if err != nil {
		t.Fatalf("Obtain: %v", err)
	}
	_ = lk.Release(ctx)
	_ = lk.Release(ctx)

	lk2, err := locker.Obtain(ctx, "k", 10*time.Millisecond)
	if err != nil {
		t.Fatalf("re-obtain after release: %v", err)
	}
	_ = lk2.Release(ctx)
}
