package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestSnapshot_FetchOnce(t *testing.T) {
	calls := 0
	snap := NewSnapshot(func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	})

	for i := 0; i < 3; i++ {
		v, err := snap.Get(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if v != 42 {
			t.Fatalf("expected 42, got %d", v)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one fetch, got %d", calls)
	}
}

func TestSnapshot_InvalidateForcesRefetch(t *testing.T) {
	calls := 0
	snap := NewSnapshot(func(ctx context.Context) (int, error) {
		calls++
		return calls, nil
	})

	if v, _ := snap.Get(context.Background()); v != 1 {
		t.Fatalf("expected first fetch, got %d", v)
	}
	snap.Invalidate()
	if v, _ := snap.Get(context.Background()); v != 2 {
		t.Fatalf("expected refetch after invalidation, got %d", v)
	}
}

func TestSnapshot_FetchErrorNotCached(t *testing.T) {
	calls := 0
	fail := true
	snap := NewSnapshot(func(ctx context.Context) (int, error) {
		calls++
		if fail {
			return 0, errors.New("down")
		}
		return 7, nil
	})

	if _, err := snap.Get(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	fail = false
	v, err := snap.Get(context.Background())
	if err != nil || v != 7 {
		t.Fatalf("expected recovery, got %d %v", v, err)
	}
	if calls != 2 {
		t.Fatalf("expected two fetches, got %d", calls)
	}
}

func TestSnapshot_ConcurrentReaders(t *testing.T) {
	snap := NewSnapshot(func(ctx context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if j%10 == 0 {
					snap.Invalidate()
				}
				v, err := snap.Get(context.Background())
				if err != nil || len(v) != 2 {
					t.Errorf("unexpected read: %v %v", v, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
