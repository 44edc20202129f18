package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoadCollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var loads atomic.Int32

	loader := func(context.Context) (any, error) {
		loads.Add(1)
		time.Sleep(20 * time.Millisecond)
		return int64(1001), nil
	}

	const readers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(readers)

	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			<-start
			value, err := store.GetOrLoad(context.Background(), "source:fixture:1001", loader)
			if err != nil {
				t.Errorf("GetOrLoad error: %v", err)
				return
			}
			if value.(int64) != 1001 {
				t.Errorf("GetOrLoad value got=%v want=1001", value)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := loads.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
}

func TestStore_GetOrLoadServesCachedValue(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var loads atomic.Int32

	loader := func(context.Context) (any, error) {
		loads.Add(1)
		return "Premier League", nil
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		value, err := store.GetOrLoad(ctx, "source:leagues", loader)
		if err != nil {
			t.Fatalf("GetOrLoad error: %v", err)
		}
		if value != "Premier League" {
			t.Fatalf("GetOrLoad value got=%v", value)
		}
	}

	if got := loads.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
}

func TestStore_GetOrLoadDoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var loads atomic.Int32
	wantErr := errors.New("provider down")

	loader := func(context.Context) (any, error) {
		loads.Add(1)
		return nil, wantErr
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := store.GetOrLoad(ctx, "source:fixture:9", loader); !errors.Is(err, wantErr) {
			t.Fatalf("GetOrLoad error got=%v want=%v", err, wantErr)
		}
	}

	if got := loads.Load(); got != 2 {
		t.Fatalf("loader ran %d times, want 2", got)
	}
}

func TestStore_ExpiredEntryIsReloaded(t *testing.T) {
	t.Parallel()

	store := NewStore(10 * time.Millisecond)
	ctx := context.Background()

	store.Set(ctx, "source:teams:39", "first")
	time.Sleep(25 * time.Millisecond)

	if _, ok := store.Get(ctx, "source:teams:39"); ok {
		t.Fatal("expired entry should miss")
	}
}

func TestStore_DeletePrefixDropsMatchingKeysOnly(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "source:fixture:1001", 1)
	store.Set(ctx, "source:fixture:1002", 2)
	store.Set(ctx, "source:leagues", 3)

	store.DeletePrefix(ctx, "source:fixture:")

	if _, ok := store.Get(ctx, "source:fixture:1001"); ok {
		t.Fatal("prefixed key should be gone")
	}
	if _, ok := store.Get(ctx, "source:fixture:1002"); ok {
		t.Fatal("prefixed key should be gone")
	}
	if _, ok := store.Get(ctx, "source:leagues"); !ok {
		t.Fatal("unrelated key should survive")
	}
}
