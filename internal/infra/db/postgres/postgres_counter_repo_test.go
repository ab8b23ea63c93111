//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
)

func TestCounterRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewCounterRepo(testPool)

	t.Run("should start at one and increment", func(t *testing.T) {
		cleanup(t)

		first, err := repo.Next(ctx, nil, "GYM-2026")
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if first != 1 {
			t.Errorf("expected first value 1, got %d", first)
		}

		second, err := repo.Next(ctx, nil, "GYM-2026")
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if second != 2 {
			t.Errorf("expected second value 2, got %d", second)
		}
	})

	t.Run("should keep keys independent", func(t *testing.T) {
		cleanup(t)

		repo.Next(ctx, nil, "GYM-2026")
		repo.Next(ctx, nil, "GYM-2026")
		dp, err := repo.Next(ctx, nil, "DP-2026")
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if dp != 1 {
			t.Errorf("expected independent key to start at 1, got %d", dp)
		}
	})

	t.Run("should hand out unique values under concurrency", func(t *testing.T) {
		cleanup(t)

		const n = 20
		var wg sync.WaitGroup
		seen := make(chan int64, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := repo.Next(ctx, nil, "DP-2026")
				if err != nil {
					t.Errorf("Next: %v", err)
					return
				}
				seen <- v
			}()
		}
		wg.Wait()
		close(seen)

		uniq := make(map[int64]bool, n)
		for v := range seen {
			if uniq[v] {
				t.Fatalf("duplicate sequence value %d", v)
			}
			uniq[v] = true
		}
		if len(uniq) != n {
			t.Errorf("expected %d unique values, got %d", n, len(uniq))
		}
	})
}
