package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"testing"
)

func TestTreapIndex_BasicOperations(t *testing.T) {
	ctx := context.Background()
	idx := NewTreapIndex()

	if count := idx.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}
	if _, err := idx.Score(ctx, "r1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := idx.Upsert(ctx, "r1", 0.62); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := idx.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	score, err := idx.Score(ctx, "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 0.62 {
		t.Errorf("expected score 0.62, got %f", score)
	}

	entry, err := idx.Rank(ctx, "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 1 {
		t.Errorf("expected rank 1, got %d", entry.Rank)
	}
}

func TestTreapIndex_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	idx := NewTreapIndex()

	// Unlike a best-score board, a plain upsert always replaces: a new
	// review can lower the average.
	if err := idx.Upsert(ctx, "r1", 0.9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := idx.Upsert(ctx, "r1", 0.1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	score, err := idx.Score(ctx, "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 0.1 {
		t.Errorf("expected replaced score 0.1, got %f", score)
	}
	if count := idx.Count(ctx); count != 1 {
		t.Errorf("re-insert must not duplicate; count = %d", count)
	}
}

func TestTreapIndex_UpsertIdempotent(t *testing.T) {
	ctx := context.Background()
	idx := NewTreapIndex()

	for i := 0; i < 3; i++ {
		if err := idx.Upsert(ctx, "r1", 0.25); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := idx.RangeDesc(ctx, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Score != 0.25 {
		t.Errorf("unexpected entries after repeated upsert: %+v", entries)
	}
}

func TestTreapIndex_RemoveAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	idx := NewTreapIndex()

	if err := idx.Remove(ctx, "ghost"); err != nil {
		t.Errorf("remove of absent id must not error, got %v", err)
	}

	_ = idx.Upsert(ctx, "r1", 0.5)
	if err := idx.Remove(ctx, "r1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := idx.Count(ctx); count != 0 {
		t.Errorf("expected empty index, got %d", count)
	}
	if _, err := idx.Score(ctx, "r1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after remove, got %v", err)
	}
}

func TestTreapIndex_OrderingAndTieBreak(t *testing.T) {
	ctx := context.Background()
	idx := NewTreapIndex(WithPrioritySeed(42))

	inserts := []struct {
		id    string
		score float64
	}{
		{"delta", 0.75},
		{"bravo", 0.9},
		{"echo", 0.5},
		{"charlie", 0.9}, // tie with bravo; id asc wins
		{"alpha", -0.2},
	}
	for _, in := range inserts {
		if err := idx.Upsert(ctx, in.id, in.score); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := idx.RangeDesc(ctx, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantOrder := []string{"bravo", "charlie", "delta", "echo", "alpha"}
	if len(entries) != len(wantOrder) {
		t.Fatalf("expected %d entries, got %d", len(wantOrder), len(entries))
	}
	for i, want := range wantOrder {
		if entries[i].RestaurantID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, entries[i].RestaurantID)
		}
		if entries[i].Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, entries[i].Rank)
		}
	}
}

func TestTreapIndex_RangeOffsetAndCount(t *testing.T) {
	ctx := context.Background()
	idx := NewTreapIndex()

	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("r%02d", i)
		if err := idx.Upsert(ctx, id, float64(i)/10); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := idx.RangeDesc(ctx, 3, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	// Best is r09 (0.9); offset 3 starts at r06.
	wantIDs := []string{"r06", "r05", "r04", "r03"}
	for i, want := range wantIDs {
		if entries[i].RestaurantID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, entries[i].RestaurantID)
		}
		if entries[i].Rank != 4+i {
			t.Errorf("position %d: expected rank %d, got %d", i, 4+i, entries[i].Rank)
		}
	}

	// Count past the end truncates.
	tail, err := idx.RangeDesc(ctx, 8, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tail) != 2 {
		t.Errorf("expected 2 trailing entries, got %d", len(tail))
	}

	if _, err := idx.RangeDesc(ctx, -1, 5); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange for negative offset, got %v", err)
	}
	if _, err := idx.RangeAsc(ctx, 0, -2); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange for negative count, got %v", err)
	}
}

func TestTreapIndex_AscIsReverseOfDescWithComplementaryRanks(t *testing.T) {
	ctx := context.Background()
	idx := NewTreapIndex(WithPrioritySeed(7))

	rng := rand.New(rand.NewSource(7))
	total := 25
	for i := 0; i < total; i++ {
		id := fmt.Sprintf("r%02d", i)
		score := float64(rng.Intn(201)-100) / 100 // [-1, 1], duplicates likely
		if err := idx.Upsert(ctx, id, score); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	desc, err := idx.RangeDesc(ctx, 0, total)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	asc, err := idx.RangeAsc(ctx, 0, total)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(desc) != total || len(asc) != total {
		t.Fatalf("expected %d entries both ways, got %d desc / %d asc", total, len(desc), len(asc))
	}

	for i := range desc {
		mirror := asc[total-1-i]
		if desc[i].RestaurantID != mirror.RestaurantID {
			t.Errorf("position %d: desc %s != reversed asc %s", i, desc[i].RestaurantID, mirror.RestaurantID)
		}
		if desc[i].Rank != mirror.Rank {
			t.Errorf("id %s: desc rank %d != asc rank %d", desc[i].RestaurantID, desc[i].Rank, mirror.Rank)
		}
	}

	// rank_desc + ascending position (1-based) == total + 1
	for i, e := range asc {
		if e.Rank+i != total {
			t.Errorf("asc position %d: expected global rank %d, got %d", i, total-i, e.Rank)
		}
	}
}

func TestTreapIndex_BottomOfTwoGetsRankTwo(t *testing.T) {
	ctx := context.Background()
	idx := NewTreapIndex()

	_ = idx.Upsert(ctx, "a", 0.2)
	_ = idx.Upsert(ctx, "b", 0.8)

	bottom, err := idx.RangeAsc(ctx, 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bottom) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(bottom))
	}
	if bottom[0].RestaurantID != "a" {
		t.Errorf("expected worst restaurant a, got %s", bottom[0].RestaurantID)
	}
	if bottom[0].Rank != 2 {
		t.Errorf("worst of two must report global rank 2, got %d", bottom[0].Rank)
	}
}

func TestTreapIndex_RankMatchesRangePosition(t *testing.T) {
	ctx := context.Background()
	idx := NewTreapIndex(WithPrioritySeed(11))

	scores := map[string]float64{
		"a": 0.33, "b": -0.1, "c": 0.9, "d": 0.33, "e": 0.0,
	}
	for id, s := range scores {
		_ = idx.Upsert(ctx, id, s)
	}

	entries, err := idx.RangeDesc(ctx, 0, len(scores))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, e := range entries {
		got, err := idx.Rank(ctx, e.RestaurantID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Rank != e.Rank {
			t.Errorf("id %s: Rank() = %d, range position = %d", e.RestaurantID, got.Rank, e.Rank)
		}
		if got.Score != e.Score {
			t.Errorf("id %s: Rank() score %f != range score %f", e.RestaurantID, got.Score, e.Score)
		}
	}
}

func TestTreapIndex_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	idx := NewTreapIndex()

	_ = idx.Upsert(ctx, "stale", 0.5)
	_ = idx.Upsert(ctx, "kept", 0.2)

	if err := idx.ReplaceAll(ctx, map[string]float64{"kept": 0.7, "fresh": -0.3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := idx.Score(ctx, "stale"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected stale entry gone, got %v", err)
	}
	score, err := idx.Score(ctx, "kept")
	if err != nil || score != 0.7 {
		t.Errorf("expected kept=0.7, got %f, %v", score, err)
	}
	if count := idx.Count(ctx); count != 2 {
		t.Errorf("expected 2 entries, got %d", count)
	}
}

func TestTreapIndex_ConcurrentDistinctIDs(t *testing.T) {
	ctx := context.Background()
	idx := NewTreapIndex()

	const goroutines = 16
	const perGoroutine = 50

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				id := fmt.Sprintf("g%02d-r%02d", g, i)
				_ = idx.Upsert(ctx, id, float64(i%100)/100)
			}
		}(g)
	}
	wg.Wait()

	if count := idx.Count(ctx); count != goroutines*perGoroutine {
		t.Fatalf("expected %d entries, got %d", goroutines*perGoroutine, count)
	}

	entries, err := idx.RangeDesc(ctx, 0, goroutines*perGoroutine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sort.SliceIsSorted(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].RestaurantID < entries[j].RestaurantID
	}) {
		t.Error("range output is not in leaderboard order")
	}
}
