package ident

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func TestNumericPassthrough(t *testing.T) {
	store := &countingStore{Store: NewMemoryStore()}
	r := NewResolver(store, zap.NewNop())

	id, err := r.Resolve(context.Background(), "qq", "42")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.Num != 42 || id.Str != "42" {
		t.Errorf("id = %+v, want passthrough 42", id)
	}
	if store.inserts != 0 {
		t.Errorf("numeric native caused %d storage writes", store.inserts)
	}
}

func TestResolveStable(t *testing.T) {
	r := NewResolver(NewMemoryStore(), zap.NewNop())
	ctx := context.Background()

	first, err := r.Resolve(ctx, "demo", "user-abc")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if first.Num < surrogateMin || first.Num >= surrogateMax {
		t.Errorf("surrogate %d outside draw range", first.Num)
	}

	second, err := r.Resolve(ctx, "demo", "user-abc")
	if err != nil {
		t.Fatalf("Resolve again: %v", err)
	}
	if second.Num != first.Num {
		t.Errorf("surrogate changed across calls: %d then %d", first.Num, second.Num)
	}

	back, err := r.ResolveNumber(ctx, "demo", first.Num)
	if err != nil {
		t.Fatalf("ResolveNumber: %v", err)
	}
	if back.Str != "user-abc" {
		t.Errorf("reverse lookup = %q, want user-abc", back.Str)
	}
}

func TestResolvePlatformScoped(t *testing.T) {
	r := NewResolver(NewMemoryStore(), zap.NewNop())
	ctx := context.Background()

	a, _ := r.Resolve(ctx, "pa", "same-name")
	b, _ := r.Resolve(ctx, "pb", "same-name")
	if a.Num == b.Num {
		t.Error("distinct platforms shared a surrogate for the same source")
	}
}

func TestResolveNumberUnknownIsNumericNative(t *testing.T) {
	r := NewResolver(NewMemoryStore(), zap.NewNop())
	id, err := r.ResolveNumber(context.Background(), "demo", 12345)
	if err != nil {
		t.Fatalf("ResolveNumber: %v", err)
	}
	if id.Str != "12345" || id.Num != 12345 {
		t.Errorf("unknown number = %+v, want numeric-native 12345", id)
	}
}

func TestConcurrentCreateMintsOneSurrogate(t *testing.T) {
	r := NewResolver(NewMemoryStore(), zap.NewNop())
	ctx := context.Background()

	const callers = 16
	results := make([]int64, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := r.Resolve(ctx, "demo", "hot-key")
			if err != nil {
				t.Errorf("Resolve: %v", err)
				return
			}
			results[i] = id.Num
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		if results[i] != results[0] {
			t.Fatalf("caller %d got %d, caller 0 got %d", i, results[i], results[0])
		}
	}
}

func TestCreateRedrawsOnSurrogateConflict(t *testing.T) {
	store := &conflictingStore{Store: NewMemoryStore(), conflicts: 3}
	r := NewResolver(store, zap.NewNop())

	id, err := r.Resolve(context.Background(), "demo", "poor-luck")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.Num == 0 {
		t.Error("no surrogate allocated after redraws")
	}
	if store.inserts != 4 {
		t.Errorf("inserts = %d, want 3 conflicts + 1 success", store.inserts)
	}
}

func TestCreateSurfacesStorageFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	r := NewResolver(&failingStore{err: boom}, zap.NewNop())

	_, err := r.Resolve(context.Background(), "demo", "whatever")
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped storage failure", err)
	}
}

// countingStore counts Insert calls on top of a real store.
type countingStore struct {
	Store
	inserts int
}

func (s *countingStore) Insert(ctx context.Context, platform, source string, num int64) error {
	s.inserts++
	return s.Store.Insert(ctx, platform, source, num)
}

// conflictingStore rejects the first n inserts as surrogate collisions.
type conflictingStore struct {
	Store
	conflicts int
	inserts   int
}

func (s *conflictingStore) Insert(ctx context.Context, platform, source string, num int64) error {
	s.inserts++
	if s.inserts <= s.conflicts {
		return ErrConflict
	}
	return s.Store.Insert(ctx, platform, source, num)
}

type failingStore struct{ err error }

func (s *failingStore) BySource(context.Context, string, string) (int64, bool, error) {
	return 0, false, s.err
}
func (s *failingStore) ByNumber(context.Context, string, int64) (string, bool, error) {
	return "", false, s.err
}
func (s *failingStore) Insert(context.Context, string, string, int64) error { return s.err }
