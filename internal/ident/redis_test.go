package ident

import (
	"context"
	"fmt"
	"testing"

	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.uber.org/zap"
)

// startRedis starts a Redis testcontainer, returns URL + cleanup func.
func startRedis(ctx context.Context) (string, func(), error) {
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		return "", nil, fmt.Errorf("start redis: %w", err)
	}
	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		container.Terminate(ctx)
		return "", nil, fmt.Errorf("redis endpoint: %w", err)
	}
	url := "redis://" + endpoint
	cleanup := func() { container.Terminate(ctx) }
	return url, cleanup, nil
}

func TestRedisStoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in -short mode")
	}
	ctx := context.Background()

	url, cleanup, err := startRedis(ctx)
	if err != nil {
		t.Fatalf("startRedis: %v", err)
	}
	defer cleanup()

	store, err := NewRedisStore(url, zap.NewNop())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer store.Close()

	r := NewResolver(store, zap.NewNop())
	id, err := r.Resolve(ctx, "demo", "cached-user")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// A fresh resolver over the same hashes must see the same pair.
	again, err := NewResolver(store, zap.NewNop()).Resolve(ctx, "demo", "cached-user")
	if err != nil {
		t.Fatalf("Resolve (second resolver): %v", err)
	}
	if again.Num != id.Num {
		t.Errorf("surrogate not persisted: %d then %d", id.Num, again.Num)
	}

	back, err := r.ResolveNumber(ctx, "demo", id.Num)
	if err != nil {
		t.Fatalf("ResolveNumber: %v", err)
	}
	if back.Str != "cached-user" {
		t.Errorf("reverse lookup = %q", back.Str)
	}
}

func TestRedisStoreInsertConflicts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in -short mode")
	}
	ctx := context.Background()

	url, cleanup, err := startRedis(ctx)
	if err != nil {
		t.Fatalf("startRedis: %v", err)
	}
	defer cleanup()

	store, err := NewRedisStore(url, zap.NewNop())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer store.Close()

	if err := store.Insert(ctx, "demo", "alice", 100); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	// A taken surrogate loses the claim.
	if err := store.Insert(ctx, "demo", "bob", 100); err != ErrConflict {
		t.Errorf("duplicate surrogate insert = %v, want ErrConflict", err)
	}
	// A taken source loses too, and must release the surrogate it had
	// already claimed so a later draw can use it.
	if err := store.Insert(ctx, "demo", "alice", 200); err != ErrConflict {
		t.Errorf("duplicate source insert = %v, want ErrConflict", err)
	}
	if _, taken, err := store.ByNumber(ctx, "demo", 200); err != nil || taken {
		t.Errorf("surrogate 200 not released after lost source claim (taken=%v, err=%v)", taken, err)
	}

	// The losing writes changed nothing.
	num, ok, err := store.BySource(ctx, "demo", "alice")
	if err != nil || !ok || num != 100 {
		t.Errorf("alice = (%d, %v, %v), want (100, true, nil)", num, ok, err)
	}
	source, ok, err := store.ByNumber(ctx, "demo", 100)
	if err != nil || !ok || source != "alice" {
		t.Errorf("surrogate 100 = (%q, %v, %v), want (alice, true, nil)", source, ok, err)
	}

	// Platforms are separate namespaces: the same pair is free elsewhere.
	if err := store.Insert(ctx, "other", "alice", 100); err != nil {
		t.Errorf("cross-platform insert: %v", err)
	}
}
