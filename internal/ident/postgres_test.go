package ident

import (
	"context"
	"fmt"
	"testing"

	tcpg "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"
)

// startPostgres starts a PostgreSQL testcontainer, returns DSN + cleanup func.
func startPostgres(ctx context.Context) (string, func(), error) {
	container, err := tcpg.Run(ctx, "postgres:16-alpine",
		tcpg.WithDatabase("crossgate_test"),
		tcpg.WithUsername("test"),
		tcpg.WithPassword("test"),
		tcpg.BasicWaitStrategies(),
	)
	if err != nil {
		return "", nil, fmt.Errorf("start postgres: %w", err)
	}
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return "", nil, fmt.Errorf("pg connection string: %w", err)
	}
	cleanup := func() { container.Terminate(ctx) }
	return dsn, cleanup, nil
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in -short mode")
	}
	ctx := context.Background()

	dsn, cleanup, err := startPostgres(ctx)
	if err != nil {
		t.Fatalf("startPostgres: %v", err)
	}
	defer cleanup()

	store, err := NewPostgresStore(dsn, zap.NewNop())
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	r := NewResolver(store, zap.NewNop())
	id, err := r.Resolve(ctx, "demo", "persisted-user")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// A fresh resolver over the same table must see the same row.
	again, err := NewResolver(store, zap.NewNop()).Resolve(ctx, "demo", "persisted-user")
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
	if back.Str != "persisted-user" {
		t.Errorf("reverse lookup = %q", back.Str)
	}

	if err := store.Insert(ctx, "demo", "persisted-user", 1); err != ErrConflict {
		t.Errorf("duplicate source insert = %v, want ErrConflict", err)
	}
	if err := store.Insert(ctx, "demo", "someone-else", id.Num); err != ErrConflict {
		t.Errorf("duplicate surrogate insert = %v, want ErrConflict", err)
	}
}
