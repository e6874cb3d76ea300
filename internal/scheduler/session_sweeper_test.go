package scheduler

import (
	"context"
	"testing"
	"time"

	"tidewatch/internal/logger"
	"tidewatch/internal/session"
)

func TestSessionSweeper_Sweep(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	// One durable session and two already past their TTL.
	if err := store.Set(ctx, "alive", session.Record{UserID: "a"}, 24*time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "dead-1", session.Record{UserID: "b"}, -time.Second); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "dead-2", session.Record{UserID: "c"}, -time.Minute); err != nil {
		t.Fatal(err)
	}

	sw := NewSessionSweeper(store, logger.Nop(), time.Hour)
	sw.Sweep()

	if store.Len() != 1 {
		t.Errorf("expected 1 session after sweep, got %d", store.Len())
	}
	if _, ok, _ := store.Get(ctx, "alive"); !ok {
		t.Error("durable session was incorrectly removed")
	}
}

func TestSessionSweeper_StartRunsImmediately(t *testing.T) {
	store := session.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := store.Set(ctx, "dead", session.Record{UserID: "a"}, -time.Second); err != nil {
		t.Fatal(err)
	}

	sw := NewSessionSweeper(store, logger.Nop(), time.Hour)
	sw.Start(ctx)
	defer sw.Stop()

	if store.Len() != 0 {
		t.Errorf("Start should sweep immediately, %d sessions remain", store.Len())
	}
}
