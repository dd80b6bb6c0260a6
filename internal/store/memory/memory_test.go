package memory

import (
	"context"
	"testing"

	"cuentas/internal/store"
	"cuentas/internal/store/storetest"
)

type seqIDs struct{ n int }

func (g *seqIDs) Generate() string {
	g.n++
	return "mem-" + string(rune('a'+g.n-1))
}

func TestMemoryStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return New(nil)
	})
}

func TestMemoryStoreUsesIDGenerator(t *testing.T) {
	s := New(&seqIDs{})
	id, err := s.CreateAccount(context.Background(), storetest.SampleAccount("BBVA", 1))
	if err != nil || id != "mem-a" {
		t.Fatalf("unexpected create: id=%q err=%v", id, err)
	}
}

func TestMemoryStoreListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	if _, err := s.CreateAccount(ctx, storetest.SampleAccount("BBVA", 1)); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, _ := s.ListAccounts(ctx)
	list[0].Bank = "mutated"

	again, _ := s.ListAccounts(ctx)
	if again[0].Bank != "BBVA" {
		t.Fatalf("list must not expose internal storage, got %q", again[0].Bank)
	}
}
