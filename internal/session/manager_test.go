package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeCorrupt(t *testing.T, dir, id string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, id+".json"), []byte("{truncated"), 0600); err != nil {
		t.Fatalf("write corrupt record: %v", err)
	}
}

func TestManagerOpenCaches(t *testing.T) {
	m := NewManager(setupTestStore(t), testLogger())
	a := m.Open("ctx_a")
	if m.Open("ctx_a") != a {
		t.Error("Open should return the cached store")
	}
	if m.Open("ctx_b") == a {
		t.Error("different contexts must get different stores")
	}
	m.Forget("ctx_a")
	if m.Open("ctx_a") == a {
		t.Error("Forget should drop the cached store")
	}
}

func TestManagerNewContextID(t *testing.T) {
	m := NewManager(setupTestStore(t), testLogger())
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := m.NewContextID()
		if err != nil {
			t.Fatalf("NewContextID: %v", err)
		}
		if !strings.HasPrefix(id, contextIDPrefix) || !ValidContextID(id) {
			t.Errorf("id %q is not a valid context id", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestValidContextID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"ctx_" + strings.Repeat("ab", 24), true},
		{"", false},
		{"ctx_", false},
		{"ctx_x", false},
		{"junk", false},
		{strings.Repeat("ab", 24), false},
		{"ctx_" + strings.Repeat("zz", 24), false},
		{"ctx_" + strings.Repeat("ab", 25), false},
		{"ctx_../../" + strings.Repeat("a", 42), false},
	}
	for _, tt := range tests {
		if got := ValidContextID(tt.id); got != tt.want {
			t.Errorf("ValidContextID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestManagerInitDispose(t *testing.T) {
	backend := setupTestStore(t)
	m := NewManager(backend, testLogger(), WithCleanupInterval(10*time.Millisecond), WithTTL(time.Hour))
	ctx := context.Background()

	if err := m.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := m.Init(ctx); err == nil {
		t.Error("second Init should fail")
	}

	// Seed an expired record and wait for the sweep to remove it.
	s := m.Open("ctx_old")
	if err := s.Login(ctx, alice(), "tok"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	rec, _ := backend.GetSession(ctx, "ctx_old")
	rec.ExpiresAt = time.Now().Add(-time.Hour)
	if err := backend.SaveSession(ctx, rec); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		n, err := backend.CountSessions(ctx)
		if err != nil {
			t.Fatalf("CountSessions: %v", err)
		}
		if n == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expired record was not swept")
		}
		time.Sleep(10 * time.Millisecond)
	}

	m.Dispose()
	m.Dispose()
}

func TestManagerSweepDropsIdleStores(t *testing.T) {
	m := NewManager(setupTestStore(t), testLogger())
	ctx := context.Background()

	idle := m.Open("ctx_idle")
	live := m.Open("ctx_live")
	if err := live.Login(ctx, alice(), "tok"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	watched := m.Open("ctx_watched")
	_, unsubscribe := watched.Subscribe()
	defer unsubscribe()

	m.sweep(ctx)

	if m.Open("ctx_idle") == idle {
		t.Error("idle logged-out store should be evicted")
	}
	if m.Open("ctx_live") != live {
		t.Error("authenticated store should be kept")
	}
	if m.Open("ctx_watched") != watched {
		t.Error("store with subscribers should be kept")
	}
}
