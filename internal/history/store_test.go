package history

import "testing"

func TestStoreMintsSessionID(t *testing.T) {
	store, err := NewStore(4, 10)
	if err != nil {
		t.Fatal(err)
	}

	s := store.Get("")
	if s.ID == "" {
		t.Fatal("expected generated session ID")
	}
	again := store.Get(s.ID)
	if again != s {
		t.Error("Get with same ID should return the same session")
	}
}

func TestStoreEvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	store, err := NewStore(2, 10, WithEvictionCallback(func(id string) {
		evicted = append(evicted, id)
	}))
	if err != nil {
		t.Fatal(err)
	}

	a := store.Get("a")
	a.Ring.Append(RoleUser, "kept?")
	store.Get("b")
	store.Get("c")

	if len(evicted) != 1 || evicted[0] != "a" {
		t.Fatalf("evicted = %v, want [a]", evicted)
	}
	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}

	// Re-fetching a resurrects it with an empty log.
	fresh := store.Get("a")
	if fresh.Ring.Len() != 0 {
		t.Errorf("resurrected session retained %d turns, want 0", fresh.Ring.Len())
	}
}

func TestSessionInFlightGuard(t *testing.T) {
	store, err := NewStore(4, 10)
	if err != nil {
		t.Fatal(err)
	}
	s := store.Get("busy")

	if !s.Begin() {
		t.Fatal("first Begin should succeed")
	}
	if s.Begin() {
		t.Fatal("second Begin should fail while in flight")
	}
	s.End()
	if !s.Begin() {
		t.Error("Begin after End should succeed")
	}
}

func TestStoreReset(t *testing.T) {
	store, err := NewStore(4, 10)
	if err != nil {
		t.Fatal(err)
	}
	s := store.Get("gone")
	s.Ring.Append(RoleUser, "hello")
	store.Reset("gone")

	if store.Get("gone").Ring.Len() != 0 {
		t.Error("session should be empty after Reset")
	}
}
