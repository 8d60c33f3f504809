package breaker

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestFlag(t *testing.T) *FlagStore {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "circuit_breaker"))
}

func TestInactiveByDefault(t *testing.T) {
	f := newTestFlag(t)
	if f.IsActive() {
		t.Fatal("fresh flag store should be inactive")
	}

	s, err := f.Read()
	if err != nil {
		t.Fatal(err)
	}
	if s != nil {
		t.Fatal("Read on inactive breaker should return nil")
	}
}

func TestActivateRoundTrip(t *testing.T) {
	f := newTestFlag(t)
	at := time.Date(2025, 6, 4, 9, 30, 0, 0, time.UTC)

	err := f.Activate(State{
		PrimaryProject:  "Launch v2",
		ExternalContact: "Sam (555-0101)",
		ActivatedAt:     at,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !f.IsActive() {
		t.Fatal("breaker should be active after Activate")
	}

	s, err := f.Read()
	if err != nil {
		t.Fatal(err)
	}
	if s == nil {
		t.Fatal("expected state")
	}
	if s.PrimaryProject != "Launch v2" || s.ExternalContact != "Sam (555-0101)" {
		t.Fatalf("unexpected state: %+v", s)
	}
	if !s.ActivatedAt.Equal(at) {
		t.Fatalf("expected %s, got %s", at, s.ActivatedAt)
	}
}

func TestActivateTwice(t *testing.T) {
	f := newTestFlag(t)
	if err := f.Activate(State{PrimaryProject: "A", ActivatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if err := f.Activate(State{PrimaryProject: "B", ActivatedAt: time.Now()}); err == nil {
		t.Fatal("second activation must fail")
	}
	s, _ := f.Read()
	if s.PrimaryProject != "A" {
		t.Fatal("original state must survive a rejected activation")
	}
}

func TestClear(t *testing.T) {
	f := newTestFlag(t)
	f.Activate(State{PrimaryProject: "A", ActivatedAt: time.Now()})

	if err := f.Clear(); err != nil {
		t.Fatal(err)
	}
	if f.IsActive() {
		t.Fatal("breaker should be inactive after Clear")
	}
}

func TestClearWhenInactive(t *testing.T) {
	f := newTestFlag(t)
	if err := f.Clear(); err != nil {
		t.Fatalf("clearing an inactive breaker is a no-op, got %v", err)
	}
}

func TestActivateCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	f := New(filepath.Join(dir, "nested", "circuit_breaker"))
	if err := f.Activate(State{PrimaryProject: "A", ActivatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if !f.IsActive() {
		t.Fatal("expected active")
	}
}
