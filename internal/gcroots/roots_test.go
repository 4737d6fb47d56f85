package gcroots

import (
	"sync"
	"testing"
)

func TestSetRegisterAndIterate(t *testing.T) {
	s := NewSet()
	h1 := s.RegisterRoot(0x1000)
	h2 := s.RegisterRoot(0x2000)
	_ = h2

	var seen []uintptr
	s.IterateRoots(func(ref uintptr) { seen = append(seen, ref) })

	if len(seen) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(seen))
	}

	s.UnregisterRoot(h1)
	seen = nil
	s.IterateRoots(func(ref uintptr) { seen = append(seen, ref) })
	if len(seen) != 1 || seen[0] != 0x2000 {
		t.Fatalf("expected only 0x2000 left, got %v", seen)
	}
}

func TestSetIterateSkipsNullSlots(t *testing.T) {
	s := NewSet()
	h := s.RegisterRoot(0x3000)
	s.UpdateRoot(h, 0)

	called := false
	s.IterateRoots(func(ref uintptr) { called = true })
	if called {
		t.Fatal("expected null root slot to be skipped")
	}
}

func TestSetUnregisterUnknownHandleIsNoop(t *testing.T) {
	s := NewSet()
	s.UnregisterRoot(Handle(9999)) // must not panic
	if s.Len() != 0 {
		t.Fatalf("expected empty set, got %d", s.Len())
	}
}

func TestSetConcurrentRegistration(t *testing.T) {
	s := NewSet()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.RegisterRoot(uintptr(i + 1))
		}(i)
	}
	wg.Wait()

	if s.Len() != 50 {
		t.Fatalf("expected 50 registered roots, got %d", s.Len())
	}
}
