package resource

import (
	"sync"
	"testing"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnRegistryEvent(e Event) {
	o.events = append(o.events, e)
}

func TestAllocator_StartsAtOne(t *testing.T) {
	a := NewAllocator()

	if h := a.Issue(); h != 1 {
		t.Fatalf("first handle = %d, want 1", h)
	}
	if h := a.Issue(); h != 2 {
		t.Fatalf("second handle = %d, want 2", h)
	}
}

func TestAllocator_Concurrent(t *testing.T) {
	const workers = 8
	const perWorker = 1000

	a := NewAllocator()
	var wg sync.WaitGroup
	results := make([][]Handle, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			out := make([]Handle, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				out = append(out, a.Issue())
			}
			results[w] = out
		}(w)
	}
	wg.Wait()

	seen := make(map[Handle]bool, workers*perWorker)
	for _, out := range results {
		for _, h := range out {
			if h == 0 {
				t.Fatal("allocator issued handle 0")
			}
			if seen[h] {
				t.Fatalf("handle %d issued twice", h)
			}
			seen[h] = true
		}
	}
	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d distinct handles, got %d", workers*perWorker, len(seen))
	}
}

func TestRegistry_Basic(t *testing.T) {
	reg := NewRegistry[string]()

	h := reg.Insert("cube")
	if h == 0 {
		t.Fatal("expected non-zero handle")
	}

	val, ok := reg.Lookup(h)
	if !ok {
		t.Fatal("Lookup failed")
	}
	if val != "cube" {
		t.Fatalf("expected 'cube', got %q", val)
	}

	if !reg.Erase(h) {
		t.Fatal("Erase should report the entry existed")
	}
	if reg.Len() != 0 {
		t.Fatal("expected Len() == 0 after Erase")
	}

	if _, ok := reg.Lookup(h); ok {
		t.Fatal("erased handle should miss")
	}
}

func TestRegistry_EraseTwice(t *testing.T) {
	reg := NewRegistry[int]()

	h := reg.Insert(1)
	if !reg.Erase(h) {
		t.Fatal("first Erase should succeed")
	}
	if reg.Erase(h) {
		t.Fatal("second Erase of the same handle should report missing")
	}
}

func TestRegistry_NeverIssuedHandleMisses(t *testing.T) {
	reg := NewRegistry[int]()
	reg.Insert(1)

	if _, ok := reg.Lookup(0); ok {
		t.Fatal("handle 0 must never resolve")
	}
	if _, ok := reg.Lookup(999); ok {
		t.Fatal("never-issued handle must miss")
	}
}

func TestRegistry_NoHandleReuse(t *testing.T) {
	reg := NewRegistry[int]()

	first := reg.Insert(1)
	reg.Erase(first)
	second := reg.Insert(2)

	if second == first {
		t.Fatal("erased handle was reused")
	}
	if _, ok := reg.Lookup(first); ok {
		t.Fatal("erased handle resolved after a new insert")
	}
}

func TestRegistry_Observer(t *testing.T) {
	reg := NewRegistry[string]()
	obs := &testObserver{}
	reg.Subscribe(obs)

	h := reg.Insert("a")
	if len(obs.events) != 1 || obs.events[0].Type != EventInserted {
		t.Fatalf("expected one EventInserted, got %v", obs.events)
	}
	if obs.events[0].Handle != h {
		t.Fatal("wrong handle in event")
	}

	reg.Erase(h)
	if len(obs.events) != 2 || obs.events[1].Type != EventErased {
		t.Fatalf("expected EventErased, got %v", obs.events)
	}

	// Failed erase emits nothing.
	reg.Erase(h)
	if len(obs.events) != 2 {
		t.Fatal("failed Erase must not notify")
	}

	reg.Unsubscribe(obs)
	reg.Insert("b")
	if len(obs.events) != 2 {
		t.Fatal("should not receive events after Unsubscribe")
	}
}

func TestRegistry_Clear(t *testing.T) {
	reg := NewRegistry[int]()
	reg.Insert(1)
	reg.Insert(2)
	reg.Insert(3)

	reg.Clear()
	if reg.Len() != 0 {
		t.Fatal("expected Len() == 0 after Clear")
	}

	// Handles issued after Clear keep climbing.
	if h := reg.Insert(4); h <= 3 {
		t.Fatalf("handle %d after Clear overlaps retired range", h)
	}
}

func TestRegistry_Each(t *testing.T) {
	reg := NewRegistry[int]()
	reg.Insert(10)
	reg.Insert(20)

	count := 0
	reg.Each(func(h Handle, v int) bool {
		count++
		return true
	})
	if count != 2 {
		t.Fatalf("Each visited %d entries, want 2", count)
	}

	count = 0
	reg.Each(func(h Handle, v int) bool {
		count++
		return false
	})
	if count != 1 {
		t.Fatalf("Each should stop when fn returns false, visited %d", count)
	}
}

func TestRegistry_ConcurrentInsertErase(t *testing.T) {
	const workers = 8
	const perWorker = 500

	reg := NewRegistry[int]()
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				h := reg.Insert(w)
				if v, ok := reg.Lookup(h); !ok || v != w {
					t.Errorf("lost entry %d for worker %d", h, w)
					return
				}
				if !reg.Erase(h) {
					t.Errorf("erase of own handle %d failed", h)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, Len() = %d", reg.Len())
	}
}
