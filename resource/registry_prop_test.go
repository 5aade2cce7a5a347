package resource

import (
	"testing"

	"pgregory.net/rapid"
)

// For any interleaving of inserts and erases, Lookup(h) succeeds iff h was
// inserted and not yet erased.
func TestProperty_LookupMatchesModel(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		reg := NewRegistry[int]()
		model := make(map[Handle]int)
		var issued []Handle

		steps := rapid.IntRange(1, 200).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			if len(issued) == 0 || rapid.Bool().Draw(rt, "insert") {
				v := rapid.Int().Draw(rt, "value")
				h := reg.Insert(v)
				if _, dup := model[h]; dup {
					rt.Fatalf("handle %d issued twice", h)
				}
				model[h] = v
				issued = append(issued, h)
			} else {
				h := issued[rapid.IntRange(0, len(issued)-1).Draw(rt, "victim")]
				_, live := model[h]
				if got := reg.Erase(h); got != live {
					rt.Fatalf("Erase(%d) = %v, model says %v", h, got, live)
				}
				delete(model, h)
			}
		}

		for _, h := range issued {
			want, live := model[h]
			got, ok := reg.Lookup(h)
			if ok != live {
				rt.Fatalf("Lookup(%d) ok = %v, model says %v", h, ok, live)
			}
			if live && got != want {
				rt.Fatalf("Lookup(%d) = %d, want %d", h, got, want)
			}
		}
		if reg.Len() != len(model) {
			rt.Fatalf("Len() = %d, model has %d", reg.Len(), len(model))
		}
	})
}

// Handles climb strictly, so no interleaving can ever observe reuse.
func TestProperty_HandlesStrictlyIncrease(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		reg := NewRegistry[struct{}]()
		var last Handle

		steps := rapid.IntRange(1, 100).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			h := reg.Insert(struct{}{})
			if h <= last {
				rt.Fatalf("handle %d issued after %d", h, last)
			}
			last = h
			if rapid.Bool().Draw(rt, "erase") {
				reg.Erase(h)
			}
		}
	})
}
