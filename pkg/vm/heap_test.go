package vm

import (
	"strings"
	"testing"

	"avmcore/pkg/config"
)

func expectPanic(t *testing.T, substr string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", substr)
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, substr) {
			t.Fatalf("panic %v does not mention %q", r, substr)
		}
	}()
	fn()
}

func TestCollectReclaimsUnreachableCycle(t *testing.T) {
	v := newTestVM(t, nil)
	h := v.Heap()
	base := h.Stats().Live

	var a, b Object
	err := v.Mutate(func(mc *Mutation) error {
		a = NewObject(mc, Object{})
		b = NewObject(mc, a)
		a.SetPrototype(mc, b)
		a.ForceSetValue(mc, "peer", b.Value(), NoAttributes)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if h.Stats().Live != base+2 {
		t.Fatalf("live = %d, want %d", h.Stats().Live, base+2)
	}

	stats := h.Collect()
	if stats.LastReclaimed != 2 {
		t.Errorf("reclaimed %d, want 2", stats.LastReclaimed)
	}
	if h.Live(a) || h.Live(b) {
		t.Error("cycle survived collection")
	}
	if stats.Live != base {
		t.Errorf("live after collect = %d, want %d", stats.Live, base)
	}
}

func TestCollectKeepsRootedGraph(t *testing.T) {
	v := newTestVM(t, nil)
	var child, accessor Object
	run(t, v, func(act *Activation) {
		child = newPlain(act)
		accessor = newNative(act, "get", func(act *Activation, this Object, args []Value) (Value, error) {
			return Undefined, nil
		})
		holder := newPlain(act)
		holder.ForceSetValue(act.Mutation(), "child", child.Value(), NoAttributes)
		holder.ForceSetAccessor(act.Mutation(), "acc", accessor, Object{}, NoAttributes)
		mustSet(t, act, act.Realm().Global, "holder", holder.Value())
	})

	v.Heap().Collect()
	if !v.Heap().Live(child) || !v.Heap().Live(accessor) {
		t.Fatal("objects reachable from the global object were collected")
	}
}

func TestPinKeepsObjectAlive(t *testing.T) {
	v := newTestVM(t, nil)
	h := v.Heap()
	var o Object
	_ = v.Mutate(func(mc *Mutation) error {
		o = NewObject(mc, Object{})
		return nil
	})
	h.Pin(o)
	h.Pin(o)
	h.Collect()
	if !h.Live(o) {
		t.Fatal("pinned object collected")
	}
	h.Unpin(o)
	h.Collect()
	if !h.Live(o) {
		t.Fatal("object still pinned once was collected")
	}
	h.Unpin(o)
	h.Collect()
	if h.Live(o) {
		t.Fatal("unpinned object survived")
	}
}

func TestStaleHandleAfterReuse(t *testing.T) {
	v := newTestVM(t, nil)
	h := v.Heap()
	var old Object
	_ = v.Mutate(func(mc *Mutation) error {
		old = NewObject(mc, Object{})
		return nil
	})
	h.Collect()

	var fresh Object
	_ = v.Mutate(func(mc *Mutation) error {
		fresh = NewObject(mc, Object{})
		return nil
	})
	if fresh.index != old.index {
		t.Fatalf("free slot not reused: %s vs %s", fresh, old)
	}
	if fresh == old {
		t.Fatal("reused slot must get a new generation")
	}
	expectPanic(t, "stale object handle", func() { old.Kind(h) })
}

func TestMutationOutsideScopePanics(t *testing.T) {
	v := newTestVM(t, nil)
	var leaked *Mutation
	var o Object
	_ = v.Mutate(func(mc *Mutation) error {
		leaked = mc
		o = NewObject(mc, Object{})
		return nil
	})
	if leaked.Active() {
		t.Fatal("capability still active after its scope")
	}
	expectPanic(t, "outside its scope", func() { NewObject(leaked, Object{}) })
	expectPanic(t, "outside its scope", func() { o.ForceSetValue(leaked, "x", True, NoAttributes) })
}

func TestScopesDoNotNest(t *testing.T) {
	v := newTestVM(t, nil)
	_ = v.Mutate(func(mc *Mutation) error {
		expectPanic(t, "already active", func() {
			_ = v.Mutate(func(*Mutation) error { return nil })
		})
		expectPanic(t, "inside a mutation scope", func() { v.Heap().Collect() })
		return nil
	})
}

func TestAutomaticCollectionAtThreshold(t *testing.T) {
	v := newTestVM(t, func(cfg *config.Config) { cfg.GCThreshold = 8 })
	h := v.Heap()
	before := h.Stats().Collections

	_ = v.Mutate(func(mc *Mutation) error {
		for i := 0; i < 3; i++ {
			NewObject(mc, Object{})
		}
		return nil
	})
	if h.Stats().Collections != before {
		t.Fatal("collected below threshold")
	}
	_ = v.Mutate(func(mc *Mutation) error {
		for i := 0; i < 8; i++ {
			NewObject(mc, Object{})
		}
		return nil
	})
	stats := h.Stats()
	if stats.Collections != before+1 {
		t.Fatalf("collections = %d, want %d", stats.Collections, before+1)
	}
	if stats.LastReclaimed != 11 {
		t.Errorf("reclaimed %d garbage objects, want 11", stats.LastReclaimed)
	}
}

func TestThrownValueSurvivesCollection(t *testing.T) {
	v := newTestVM(t, nil)
	var thrown Object
	err := v.Run(func(act *Activation) error {
		thrown = newPlain(act)
		return Throw(thrown.Value())
	})
	if _, ok := IsThrown(err); !ok {
		t.Fatalf("expected thrown error, got %v", err)
	}
	v.Heap().Collect()
	if !v.Heap().Live(thrown) {
		t.Fatal("last thrown value was collected")
	}
	if !v.LastThrown().StrictlyEquals(thrown.Value()) {
		t.Error("LastThrown does not report the value")
	}
}
