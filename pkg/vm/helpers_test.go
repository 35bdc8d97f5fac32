package vm

import (
	"testing"

	"avmcore/pkg/config"
)

// newTestVM builds a VM with bare root prototypes and a global object, and
// automatic collection off unless the caller turns it on.
func newTestVM(t *testing.T, tweak func(cfg *config.Config)) *VM {
	t.Helper()
	cfg := config.Default()
	cfg.GCThreshold = 0
	if tweak != nil {
		tweak(&cfg)
	}
	v, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = v.Mutate(func(mc *Mutation) error {
		objectProto := NewObject(mc, Object{})
		v.realm.ObjectPrototype = objectProto
		v.realm.FunctionPrototype = NewObject(mc, objectProto)
		v.realm.Global = NewObject(mc, objectProto)
		return nil
	})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return v
}

// run executes fn in a root activation and fails the test on error.
func run(t *testing.T, v *VM, fn func(act *Activation)) {
	t.Helper()
	if err := v.Run(func(act *Activation) error {
		fn(act)
		return nil
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func newPlain(act *Activation) Object {
	return NewObject(act.Mutation(), act.Realm().ObjectPrototype)
}

func newNative(act *Activation, name string, fn NativeFunction) Object {
	return NewFunction(act.Mutation(), name, fn, act.Realm().FunctionPrototype)
}

func mustGet(t *testing.T, act *Activation, o Object, name string) Value {
	t.Helper()
	v, err := o.Get(act, name)
	if err != nil {
		t.Fatalf("Get(%q): %v", name, err)
	}
	return v
}

func mustSet(t *testing.T, act *Activation, o Object, name string, v Value) {
	t.Helper()
	if err := o.Set(act, name, v); err != nil {
		t.Fatalf("Set(%q): %v", name, err)
	}
}

func expectNumber(t *testing.T, got Value, want float64) {
	t.Helper()
	if !got.IsNumber() || got.AsFloat() != want {
		t.Errorf("got %s, want %v", got.Inspect(), want)
	}
}
