package builtins

import (
	"testing"

	"avmcore/pkg/config"
	"avmcore/pkg/vm"
)

func newInitializedVM(t *testing.T, swf uint8) *vm.VM {
	t.Helper()
	cfg := config.Default()
	if swf != 0 {
		cfg.SWFVersion = swf
	}
	machine, err := vm.New(cfg)
	if err != nil {
		t.Fatalf("vm.New: %v", err)
	}
	if err := Initialize(machine); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return machine
}

func run(t *testing.T, machine *vm.VM, fn func(act *vm.Activation)) {
	t.Helper()
	if err := machine.Run(func(act *vm.Activation) error {
		fn(act)
		return nil
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

// global resolves a dotted path from the global object.
func global(t *testing.T, act *vm.Activation, path ...string) vm.Value {
	t.Helper()
	current := act.Realm().Global.Value()
	for _, name := range path {
		if !current.IsObject() {
			t.Fatalf("%v: %q is not reachable", path, name)
		}
		v, err := current.AsObject().Get(act, name)
		if err != nil {
			t.Fatalf("get %q: %v", name, err)
		}
		current = v
	}
	return current
}

func callMethod(t *testing.T, act *vm.Activation, obj vm.Object, name string, args ...vm.Value) vm.Value {
	t.Helper()
	v, err := act.CallMethod(obj, name, args)
	if err != nil {
		t.Fatalf("%s(): %v", name, err)
	}
	return v
}

func getNumber(t *testing.T, act *vm.Activation, obj vm.Object, name string) float64 {
	t.Helper()
	v, err := obj.Get(act, name)
	if err != nil {
		t.Fatalf("get %q: %v", name, err)
	}
	n, err := act.ToNumber(v)
	if err != nil {
		t.Fatalf("to number %q: %v", name, err)
	}
	return n
}
