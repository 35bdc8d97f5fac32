package builtins

import (
	"testing"

	"avmcore/pkg/vm"
)

func TestObjectInitializer(t *testing.T) {
	// Test that ObjectInitializer implements the interface correctly
	var initializer BuiltinInitializer = &ObjectInitializer{}

	if initializer.Name() != "Object" {
		t.Errorf("Expected name 'Object', got %s", initializer.Name())
	}

	if initializer.Priority() != PriorityObject {
		t.Errorf("Expected priority %d, got %d", PriorityObject, initializer.Priority())
	}
}

func TestStandardInitializerOrder(t *testing.T) {
	inits := GetStandardInitializers()
	for i := 1; i < len(inits); i++ {
		if inits[i-1].Priority() > inits[i].Priority() {
			t.Errorf("%s (%d) runs before %s (%d)", inits[i-1].Name(), inits[i-1].Priority(), inits[i].Name(), inits[i].Priority())
		}
	}
	if inits[0].Name() != "Object" {
		t.Errorf("first initializer = %s", inits[0].Name())
	}
}

func TestInitializeTwiceFails(t *testing.T) {
	machine := newInitializedVM(t, 0)
	if err := Initialize(machine); err == nil {
		t.Error("second Initialize must fail")
	}
}

func TestRealmRegistry(t *testing.T) {
	machine := newInitializedVM(t, 0)
	want := []string{"BlurFilter", "Function", "Object"}
	got := machine.Realm().Classes()
	if len(got) != len(want) {
		t.Fatalf("classes = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("classes = %v, want %v", got, want)
		}
	}
	run(t, machine, func(act *vm.Activation) {
		entry, ok := act.Realm().Class("Object")
		if !ok || entry.Prototype != act.Realm().ObjectPrototype {
			t.Error("Object prototype not registered")
		}
		if !global(t, act, "Object").StrictlyEquals(entry.Constructor.Value()) {
			t.Error("global Object is not the registered constructor")
		}
		if act.Realm().Global.IsPropertyEnumerable(act, "Object") {
			t.Error("globals must be hidden")
		}
	})
}

func TestObjectPrototypeMethods(t *testing.T) {
	machine := newInitializedVM(t, 0)
	run(t, machine, func(act *vm.Activation) {
		obj, err := act.Construct(global(t, act, "Object"), nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := obj.Set(act, "a", vm.NumberValue(1)); err != nil {
			t.Fatal(err)
		}

		if s, _ := act.ToString(obj.Value()); s != "[object Object]" {
			t.Errorf("String(obj) = %q", s)
		}
		if v := callMethod(t, act, obj, "valueOf"); !v.StrictlyEquals(obj.Value()) {
			t.Error("valueOf must return this")
		}
		if !callMethod(t, act, obj, "hasOwnProperty", vm.NewString("a")).StrictlyEquals(vm.True) {
			t.Error("hasOwnProperty(a)")
		}
		if !callMethod(t, act, obj, "hasOwnProperty", vm.NewString("toString")).StrictlyEquals(vm.False) {
			t.Error("inherited methods are not own")
		}
		if !callMethod(t, act, obj, "isPropertyEnumerable", vm.NewString("a")).StrictlyEquals(vm.True) {
			t.Error("isPropertyEnumerable(a)")
		}
		proto := act.Realm().ObjectPrototype
		if !callMethod(t, act, proto, "isPrototypeOf", obj.Value()).StrictlyEquals(vm.True) {
			t.Error("Object.prototype.isPrototypeOf(obj)")
		}
		if !callMethod(t, act, obj, "isPrototypeOf", proto.Value()).StrictlyEquals(vm.False) {
			t.Error("obj.isPrototypeOf(Object.prototype)")
		}

		for _, name := range obj.EnumerateAll(act) {
			if name != "a" {
				t.Errorf("built-in %q is enumerable", name)
			}
		}
	})
}

func TestObjectAsFunction(t *testing.T) {
	machine := newInitializedVM(t, 0)
	run(t, machine, func(act *vm.Activation) {
		ctor := global(t, act, "Object")
		existing := vm.NewObject(act.Mutation(), act.Realm().ObjectPrototype)
		got, err := act.Call(ctor, vm.Object{}, []vm.Value{existing.Value()})
		if err != nil || !got.StrictlyEquals(existing.Value()) {
			t.Errorf("Object(obj) = %s, %v", got.Inspect(), err)
		}
		got, err = act.Call(ctor, vm.Object{}, nil)
		if err != nil || !got.IsObject() {
			t.Errorf("Object() = %s, %v", got.Inspect(), err)
		}
	})
}

func TestAddProperty(t *testing.T) {
	machine := newInitializedVM(t, 0)
	run(t, machine, func(act *vm.Activation) {
		obj := vm.NewObject(act.Mutation(), act.Realm().ObjectPrototype)
		store := vm.NumberValue(0)
		getter := vm.NewFunction(act.Mutation(), "get", func(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
			return store, nil
		}, act.Realm().FunctionPrototype)
		setter := vm.NewFunction(act.Mutation(), "set", func(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
			store = act.Arg(0)
			return vm.Undefined, nil
		}, act.Realm().FunctionPrototype)

		ok := callMethod(t, act, obj, "addProperty", vm.NewString("p"), getter.Value(), setter.Value())
		if !ok.StrictlyEquals(vm.True) {
			t.Fatal("addProperty failed")
		}
		if err := obj.Set(act, "p", vm.NumberValue(8)); err != nil {
			t.Fatal(err)
		}
		if getNumber(t, act, obj, "p") != 8 {
			t.Error("accessor pair not wired")
		}

		bad := []struct {
			name string
			args []vm.Value
		}{
			{"empty name", []vm.Value{vm.NewString(""), getter.Value(), vm.Null}},
			{"getter not a function", []vm.Value{vm.NewString("q"), vm.NumberValue(1), vm.Null}},
			{"setter not a function", []vm.Value{vm.NewString("q"), getter.Value(), vm.NumberValue(1)}},
			{"too few", []vm.Value{vm.NewString("q")}},
		}
		for _, tt := range bad {
			if got := callMethod(t, act, obj, "addProperty", tt.args...); !got.StrictlyEquals(vm.False) {
				t.Errorf("%s: addProperty = %s", tt.name, got.Inspect())
			}
		}

		if !callMethod(t, act, obj, "addProperty", vm.NewString("r"), getter.Value(), vm.Null).StrictlyEquals(vm.True) {
			t.Error("getter-only addProperty failed")
		}
		if err := obj.Set(act, "r", vm.NumberValue(1)); err != nil {
			t.Fatal(err)
		}
		if getNumber(t, act, obj, "r") != 8 {
			t.Error("write to a getter-only property reached the store")
		}
	})
}

func TestScriptTamperingIsHonored(t *testing.T) {
	machine := newInitializedVM(t, 0)
	run(t, machine, func(act *vm.Activation) {
		proto := act.Realm().ObjectPrototype
		replacement := vm.NewFunction(act.Mutation(), "toString", func(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
			return vm.NewString("tampered"), nil
		}, act.Realm().FunctionPrototype)
		if err := proto.Set(act, "toString", replacement.Value()); err != nil {
			t.Fatal(err)
		}
		obj := vm.NewObject(act.Mutation(), proto)
		if s, _ := act.ToString(obj.Value()); s != "tampered" {
			t.Errorf("String(obj) = %q", s)
		}
	})
}

func TestIsPrototypeOfOnCyclicChain(t *testing.T) {
	machine := newInitializedVM(t, 0)
	before := machine.Stats().ChainDepthExceeded
	run(t, machine, func(act *vm.Activation) {
		mc := act.Mutation()
		a := vm.NewObject(mc, vm.Object{})
		b := vm.NewObject(mc, a)
		a.SetPrototype(mc, b)

		obj := vm.NewObject(mc, act.Realm().ObjectPrototype)
		if !callMethod(t, act, obj, "isPrototypeOf", a.Value()).StrictlyEquals(vm.False) {
			t.Error("obj.isPrototypeOf(a) on a cycle")
		}
	})
	if n := machine.Stats().ChainDepthExceeded - before; n != 1 {
		t.Errorf("ChainDepthExceeded grew by %d, want 1", n)
	}
}
