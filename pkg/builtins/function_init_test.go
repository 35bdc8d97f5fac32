package builtins

import (
	"testing"

	"avmcore/pkg/vm"
)

// sumThis adds this.base to every argument.
func sumThis(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
	total := 0.0
	if !this.IsNil() {
		base, err := this.Get(act, "base")
		if err != nil {
			return vm.Undefined, err
		}
		if base.IsNumber() {
			total = base.AsFloat()
		}
	}
	for _, a := range args {
		n, err := act.ToNumber(a)
		if err != nil {
			return vm.Undefined, err
		}
		total += n
	}
	return vm.NumberValue(total), nil
}

func TestFunctionCallAndApply(t *testing.T) {
	machine := newInitializedVM(t, 0)
	run(t, machine, func(act *vm.Activation) {
		fn := vm.NewFunction(act.Mutation(), "sum", sumThis, act.Realm().FunctionPrototype)
		receiver := vm.NewObject(act.Mutation(), act.Realm().ObjectPrototype)
		if err := receiver.Set(act, "base", vm.NumberValue(100)); err != nil {
			t.Fatal(err)
		}

		got := callMethod(t, act, fn, "call", receiver.Value(), vm.NumberValue(1), vm.NumberValue(2))
		if !got.StrictlyEquals(vm.NumberValue(103)) {
			t.Errorf("call = %s", got.Inspect())
		}

		list := vm.NewObject(act.Mutation(), act.Realm().ObjectPrototype)
		for name, v := range map[string]vm.Value{"0": vm.NumberValue(5), "1": vm.NewString("6"), "length": vm.NumberValue(2)} {
			if err := list.Set(act, name, v); err != nil {
				t.Fatal(err)
			}
		}
		got = callMethod(t, act, fn, "apply", receiver.Value(), list.Value())
		if !got.StrictlyEquals(vm.NumberValue(111)) {
			t.Errorf("apply = %s", got.Inspect())
		}

		got = callMethod(t, act, fn, "apply", receiver.Value())
		if !got.StrictlyEquals(vm.NumberValue(100)) {
			t.Errorf("apply without list = %s", got.Inspect())
		}
	})
}

func TestFunctionCallWithoutReceiverUsesGlobal(t *testing.T) {
	machine := newInitializedVM(t, 0)
	run(t, machine, func(act *vm.Activation) {
		var seen vm.Object
		fn := vm.NewFunction(act.Mutation(), "probe", func(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
			seen = this
			return vm.Undefined, nil
		}, act.Realm().FunctionPrototype)
		callMethod(t, act, fn, "call", vm.Null)
		if seen != act.Realm().Global {
			t.Errorf("this = %s, want the global object", seen)
		}
	})
}

func TestFunctionPrototypeChain(t *testing.T) {
	machine := newInitializedVM(t, 0)
	run(t, machine, func(act *vm.Activation) {
		fnCtor := global(t, act, "Function")
		objCtor := global(t, act, "Object").AsObject()
		ok, err := act.InstanceOf(objCtor.Value(), fnCtor)
		if err != nil || !ok {
			t.Errorf("Object instanceof Function = %v, %v", ok, err)
		}
		if act.TypeOf(fnCtor) != "function" {
			t.Errorf("typeof Function = %s", act.TypeOf(fnCtor))
		}
	})
}
