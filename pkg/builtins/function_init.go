package builtins

import (
	"avmcore/pkg/vm"
)

// FunctionInitializer implements the Function builtin
type FunctionInitializer struct{}

func (f *FunctionInitializer) Name() string {
	return "Function"
}

func (f *FunctionInitializer) Priority() int {
	return PriorityFunction
}

func (f *FunctionInitializer) InitRuntime(ctx *RuntimeContext) error {
	functionProto := ctx.FunctionPrototype

	ctx.Method(functionProto, "call", functionCall)
	ctx.Method(functionProto, "apply", functionApply)

	ctor := vm.NewConstructor(ctx.Mutation, "Function", functionConstructor, functionProto, functionProto)
	ctx.Realm.Register("Function", ctor, functionProto)
	return ctx.DefineGlobal("Function", ctor.Value())
}

// functionConstructor cannot compile source at runtime; it yields its
// argument when that is a function, undefined otherwise.
func functionConstructor(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
	if arg := act.Arg(0); arg.IsObject() && arg.AsObject().IsFunction(act) {
		return arg, nil
	}
	return vm.Undefined, nil
}

// receiver resolves an explicit this argument. Anything but an object
// binds the global object.
func receiver(act *vm.Activation, v vm.Value) vm.Object {
	if v.IsObject() {
		return v.AsObject()
	}
	return act.Realm().Global
}

func functionCall(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
	if this.IsNil() {
		return vm.Undefined, nil
	}
	var rest []vm.Value
	if len(args) > 1 {
		rest = args[1:]
	}
	return act.Call(this.Value(), receiver(act, act.Arg(0)), rest)
}

// functionApply spreads an array-like second argument: its length and
// indexed properties are read through ordinary dispatch.
func functionApply(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
	if this.IsNil() {
		return vm.Undefined, nil
	}
	var callArgs []vm.Value
	if list := act.Arg(1); list.IsObject() {
		var err error
		callArgs, err = arrayLikeValues(act, list.AsObject())
		if err != nil {
			return vm.Undefined, err
		}
	}
	return act.Call(this.Value(), receiver(act, act.Arg(0)), callArgs)
}

// maxArrayLikeLength caps the arguments apply spreads.
const maxArrayLikeLength = 1 << 16

func arrayLikeValues(act *vm.Activation, list vm.Object) ([]vm.Value, error) {
	lengthVal, err := list.Get(act, "length")
	if err != nil {
		return nil, err
	}
	n, err := act.ToInt32(lengthVal)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	if n > maxArrayLikeLength {
		n = maxArrayLikeLength
	}
	values := make([]vm.Value, n)
	for i := range values {
		v, err := list.Get(act, vm.NumberToString(float64(i)))
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
