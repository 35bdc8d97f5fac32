package builtins

import (
	"avmcore/pkg/vm"
)

// ObjectInitializer implements the Object builtin
type ObjectInitializer struct{}

func (o *ObjectInitializer) Name() string {
	return "Object"
}

func (o *ObjectInitializer) Priority() int {
	return PriorityObject // Must be first (base prototype)
}

func (o *ObjectInitializer) InitRuntime(ctx *RuntimeContext) error {
	objectProto := ctx.ObjectPrototype

	ctx.Method(objectProto, "toString", objectToString)
	ctx.Method(objectProto, "valueOf", objectValueOf)
	ctx.Method(objectProto, "hasOwnProperty", objectHasOwnProperty)
	ctx.Method(objectProto, "isPropertyEnumerable", objectIsPropertyEnumerable)
	ctx.Method(objectProto, "isPrototypeOf", objectIsPrototypeOf)
	ctx.Method(objectProto, "addProperty", objectAddProperty)

	ctor := vm.NewConstructor(ctx.Mutation, "Object", objectConstructor, ctx.FunctionPrototype, objectProto)
	ctx.Realm.Register("Object", ctor, objectProto)
	return ctx.DefineGlobal("Object", ctor.Value())
}

// objectConstructor returns its argument when that is already an object.
// Under new, the fresh instance is this and is used as is.
func objectConstructor(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
	if arg := act.Arg(0); arg.IsObject() {
		return arg, nil
	}
	if this.IsNil() {
		return vm.NewObject(act.Mutation(), act.Realm().ObjectPrototype).Value(), nil
	}
	return this.Value(), nil
}

func objectToString(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
	if !this.IsNil() && this.IsFunction(act) {
		return vm.NewString("[type Function]"), nil
	}
	return vm.NewString("[object Object]"), nil
}

func objectValueOf(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
	return this.Value(), nil
}

func objectHasOwnProperty(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
	if this.IsNil() || len(args) < 1 {
		return vm.False, nil
	}
	name, err := act.ToString(args[0])
	if err != nil {
		return vm.Undefined, err
	}
	return vm.BooleanValue(this.HasOwnProperty(act, name)), nil
}

func objectIsPropertyEnumerable(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
	if this.IsNil() || len(args) < 1 {
		return vm.False, nil
	}
	name, err := act.ToString(args[0])
	if err != nil {
		return vm.Undefined, err
	}
	return vm.BooleanValue(this.IsPropertyEnumerable(act, name)), nil
}

// objectIsPrototypeOf reports whether this appears on the argument's chain.
func objectIsPrototypeOf(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
	arg := act.Arg(0)
	if !arg.IsObject() {
		return vm.False, nil
	}
	return vm.BooleanValue(act.IsPrototypeOf(this, arg.AsObject())), nil
}

// objectAddProperty defines an accessor from script functions. The getter
// is required; the setter may be null for a read-only property.
func objectAddProperty(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
	if this.IsNil() || len(args) < 2 {
		return vm.False, nil
	}
	name, err := act.ToString(args[0])
	if err != nil {
		return vm.Undefined, err
	}
	if name == "" {
		return vm.False, nil
	}

	getter := args[1]
	if !getter.IsObject() || !getter.AsObject().IsFunction(act) {
		return vm.False, nil
	}
	var setter vm.Object
	switch s := act.Arg(2); {
	case s.IsObject() && s.AsObject().IsFunction(act):
		setter = s.AsObject()
	case s.IsNullish():
	default:
		return vm.False, nil
	}

	ok := this.AddProperty(act.Mutation(), name, getter.AsObject(), setter, vm.NoAttributes)
	return vm.BooleanValue(ok), nil
}
