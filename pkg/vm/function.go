package vm

// NativeFunction is the Go signature of built-in functions, accessor halves
// and conversion hooks. this is nil when the caller supplied no receiver.
type NativeFunction func(act *Activation, this Object, args []Value) (Value, error)

// ScriptCode is a function body supplied by the interpreter loop. The core
// only needs to invoke it; arguments and receiver are on the activation.
type ScriptCode interface {
	Name() string
	Invoke(act *Activation) (Value, error)
}

// Executable is the callable part of a function object. Exactly one of
// Native and Script is set.
type Executable struct {
	Name   string
	Native NativeFunction
	Script ScriptCode
}

// NewFunction allocates a native function object whose prototype is fnProto.
func NewFunction(mc *Mutation, name string, fn NativeFunction, fnProto Object) Object {
	if fn == nil {
		panic("vm: NewFunction with nil native")
	}
	return mc.heap.alloc(mc, &objectData{
		proto: fnProto,
		kind:  KindFunction,
		fn:    &Executable{Name: name, Native: fn},
	})
}

// NewConstructor allocates a native function and links it with prototype in
// both directions: ctor.prototype and prototype.constructor, both hidden.
func NewConstructor(mc *Mutation, name string, fn NativeFunction, fnProto, prototype Object) Object {
	ctor := NewFunction(mc, name, fn, fnProto)
	if !prototype.IsNil() {
		ctor.ForceSetValue(mc, "prototype", prototype.Value(), DontEnum|DontDelete)
		prototype.ForceSetValue(mc, "constructor", ctor.Value(), DontEnum)
	}
	return ctor
}

// NewScriptFunction allocates a function backed by interpreter code. Like
// every script-defined function it gets a fresh prototype object for
// instances it constructs.
func NewScriptFunction(mc *Mutation, code ScriptCode, fnProto, objectProto Object) Object {
	if code == nil {
		panic("vm: NewScriptFunction with nil code")
	}
	f := mc.heap.alloc(mc, &objectData{
		proto: fnProto,
		kind:  KindFunction,
		fn:    &Executable{Name: code.Name(), Script: code},
	})
	prototype := NewObject(mc, objectProto)
	f.ForceSetValue(mc, "prototype", prototype.Value(), DontEnum)
	prototype.ForceSetValue(mc, "constructor", f.Value(), DontEnum)
	return f
}
