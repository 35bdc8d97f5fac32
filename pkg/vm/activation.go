package vm

// Activation is the context of one native, accessor or hook invocation: the
// mutation capability of the running scope, the receiver, the arguments and
// the VM. Nested calls form a chain through parent on the single logical
// call stack.
type Activation struct {
	vm     *VM
	mc     *Mutation
	this   Object
	args   []Value
	callee Object
	parent *Activation
	depth  int
}

func (a *Activation) VM() *VM             { return a.vm }
func (a *Activation) Heap() *Heap         { return a.vm.heap }
func (a *Activation) Mutation() *Mutation { return a.mc }
func (a *Activation) This() Object        { return a.this }
func (a *Activation) Args() []Value       { return a.args }
func (a *Activation) Callee() Object      { return a.callee }
func (a *Activation) Parent() *Activation { return a.parent }
func (a *Activation) Depth() int          { return a.depth }
func (a *Activation) Realm() *Realm       { return a.vm.realm }
func (a *Activation) SWFVersion() uint8   { return a.vm.cfg.SWFVersion }

// Arg returns argument i, or Undefined when fewer were passed.
func (a *Activation) Arg(i int) Value {
	if i < 0 || i >= len(a.args) {
		return Undefined
	}
	return a.args[i]
}

// Call invokes fn with the given receiver in a nested activation. Calling a
// value that is not a function yields Undefined, as the legacy player does.
// Failures of the callee propagate unchanged.
func (a *Activation) Call(fn Value, this Object, args []Value) (Value, error) {
	if !fn.IsObject() {
		return Undefined, nil
	}
	exe := a.vm.heap.get(fn.obj).fn
	if exe == nil {
		return Undefined, nil
	}

	vm := a.vm
	if a.depth+1 > vm.cfg.MaxCallDepth {
		vm.stats.RecursionLimitHits++
		log.Warningf("call depth limit %d reached calling %q", vm.cfg.MaxCallDepth, exe.Name)
		return Undefined, &RecursionError{Limit: vm.cfg.MaxCallDepth}
	}

	child := &Activation{
		vm:     vm,
		mc:     a.mc,
		this:   this,
		args:   args,
		callee: fn.obj,
		parent: a,
		depth:  a.depth + 1,
	}
	prev := vm.current
	vm.current = child
	defer func() { vm.current = prev }()
	vm.stats.Calls++

	if exe.Native != nil {
		return exe.Native(child, this, args)
	}
	return exe.Script.Invoke(child)
}

// CallMethod reads name from obj and calls it with obj as receiver.
func (a *Activation) CallMethod(obj Object, name string, args []Value) (Value, error) {
	fn, err := obj.Get(a, name)
	if err != nil {
		return Undefined, err
	}
	return a.Call(fn, obj, args)
}

// Construct performs `new ctor(args...)`. The instance is linked to
// ctor.prototype (Object.prototype when that is not an object) and inherits
// the prototype's native extension kind. The constructor's return value is
// ignored. A non-function ctor constructs nothing and yields nil.
func (a *Activation) Construct(ctor Value, args []Value) (Object, error) {
	if !ctor.IsObject() || !ctor.obj.IsFunction(a) {
		return Object{}, nil
	}
	protoVal, err := ctor.obj.Get(a, "prototype")
	if err != nil {
		return Object{}, err
	}
	proto := a.Realm().ObjectPrototype
	if protoVal.IsObject() {
		proto = protoVal.obj
	}

	var obj Object
	if ext := nativeOf(a, proto); ext != nil {
		obj = NewNativeObject(a.mc, proto, ext.NewInstance())
	} else {
		obj = NewObject(a.mc, proto)
	}
	obj.ForceSetValue(a.mc, "__constructor__", ctor, DontEnum)
	if a.SWFVersion() < 7 {
		obj.ForceSetValue(a.mc, "constructor", ctor, DontEnum)
	}

	if _, err := a.Call(ctor, obj, args); err != nil {
		return obj, err
	}
	return obj, nil
}

func nativeOf(h HeapAccess, o Object) NativeExtension {
	if o.IsNil() {
		return nil
	}
	return o.Native(h)
}

// InstanceOf reports whether ctor.prototype appears on v's prototype chain.
func (a *Activation) InstanceOf(v Value, ctor Value) (bool, error) {
	if !v.IsObject() || !ctor.IsObject() {
		return false, nil
	}
	protoVal, err := ctor.obj.Get(a, "prototype")
	if err != nil || !protoVal.IsObject() {
		return false, err
	}
	return a.onChain(v.obj, protoVal.obj, "instanceof"), nil
}

// IsPrototypeOf reports whether proto appears on o's prototype chain, o
// itself excluded.
func (a *Activation) IsPrototypeOf(proto, o Object) bool {
	if proto.IsNil() || o.IsNil() {
		return false
	}
	return a.onChain(o, proto, "isPrototypeOf")
}

// onChain walks o's prototypes looking for target. A walk longer than the
// configured depth counts as exceeded and reports false.
func (a *Activation) onChain(o, target Object, what string) bool {
	heap := a.Heap()
	limit := a.vm.maxPrototypeDepth()
	current := heap.get(o).proto
	for depth := 1; !current.IsNil(); depth++ {
		if depth > limit {
			a.vm.chainDepthExceeded(o, what)
			return false
		}
		if current == target {
			return true
		}
		current = heap.get(current).proto
	}
	return false
}

// TypeOf returns the name the typeof operator yields for v.
func (a *Activation) TypeOf(v Value) string {
	if v.IsObject() && v.obj.IsFunction(a) {
		return "function"
	}
	return v.Type().String()
}
