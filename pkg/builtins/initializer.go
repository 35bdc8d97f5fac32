package builtins

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"avmcore/pkg/vm"
)

var log = commonlog.GetLogger("avmcore.builtins")

// BuiltinInitializer is implemented by each builtin module
type BuiltinInitializer interface {
	// Name returns the module name (e.g., "Object", "BlurFilter")
	Name() string

	// Priority returns initialization order (lower = earlier)
	Priority() int

	// InitRuntime creates the module's objects and registers them
	InitRuntime(ctx *RuntimeContext) error
}

// RuntimeContext provides everything needed for runtime initialization
type RuntimeContext struct {
	// The VM instance
	VM *vm.VM

	// Bootstrap activation; its mutation capability is open for the whole
	// initialization.
	Activation *vm.Activation
	Mutation   *vm.Mutation
	Realm      *vm.Realm

	// Root prototypes, created before any initializer runs
	ObjectPrototype   vm.Object
	FunctionPrototype vm.Object
	Global            vm.Object
}

// DefineGlobal installs a hidden global. A dotted name creates or reuses
// the intermediate package objects, as in "flash.filters.BlurFilter".
func (ctx *RuntimeContext) DefineGlobal(name string, value vm.Value) error {
	parts := strings.Split(name, ".")
	holder := ctx.Global
	for _, part := range parts[:len(parts)-1] {
		if part == "" {
			return fmt.Errorf("invalid global name %q", name)
		}
		slot, ok := holder.OwnSlot(ctx.Mutation, part)
		if ok && !slot.IsAccessor() && slot.Value().IsObject() {
			holder = slot.Value().AsObject()
			continue
		}
		pkg := vm.NewObject(ctx.Mutation, ctx.ObjectPrototype)
		holder.ForceSetValue(ctx.Mutation, part, pkg.Value(), vm.DontEnum)
		holder = pkg
	}
	last := parts[len(parts)-1]
	if last == "" {
		return fmt.Errorf("invalid global name %q", name)
	}
	holder.ForceSetValue(ctx.Mutation, last, value, vm.DontEnum)
	return nil
}

// Method installs a native method on obj with the attributes prototype
// members carry: hidden and undeletable, but replaceable by scripts.
func (ctx *RuntimeContext) Method(obj vm.Object, name string, fn vm.NativeFunction) vm.Object {
	return obj.ForceSetFunction(ctx.Mutation, name, fn, vm.DontEnum|vm.DontDelete, ctx.FunctionPrototype)
}

// Accessor installs a getter/setter pair of native functions on obj.
func (ctx *RuntimeContext) Accessor(obj vm.Object, name string, get, set vm.NativeFunction, attrs vm.Attribute) {
	getter := vm.NewFunction(ctx.Mutation, "get "+name, get, ctx.FunctionPrototype)
	var setter vm.Object
	if set != nil {
		setter = vm.NewFunction(ctx.Mutation, "set "+name, set, ctx.FunctionPrototype)
	}
	obj.ForceSetAccessor(ctx.Mutation, name, getter, setter, attrs)
}

// Priority constants for initialization order
const (
	PriorityObject   = 0   // Object must be first (base prototype)
	PriorityFunction = 1   // Function second (inherits from Object)
	PriorityGlobals  = 10  // Global functions
	PriorityFilters  = 100 // flash.filters classes
)
