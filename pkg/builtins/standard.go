package builtins

import (
	"fmt"
	"sort"

	"avmcore/pkg/vm"
)

// GetStandardInitializers returns all built-in initializers sorted by priority
func GetStandardInitializers() []BuiltinInitializer {
	var initializers []BuiltinInitializer

	// Core builtins
	initializers = append(initializers, &ObjectInitializer{})
	initializers = append(initializers, &FunctionInitializer{})

	// Global functions
	initializers = append(initializers, &GlobalsInitializer{})

	// Example native extension
	initializers = append(initializers, &BlurFilterInitializer{})

	// Sort by priority (lower numbers first)
	sort.SliceStable(initializers, func(i, j int) bool {
		return initializers[i].Priority() < initializers[j].Priority()
	})

	return initializers
}

// Initialize populates the realm of a fresh VM with the standard builtins.
func Initialize(v *vm.VM) error {
	return InitializeWith(v, GetStandardInitializers())
}

// InitializeWith creates the root prototypes and the global object, then
// runs the given initializers in order inside one mutation scope.
func InitializeWith(v *vm.VM, initializers []BuiltinInitializer) error {
	realm := v.Realm()
	if !realm.Global.IsNil() {
		return fmt.Errorf("vm %s is already initialized", v.ID())
	}
	return v.Run(func(act *vm.Activation) error {
		mc := act.Mutation()
		objectProto := vm.NewObject(mc, vm.Object{})
		functionProto := vm.NewObject(mc, objectProto)
		global := vm.NewObject(mc, objectProto)
		realm.ObjectPrototype = objectProto
		realm.FunctionPrototype = functionProto
		realm.Global = global

		ctx := &RuntimeContext{
			VM:                v,
			Activation:        act,
			Mutation:          mc,
			Realm:             realm,
			ObjectPrototype:   objectProto,
			FunctionPrototype: functionProto,
			Global:            global,
		}
		for _, initializer := range initializers {
			log.Debugf("initializing %s", initializer.Name())
			if err := initializer.InitRuntime(ctx); err != nil {
				return fmt.Errorf("initializing %s: %w", initializer.Name(), err)
			}
		}
		return nil
	})
}
