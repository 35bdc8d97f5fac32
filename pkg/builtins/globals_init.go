package builtins

import (
	"strings"

	"avmcore/pkg/vm"
)

// GlobalsInitializer installs the global utility functions.
type GlobalsInitializer struct{}

func (g *GlobalsInitializer) Name() string {
	return "Globals"
}

func (g *GlobalsInitializer) Priority() int {
	return PriorityGlobals
}

func (g *GlobalsInitializer) InitRuntime(ctx *RuntimeContext) error {
	fn := vm.NewFunction(ctx.Mutation, "ASSetPropFlags", asSetPropFlags, ctx.FunctionPrototype)
	return ctx.DefineGlobal("ASSetPropFlags", fn.Value())
}

// asSetPropFlags implements ASSetPropFlags(obj, names, set, clear). names
// is a comma separated string, an array-like of names, or null for every
// own property. Bits outside DontEnum|DontDelete|ReadOnly are ignored.
func asSetPropFlags(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
	target := act.Arg(0)
	if !target.IsObject() {
		return vm.Undefined, nil
	}
	obj := target.AsObject()

	set, err := act.ToInt32(act.Arg(2))
	if err != nil {
		return vm.Undefined, err
	}
	clear, err := act.ToInt32(act.Arg(3))
	if err != nil {
		return vm.Undefined, err
	}

	names, err := propFlagNames(act, obj, act.Arg(1))
	if err != nil {
		return vm.Undefined, err
	}
	mc := act.Mutation()
	for _, name := range names {
		obj.SetAttributes(mc, name, vm.Attribute(set), vm.Attribute(clear))
	}
	return vm.Undefined, nil
}

func propFlagNames(act *vm.Activation, obj vm.Object, selector vm.Value) ([]string, error) {
	switch {
	case selector.IsNull():
		return obj.OwnKeys(act), nil
	case selector.IsObject():
		values, err := arrayLikeValues(act, selector.AsObject())
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(values))
		for _, v := range values {
			name, err := act.ToString(v)
			if err != nil {
				return nil, err
			}
			names = append(names, name)
		}
		return names, nil
	case selector.IsUndefined():
		return nil, nil
	}
	list, err := act.ToString(selector)
	if err != nil {
		return nil, err
	}
	return strings.Split(list, ","), nil
}
