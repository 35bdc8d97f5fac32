package builtins

import (
	"avmcore/pkg/vm"
)

// BlurFilterInitializer implements flash.filters.BlurFilter
type BlurFilterInitializer struct{}

func (b *BlurFilterInitializer) Name() string {
	return "BlurFilter"
}

func (b *BlurFilterInitializer) Priority() int {
	return PriorityFilters
}

func (b *BlurFilterInitializer) InitRuntime(ctx *RuntimeContext) error {
	// The prototype carries filter state itself, so instances constructed
	// from it (and from script subclasses) get their own fields.
	proto := vm.NewNativeObject(ctx.Mutation, ctx.ObjectPrototype, NewBlurFilter())

	proto.ForceSetFunction(ctx.Mutation, "clone", blurFilterClone, vm.NoAttributes, ctx.FunctionPrototype)
	ctx.Accessor(proto, "blurX", blurFilterGetBlurX, blurFilterSetBlurX, vm.NoAttributes)
	ctx.Accessor(proto, "blurY", blurFilterGetBlurY, blurFilterSetBlurY, vm.NoAttributes)
	ctx.Accessor(proto, "quality", blurFilterGetQuality, blurFilterSetQuality, vm.NoAttributes)

	ctor := vm.NewConstructor(ctx.Mutation, "BlurFilter", blurFilterConstructor, ctx.FunctionPrototype, proto)
	ctx.Realm.Register("BlurFilter", ctor, proto)
	return ctx.DefineGlobal("flash.filters.BlurFilter", ctor.Value())
}

// intArg coerces argument i to a 32-bit integer, using def when absent.
func intArg(act *vm.Activation, args []vm.Value, i int, def int32) (int32, error) {
	if i >= len(args) {
		return def, nil
	}
	return act.ToInt32(args[i])
}

func blurFilterConstructor(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
	bf, ok := vm.AsNative[*BlurFilter](act, this)
	if !ok {
		return vm.Undefined, nil
	}
	blurX, err := intArg(act, args, 0, defaultBlur)
	if err != nil {
		return vm.Undefined, err
	}
	blurY, err := intArg(act, args, 1, defaultBlur)
	if err != nil {
		return vm.Undefined, err
	}
	quality, err := intArg(act, args, 2, defaultQuality)
	if err != nil {
		return vm.Undefined, err
	}

	mc := act.Mutation()
	bf.SetBlurX(mc, blurX)
	bf.SetBlurY(mc, blurY)
	bf.SetQuality(mc, quality)
	return vm.Undefined, nil
}

// blurFilterClone re-runs the canonical constructor with the receiver's
// current accessor values. Anything the constructor cannot see is not
// copied.
func blurFilterClone(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
	if this.IsNil() {
		return vm.Undefined, nil
	}
	ctor := act.Realm().Constructor("BlurFilter")

	blurX, err := this.Get(act, "blurX")
	if err != nil {
		return vm.Undefined, err
	}
	blurY, err := this.Get(act, "blurY")
	if err != nil {
		return vm.Undefined, err
	}
	quality, err := this.Get(act, "quality")
	if err != nil {
		return vm.Undefined, err
	}

	cloned, err := act.Construct(ctor.Value(), []vm.Value{blurX, blurY, quality})
	if err != nil {
		return vm.Undefined, err
	}
	return cloned.Value(), nil
}

func blurFilterGetBlurX(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
	bf, ok := vm.AsNative[*BlurFilter](act, this)
	if !ok {
		return vm.Undefined, nil
	}
	return vm.IntegerValue(bf.BlurX()), nil
}

func blurFilterSetBlurX(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
	bf, ok := vm.AsNative[*BlurFilter](act, this)
	if !ok {
		return vm.Undefined, nil
	}
	v, err := act.ToInt32(act.Arg(0))
	if err != nil {
		return vm.Undefined, err
	}
	bf.SetBlurX(act.Mutation(), v)
	return vm.Undefined, nil
}

func blurFilterGetBlurY(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
	bf, ok := vm.AsNative[*BlurFilter](act, this)
	if !ok {
		return vm.Undefined, nil
	}
	return vm.IntegerValue(bf.BlurY()), nil
}

func blurFilterSetBlurY(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
	bf, ok := vm.AsNative[*BlurFilter](act, this)
	if !ok {
		return vm.Undefined, nil
	}
	v, err := act.ToInt32(act.Arg(0))
	if err != nil {
		return vm.Undefined, err
	}
	bf.SetBlurY(act.Mutation(), v)
	return vm.Undefined, nil
}

func blurFilterGetQuality(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
	bf, ok := vm.AsNative[*BlurFilter](act, this)
	if !ok {
		return vm.Undefined, nil
	}
	return vm.IntegerValue(bf.Quality()), nil
}

func blurFilterSetQuality(act *vm.Activation, this vm.Object, args []vm.Value) (vm.Value, error) {
	bf, ok := vm.AsNative[*BlurFilter](act, this)
	if !ok {
		return vm.Undefined, nil
	}
	v, err := act.ToInt32(act.Arg(0))
	if err != nil {
		return vm.Undefined, err
	}
	bf.SetQuality(act.Mutation(), v)
	return vm.Undefined, nil
}
