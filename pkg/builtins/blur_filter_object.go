package builtins

import (
	"avmcore/pkg/vm"
)

// BlurFilter is the fixed-field state of a flash.filters.BlurFilter. Its
// fields are reached only through the blurX, blurY and quality accessors.
type BlurFilter struct {
	blurX   int32
	blurY   int32
	quality int32
}

// Defaults used when the constructor receives no arguments.
const (
	defaultBlur    = 4
	defaultQuality = 1
)

func NewBlurFilter() *BlurFilter {
	return &BlurFilter{blurX: defaultBlur, blurY: defaultBlur, quality: defaultQuality}
}

func (bf *BlurFilter) ClassName() string { return "BlurFilter" }

func (bf *BlurFilter) NewInstance() vm.NativeExtension { return NewBlurFilter() }

func (bf *BlurFilter) BlurX() int32   { return bf.blurX }
func (bf *BlurFilter) BlurY() int32   { return bf.blurY }
func (bf *BlurFilter) Quality() int32 { return bf.quality }

// The setters clamp: radii to [0,255], quality to [0,15]. They require the
// mutation capability like any other heap write.

func (bf *BlurFilter) SetBlurX(mc *vm.Mutation, v int32) {
	mustMutate(mc)
	bf.blurX = clamp(v, 0, 255)
}

func (bf *BlurFilter) SetBlurY(mc *vm.Mutation, v int32) {
	mustMutate(mc)
	bf.blurY = clamp(v, 0, 255)
}

func (bf *BlurFilter) SetQuality(mc *vm.Mutation, v int32) {
	mustMutate(mc)
	bf.quality = clamp(v, 0, 15)
}

func clamp(v, lo, hi int32) int32 {
	return max(lo, min(hi, v))
}

func mustMutate(mc *vm.Mutation) {
	if !mc.Active() {
		panic("builtins: native field written outside a mutation scope")
	}
}
