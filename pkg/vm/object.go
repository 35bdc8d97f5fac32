package vm

import "fmt"

// ObjectKind discriminates the storage variants of a heap object.
type ObjectKind uint8

const (
	KindPlain ObjectKind = iota
	KindFunction
	KindNative
)

func (k ObjectKind) String() string {
	switch k {
	case KindPlain:
		return "object"
	case KindFunction:
		return "function"
	case KindNative:
		return "native"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// objectData is the heap-resident part of an object.
type objectData struct {
	props propertyTable
	proto Object
	kind  ObjectKind
	fn    *Executable
	ext   NativeExtension
}

func (d *objectData) trace(tr *Tracer) {
	tr.Object(d.proto)
	for _, e := range d.props.entries {
		e.slot.trace(tr)
	}
	if d.fn != nil {
		if t, ok := d.fn.Script.(Traceable); ok {
			t.Trace(tr)
		}
	}
	if t, ok := d.ext.(Traceable); ok {
		t.Trace(tr)
	}
}

// NewObject allocates a plain object linked to proto (which may be nil).
func NewObject(mc *Mutation, proto Object) Object {
	return mc.heap.alloc(mc, &objectData{proto: proto, kind: KindPlain})
}

// NewNativeObject allocates an object carrying the native extension ext.
func NewNativeObject(mc *Mutation, proto Object, ext NativeExtension) Object {
	if ext == nil {
		panic("vm: native object without extension")
	}
	return mc.heap.alloc(mc, &objectData{proto: proto, kind: KindNative, ext: ext})
}

// --- Reads ---

// Kind returns the storage variant of o.
func (o Object) Kind(h HeapAccess) ObjectKind {
	return h.Heap().get(o).kind
}

// Prototype returns the prototype link, nil if there is none.
func (o Object) Prototype(h HeapAccess) Object {
	return h.Heap().get(o).proto
}

// IsFunction reports whether o can be called.
func (o Object) IsFunction(h HeapAccess) bool {
	return h.Heap().get(o).kind == KindFunction
}

// Executable returns the code behind a function object, nil otherwise.
func (o Object) Executable(h HeapAccess) *Executable {
	return h.Heap().get(o).fn
}

// Native returns the native extension of o, nil for other kinds.
func (o Object) Native(h HeapAccess) NativeExtension {
	return h.Heap().get(o).ext
}

// OwnSlot looks up an own slot without consulting the prototype chain.
func (o Object) OwnSlot(h HeapAccess, name string) (Slot, bool) {
	heap := h.Heap()
	e, ok := heap.get(o).props.lookup(heap.nameKey(name))
	if !ok {
		return Slot{}, false
	}
	return e.slot, true
}

// HasOwnProperty reports whether o has an own slot called name.
func (o Object) HasOwnProperty(h HeapAccess, name string) bool {
	_, ok := o.OwnSlot(h, name)
	return ok
}

// OwnKeys returns every own property name in insertion order, DontEnum
// slots included.
func (o Object) OwnKeys(h HeapAccess) []string {
	entries := h.Heap().get(o).props.snapshot()
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.name)
	}
	return keys
}

// PropertyCount returns the number of own slots.
func (o Object) PropertyCount(h HeapAccess) int {
	return h.Heap().get(o).props.len()
}

// --- Privileged writes ---

// SetPrototype relinks o. Cycles are permitted; traversals are bounded.
func (o Object) SetPrototype(mc *Mutation, proto Object) {
	mc.check()
	mc.heap.get(o).proto = proto
}

func (o Object) install(mc *Mutation, name string, slot Slot) {
	mc.check()
	heap := mc.heap
	d := heap.get(o)
	key := heap.nameKey(name)
	if e, ok := d.props.lookup(key); ok {
		e.slot = slot
		return
	}
	d.props.insert(key, name, slot)
}

// ForceSetValue installs a data slot with exactly attrs, replacing whatever
// was there and ignoring ReadOnly. Reserved for built-in setup.
func (o Object) ForceSetValue(mc *Mutation, name string, v Value, attrs Attribute) {
	o.install(mc, name, DataSlot(v, attrs))
}

// ForceSetAccessor installs an accessor slot with exactly attrs. Either
// half may be nil.
func (o Object) ForceSetAccessor(mc *Mutation, name string, getter, setter Object, attrs Attribute) {
	o.install(mc, name, AccessorSlot(getter, setter, attrs))
}

// ForceSetFunction allocates a native function object and installs it as a
// data slot. The new function is returned.
func (o Object) ForceSetFunction(mc *Mutation, name string, fn NativeFunction, attrs Attribute, fnProto Object) Object {
	f := NewFunction(mc, name, fn, fnProto)
	o.ForceSetValue(mc, name, f.Value(), attrs)
	return f
}

// AddProperty defines a script-visible accessor. It fails when an existing
// slot of that name is DontDelete.
func (o Object) AddProperty(mc *Mutation, name string, getter, setter Object, attrs Attribute) bool {
	if slot, ok := o.OwnSlot(mc, name); ok && slot.attrs.Has(DontDelete) {
		return false
	}
	o.install(mc, name, AccessorSlot(getter, setter, attrs))
	return true
}

// SetAttributes clears then sets attribute bits on an existing own slot, so
// a bit named in both ends up set.
func (o Object) SetAttributes(mc *Mutation, name string, set, clear Attribute) bool {
	mc.check()
	heap := mc.heap
	e, ok := heap.get(o).props.lookup(heap.nameKey(name))
	if !ok {
		return false
	}
	e.slot.attrs = (e.slot.attrs&^clear | set) & attributeMask
	return true
}

// --- Native extensions ---

// NativeExtension is the fixed-field state of a specialized built-in object.
// Accessor natives reach it through AsNative.
type NativeExtension interface {
	// ClassName is the built-in class the extension belongs to.
	ClassName() string
	// NewInstance returns fresh default state for an object constructed
	// from a prototype carrying this extension.
	NewInstance() NativeExtension
}

// AsNative returns o's extension if it is of type T.
func AsNative[T NativeExtension](h HeapAccess, o Object) (T, bool) {
	var zero T
	if o.IsNil() || !h.Heap().Live(o) {
		return zero, false
	}
	ext, ok := h.Heap().get(o).ext.(T)
	if !ok {
		return zero, false
	}
	return ext, true
}

// MustNative is AsNative for callers that have already established the
// type; a mismatch is a programming error.
func MustNative[T NativeExtension](h HeapAccess, o Object) T {
	ext, ok := AsNative[T](h, o)
	if !ok {
		var zero T
		panic(fmt.Sprintf("vm: object %s has no %T extension", o, zero))
	}
	return ext
}
