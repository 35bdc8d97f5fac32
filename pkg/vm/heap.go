package vm

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Object is a handle to a heap-resident object: a slot index plus the
// generation the slot had when the object was allocated. The zero Object is
// the nil handle.
type Object struct {
	index uint32
	gen   uint32
}

// IsNil reports whether o refers to no object.
func (o Object) IsNil() bool { return o.gen == 0 }

// ID returns a stable numeric identity for the lifetime of the object.
func (o Object) ID() uint64 { return uint64(o.gen)<<32 | uint64(o.index) }

func (o Object) String() string {
	if o.IsNil() {
		return "nil"
	}
	return fmt.Sprintf("#%d.%d", o.index, o.gen)
}

// Value wraps the handle as an object value.
func (o Object) Value() Value { return ObjectValue(o) }

// HeapAccess is implemented by everything that can reach the heap for
// reading: the heap itself, a Mutation, an Activation and the VM.
type HeapAccess interface {
	Heap() *Heap
}

// RootSource contributes live references to a collection.
type RootSource interface {
	TraceRoots(tr *Tracer)
}

// HeapConfig tunes a heap.
type HeapConfig struct {
	// GCThreshold is the number of allocations after which closing a
	// mutation scope triggers a collection. Zero disables it.
	GCThreshold int
	// CaseInsensitiveNames matches property names under simple case
	// folding (SWF 6 and earlier).
	CaseInsensitiveNames bool
}

// HeapStats describes the heap at a point in time.
type HeapStats struct {
	Live          int           `cbor:"live"`
	Capacity      int           `cbor:"capacity"`
	Allocated     uint64        `cbor:"allocated"`
	Collections   uint64        `cbor:"collections"`
	LastReclaimed int           `cbor:"last_reclaimed"`
	LastDuration  time.Duration `cbor:"last_duration"`
}

type heapSlot struct {
	gen    uint32
	obj    *objectData
	marked bool
}

// Heap owns every managed object. Objects are reachable only through
// handles; liveness is decided by tracing from the registered roots, so
// reference cycles (prototype loops included) are reclaimed.
type Heap struct {
	slots []heapSlot
	free  []uint32

	config HeapConfig

	active *Mutation
	epoch  uint64

	roots []RootSource
	pins  map[Object]int

	live               int
	allocated          uint64
	allocsSinceCollect int
	collections        uint64
	lastReclaimed      int
	lastDuration       time.Duration
}

// NewHeap creates an empty heap.
func NewHeap(config HeapConfig) *Heap {
	return &Heap{
		config: config,
		pins:   make(map[Object]int),
	}
}

// Heap returns h, so a *Heap satisfies HeapAccess.
func (h *Heap) Heap() *Heap { return h }

// InScope reports whether a mutation scope is open.
func (h *Heap) InScope() bool { return h.active != nil }

// AddRootSource registers a root provider consulted by every collection.
func (h *Heap) AddRootSource(rs RootSource) {
	h.roots = append(h.roots, rs)
}

// Pin keeps o alive across collections until a matching Unpin. Collaborators
// use it for values held outside any root source, such as a value stack.
func (h *Heap) Pin(o Object) {
	if o.IsNil() {
		return
	}
	h.pins[o]++
}

// Unpin releases one Pin of o.
func (h *Heap) Unpin(o Object) {
	if n, ok := h.pins[o]; ok {
		if n <= 1 {
			delete(h.pins, o)
		} else {
			h.pins[o] = n - 1
		}
	}
}

// Live reports whether o still refers to an allocated object.
func (h *Heap) Live(o Object) bool {
	if o.IsNil() || int(o.index) >= len(h.slots) {
		return false
	}
	s := &h.slots[o.index]
	return s.obj != nil && s.gen == o.gen
}

// Stats returns current heap statistics.
func (h *Heap) Stats() HeapStats {
	return HeapStats{
		Live:          h.live,
		Capacity:      len(h.slots),
		Allocated:     h.allocated,
		Collections:   h.collections,
		LastReclaimed: h.lastReclaimed,
		LastDuration:  h.lastDuration,
	}
}

// Mutate opens a mutation scope, runs fn with the capability, and closes the
// scope. Collection never happens while the scope is open; when it closes
// and enough allocations happened, an automatic collection runs.
//
// Scopes do not nest: code running inside fn receives the capability through
// its Activation or directly and must not open another scope.
func (h *Heap) Mutate(fn func(mc *Mutation) error) error {
	if h.active != nil {
		panic("vm: mutation scope already active")
	}
	h.epoch++
	mc := &Mutation{heap: h, epoch: h.epoch}
	h.active = mc
	err := func() error {
		defer func() {
			h.active = nil
			mc.closed = true
		}()
		return fn(mc)
	}()
	if h.config.GCThreshold > 0 && h.allocsSinceCollect >= h.config.GCThreshold {
		h.Collect()
	}
	return err
}

// get dereferences o. A stale or nil handle is a programming error.
func (h *Heap) get(o Object) *objectData {
	if o.IsNil() {
		panic("vm: dereference of nil object handle")
	}
	if int(o.index) >= len(h.slots) {
		panic(fmt.Sprintf("vm: object handle %s out of range", o))
	}
	s := &h.slots[o.index]
	if s.obj == nil || s.gen != o.gen {
		panic(fmt.Sprintf("vm: stale object handle %s", o))
	}
	return s.obj
}

func (h *Heap) alloc(mc *Mutation, data *objectData) Object {
	mc.check()
	var idx uint32
	if n := len(h.free); n > 0 {
		idx = h.free[n-1]
		h.free = h.free[:n-1]
	} else {
		idx = uint32(len(h.slots))
		h.slots = append(h.slots, heapSlot{gen: 1})
	}
	s := &h.slots[idx]
	s.obj = data
	s.marked = false
	h.live++
	h.allocated++
	h.allocsSinceCollect++
	return Object{index: idx, gen: s.gen}
}

// nameKey maps a property name to its table key.
func (h *Heap) nameKey(name string) string {
	if h.config.CaseInsensitiveNames {
		return strings.Map(foldRune, name)
	}
	return name
}

// foldRune maps r to the smallest rune of its simple case folding orbit.
// Runes never expand, so "straße" and "strasse" stay distinct.
func foldRune(r rune) rune {
	key := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < key {
			key = f
		}
	}
	return key
}

// each visits every live object in slot order.
func (h *Heap) each(fn func(o Object, d *objectData)) {
	for i := range h.slots {
		s := &h.slots[i]
		if s.obj != nil {
			fn(Object{index: uint32(i), gen: s.gen}, s.obj)
		}
	}
}

// Collect traces from the roots and frees every unreachable object. It is
// only legal between mutation scopes.
func (h *Heap) Collect() HeapStats {
	if h.active != nil {
		panic("vm: collection requested inside a mutation scope")
	}
	start := time.Now()

	tr := &Tracer{heap: h}
	for _, rs := range h.roots {
		rs.TraceRoots(tr)
	}
	for o := range h.pins {
		tr.Object(o)
	}
	for len(tr.gray) > 0 {
		idx := tr.gray[len(tr.gray)-1]
		tr.gray = tr.gray[:len(tr.gray)-1]
		h.slots[idx].obj.trace(tr)
	}

	reclaimed := 0
	for i := range h.slots {
		s := &h.slots[i]
		if s.obj == nil {
			continue
		}
		if s.marked {
			s.marked = false
			continue
		}
		s.obj = nil
		s.gen++
		if s.gen == 0 {
			s.gen = 1
		}
		h.free = append(h.free, uint32(i))
		reclaimed++
	}

	h.live -= reclaimed
	h.allocsSinceCollect = 0
	h.collections++
	h.lastReclaimed = reclaimed
	h.lastDuration = time.Since(start)
	log.Debugf("collection %d: reclaimed %d, live %d, took %s", h.collections, reclaimed, h.live, h.lastDuration)
	return h.Stats()
}

// Tracer marks objects reachable during a collection.
type Tracer struct {
	heap *Heap
	gray []uint32
}

// Object marks o. Nil and stale handles are ignored.
func (tr *Tracer) Object(o Object) {
	if o.IsNil() || int(o.index) >= len(tr.heap.slots) {
		return
	}
	s := &tr.heap.slots[o.index]
	if s.obj == nil || s.gen != o.gen || s.marked {
		return
	}
	s.marked = true
	tr.gray = append(tr.gray, o.index)
}

// Value marks the object referenced by v, if any.
func (tr *Tracer) Value(v Value) {
	if v.typ == TypeObject {
		tr.Object(v.obj)
	}
}

// Traceable is implemented by collaborator state that holds values, such as
// native extension fields or compiled script functions.
type Traceable interface {
	Trace(tr *Tracer)
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Mutation is the capability to allocate and write heap objects. It is
// valid only inside the Heap.Mutate call that created it.
type Mutation struct {
	_      noCopy
	heap   *Heap
	epoch  uint64
	closed bool
}

// Heap returns the heap this capability belongs to.
func (mc *Mutation) Heap() *Heap { return mc.heap }

// Epoch identifies the scope that issued the capability.
func (mc *Mutation) Epoch() uint64 { return mc.epoch }

// Active reports whether the capability's scope is still open.
func (mc *Mutation) Active() bool {
	return mc != nil && !mc.closed && mc.heap.active == mc
}

func (mc *Mutation) check() {
	if mc == nil {
		panic("vm: nil mutation capability")
	}
	if !mc.Active() {
		panic("vm: mutation capability used outside its scope")
	}
}
