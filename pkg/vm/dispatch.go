package vm

// protoKey is the pseudo-property exposing the prototype link.
const protoKey = "__proto__"

// Get reads name through the prototype chain. The chain is re-read at every
// hop, so a getter that relinks or deletes is observed by the rest of the
// walk. Getters run with this bound to o, not to the object that holds the
// accessor. A chain longer than the configured depth reads as Undefined.
func (o Object) Get(act *Activation, name string) (Value, error) {
	heap := act.Heap()
	key := heap.nameKey(name)
	if key == protoKey {
		if p := heap.get(o).proto; !p.IsNil() {
			return p.Value(), nil
		}
		return Undefined, nil
	}

	limit := act.vm.maxPrototypeDepth()
	current := o
	for depth := 0; ; depth++ {
		if depth > limit {
			act.vm.chainDepthExceeded(o, name)
			return Undefined, nil
		}
		d := heap.get(current)
		if e, ok := d.props.lookup(key); ok {
			slot := e.slot
			if !slot.accessor {
				return slot.value, nil
			}
			if slot.getter.IsNil() {
				return Undefined, nil
			}
			return act.Call(slot.getter.Value(), o, nil)
		}
		current = d.proto
		if current.IsNil() {
			return Undefined, nil
		}
	}
}

// Set writes an ordinary property on o.
func (o Object) Set(act *Activation, name string, v Value) error {
	return o.SetWithAttributes(act, name, v, NoAttributes)
}

// SetWithAttributes writes name on o. An accessor found on o or inherited
// through the chain receives the write through its setter; an own ReadOnly
// slot ignores it; otherwise an own data slot is overwritten or created
// with attrsIfNew. A chain longer than the configured depth makes the write
// a no-op.
func (o Object) SetWithAttributes(act *Activation, name string, v Value, attrsIfNew Attribute) error {
	mc := act.Mutation()
	mc.check()
	heap := mc.heap
	key := heap.nameKey(name)
	if key == protoKey {
		if v.IsObject() {
			o.SetPrototype(mc, v.obj)
		} else {
			o.SetPrototype(mc, Object{})
		}
		return nil
	}

	d := heap.get(o)
	if e, ok := d.props.lookup(key); ok {
		switch {
		case e.slot.accessor:
			return callSetter(act, e.slot.setter, o, v)
		case e.slot.attrs.Has(ReadOnly):
			return nil
		default:
			e.slot.value = v
			return nil
		}
	}

	limit := act.vm.maxPrototypeDepth()
	current := d.proto
	for depth := 1; !current.IsNil(); depth++ {
		if depth > limit {
			act.vm.chainDepthExceeded(o, name)
			return nil
		}
		cd := heap.get(current)
		if e, ok := cd.props.lookup(key); ok {
			if e.slot.accessor {
				return callSetter(act, e.slot.setter, o, v)
			}
			break
		}
		current = cd.proto
	}

	d.props.insert(key, name, DataSlot(v, attrsIfNew))
	return nil
}

// callSetter runs an accessor's setter; an accessor without one drops the
// write.
func callSetter(act *Activation, setter, this Object, v Value) error {
	if setter.IsNil() {
		return nil
	}
	_, err := act.Call(setter.Value(), this, []Value{v})
	return err
}

// Delete removes an own slot. It reports false when there is no such slot
// or it is DontDelete.
func (o Object) Delete(act *Activation, name string) bool {
	mc := act.Mutation()
	mc.check()
	heap := mc.heap
	key := heap.nameKey(name)
	if key == protoKey {
		return false
	}
	d := heap.get(o)
	e, ok := d.props.lookup(key)
	if !ok || e.slot.attrs.Has(DontDelete) {
		return false
	}
	return d.props.remove(key)
}

// HasProperty reports whether name resolves anywhere on the chain.
func (o Object) HasProperty(act *Activation, name string) bool {
	heap := act.Heap()
	key := heap.nameKey(name)
	if key == protoKey {
		return !heap.get(o).proto.IsNil()
	}
	limit := act.vm.maxPrototypeDepth()
	current := o
	for depth := 0; depth <= limit && !current.IsNil(); depth++ {
		d := heap.get(current)
		if _, ok := d.props.lookup(key); ok {
			return true
		}
		current = d.proto
	}
	return false
}

// IsPropertyEnumerable reports whether o has an own, enumerable slot name.
func (o Object) IsPropertyEnumerable(h HeapAccess, name string) bool {
	slot, ok := o.OwnSlot(h, name)
	return ok && !slot.attrs.Has(DontEnum)
}

// Enumerator yields own property names of one object. It works on the list
// of slots that existed when it was created; names deleted or hidden since
// are skipped when reached, names added since are not visited.
type Enumerator struct {
	entries []*propertyEntry
	pos     int
}

// Enumerate starts a lazy walk over o's own enumerable names in insertion
// order.
func (o Object) Enumerate(h HeapAccess) *Enumerator {
	return &Enumerator{entries: h.Heap().get(o).props.snapshot()}
}

// Next returns the next name, or false once the walk is exhausted.
func (en *Enumerator) Next() (string, bool) {
	for en.pos < len(en.entries) {
		e := en.entries[en.pos]
		en.pos++
		if e.deleted || e.slot.attrs.Has(DontEnum) {
			continue
		}
		return e.name, true
	}
	en.entries = nil
	return "", false
}

// EnumerateAll lists the names a for..in loop visits: own names first, then
// each prototype level in order, each name once. A name hidden at a nearer
// level also hides it further up.
func (o Object) EnumerateAll(act *Activation) []string {
	heap := act.Heap()
	limit := act.vm.maxPrototypeDepth()
	seen := make(map[string]struct{})
	var names []string
	current := o
	for depth := 0; !current.IsNil(); depth++ {
		if depth > limit {
			act.vm.chainDepthExceeded(o, "for..in")
			break
		}
		d := heap.get(current)
		for _, e := range d.props.snapshot() {
			key := heap.nameKey(e.name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if !e.slot.attrs.Has(DontEnum) {
				names = append(names, e.name)
			}
		}
		current = d.proto
	}
	return names
}
