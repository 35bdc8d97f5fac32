package vm

// Slot is the storage behind one property: either a plain value or an
// accessor pair. Accessor functions are object handles; a nil handle means
// the half is absent.
type Slot struct {
	value    Value
	getter   Object
	setter   Object
	accessor bool
	attrs    Attribute
}

// DataSlot makes a value slot.
func DataSlot(v Value, attrs Attribute) Slot {
	return Slot{value: v, attrs: attrs & attributeMask}
}

// AccessorSlot makes a getter/setter slot.
func AccessorSlot(getter, setter Object, attrs Attribute) Slot {
	return Slot{getter: getter, setter: setter, accessor: true, attrs: attrs & attributeMask}
}

func (s Slot) IsAccessor() bool      { return s.accessor }
func (s Slot) Value() Value          { return s.value }
func (s Slot) Getter() Object        { return s.getter }
func (s Slot) Setter() Object        { return s.setter }
func (s Slot) Attributes() Attribute { return s.attrs }

func (s Slot) trace(tr *Tracer) {
	if s.accessor {
		tr.Object(s.getter)
		tr.Object(s.setter)
		return
	}
	tr.Value(s.value)
}

type propertyEntry struct {
	name    string // as first written, for enumeration
	slot    Slot
	deleted bool
}

// propertyTable keeps own properties in insertion order with O(1) lookup.
// Removal never mutates the entries slice in place, so an enumeration
// snapshot taken earlier keeps its view while observing deletions through
// the shared entry flags.
type propertyTable struct {
	entries []*propertyEntry
	index   map[string]*propertyEntry
}

func (t *propertyTable) lookup(key string) (*propertyEntry, bool) {
	if t.index == nil {
		return nil, false
	}
	e, ok := t.index[key]
	return e, ok
}

// insert adds a new entry. The caller has checked key is absent.
func (t *propertyTable) insert(key, name string, slot Slot) *propertyEntry {
	if t.index == nil {
		t.index = make(map[string]*propertyEntry)
	}
	e := &propertyEntry{name: name, slot: slot}
	t.entries = append(t.entries, e)
	t.index[key] = e
	return e
}

func (t *propertyTable) remove(key string) bool {
	e, ok := t.lookup(key)
	if !ok {
		return false
	}
	e.deleted = true
	delete(t.index, key)
	kept := make([]*propertyEntry, 0, len(t.entries)-1)
	for _, other := range t.entries {
		if other != e {
			kept = append(kept, other)
		}
	}
	t.entries = kept
	return true
}

// snapshot returns the current entries. The slice must not be modified.
func (t *propertyTable) snapshot() []*propertyEntry {
	return t.entries
}

func (t *propertyTable) len() int { return len(t.entries) }
