package vm

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Snapshot is a point-in-time dump of every live heap object.
type Snapshot struct {
	VM         string           `cbor:"vm"`
	SWFVersion uint8            `cbor:"swf_version"`
	Stats      Stats            `cbor:"stats"`
	Objects    []ObjectSnapshot `cbor:"objects"`
}

// ObjectSnapshot describes one object. References are Object.ID values;
// zero means nil.
type ObjectSnapshot struct {
	ID       uint64         `cbor:"id"`
	Proto    uint64         `cbor:"proto,omitempty"`
	Kind     string         `cbor:"kind"`
	Class    string         `cbor:"class,omitempty"`
	Function string         `cbor:"function,omitempty"`
	Slots    []SlotSnapshot `cbor:"slots,omitempty"`
}

type SlotSnapshot struct {
	Name       string        `cbor:"name"`
	Attributes uint8         `cbor:"attrs,omitempty"`
	Accessor   bool          `cbor:"accessor,omitempty"`
	Getter     uint64        `cbor:"getter,omitempty"`
	Setter     uint64        `cbor:"setter,omitempty"`
	Value      ValueSnapshot `cbor:"value"`
}

// ValueSnapshot is a self-contained description of a Value.
type ValueSnapshot struct {
	Type   string  `cbor:"type"`
	Bool   bool    `cbor:"bool,omitempty"`
	Number float64 `cbor:"number,omitempty"`
	String string  `cbor:"string,omitempty"`
	Ref    uint64  `cbor:"ref,omitempty"`
}

func snapshotValue(v Value) ValueSnapshot {
	s := ValueSnapshot{Type: v.Type().String()}
	switch v.typ {
	case TypeBoolean:
		s.Bool = v.AsBoolean()
	case TypeNumber:
		s.Number = v.AsFloat()
	case TypeString:
		s.String = v.str
	case TypeObject:
		s.Ref = v.obj.ID()
	}
	return s
}

func refID(o Object) uint64 {
	if o.IsNil() {
		return 0
	}
	return o.ID()
}

// Snapshot walks the heap in slot order. It never runs script code.
func (vm *VM) Snapshot() *Snapshot {
	snap := &Snapshot{
		VM:         vm.id.String(),
		SWFVersion: vm.cfg.SWFVersion,
		Stats:      vm.Stats(),
	}
	vm.heap.each(func(o Object, d *objectData) {
		entry := ObjectSnapshot{
			ID:    o.ID(),
			Proto: refID(d.proto),
			Kind:  d.kind.String(),
		}
		if d.ext != nil {
			entry.Class = d.ext.ClassName()
		}
		if d.fn != nil {
			entry.Function = d.fn.Name
		}
		for _, e := range d.props.snapshot() {
			ss := SlotSnapshot{
				Name:       e.name,
				Attributes: uint8(e.slot.attrs),
				Accessor:   e.slot.accessor,
			}
			if e.slot.accessor {
				ss.Getter = refID(e.slot.getter)
				ss.Setter = refID(e.slot.setter)
				ss.Value = ValueSnapshot{Type: TypeUndefined.String()}
			} else {
				ss.Value = snapshotValue(e.slot.value)
			}
			entry.Slots = append(entry.Slots, ss)
		}
		snap.Objects = append(snap.Objects, entry)
	})
	return snap
}

// Object finds an object in the snapshot by ID.
func (s *Snapshot) Object(id uint64) (ObjectSnapshot, bool) {
	for _, o := range s.Objects {
		if o.ID == id {
			return o, true
		}
	}
	return ObjectSnapshot{}, false
}

var (
	snapshotEncMode cbor.EncMode
	snapshotDecMode cbor.DecMode
)

func init() {
	var err error
	snapshotEncMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("vm: cbor encoder setup: %v", err))
	}
	snapshotDecMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("vm: cbor decoder setup: %v", err))
	}
}

// EncodeSnapshot serializes s as canonical CBOR, so equal heaps produce
// equal bytes.
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	data, err := snapshotEncMode.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses bytes produced by EncodeSnapshot.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := snapshotDecMode.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}
