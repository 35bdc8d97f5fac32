package vm

import "sort"

// ClassEntry is a canonical constructor/prototype pair of a built-in class.
type ClassEntry struct {
	Constructor Object
	Prototype   Object
}

// Realm holds the global object and the canonical prototypes registry.
// Built-in modules populate it once at startup; afterwards it is only read.
// Scripts that tamper with a prototype do so through ordinary property
// writes, which the registry observes because it stores handles.
type Realm struct {
	Global            Object
	ObjectPrototype   Object
	FunctionPrototype Object

	classes map[string]ClassEntry
}

func newRealm() *Realm {
	return &Realm{classes: make(map[string]ClassEntry)}
}

// Register records the canonical pair for a class name.
func (r *Realm) Register(name string, ctor, prototype Object) {
	r.classes[name] = ClassEntry{Constructor: ctor, Prototype: prototype}
}

// Class returns the canonical pair for name.
func (r *Realm) Class(name string) (ClassEntry, bool) {
	e, ok := r.classes[name]
	return e, ok
}

// Constructor returns the canonical constructor of name, nil if unknown.
func (r *Realm) Constructor(name string) Object { return r.classes[name].Constructor }

// Prototype returns the canonical prototype of name, nil if unknown.
func (r *Realm) Prototype(name string) Object { return r.classes[name].Prototype }

// Classes lists registered class names in sorted order.
func (r *Realm) Classes() []string {
	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TraceRoots marks the global object and every registered class.
func (r *Realm) TraceRoots(tr *Tracer) {
	tr.Object(r.Global)
	tr.Object(r.ObjectPrototype)
	tr.Object(r.FunctionPrototype)
	for _, e := range r.classes {
		tr.Object(e.Constructor)
		tr.Object(e.Prototype)
	}
}
