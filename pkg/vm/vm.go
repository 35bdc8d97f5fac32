package vm

import (
	"fmt"

	"github.com/google/uuid"

	"avmcore/pkg/config"
)

// Stats counts events the core recovers from silently, plus call volume.
type Stats struct {
	Calls              uint64    `cbor:"calls"`
	ChainDepthExceeded uint64    `cbor:"chain_depth_exceeded"`
	RecursionLimitHits uint64    `cbor:"recursion_limit_hits"`
	Heap               HeapStats `cbor:"heap"`
}

// VM is the process-wide interpreter state shared by every activation: the
// heap, the realm of canonical prototypes and the live activation chain.
// A VM is driven by one goroutine at a time.
type VM struct {
	id    uuid.UUID
	cfg   config.Config
	heap  *Heap
	realm *Realm

	// current is the innermost running activation.
	current *Activation
	// lastThrown keeps the value of the most recent script failure alive
	// after it left the activation chain.
	lastThrown Value

	stats Stats
}

// New creates a VM with an empty heap and realm. builtins.Initialize
// populates the realm.
func New(cfg config.Config) (*VM, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	vm := &VM{
		id:  uuid.New(),
		cfg: cfg,
		heap: NewHeap(HeapConfig{
			GCThreshold:          cfg.GCThreshold,
			CaseInsensitiveNames: !cfg.CaseSensitive(),
		}),
		lastThrown: Undefined,
	}
	vm.realm = newRealm()
	vm.heap.AddRootSource(vm.realm)
	vm.heap.AddRootSource(vm)
	log.Infof("vm %s created (swf %d)", vm.id, cfg.SWFVersion)
	return vm, nil
}

// Heap returns the VM's heap, so a *VM satisfies HeapAccess.
func (vm *VM) Heap() *Heap { return vm.heap }

func (vm *VM) Realm() *Realm         { return vm.realm }
func (vm *VM) Config() config.Config { return vm.cfg }
func (vm *VM) ID() uuid.UUID         { return vm.id }
func (vm *VM) SWFVersion() uint8     { return vm.cfg.SWFVersion }

// Stats returns the event counters together with current heap statistics.
func (vm *VM) Stats() Stats {
	s := vm.stats
	s.Heap = vm.heap.Stats()
	return s
}

// LastThrown returns the value of the most recent script failure that
// escaped Run, or Undefined.
func (vm *VM) LastThrown() Value { return vm.lastThrown }

// Mutate opens a bare mutation scope without an activation, for setup code
// that only allocates and force-sets.
func (vm *VM) Mutate(fn func(mc *Mutation) error) error {
	return vm.heap.Mutate(fn)
}

// Run opens a mutation scope and runs fn inside a root activation whose
// this is the global object. It is the entry point the interpreter loop
// uses once per tick or event handler.
func (vm *VM) Run(fn func(act *Activation) error) error {
	if vm.current != nil {
		panic("vm: Run called while an activation is active")
	}
	return vm.heap.Mutate(func(mc *Mutation) error {
		root := &Activation{
			vm:   vm,
			mc:   mc,
			this: vm.realm.Global,
		}
		vm.current = root
		defer func() { vm.current = nil }()

		err := fn(root)
		if v, ok := IsThrown(err); ok {
			vm.lastThrown = v
		}
		return err
	})
}

// TraceRoots marks everything the activation chain refers to.
func (vm *VM) TraceRoots(tr *Tracer) {
	for act := vm.current; act != nil; act = act.parent {
		tr.Object(act.this)
		tr.Object(act.callee)
		for _, v := range act.args {
			tr.Value(v)
		}
	}
	tr.Value(vm.lastThrown)
}

func (vm *VM) maxPrototypeDepth() int { return vm.cfg.MaxPrototypeDepth }

func (vm *VM) chainDepthExceeded(o Object, name string) {
	vm.stats.ChainDepthExceeded++
	log.Debugf("prototype chain of %s exceeded %d levels looking up %q", o, vm.cfg.MaxPrototypeDepth, name)
}
