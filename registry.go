package kongo

import (
	"errors"
	"fmt"
	"sync"
)

//==============================================================================

// Kind defines the entity kinds a capability can attach to.
type Kind int

const (
	// KindCollection marks capabilities targeting Collection instances.
	KindCollection Kind = iota

	// KindRecord marks capabilities targeting Record instances.
	KindRecord
)

// Op defines a single capability operation dispatched against the Collection
// or Record instance it was applied to.
type Op func(target interface{}, args ...interface{}) (interface{}, error)

// Capability provides a named bundle of operations which can be attached to
// the collections or records of a single collection name.
type Capability struct {
	Name string
	Ops  map[string]Op
}

//==============================================================================

// Registry provides an append-only mapping of (kind, collection name) pairs
// to ordered lists of capabilities. Entries are never removed and later
// registrations append to the end, so registration order is application
// order.
type Registry struct {
	rl      sync.Mutex
	entries map[string][]Capability
}

// NewRegistry returns a new instance of a capability Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string][]Capability)}
}

// Register appends the capability to the ordered list for the giving kind
// and collection name. Registering after instances of that name exist has
// no effect on those instances.
func (r *Registry) Register(kind Kind, name string, c Capability) {
	r.rl.Lock()
	defer r.rl.Unlock()

	key := registryKey(kind, name)
	r.entries[key] = append(r.entries[key], c)
}

// Resolve returns the capabilities registered for the giving kind and
// collection name in registration order.
func (r *Registry) Resolve(kind Kind, name string) []Capability {
	r.rl.Lock()
	defer r.rl.Unlock()

	ents := r.entries[registryKey(kind, name)]

	out := make([]Capability, len(ents))
	copy(out, ents)
	return out
}

// registryKey builds the map key for the giving kind and collection name.
func registryKey(kind Kind, name string) string {
	return fmt.Sprintf("%d:%s", kind, name)
}

//==============================================================================

// registry contains the process-wide capability registry used by the default
// constructors.
var registry = NewRegistry()

// Register appends a capability to the process-wide registry for the giving
// kind and collection name. It must be called before constructing instances
// of that name for them to see the entry.
func Register(kind Kind, name string, c Capability) {
	registry.Register(kind, name, c)
}

//==============================================================================

// ErrUnknownOp is returned when no applied capability defines the invoked
// operation name.
var ErrUnknownOp = errors.New("Unknown Operation")

// opTable layers the operations of each capability in registration order,
// later capabilities overriding earlier ones for the same operation name.
// It returns the merged table and the applied capability names.
func opTable(caps []Capability) (map[string]Op, []string) {
	ops := make(map[string]Op)

	var names []string

	for _, c := range caps {
		for op, fn := range c.Ops {
			ops[op] = fn
		}

		names = append(names, c.Name)
	}

	return ops, names
}

//==============================================================================
