package symbolic

import (
	"slices"
	"sort"
	"strings"

	"github.com/gomlx/onnx-symbolic/internal/utils"
	"github.com/gomlx/onnx-symbolic/pkg/ir"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Func is a symbolic: it converts one operator, given its resolved arguments, by emitting nodes
// through ctx. It returns the outputs of the converted operator.
type Func func(ctx *Context, args Args) ([]*ir.Value, error)

// Entry is what an operator name resolves to in a Registry: either a symbolic with its
// signature, or an explicit unsupported marker for a block-listed operator.
type Entry struct {
	Name      string
	Signature Signature
	Func      Func

	// Unsupported is set for block-listed operators. Func is nil then.
	Unsupported bool

	// Version of the Module that defined the entry.
	Version int
}

// Module is the set of symbolics and block-listed names introduced at one opset version.
// Names a Module doesn't mention are inherited from the modules of older versions.
type Module struct {
	Version int

	entries map[string]*Entry
	blocked utils.Set[string]
}

// NewModule creates an empty Module for the given opset version.
func NewModule(version int) *Module {
	return &Module{
		Version: version,
		entries: make(map[string]*Entry),
		blocked: utils.MakeSet[string](),
	}
}

// Register adds the symbolic fn for the operator name, with arguments resolved by sig.
// It panics if name is already registered in the module: modules are built at package initialization.
func (m *Module) Register(name string, sig Signature, fn Func) *Module {
	if _, found := m.entries[name]; found {
		panic(errors.Errorf("symbolic %q registered twice for opset %d", name, m.Version))
	}
	m.entries[name] = &Entry{Name: name, Signature: sig, Func: fn, Version: m.Version}
	return m
}

// Block adds names to the block-list of the module. A name that is also registered in the same
// module keeps its symbolic.
func (m *Module) Block(names ...string) *Module {
	for _, name := range names {
		m.blocked.Insert(name)
	}
	return m
}

// Names returns the sorted names with a symbolic in this module.
func (m *Module) Names() []string {
	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BlockList returns the sorted block-listed names of this module, including those that the
// module registers anyway.
func (m *Module) BlockList() []string {
	return utils.Sorted(m.blocked)
}

// Registry maps operator names to Entries for one target opset version.
// It is built once and only read afterwards, so it is safe for concurrent use.
type Registry struct {
	version int
	entries map[string]*Entry
}

// NewRegistry builds the registry for the target version from the given modules.
//
// Modules with a version above the target are ignored, the others are applied from the oldest to
// the newest: for each one, block-listed names are first set to unsupported markers, and then its
// symbolics are installed, overriding same-named entries.
func NewRegistry(version int, modules ...*Module) (*Registry, error) {
	var applicable []*Module
	for _, m := range modules {
		if m == nil {
			return nil, errors.New("nil module given to NewRegistry")
		}
		if m.Version <= version {
			applicable = append(applicable, m)
		}
	}
	if len(applicable) == 0 {
		return nil, errors.Errorf("no symbolic module available for opset %d", version)
	}
	slices.SortStableFunc(applicable, func(a, b *Module) int { return a.Version - b.Version })
	for i := 1; i < len(applicable); i++ {
		if applicable[i].Version == applicable[i-1].Version {
			return nil, errors.Errorf("more than one symbolic module for opset %d", applicable[i].Version)
		}
	}

	r := &Registry{version: version, entries: make(map[string]*Entry)}
	for _, m := range applicable {
		for name := range m.blocked {
			r.entries[name] = &Entry{Name: name, Unsupported: true, Version: m.Version}
		}
		for name, entry := range m.entries {
			r.entries[name] = entry
		}
		klog.V(2).Infof("opset %d: applied symbolic module %d (%d symbolics, %d blocked)",
			version, m.Version, len(m.entries), len(m.blocked))
	}
	return r, nil
}

// Version returns the target opset version of the registry.
func (r *Registry) Version() int {
	return r.version
}

// Lookup returns the entry for name. In-place variants (names ending with "_") without an entry
// of their own resolve to the out-of-place operator.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	if entry, found := r.entries[name]; found {
		return entry, true
	}
	if outOfPlace, isInplace := strings.CutSuffix(name, "_"); isInplace && outOfPlace != "" {
		entry, found := r.entries[outOfPlace]
		return entry, found
	}
	return nil, false
}

// Names returns the sorted names with an implemented symbolic.
func (r *Registry) Names() []string {
	return r.filter(false)
}

// Blocked returns the sorted names resolved to an unsupported marker.
func (r *Registry) Blocked() []string {
	return r.filter(true)
}

func (r *Registry) filter(unsupported bool) []string {
	var names []string
	for name, entry := range r.entries {
		if entry.Unsupported == unsupported {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Run converts the operator name with the given raw arguments.
//
// A block-listed or unknown name fails with a *UnsupportedError (see IsWarning) without emitting
// any node. Otherwise the arguments are resolved with the entry's signature, and its symbolic is
// called. Resolution errors are returned unmodified.
func (r *Registry) Run(ctx *Context, name string, args ...any) ([]*ir.Value, error) {
	if ctx == nil || ctx.pass == nil {
		return nil, errors.Errorf("%s: symbolic context without a lowering pass", name)
	}
	if ctx.Opset() != r.version {
		return nil, errors.Errorf("registry for opset %d used in a pass targeting opset %d", r.version, ctx.Opset())
	}
	entry, found := r.Lookup(name)
	if !found {
		return nil, notFoundError(name, r.version)
	}
	if entry.Unsupported {
		return nil, blockedError(name, r.version)
	}
	resolved, err := entry.Signature.Resolve(args)
	if err != nil {
		return nil, err
	}
	return entry.Func(ctx, resolved)
}
