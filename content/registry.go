package content

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/fx"
)

// FrameworkAssembly is the assembly built-in readers are registered under.
const FrameworkAssembly = "Microsoft.Xna.Framework"

// Runtime assemblies that name the same core library.
const (
	runtimeAssembly        = "mscorlib"
	runtimeAssemblyCoreCLR = "System.Private.CoreLib"
)

// forkAssemblies are framework distributions whose readers share the
// framework's names.
var forkAssemblies = []string{"MonoGame.Framework", "FNA"}

// TypeReader deserializes one target type.
type TypeReader interface {
	// TargetType is the assembly-free name of the produced type.
	TargetType() string

	// Read decodes one value. existing is the value being read into, or nil.
	Read(r *Reader, existing any) (any, error)
}

// Initializer is implemented by readers that resolve other readers, such
// as the element reader of a list. Initialize runs exactly once per
// instance, after every reader of the declaring stream exists.
type Initializer interface {
	Initialize(l Lookup) error
}

// Lookup finds initialized readers by target type.
type Lookup interface {
	ReaderFor(target string) (TypeReader, bool)
}

// Factory creates a reader. Generic readers receive the target names of
// their type arguments.
type Factory func(args []string) (TypeReader, error)

// Registry maps serialized reader names to shared reader instances.
//
// Registry is safe for concurrent use. One mutex serializes name
// resolution, instantiation and initialization; readers obtained from it
// need no further locking.
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	instances map[string]TypeReader
	targets   map[string]TypeReader
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		instances: make(map[string]TypeReader),
		targets:   make(map[string]TypeReader),
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// DefaultRegistry returns the process-wide registry holding the built-in readers.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		registerBuiltins(defaultRegistry)
	})
	return defaultRegistry
}

// Register adds a factory to the default registry.
func Register(name string, f Factory) {
	DefaultRegistry().Register(name, f)
}

// Register adds a factory under name, the reader's generic definition,
// e.g. "Game.Content.LevelReader, Game". Qualifiers are ignored. An
// existing registration is replaced. Register panics if name is malformed.
func (g *Registry) Register(name string, f Factory) {
	tn, err := ParseTypeName(name)
	if err != nil {
		panic(err)
	}
	if len(tn.Args) > 0 {
		panic(fmt.Sprintf("content: register %q: use the generic definition without arguments", name))
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.factories[tn.Definition()] = f
}

// Registered reports whether a factory exists for the generic definition name.
func (g *Registry) Registered(name string) bool {
	tn, err := ParseTypeName(name)
	if err != nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.factories[tn.Definition()]
	return ok
}

// ReaderFor returns the initialized reader producing target.
func (g *Registry) ReaderFor(target string) (TypeReader, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	tr, ok := g.targets[target]
	return tr, ok
}

// Len returns the number of reader instances.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.instances)
}

// Reset drops every reader instance. Factories stay registered.
func (g *Registry) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.instances = make(map[string]TypeReader)
	g.targets = make(map[string]TypeReader)
}

// Resolve returns the shared reader for one serialized reader name.
func (g *Registry) Resolve(name string) (TypeReader, error) {
	readers, err := g.resolveAll([]string{name})
	if err != nil {
		return nil, err
	}
	return readers[0], nil
}

// LoadAssetReaders reads the type reader table at the cursor of r and
// installs it on r. The result is in stream order.
func (g *Registry) LoadAssetReaders(r *Reader) ([]TypeReader, error) {
	n, err := r.Read7BitEncodedInt()
	if err != nil {
		return nil, fmt.Errorf("content: reader count: %w", err)
	}
	if n < 0 || n > r.Len() {
		return nil, fmt.Errorf("content: reader count %d: %w", n, ErrTruncated)
	}
	names := make([]string, n)
	for i := range names {
		if names[i], err = r.ReadString(); err != nil {
			return nil, fmt.Errorf("content: reader %d name: %w", i, err)
		}
		// Reader versions are written but never checked.
		if _, err = r.ReadInt32(); err != nil {
			return nil, fmt.Errorf("content: reader %d version: %w", i, err)
		}
	}

	readers, err := g.resolveAll(names)
	if err != nil {
		return nil, err
	}
	r.readers = readers
	return readers, nil
}

// resolveAll resolves names, creating missing instances first and then
// initializing the new ones in order. On error no new instance is kept.
func (g *Registry) resolveAll(names []string) ([]TypeReader, error) {
	log := fx.ComponentLogger("content")

	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]TypeReader, len(names))
	var created []string
	rollback := func() {
		for _, key := range created {
			if tr, ok := g.instances[key]; ok {
				delete(g.targets, tr.TargetType())
				delete(g.instances, key)
			}
		}
	}

	for i, name := range names {
		tr, key, isNew, err := g.instantiate(name)
		if err != nil {
			rollback()
			return nil, err
		}
		if isNew {
			created = append(created, key)
			log.Debug("type reader created", "name", key, "target", tr.TargetType())
		}
		out[i] = tr
	}

	lookup := lockedLookup{g}
	for _, key := range created {
		tr := g.instances[key]
		if init, ok := tr.(Initializer); ok {
			if err := init.Initialize(lookup); err != nil {
				rollback()
				return nil, fmt.Errorf("content: initialize %s: %w", key, err)
			}
		}
	}
	return out, nil
}

// instantiate returns the instance for name, creating it when the
// resolved name has none yet. g.mu must be held.
func (g *Registry) instantiate(name string) (TypeReader, string, bool, error) {
	tn, err := ParseTypeName(name)
	if err != nil {
		return nil, "", false, &TypeResolutionError{Original: name, LastTried: name, Err: err}
	}

	var last string
	for _, asm := range candidateAssemblies(tn.Assembly) {
		c := tn
		c.Assembly = asm
		c.Qualifiers = nil
		last = c.Definition()
		f, ok := g.factories[last]
		if !ok {
			continue
		}

		key := resolvedKey(c)
		if tr, ok := g.instances[key]; ok {
			return tr, key, false, nil
		}
		tr, err := f(tn.ArgTargets())
		if err != nil {
			return nil, "", false, fmt.Errorf("content: create %s: %w", key, err)
		}
		g.instances[key] = tr
		g.targets[tr.TargetType()] = tr
		return tr, key, true, nil
	}
	return nil, "", false, &TypeResolutionError{Original: name, LastTried: last}
}

// resolvedKey is the instance cache key: the reader's resolved assembly
// with assembly-free type arguments.
func resolvedKey(tn TypeName) string {
	key := tn.Target()
	if tn.Assembly != "" {
		key += ", " + tn.Assembly
	}
	return key
}

// candidateAssemblies lists the assemblies to try for a reader, in
// naming-convention order: as written, runtime library substitution,
// framework substitution, then forked distribution substitution.
func candidateAssemblies(asm string) []string {
	out := []string{asm}
	add := func(a string) {
		for _, o := range out {
			if o == a {
				return
			}
		}
		out = append(out, a)
	}

	switch asm {
	case runtimeAssembly:
		add(runtimeAssemblyCoreCLR)
	case runtimeAssemblyCoreCLR:
		add(runtimeAssembly)
	}

	if asm == "" || strings.HasPrefix(asm, FrameworkAssembly) {
		add(FrameworkAssembly)
	}

	if isFork(asm) {
		add(FrameworkAssembly)
	} else if asm == "" || strings.HasPrefix(asm, FrameworkAssembly) {
		for _, f := range forkAssemblies {
			add(f)
		}
	}
	return out
}

func isFork(asm string) bool {
	for _, f := range forkAssemblies {
		if asm == f || strings.HasPrefix(asm, f+".") {
			return true
		}
	}
	return false
}

// lockedLookup serves Initialize calls made while the registry lock is held.
type lockedLookup struct{ g *Registry }

func (l lockedLookup) ReaderFor(target string) (TypeReader, bool) {
	tr, ok := l.g.targets[target]
	return tr, ok
}
