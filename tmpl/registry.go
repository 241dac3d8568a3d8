package tmpl

import (
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"github.com/zeebo/xxh3"
)

// Registry maps function names to their definitions. It is safe for
// concurrent use; a nil *Registry is empty.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]FunctionDefinition
}

// NewRegistry returns a registry holding defs.
func NewRegistry(defs ...FunctionDefinition) *Registry {
	r := &Registry{defs: make(map[string]FunctionDefinition, len(defs))}
	for _, def := range defs {
		r.RegisterFunction(def)
	}

	return r
}

// RegisterFunction adds def, replacing any definition with the same name.
// Definitions without a name are ignored.
func (r *Registry) RegisterFunction(def FunctionDefinition) {
	if r == nil || def.Name == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.defs == nil {
		r.defs = make(map[string]FunctionDefinition)
	}

	r.defs[def.Name] = def
}

// GetFunction returns the definition registered as name.
func (r *Registry) GetFunction(name string) (FunctionDefinition, bool) {
	if r == nil {
		return FunctionDefinition{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[name]

	return def, ok
}

// HasFunction reports whether name is registered.
func (r *Registry) HasFunction(name string) bool {
	_, ok := r.GetFunction(name)

	return ok
}

// GetFunctionNames returns the registered names in sorted order.
func (r *Registry) GetFunctionNames() []string {
	if r == nil {
		return []string{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.defs))
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.defs)
}

// Functions returns an iterator over the definitions sorted by name.
func (r *Registry) Functions() iter.Seq[FunctionDefinition] {
	return func(yield func(FunctionDefinition) bool) {
		for _, name := range r.GetFunctionNames() {
			def, ok := r.GetFunction(name)
			if ok && !yield(def) {
				return
			}
		}
	}
}

// ParseFuncs returns functions of the right shape for parsing templates that
// call the registered functions. They are bound to an empty environment.
func (r *Registry) ParseFuncs() template.FuncMap {
	return r.BuildRenderFunctions(nil)
}

// BuildRenderFunctions returns the registered functions bound to env.
// Definitions without a render handler are omitted.
func (r *Registry) BuildRenderFunctions(env Environment) template.FuncMap {
	funcs := make(template.FuncMap)

	for def := range r.Functions() {
		if def.Render == nil {
			continue
		}

		if fn := def.Render(env); fn != nil {
			funcs[def.Name] = fn
		}
	}

	return funcs
}

// fingerprint identifies the registered names and rules.
func (r *Registry) fingerprint() uint64 {
	var sb strings.Builder

	for def := range r.Functions() {
		sb.WriteString(def.Name)
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(int(def.Rule.Kind)))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(def.Rule.Default))
		sb.WriteByte(';')
	}

	return xxh3.HashString(sb.String())
}
