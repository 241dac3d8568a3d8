package tmpl

import (
	"slices"
)

// Matcher decides whether a function name is a recognized accessor.
// Implementations must be total: unknown or empty names return false.
type Matcher interface {
	MatchCustomFunc(name string) bool
}

// FixedMatcher recognizes a fixed set of names.
type FixedMatcher struct {
	names map[string]struct{}
}

// NewFixedMatcher returns a matcher recognizing exactly names.
func NewFixedMatcher(names ...string) *FixedMatcher {
	m := &FixedMatcher{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if n != "" {
			m.names[n] = struct{}{}
		}
	}

	return m
}

func (m *FixedMatcher) MatchCustomFunc(name string) bool {
	if m == nil {
		return false
	}

	_, ok := m.names[name]

	return ok
}

func (m *FixedMatcher) supported() []string {
	if m == nil {
		return nil
	}

	out := make([]string, 0, len(m.names))
	for n := range m.names {
		out = append(out, n)
	}

	return out
}

// RegistryMatcher recognizes every name registered in a [Registry].
type RegistryMatcher struct {
	reg *Registry
}

// NewRegistryMatcher returns a matcher backed by reg.
func NewRegistryMatcher(reg *Registry) *RegistryMatcher {
	return &RegistryMatcher{reg: reg}
}

func (m *RegistryMatcher) MatchCustomFunc(name string) bool {
	return m != nil && name != "" && m.reg.HasFunction(name)
}

func (m *RegistryMatcher) supported() []string {
	if m == nil {
		return nil
	}

	return m.reg.GetFunctionNames()
}

// CompositeMatcher recognizes a name when any of its matchers does.
type CompositeMatcher struct {
	matchers []Matcher
}

// NewCompositeMatcher returns the union of ms. Nil matchers are skipped.
func NewCompositeMatcher(ms ...Matcher) *CompositeMatcher {
	c := &CompositeMatcher{}
	for _, m := range ms {
		if m != nil {
			c.matchers = append(c.matchers, m)
		}
	}

	return c
}

func (m *CompositeMatcher) MatchCustomFunc(name string) bool {
	if m == nil {
		return false
	}

	for _, sub := range m.matchers {
		if sub.MatchCustomFunc(name) {
			return true
		}
	}

	return false
}

func (m *CompositeMatcher) supported() []string {
	if m == nil {
		return nil
	}

	var out []string
	for _, sub := range m.matchers {
		out = append(out, SupportedFunctions(sub)...)
	}

	return out
}

// SupportedFunctions returns the sorted names m recognizes, or nil when m
// cannot enumerate them.
func SupportedFunctions(m Matcher) []string {
	e, ok := m.(interface{ supported() []string })
	if !ok {
		return nil
	}

	names := e.supported()
	slices.Sort(names)

	return slices.Compact(names)
}
