package tmpl

import "strings"

// VariableInfo is one extracted dependency. DefaultValue is nil unless the
// accessor call supplied a literal default; a literal "" is a present, empty
// default.
type VariableInfo struct {
	Name         string  `json:"name"                   yaml:"name"`
	DefaultValue *string `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

// HasDefault reports whether a default value was extracted.
func (v VariableInfo) HasDefault() bool { return v.DefaultValue != nil }

func (v VariableInfo) String() string {
	if v.DefaultValue == nil {
		return v.Name
	}

	return v.Name + "=" + *v.DefaultValue
}

// Names returns the names of vars in order.
func Names(vars []VariableInfo) []string {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}

	return names
}

// Unique returns names without repeats, keeping the first occurrence.
func Unique[T comparable](names []T) []T {
	seen := make(map[T]struct{}, len(names))
	out := make([]T, 0, len(names))

	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}

		seen[n] = struct{}{}
		out = append(out, n)
	}

	return out
}

// Environment holds the values a template is rendered with.
type Environment map[string]any

// Lookup returns the value for name. A name that is not a key of env is
// split on "." and resolved through nested maps.
func (env Environment) Lookup(name string) (any, bool) {
	if v, ok := env[name]; ok {
		return v, true
	}

	var cur any = map[string]any(env)

	for part := range strings.SplitSeq(name, ".") {
		switch m := cur.(type) {
		case map[string]any:
			v, ok := m[part]
			if !ok {
				return nil, false
			}

			cur = v
		case Environment:
			v, ok := m[part]
			if !ok {
				return nil, false
			}

			cur = v
		default:
			return nil, false
		}
	}

	return cur, true
}

// Missing returns, in order and without repeats, the names of vars that have
// no default and cannot be resolved in env.
func (env Environment) Missing(vars []VariableInfo) []string {
	var missing []string

	for _, v := range vars {
		if v.DefaultValue != nil {
			continue
		}

		if _, ok := env.Lookup(v.Name); !ok {
			missing = append(missing, v.Name)
		}
	}

	return Unique(missing)
}
