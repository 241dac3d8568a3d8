package tmpl

import (
	"strconv"
	"text/template/parse"
)

// RuleKind classifies how a recognized function's arguments are read during
// extraction.
type RuleKind int

const (
	// RuleKey functions look up their literal first argument by name.
	RuleKey RuleKind = iota
	// RuleTransform functions treat a literal first argument as data.
	RuleTransform
	// RuleNone functions never contribute dependencies.
	RuleNone
)

func (k RuleKind) String() string {
	switch k {
	case RuleKey:
		return "key"
	case RuleTransform:
		return "transform"
	case RuleNone:
		return "none"
	default:
		return "RuleKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k RuleKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Rule is the extraction rule of a function. Default is the 1-based call
// argument position holding a literal default value, or 0 for none.
type Rule struct {
	Kind    RuleKind `json:"kind"              yaml:"kind"`
	Default int      `json:"default,omitempty" yaml:"default,omitempty"`
}

// KeyRule returns a [RuleKey] rule with the default at position def.
func KeyRule(def int) Rule { return Rule{Kind: RuleKey, Default: def} }

// RenderHandler constructs the template function bound to env. It is called
// with a nil env to obtain a function of the right shape for parsing.
type RenderHandler func(env Environment) any

// FunctionDefinition describes a template function known to a [Registry].
type FunctionDefinition struct {
	Name        string        `json:"name"                  yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Params      []string      `json:"params,omitempty"      yaml:"params,omitempty"`
	Rule        Rule          `json:"rule"                  yaml:"rule"`
	Render      RenderHandler `json:"-"                     yaml:"-"`
}

// Signature returns the call form of the function, as in "getv key [default]".
func (d FunctionDefinition) Signature() string {
	s := d.Name
	for _, p := range d.Params {
		s += " " + p
	}

	return s
}

// ExtractNames returns the dependency names contributed by a call to d with
// the given command arguments (args[0] is the function identifier).
func (d FunctionDefinition) ExtractNames(args []parse.Node) ([]string, error) {
	return walkCall(&walker{}, accessor{rule: d.Rule}, args, 0, nameOf)
}

// ExtractWithDefaults is ExtractNames reporting literal defaults.
func (d FunctionDefinition) ExtractWithDefaults(
	args []parse.Node,
) ([]VariableInfo, error) {
	return walkCall(&walker{}, accessor{rule: d.Rule}, args, 0, infoOf)
}
