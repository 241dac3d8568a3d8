// Package variant defines the function vocabularies a template may use.
//
// A variant pairs a [tmpl.Registry] with the [tmpl.Matcher] that decides
// which of its functions are accessors. Variants are selected by name at
// startup:
//
//	official  text/template builtins only
//	custom    environment accessors (getv, exists, get, jsonv, json, jsonArray)
//	confd     custom plus the confd string, path and arithmetic utilities
package variant

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/ardnew/tmplvars/tmpl"
)

// Default is the name of the variant used when none is selected.
const Default = "custom"

// Provider supplies the registry and matcher of a variant.
type Provider interface {
	Name() string
	Description() string
	Registry() *tmpl.Registry
	Matcher() tmpl.Matcher
}

// provider builds its registry once, on first use.
type provider struct {
	name        string
	description string
	build       func() (*tmpl.Registry, tmpl.Matcher)

	once    sync.Once
	reg     *tmpl.Registry
	matcher tmpl.Matcher
}

func (p *provider) Name() string        { return p.name }
func (p *provider) Description() string { return p.description }

func (p *provider) Registry() *tmpl.Registry {
	p.once.Do(p.init)

	return p.reg
}

func (p *provider) Matcher() tmpl.Matcher {
	p.once.Do(p.init)

	return p.matcher
}

func (p *provider) init() { p.reg, p.matcher = p.build() }

//nolint:gochecknoglobals
var providers = []Provider{
	&provider{
		name:        "official",
		description: "text/template builtins only",
		build:       buildOfficial,
	},
	&provider{
		name:        "custom",
		description: "environment accessors getv, exists, get and JSON parsers",
		build:       buildCustom,
	},
	&provider{
		name:        "confd",
		description: "custom accessors plus confd string, path and arithmetic functions",
		build:       buildConfd,
	},
}

// Lookup returns the variant called name.
func Lookup(name string) (Provider, bool) {
	i := slices.IndexFunc(providers, func(p Provider) bool {
		return p.Name() == name
	})
	if i < 0 {
		return nil, false
	}

	return providers[i], true
}

// Names returns the variant names in definition order.
func Names() []string {
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name()
	}

	return names
}

// Providers returns all variants in definition order.
func Providers() []Provider { return slices.Clone(providers) }

// New returns an extractor for the variant called name.
func New(name string, opts ...tmpl.Option) (*tmpl.Extractor, error) {
	p, ok := Lookup(name)
	if !ok {
		return nil, ErrUnknownVariant.With(slog.String("variant", name))
	}

	return tmpl.NewExtractor(p.Registry(), p.Matcher(), opts...), nil
}

// ErrUnknownVariant is returned by [New] for an unregistered name.
var ErrUnknownVariant = tmpl.NewError("unknown variant")
