package tmpl

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"slices"
	"text/template"
	"text/template/parse"

	"github.com/klauspost/readahead"

	"github.com/ardnew/tmplvars/log"
)

// DefaultName is the template name used by [Extractor.ExtractNames] and
// [Extractor.ExtractWithDefaults].
const DefaultName = "template"

// Option configures an [Extractor].
type Option func(*Extractor)

// WithLogger sets the logger for trace events. The zero [log.Logger]
// discards them.
func WithLogger(logger log.Logger) Option {
	return func(e *Extractor) { e.logger = logger }
}

// WithCache enables or disables caching of parsed templates (enabled by
// default).
func WithCache(enable bool) Option {
	return func(e *Extractor) {
		if enable {
			e.cache = newCache()
		} else {
			e.cache = nil
		}
	}
}

// WithAssociated also walks the bodies of templates declared with {{define}}
// and {{block}}, in name order after the main template.
func WithAssociated(enable bool) Option {
	return func(e *Extractor) { e.associated = enable }
}

// Extractor reports the variable dependencies of templates. It is safe for
// concurrent use once its registry is populated.
type Extractor struct {
	walker

	logger     log.Logger
	cache      *cache
	associated bool
}

// NewExtractor returns an extractor that parses with the functions of reg and
// treats the names recognized by m as accessors.
func NewExtractor(reg *Registry, m Matcher, opts ...Option) *Extractor {
	e := &Extractor{
		walker: walker{reg: reg, match: m},
		cache:  newCache(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	return e
}

// Registry returns the registry the extractor parses with.
func (e *Extractor) Registry() *Registry { return e.reg }

// Matcher returns the accessor matcher.
func (e *Extractor) Matcher() Matcher { return e.match }

// Template is a parsed template with its extracted dependencies.
type Template struct {
	name     string
	tmpl     *template.Template
	names    []string
	defaults []VariableInfo
	required []VariableInfo
}

// Name returns the template name.
func (t *Template) Name() string { return t.name }

// Names returns the dependency names in source order.
func (t *Template) Names() []string { return slices.Clone(t.names) }

// WithDefaults returns the dependencies with their literal defaults.
func (t *Template) WithDefaults() []VariableInfo { return cloneVars(t.defaults) }

// Required returns the dependencies that are looked up in the environment
// itself: accessor keys, and fields read while dot is still the
// environment. Fields inside range and with bodies, or in templates called
// with anything but ".", are relative to another value and left out.
func (t *Template) Required() []VariableInfo { return cloneVars(t.required) }

func cloneVars(vars []VariableInfo) []VariableInfo {
	out := make([]VariableInfo, len(vars))
	for i, v := range vars {
		out[i] = v
		if v.DefaultValue != nil {
			def := *v.DefaultValue
			out[i].DefaultValue = &def
		}
	}

	return out
}

// Tree returns the parse tree of the main template.
func (t *Template) Tree() *parse.Tree { return t.tmpl.Tree }

// ExtractNames returns the dependency names of source in order, duplicates
// included. A template without dependencies yields an empty slice.
func (e *Extractor) ExtractNames(
	ctx context.Context,
	source string,
) ([]string, error) {
	t, err := e.Parse(ctx, DefaultName, source)
	if err != nil {
		return nil, err
	}

	return t.Names(), nil
}

// ExtractWithDefaults returns the same dependencies as ExtractNames along
// with literal default values.
func (e *Extractor) ExtractWithDefaults(
	ctx context.Context,
	source string,
) ([]VariableInfo, error) {
	t, err := e.Parse(ctx, DefaultName, source)
	if err != nil {
		return nil, err
	}

	return t.WithDefaults(), nil
}

// ParseReader reads a template source from r and parses it.
func (e *Extractor) ParseReader(
	ctx context.Context,
	name string,
	r io.Reader,
) (*Template, error) {
	source, err := ReadAll(r)
	if err != nil {
		return nil, WrapError(err).With(slog.String("template", name))
	}

	return e.Parse(ctx, name, source)
}

// ReadAll reads r to the end through an asynchronous read-ahead buffer.
func ReadAll(r io.Reader) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err)
	}

	return string(data), nil
}

// Parse parses source as a template called name and extracts its
// dependencies.
func (e *Extractor) Parse(
	ctx context.Context,
	name, source string,
) (*Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, context.Cause(ctx)
	}

	if e.cache == nil {
		return e.parse(ctx, name, source)
	}

	key := cacheKey(e.reg.fingerprint(), e.associated, name, source)

	t, hit, err := e.cache.load(key, func() (*Template, error) {
		return e.parse(ctx, name, source)
	})

	e.logger.TraceContext(ctx, "template cache",
		slog.String("template", name),
		slog.Bool("hit", hit),
	)

	return t, err
}

func (e *Extractor) parse(
	ctx context.Context,
	name, source string,
) (*Template, error) {
	e.logger.TraceContext(ctx, "parse template",
		slog.String("template", name),
		slog.Int("source_bytes", len(source)),
	)

	t, err := template.New(name).
		Option("missingkey=error").
		Funcs(e.reg.ParseFuncs()).
		Parse(source)
	if err != nil {
		return nil, ErrSyntax.Wrap(err).With(slog.String("template", name))
	}

	trees := e.trees(t)

	names, err := walkTemplate(e, trees, false, nameOf)
	if err != nil {
		e.logger.DebugContext(ctx, "walk aborted",
			slog.String("template", name),
			slog.Any("error", err),
		)

		return nil, err
	}

	defaults, err := walkTemplate(e, trees, false, infoOf)
	if err != nil {
		return nil, err
	}

	required, err := walkTemplate(e, trees, true, infoOf)
	if err != nil {
		return nil, err
	}

	e.logger.TraceContext(ctx, "extracted variables",
		slog.String("template", name),
		slog.Int("count", len(names)),
		slog.Int("trees", len(trees)),
	)

	return &Template{
		name:     name,
		tmpl:     t,
		names:    names,
		defaults: defaults,
		required: required,
	}, nil
}

// scopedTree is a template to walk. root is set when every call reaching it
// passes the environment as dot.
type scopedTree struct {
	tmpl *template.Template
	root bool
}

// trees returns the main template, then the templates it calls directly or
// transitively in order of first call, then, when associated templates are
// enabled, the remaining ones sorted by name.
func (e *Extractor) trees(t *template.Template) []scopedTree {
	order := []string{t.Name()}
	calls := map[string][]templateCall{}

	for i := 0; i < len(order); i++ {
		tt := t.Lookup(order[i])
		if tt == nil || tt.Tree == nil {
			continue
		}

		calls[order[i]] = templateCalls(tt.Tree.Root, false, 0, nil)

		for _, c := range calls[order[i]] {
			if !slices.Contains(order, c.name) && t.Lookup(c.name) != nil {
				order = append(order, c.name)
			}
		}
	}

	root := make(map[string]bool, len(order))
	for _, name := range order {
		root[name] = true
	}

	// A template is rooted only if all of its callers are rooted and pass
	// ".". Flags only ever clear, so this settles.
	for changed := true; changed; {
		changed = false

		for caller, cs := range calls {
			for _, c := range cs {
				if c.name != t.Name() && root[c.name] && !(root[caller] && c.dot) {
					root[c.name] = false
					changed = true
				}
			}
		}
	}

	out := make([]scopedTree, 0, len(order))
	for _, name := range order {
		out = append(out, scopedTree{tmpl: t.Lookup(name), root: root[name]})
	}

	if e.associated {
		assoc := t.Templates()
		slices.SortFunc(assoc, func(a, b *template.Template) int {
			return cmp.Compare(a.Name(), b.Name())
		})

		for _, a := range assoc {
			if !slices.Contains(order, a.Name()) {
				out = append(out, scopedTree{tmpl: a})
			}
		}
	}

	return out
}

// walkTemplate walks each tree in order. With rootOnly set, fields read
// while dot is not the environment are dropped.
func walkTemplate[T any](
	e *Extractor,
	trees []scopedTree,
	rootOnly bool,
	emit func(string, *string) T,
) ([]T, error) {
	out := []T{}

	for _, st := range trees {
		if st.tmpl == nil || st.tmpl.Tree == nil || st.tmpl.Tree.Root == nil {
			continue
		}

		w := e.walker
		w.rebound = !st.root
		w.rootOnly = rootOnly

		vars, err := walk(&w, st.tmpl.Tree.Root, 0, emit)
		if err != nil {
			return nil, WrapError(err).With(slog.String("template", st.tmpl.Name()))
		}

		out = append(out, vars...)
	}

	return out, nil
}

// WalkNames returns the dependency names under node.
func (e *Extractor) WalkNames(node parse.Node) ([]string, error) {
	vars, err := walk(&e.walker, node, 0, nameOf)
	if err != nil {
		return nil, err
	}

	if vars == nil {
		vars = []string{}
	}

	return vars, nil
}

// WalkWithDefaults returns the dependencies under node with their defaults.
func (e *Extractor) WalkWithDefaults(node parse.Node) ([]VariableInfo, error) {
	vars, err := walk(&e.walker, node, 0, infoOf)
	if err != nil {
		return nil, err
	}

	if vars == nil {
		vars = []VariableInfo{}
	}

	return vars, nil
}
