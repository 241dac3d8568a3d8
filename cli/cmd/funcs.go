package cmd

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strconv"

	"github.com/ardnew/tmplvars/tmpl"
)

// Funcs lists the functions recognized by the selected variant.
type Funcs struct {
	Format tmpl.Format `default:"text" help:"Output format (text, json, yaml)." short:"o"`
}

// Run executes the funcs command.
func (f *Funcs) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ex, err := newExtractor(ctx)
	if err != nil {
		return err
	}

	defs := functions(ex)
	out := streamsFrom(ctx).Out

	if f.Format != tmpl.FormatText {
		err = tmpl.Encode(ctx, out, f.Format, defs)
	} else {
		rows := make([][]string, len(defs))
		for i, d := range defs {
			rows[i] = []string{d.Signature(), ruleText(d.Rule), d.Description}
		}

		err = writeTable(out, []string{"FUNCTION", "RULE", "DESCRIPTION"}, rows)
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", f.Format.String()))
	}

	return nil
}

// functions returns the registered functions of ex together with names its
// matcher recognizes without a registration, which extract as plain keys.
func functions(ex *tmpl.Extractor) []tmpl.FunctionDefinition {
	reg := ex.Registry()
	defs := slices.Collect(reg.Functions())

	for _, name := range tmpl.SupportedFunctions(ex.Matcher()) {
		if !reg.HasFunction(name) {
			defs = append(defs, tmpl.FunctionDefinition{
				Name: name,
				Rule: tmpl.KeyRule(0),
			})
		}
	}

	slices.SortFunc(defs, func(a, b tmpl.FunctionDefinition) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return defs
}

func ruleText(r tmpl.Rule) string {
	if r.Kind == tmpl.RuleKey && r.Default > 0 {
		return r.Kind.String() + " (default: arg " + strconv.Itoa(r.Default) + ")"
	}

	return r.Kind.String()
}
