package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/tmplvars/cli/cmd/environ"
	"github.com/ardnew/tmplvars/log"
	"github.com/ardnew/tmplvars/tmpl"
)

// Render renders a template against an environment built from files and
// command-line assignments.
type Render struct {
	Env    []string `help:"YAML or JSON environment file(s), merged in order."                     sep:"none" short:"e"`
	Set    []string `help:"Set key to a literal string (key=value)."                   placeholder:"KEY=VALUE" sep:"none" short:"s"`
	Eval   []string `help:"Set key to the result of an expr-lang expression (key=expr)." placeholder:"KEY=EXPR"  sep:"none" short:"x"`
	Strict bool     `help:"Fail when a variable without a default is not in the environment."`

	Source string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"source"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if err := checkSources(append([]string{r.Source}, r.Env...)); err != nil {
		return err
	}

	env, err := r.environment(ctx)
	if err != nil {
		return err
	}

	ex, err := newExtractor(ctx)
	if err != nil {
		return err
	}

	source, err := readSource(ctx, r.Source)
	if err != nil {
		return err
	}

	name := templateName(r.Source)

	if r.Strict {
		t, err := ex.Parse(ctx, name, source)
		if err != nil {
			return err
		}

		if missing := env.Missing(t.Required()); len(missing) > 0 {
			return ErrMissingVariables.With(
				slog.String("template", name),
				slog.Any("variables", missing),
			)
		}
	}

	log.DebugContext(ctx, "render",
		slog.String("template", name),
		slog.Int("env_keys", len(env)),
	)

	return ex.Render(ctx, streamsFrom(ctx).Out, name, source, env)
}

// environment merges the environment files in order, then applies the
// literal assignments, then evaluates the expressions against everything
// assigned before them.
func (r *Render) environment(ctx context.Context) (tmpl.Environment, error) {
	env, err := loadEnvironment(ctx, r.Env)
	if err != nil {
		return nil, err
	}

	for _, s := range r.Set {
		if err := environ.Set(env, s); err != nil {
			return nil, err
		}
	}

	for _, x := range r.Eval {
		if err := environ.Eval(env, x); err != nil {
			return nil, err
		}
	}

	return env, nil
}
