package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/tmplvars/cli/cmd/repl"
	"github.com/ardnew/tmplvars/log"
	"github.com/ardnew/tmplvars/tmpl"
)

// Repl starts the interactive template console.
type Repl struct {
	Env []string `help:"YAML or JSON environment file(s), merged in order." sep:"none" short:"e"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if err := checkSources(r.Env); err != nil {
		return err
	}

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrUndefinedVariable.With(slog.String("variable", CacheIdentifier))
	}

	cacheDir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok {
		return ErrUndefinedVariable.With(slog.String("variable", CacheIdentifier))
	}

	env, err := loadEnvironment(ctx, r.Env)
	if err != nil {
		return err
	}

	logger := log.Default()

	ex, err := newExtractor(ctx, tmpl.WithLogger(logger))
	if err != nil {
		return err
	}

	return repl.Run(ctx, ex, env, cacheDir, logger)
}
