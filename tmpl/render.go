package tmpl

import (
	"context"
	"io"
	"log/slog"
	"text/template"
)

// Render parses source with the registry's functions bound to env and
// executes it with env as data. Missing map keys are errors.
func (e *Extractor) Render(
	ctx context.Context,
	w io.Writer,
	name, source string,
	env Environment,
) error {
	if err := ctx.Err(); err != nil {
		return context.Cause(ctx)
	}

	if env == nil {
		env = Environment{}
	}

	t, err := template.New(name).
		Option("missingkey=error").
		Funcs(e.reg.BuildRenderFunctions(env)).
		Parse(source)
	if err != nil {
		return ErrSyntax.Wrap(err).With(slog.String("template", name))
	}

	e.logger.TraceContext(ctx, "render template",
		slog.String("template", name),
		slog.Int("env_keys", len(env)),
	)

	if err := t.Execute(w, map[string]any(env)); err != nil {
		return ErrRender.Wrap(err).With(slog.String("template", name))
	}

	return nil
}
