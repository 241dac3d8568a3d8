package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/tmplvars/log"
	"github.com/ardnew/tmplvars/tmpl"
)

// Vars prints the variables each template source depends on.
type Vars struct {
	Defaults   bool        `help:"Report literal default values."                          short:"d"`
	Format     tmpl.Format `help:"Output format (text, json, yaml)."        default:"text" short:"o"`
	Unique     bool        `help:"Drop repeated names after the first one."                short:"u"`
	Jobs       int         `help:"Files processed concurrently (0: one per CPU)." default:"0" short:"j"`
	Associated bool        `help:"Include templates declared with define or block."        short:"a"`

	Sources []string `arg:"" default:"-" help:"Template file(s) or '-' for stdin." name:"source"`
}

// fileVars is the result for one source.
type fileVars struct {
	File      string `json:"file"      yaml:"file"`
	Variables any    `json:"variables" yaml:"variables"`

	lines []string
}

// Run executes the vars command.
func (v *Vars) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if err := checkSources(v.Sources); err != nil {
		return err
	}

	ex, err := newExtractor(ctx, tmpl.WithAssociated(v.Associated))
	if err != nil {
		return err
	}

	results := make([]fileVars, len(v.Sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.jobs())

	for i, src := range v.Sources {
		g.Go(func() error {
			t, err := v.parse(gctx, ex, src)
			if err != nil {
				return err
			}

			results[i] = v.collect(src, t)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	log.DebugContext(ctx, "extracted variables",
		slog.Int("sources", len(v.Sources)),
		slog.Bool("defaults", v.Defaults),
	)

	return v.write(ctx, streamsFrom(ctx).Out, results)
}

func (v *Vars) jobs() int {
	if v.Jobs > 0 {
		return v.Jobs
	}

	return runtime.GOMAXPROCS(0)
}

func (v *Vars) parse(
	ctx context.Context,
	ex *tmpl.Extractor,
	src string,
) (*tmpl.Template, error) {
	source, err := readSource(ctx, src)
	if err != nil {
		return nil, err
	}

	return ex.Parse(ctx, templateName(src), source)
}

func (v *Vars) collect(src string, t *tmpl.Template) fileVars {
	name := src
	if src == stdinSource {
		name = "stdin"
	}

	if !v.Defaults {
		names := t.Names()
		if v.Unique {
			names = tmpl.Unique(names)
		}

		return fileVars{File: name, Variables: names, lines: names}
	}

	vars := t.WithDefaults()
	if v.Unique {
		vars = uniqueVars(vars)
	}

	lines := make([]string, len(vars))
	for i, vi := range vars {
		lines[i] = vi.String()
	}

	return fileVars{File: name, Variables: vars, lines: lines}
}

// uniqueVars keeps the first occurrence of each name.
func uniqueVars(vars []tmpl.VariableInfo) []tmpl.VariableInfo {
	seen := make(map[string]struct{}, len(vars))
	out := make([]tmpl.VariableInfo, 0, len(vars))

	for _, vi := range vars {
		if _, ok := seen[vi.Name]; ok {
			continue
		}

		seen[vi.Name] = struct{}{}
		out = append(out, vi)
	}

	return out
}

func (v *Vars) write(ctx context.Context, w io.Writer, results []fileVars) error {
	var err error

	switch {
	case len(results) == 1:
		err = tmpl.Encode(ctx, w, v.Format, results[0].Variables)

	case v.Format == tmpl.FormatText:
		err = writeGrouped(w, results)

	default:
		err = tmpl.Encode(ctx, w, v.Format, results)
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", v.Format.String()))
	}

	return nil
}

// writeGrouped prints each file's variables indented under its name.
func writeGrouped(w io.Writer, results []fileVars) error {
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "%s:\n", r.File); err != nil {
			return err
		}

		for _, line := range r.lines {
			if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
				return err
			}
		}
	}

	return nil
}
