package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tmplvars/cli/cmd/environ"
	"github.com/ardnew/tmplvars/tmpl"
	"github.com/ardnew/tmplvars/variant"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Streams are the input and outputs a command reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type streamsKey struct{}

// WithStreams returns a new context.Context containing s. Nil members fall
// back to the process's standard streams.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

type (
	variantKey    struct{}
	variantConfig struct {
		name string
		opts []tmpl.Option
	}
)

// WithVariant returns a new context.Context selecting the named template
// variant. The options are applied to every extractor a command creates.
func WithVariant(
	ctx context.Context,
	name string,
	opts ...tmpl.Option,
) context.Context {
	return context.WithValue(ctx, variantKey{}, variantConfig{name, opts})
}

func variantFrom(ctx context.Context) variantConfig {
	v, ok := ctx.Value(variantKey{}).(variantConfig)
	if !ok || v.name == "" {
		v.name = variant.Default
	}

	return v
}

// newExtractor creates an extractor for the variant selected in ctx, with
// opts applied after the context's own options.
func newExtractor(ctx context.Context, opts ...tmpl.Option) (*tmpl.Extractor, error) {
	v := variantFrom(ctx)

	return variant.New(v.name, append(v.opts[:len(v.opts):len(v.opts)], opts...)...)
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// templateName returns the name a source is parsed under.
func templateName(source string) string {
	if source == stdinSource {
		return tmpl.DefaultName
	}

	return source
}

// readSource reads the named file to the end, or the context's input
// stream when name is "-".
func readSource(ctx context.Context, name string) (string, error) {
	if name == stdinSource {
		s, err := tmpl.ReadAll(streamsFrom(ctx).In)
		if err != nil {
			return "", ErrReadSource.Wrap(err).With(slog.String("source", "stdin"))
		}

		return s, nil
	}

	file, err := os.Open(name)
	if err != nil {
		return "", ErrReadSource.Wrap(err).With(slog.String("source", name))
	}
	defer file.Close()

	s, err := tmpl.ReadAll(file)
	if err != nil {
		return "", ErrReadSource.Wrap(err).With(slog.String("source", name))
	}

	return s, nil
}

// checkSources rejects a source list that reads stdin more than once.
func checkSources(sources []string) error {
	stdin := 0

	for _, src := range sources {
		if src == stdinSource {
			stdin++
		}
	}

	if stdin > 1 {
		return ErrDuplicateStdin
	}

	return nil
}

// loadEnvironment decodes the environment files in order and merges them,
// later files overriding earlier ones key by key.
func loadEnvironment(ctx context.Context, files []string) (tmpl.Environment, error) {
	env := tmpl.Environment{}

	for _, file := range files {
		data, err := readSource(ctx, file)
		if err != nil {
			return nil, err
		}

		src, err := environ.DecodeString(ctx, data)
		if err != nil {
			return nil, tmpl.WrapError(err).With(slog.String("file", file))
		}

		environ.Merge(env, src)
	}

	return env, nil
}
