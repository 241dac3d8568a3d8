package cli

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tmplvars/log"
)

// resolve returns a [kong.ConfigurationLoader] reading flag defaults from
// the mapping called name in a YAML document:
//
//	config:
//	  log-level: debug
//	  log_format: text
//	  variant: confd
//	  jobs: 8
//
// Keys may spell flag names with hyphens or underscores. Numbers are handed
// to kong as strings. A document that cannot be decoded, or that has no
// such mapping, resolves nothing; flags on the command line always win.
func resolve(name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			if err != io.EOF {
				log.Warn("ignoring configuration",
					slog.String("section", name),
					slog.Any("error", err),
				)
			}

			return config{}, nil
		}

		section, ok := doc[name].(map[string]any)
		if !ok {
			return config{}, nil
		}

		cfg := make(config, len(section))
		for key, val := range section {
			cfg[strings.ReplaceAll(key, "_", "-")] = flagValue(val)
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a flat mapping of flag names.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	return nil, nil //nolint:nilnil
}

// flagValue converts a decoded YAML value into a form kong's mappers accept.
func flagValue(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = flagValue(e)
		}

		return out
	default:
		return v
	}
}
