package tmpl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format is an output encoding for extraction results.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
)

var formatNames = [...]string{
	FormatText: "text",
	FormatJSON: "json",
	FormatYAML: "yaml",
}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}

	return fmt.Sprintf("Format(%d)", int(f))
}

// Formats returns an iterator over the format names.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range formatNames {
			if !yield(name) {
				return
			}
		}
	}
}

// ParseFormat parses a format name case-insensitively.
func ParseFormat(s string) (Format, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f, name := range formatNames {
		if s == name {
			return Format(f), true
		}
	}

	return FormatText, false
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	v, ok := ParseFormat(string(text))
	if !ok {
		return fmt.Errorf("unknown format %q", text)
	}

	*f = v

	return nil
}

// Encode writes v to w in format f. Text output writes one element per line
// for slices of names, variables or fmt.Stringer values.
func Encode(ctx context.Context, w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case FormatYAML:
		data, err := yaml.MarshalContext(ctx, v, yaml.Indent(2))
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(w, string(data))

		return err

	default:
		return encodeText(w, v)
	}
}

func encodeText(w io.Writer, v any) error {
	switch v := v.(type) {
	case []string:
		return writeLines(w, v)
	case []VariableInfo:
		return writeLines(w, v)
	case []fmt.Stringer:
		return writeLines(w, v)
	default:
		_, err := fmt.Fprintln(w, v)

		return err
	}
}

func writeLines[T any](w io.Writer, lines []T) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}
