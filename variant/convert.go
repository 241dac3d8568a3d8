package variant

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/ardnew/tmplvars/tmpl"
)

// toInt converts integer-like values, including the uint64, int64 and
// float64 values produced by YAML and JSON decoders.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		if n > math.MaxInt {
			break
		}

		return int(n), nil
	case float32:
		if f := float64(n); f == math.Trunc(f) {
			return int(f), nil
		}
	case float64:
		if n == math.Trunc(n) && n >= math.MinInt && n <= math.MaxInt {
			return int(n), nil
		}
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i, nil
		}
	}

	return 0, tmpl.ErrInvalidType.With(
		slog.String("want", "integer"),
		slog.String("got", fmt.Sprintf("%T", v)),
	)
}

// toStrings converts a []string or []any to []string.
func toStrings(v any) ([]string, error) {
	switch s := v.(type) {
	case []string:
		return s, nil
	case []any:
		out := make([]string, len(s))
		for i, e := range s {
			out[i] = fmt.Sprint(e)
		}

		return out, nil
	case nil:
		return nil, nil
	default:
		return nil, tmpl.ErrInvalidType.With(
			slog.String("want", "list"),
			slog.String("got", fmt.Sprintf("%T", v)),
		)
	}
}
