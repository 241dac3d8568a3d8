package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

//nolint:gochecknoglobals
var (
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stringStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	numberStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	trueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	falseStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	durationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	timeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))

	levelStyle = map[Level]lipgloss.Style{
		LevelTrace: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

func styleForLevel(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return levelStyle[LevelError]
	case l >= slog.LevelWarn:
		return levelStyle[LevelWarn]
	case l >= slog.LevelInfo:
		return levelStyle[LevelInfo]
	case l >= slog.LevelDebug:
		return levelStyle[LevelDebug]
	default:
		return levelStyle[LevelTrace]
	}
}

// prettyTextHandler writes colorized key=value records.
type prettyTextHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	prefix []byte
	groups []string
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{opts: *opts, mu: &sync.Mutex{}, w: w}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		h.writeBuiltin(buf, slog.Time(slog.TimeKey, r.Time))
	}

	if a := h.replace(nil, slog.Any(slog.LevelKey, r.Level)); a.Key != "" {
		sep(buf)
		buf.WriteString(keyStyle.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(styleForLevel(r.Level).Render(a.Value.String()))
	}

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			h.writeBuiltin(buf, slog.String(
				slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line),
			))
		}
	}

	h.writeBuiltin(buf, slog.String(slog.MessageKey, r.Message))

	if len(h.prefix) > 0 {
		sep(buf)
		buf.Write(h.prefix)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, h.groups, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	buf := bytes.NewBuffer(append([]byte(nil), h.prefix...))
	for _, a := range attrs {
		h.writeAttr(buf, h.groups, a)
	}

	c := *h
	c.prefix = buf.Bytes()

	return &c
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

func (h *prettyTextHandler) replace(groups []string, a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(groups, a)
}

func (h *prettyTextHandler) writeBuiltin(buf *bytes.Buffer, a slog.Attr) {
	if a = h.replace(nil, a); a.Key == "" {
		return
	}

	sep(buf)
	buf.WriteString(keyStyle.Render(a.Key))
	buf.WriteByte('=')
	writeValue(buf, a.Value)
}

func (h *prettyTextHandler) writeAttr(
	buf *bytes.Buffer,
	groups []string,
	a slog.Attr,
) {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(groups[:len(groups):len(groups)], a.Key)
		}

		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, sub, ga)
		}

		return
	}

	if a = h.replace(groups, a); a.Key == "" {
		return
	}

	key := a.Key
	for i := len(groups) - 1; i >= 0; i-- {
		key = groups[i] + "." + key
	}

	sep(buf)
	buf.WriteString(keyStyle.Render(key))
	buf.WriteByte('=')
	writeValue(buf, a.Value)
}

func sep(buf *bytes.Buffer) {
	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] != ' ' {
		buf.WriteByte(' ')
	}
}

func writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		buf.WriteString(stringStyle.Render(v.String()))
	case slog.KindInt64:
		buf.WriteString(numberStyle.Render(strconv.FormatInt(v.Int64(), 10)))
	case slog.KindUint64:
		buf.WriteString(numberStyle.Render(strconv.FormatUint(v.Uint64(), 10)))
	case slog.KindFloat64:
		buf.WriteString(
			numberStyle.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64)),
		)
	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(trueStyle.Render("true"))
		} else {
			buf.WriteString(falseStyle.Render("false"))
		}
	case slog.KindDuration:
		buf.WriteString(durationStyle.Render(v.Duration().String()))
	case slog.KindTime:
		buf.WriteString(timeStyle.Render(v.Time().String()))
	default:
		buf.WriteString(stringStyle.Render(v.String()))
	}
}

// prettyJSONHandler indents the output of a [slog.JSONHandler].
type prettyJSONHandler struct {
	inner slog.Handler
	buf   *bytes.Buffer
	mu    *sync.Mutex
	w     io.Writer
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	buf := new(bytes.Buffer)

	return &prettyJSONHandler{
		inner: slog.NewJSONHandler(buf, opts),
		buf:   buf,
		mu:    &sync.Mutex{},
		w:     w,
	}
}

func (h *prettyJSONHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *prettyJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf.Reset()

	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimSpace(h.buf.Bytes()), "", "  "); err != nil {
		return err
	}

	out.WriteByte('\n')

	_, err := h.w.Write(out.Bytes())

	return err
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.inner = h.inner.WithAttrs(attrs)

	return &c
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.inner = h.inner.WithGroup(name)

	return &c
}
