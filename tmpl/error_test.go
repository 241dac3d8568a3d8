package tmpl

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	cause := errors.New("boom")

	assert.Equal(t, "key not found", ErrKeyNotFound.Error())
	assert.Equal(t, "key not found: boom", ErrKeyNotFound.Wrap(cause).Error())
	assert.Equal(t, "boom", WrapError(cause).Error())
	assert.Empty(t, (&Error{}).Error())
}

func TestError_Is(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("outer: %w",
		ErrRender.Wrap(ErrKeyNotFound.Wrap(cause)).With(slog.String("k", "v")))

	assert.ErrorIs(t, err, ErrRender)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrSyntax)
	assert.NotErrorIs(t, WrapError(cause), &Error{})
}

func TestError_WrapErrorKeepsType(t *testing.T) {
	orig := ErrSyntax.With(slog.Int("line", 1))
	assert.Same(t, orig, WrapError(fmt.Errorf("ctx: %w", orig)))
}

func TestError_LogValue(t *testing.T) {
	err := ErrExcessiveNesting.Wrap(errors.New("deep")).With(slog.Int("depth", 41))

	attrs := err.LogValue().Group()
	keys := make([]string, len(attrs))
	for i, a := range attrs {
		keys[i] = a.Key
	}

	assert.Equal(t, []string{"error", "cause", "depth"}, keys)
}

func TestError_WithDoesNotShareAttrs(t *testing.T) {
	base := ErrRender.With(slog.String("a", "1"))
	x := base.With(slog.String("b", "2"))
	y := base.With(slog.String("c", "3"))

	assert.Len(t, x.LogValue().Group(), 3)
	assert.Len(t, y.LogValue().Group(), 3)
	assert.Equal(t, "c", y.LogValue().Group()[2].Key)
}
