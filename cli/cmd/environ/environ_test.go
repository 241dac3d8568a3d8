package environ

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/tmplvars/tmpl"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]any
		wantErr bool
	}{
		{name: "empty", input: "", want: map[string]any{}},
		{name: "blank", input: "  \n\t", want: map[string]any{}},
		{name: "null", input: "null", want: map[string]any{}},
		{name: "tilde", input: "~\n", want: map[string]any{}},
		{name: "comment", input: "# nothing here\n", want: map[string]any{}},
		{name: "document marker", input: "---\n", want: map[string]any{}},
		{
			name:  "yaml",
			input: "host: example.com\nport: \"8080\"\n",
			want:  map[string]any{"host": "example.com", "port": "8080"},
		},
		{
			name:  "json",
			input: `{"name": "x", "tags": ["a", "b"]}`,
			want:  map[string]any{"name": "x", "tags": []any{"a", "b"}},
		},
		{name: "sequence", input: "- a\n- b\n", wantErr: true},
		{name: "malformed", input: "a: [", wantErr: true},
		{name: "scalar", input: "just text", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Decode(context.Background(), strings.NewReader(tt.input))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrDecode)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, map[string]any(env))
		})
	}
}

func TestDecodeNested(t *testing.T) {
	env, err := Decode(context.Background(), strings.NewReader("db:\n  host: h\n  user: u\n"))
	require.NoError(t, err)

	v, ok := env.Lookup("db.host")
	require.True(t, ok)
	assert.Equal(t, "h", v)
}

func TestEncodeDecode(t *testing.T) {
	ctx := context.Background()
	env := tmpl.Environment{"a": "1", "b": map[string]any{"c": "2"}}

	var buf bytes.Buffer
	require.NoError(t, Encode(ctx, &buf, env))

	got, err := Decode(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, env, got)
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(context.Background(), &buf, nil))
	assert.Zero(t, buf.Len())
}

func TestMerge(t *testing.T) {
	got := Merge(nil,
		tmpl.Environment{"a": "1", "b": "1"},
		tmpl.Environment{"b": "2"},
		nil,
	)
	assert.Equal(t, tmpl.Environment{"a": "1", "b": "2"}, got)
}

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		in        string
		key, val  string
		wantError bool
	}{
		{in: "a=b", key: "a", val: "b"},
		{in: " a =b ", key: "a", val: "b "},
		{in: "a=", key: "a", val: ""},
		{in: "a=b=c", key: "a", val: "b=c"},
		{in: "a", wantError: true},
		{in: "=b", wantError: true},
		{in: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			key, val, err := ParseAssignment(tt.in)
			if tt.wantError {
				require.ErrorIs(t, err, ErrAssignment)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.val, val)
		})
	}
}

func TestSetAndEval(t *testing.T) {
	env := tmpl.Environment{}

	require.NoError(t, Set(env, "name=world"))
	require.NoError(t, Set(env, "count=3"))
	require.NoError(t, Eval(env, `greeting="hello " + name`))
	require.NoError(t, Eval(env, "n=len(name) * 2"))
	require.NoError(t, Eval(env, `tags=["x", "y"]`))

	assert.Equal(t, "3", env["count"])
	assert.Equal(t, "hello world", env["greeting"])
	assert.Equal(t, 10, env["n"])
	assert.Equal(t, []any{"x", "y"}, env["tags"])

	require.ErrorIs(t, Eval(env, "bad=1 +"), ErrEval)
	require.ErrorIs(t, Eval(env, "noequals"), ErrAssignment)
}

func TestEvaluateNilEnvironment(t *testing.T) {
	v, err := Evaluate("1 + 2", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestKeys(t *testing.T) {
	env := tmpl.Environment{
		"a": "1",
		"b": map[string]any{"c": "2", "d": map[string]any{"e": "3"}},
	}

	keys := Keys(env)
	slices.Sort(keys)
	assert.Equal(t, []string{"a", "b", "b.c", "b.d", "b.d.e"}, keys)
}
