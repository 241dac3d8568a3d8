package variant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/tmplvars/tmpl"
)

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		p, ok := Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, p.Name())
		assert.NotEmpty(t, p.Description())
		assert.NotNil(t, p.Registry())
		assert.NotNil(t, p.Matcher())
		assert.Same(t, p.Registry(), p.Registry(), "registry is built once")
	}

	_, ok := Lookup("nope")
	assert.False(t, ok)

	assert.Equal(t, []string{"official", "custom", "confd"}, Names())
	assert.Contains(t, Names(), Default)
	assert.Len(t, Providers(), len(Names()))
}

func TestNew(t *testing.T) {
	e, err := New(Default)
	require.NoError(t, err)
	require.NotNil(t, e)

	_, err = New("nope")
	require.ErrorIs(t, err, ErrUnknownVariant)
}

func TestVariant_Vocabulary(t *testing.T) {
	official, _ := Lookup("official")
	assert.Equal(t, 0, official.Registry().Len())
	assert.Empty(t, tmpl.SupportedFunctions(official.Matcher()))

	custom, _ := Lookup("custom")
	assert.Equal(t,
		[]string{"exists", "get", "getv", "json", "jsonArray", "jsonv"},
		custom.Registry().GetFunctionNames())
	assert.Equal(t,
		custom.Registry().GetFunctionNames(),
		tmpl.SupportedFunctions(custom.Matcher()))

	confd, _ := Lookup("confd")
	assert.Equal(t, 28, confd.Registry().Len())

	for _, name := range custom.Registry().GetFunctionNames() {
		assert.True(t, confd.Registry().HasFunction(name), name)
	}

	for def := range confd.Registry().Functions() {
		assert.True(t, confd.Matcher().MatchCustomFunc(def.Name), def.Name)
		assert.NotEmpty(t, def.Description, def.Name)
		assert.NotNil(t, def.Render, def.Name)
	}
}

func TestVariant_Rules(t *testing.T) {
	confd, _ := Lookup("confd")
	reg := confd.Registry()

	want := map[string]tmpl.Rule{
		"getv":      tmpl.KeyRule(2),
		"exists":    tmpl.KeyRule(0),
		"get":       tmpl.KeyRule(0),
		"jsonv":     tmpl.KeyRule(0),
		"json":      tmpl.KeyRule(0),
		"jsonArray": tmpl.KeyRule(0),
	}

	for _, name := range []string{
		"base", "dir", "split", "toUpper", "toLower", "replace", "contains",
		"trimSuffix", "base64Encode", "base64Decode", "parseBool",
		"add", "sub", "mul", "div", "mod",
	} {
		want[name] = tmpl.Rule{Kind: tmpl.RuleTransform}
	}

	for _, name := range []string{"map", "join", "datetime", "reverse", "seq", "atoi"} {
		want[name] = tmpl.Rule{Kind: tmpl.RuleNone}
	}

	require.Len(t, want, reg.Len())

	for name, rule := range want {
		def, ok := reg.GetFunction(name)
		require.True(t, ok, name)
		assert.Equal(t, rule, def.Rule, name)
	}
}

var corpus = []string{
	"Hello {{.Name}}, your email is {{.Email}}!",
	"{{if .Active}}{{.Name}}{{else}}{{.Default}}{{end}}",
	"{{range $i, $v := .items}}{{$i}}{{$v.name}}{{end}}",
	`{{getv "username" "guest"}}`,
	`{{getv .key "x"}}{{exists "flag"}}{{get "strict"}}`,
	`{{$x := json "config_json"}}{{$x.field}}`,
	`{{range jsonArray "list"}}{{.}}{{end}}{{jsonv "obj"}}`,
	`{{toUpper "literal"}}{{toUpper .title}}`,
	`{{base "/a/b"}}{{base .p}}{{dir (getv "path" "/tmp/x")}}`,
	`{{replace .s .old .new -1}}{{join .items ","}}{{range seq 1 3}}{{.}}{{end}}`,
	`{{add .a 1}}{{map "k" .v}}{{print (toLower (getv "x" "Y"))}}`,
	`{{with .user}}{{.id}}{{end}}{{template "t" .arg}}{{define "t"}}{{.in}}{{end}}`,
}

func TestVariant_NamesMatchDefaults(t *testing.T) {
	ctx := context.Background()

	for _, name := range Names() {
		for _, assoc := range []bool{false, true} {
			e, err := New(name, tmpl.WithAssociated(assoc))
			require.NoError(t, err)

			for _, source := range corpus {
				names, nerr := e.ExtractNames(ctx, source)
				vars, verr := e.ExtractWithDefaults(ctx, source)

				if nerr != nil {
					assert.ErrorIs(t, nerr, tmpl.ErrSyntax, "%s: %s", name, source)
					assert.ErrorIs(t, verr, tmpl.ErrSyntax, "%s: %s", name, source)

					continue
				}

				require.NoError(t, verr, "%s: %s", name, source)
				assert.Equal(t, names, tmpl.Names(vars), "%s: %s", name, source)
			}
		}
	}
}

func TestVariant_Extract(t *testing.T) {
	tests := []struct {
		variant string
		source  string
		want    []tmpl.VariableInfo
	}{
		{"official", "Hello {{.Name}}, your email is {{.Email}}!",
			[]tmpl.VariableInfo{{Name: "Name"}, {Name: "Email"}}},
		{"official", `{{print "x" .y}}{{len .z}}`,
			[]tmpl.VariableInfo{{Name: "y"}, {Name: "z"}}},
		{"custom", `{{getv "username" "guest"}}`,
			[]tmpl.VariableInfo{{Name: "username", DefaultValue: ptr("guest")}}},
		{"custom", `{{get .k}}{{exists "flag" "ignored"}}`,
			[]tmpl.VariableInfo{{Name: "k"}, {Name: "flag"}}},
		{"custom", `{{$x := json "config_json"}}{{$x.field}}`,
			[]tmpl.VariableInfo{{Name: "config_json"}}},
		{"custom", `{{jsonv "a"}}{{jsonArray "b"}}`,
			[]tmpl.VariableInfo{{Name: "a"}, {Name: "b"}}},
		{"confd", `{{toUpper "literal"}}`, []tmpl.VariableInfo{}},
		{"confd", `{{toUpper .title}}`, []tmpl.VariableInfo{{Name: "title"}}},
		{"confd", `{{base "/a/b"}}`, []tmpl.VariableInfo{}},
		{"confd", `{{base .p}}`, []tmpl.VariableInfo{{Name: "p"}}},
		{"confd", `{{replace .s .old .new -1}}`, []tmpl.VariableInfo{{Name: "s"}}},
		{"confd", `{{join .items ","}}{{map "k" .v}}{{range seq 1 3}}{{end}}`,
			[]tmpl.VariableInfo{}},
		{"confd", `{{add .a 1}}{{toUpper (getv "region" "us")}}`,
			[]tmpl.VariableInfo{{Name: "a"}, {Name: "region", DefaultValue: ptr("us")}}},
		{"confd", `{{split (getv "hosts" "a,b") ","}}`,
			[]tmpl.VariableInfo{{Name: "hosts", DefaultValue: ptr("a,b")}}},
	}

	for _, tt := range tests {
		t.Run(tt.variant+" "+tt.source, func(t *testing.T) {
			e, err := New(tt.variant)
			require.NoError(t, err)

			vars, err := e.ExtractWithDefaults(context.Background(), tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, vars)
		})
	}
}

func TestVariant_OfficialRejectsCustomFunctions(t *testing.T) {
	e, err := New("official")
	require.NoError(t, err)

	_, err = e.ExtractNames(context.Background(), `{{getv "x"}}`)
	require.ErrorIs(t, err, tmpl.ErrSyntax)
}

func ptr(s string) *string { return &s }
