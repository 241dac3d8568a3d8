package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

type resolverCLI struct {
	Level   string   `default:"info"`
	Jobs    int      `default:"1"`
	Pretty  bool     `default:"true" negatable:""`
	Variant string   `default:"custom"`
	Tags    []string `sep:","`
}

func parseWithConfig(t *testing.T, doc string, args ...string) resolverCLI {
	t.Helper()

	resolver, err := resolve(baseConfig)(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}

	var cli resolverCLI

	parser, err := kong.New(&cli, kong.Resolvers(resolver))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(args); err != nil {
		t.Fatal(err)
	}

	return cli
}

func TestResolve(t *testing.T) {
	doc := `
config:
  level: debug
  jobs: 8
  pretty: false
  tags: [a, b]
other:
  variant: confd
`

	cli := parseWithConfig(t, doc)

	if cli.Level != "debug" {
		t.Errorf("Level = %q, want debug", cli.Level)
	}

	if cli.Jobs != 8 {
		t.Errorf("Jobs = %d, want 8", cli.Jobs)
	}

	if cli.Pretty {
		t.Error("Pretty = true, want false")
	}

	if strings.Join(cli.Tags, ",") != "a,b" {
		t.Errorf("Tags = %v, want [a b]", cli.Tags)
	}

	if cli.Variant != "custom" {
		t.Errorf("Variant = %q, other sections must not resolve", cli.Variant)
	}
}

func TestResolveUnderscoreKeys(t *testing.T) {
	type underscoreCLI struct {
		LogLevel string `default:"info"`
	}

	resolver, err := resolve(baseConfig)(strings.NewReader("config:\n  log_level: warn\n"))
	if err != nil {
		t.Fatal(err)
	}

	var cli underscoreCLI

	parser, err := kong.New(&cli, kong.Resolvers(resolver))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(nil); err != nil {
		t.Fatal(err)
	}

	if cli.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cli.LogLevel)
	}
}

func TestResolveCommandLineWins(t *testing.T) {
	cli := parseWithConfig(t, "config:\n  level: debug\n", "--level=error")

	if cli.Level != "error" {
		t.Errorf("Level = %q, want error", cli.Level)
	}
}

func TestResolveIgnoresBadDocuments(t *testing.T) {
	for _, doc := range []string{
		"",
		"config: [not, a, mapping]\n",
		"- just\n- a list\n",
		"config: {unterminated\n",
	} {
		cli := parseWithConfig(t, doc)
		if cli.Level != "info" || cli.Jobs != 1 {
			t.Errorf("doc %q changed defaults: %+v", doc, cli)
		}
	}
}

func TestFlagValue(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{3, "3"},
		{int64(-4), "-4"},
		{uint64(5), "5"},
		{1.25, "1.25"},
		{"s", "s"},
		{true, true},
	}

	for _, tt := range tests {
		if got := flagValue(tt.in); got != tt.want {
			t.Errorf("flagValue(%#v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}

	got, ok := flagValue([]any{uint64(1), "x"}).([]any)
	if !ok || len(got) != 2 || got[0] != "1" || got[1] != "x" {
		t.Errorf("flagValue(list) = %#v", got)
	}
}
