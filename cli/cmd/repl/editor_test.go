package repl

import (
	"bufio"
	"io"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"\n", true},
		{"y\n", true},
		{"Yes\n", true},
		{"n\n", false},
		{" NO \n", false},
		{"", false},
		{"y", true},
	}

	for _, tt := range tests {
		var out strings.Builder

		got := confirm(bufio.NewReader(strings.NewReader(tt.in)), &out, "? ")
		if got != tt.want {
			t.Errorf("confirm(%q) = %v, want %v", tt.in, got, tt.want)
		}

		if out.String() != "? " {
			t.Errorf("prompt = %q", out.String())
		}
	}
}

func TestEditorUnchanged(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "true")

	cmd := &editEnvCommand{
		env:     map[string]any{"a": "b"},
		ctxFunc: t.Context,
	}
	cmd.SetStdin(strings.NewReader(""))
	cmd.SetStdout(io.Discard)
	cmd.SetStderr(io.Discard)

	// "true" leaves the file as written, so the environment decodes as is.
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}

	if cmd.newEnv["a"] != "b" {
		t.Errorf("newEnv = %v, want a: b", cmd.newEnv)
	}
}

func TestEditorEmptyCancels(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "true")

	cmd := &editEnvCommand{env: map[string]any{}, ctxFunc: t.Context}
	cmd.SetStdin(strings.NewReader(""))
	cmd.SetStdout(io.Discard)
	cmd.SetStderr(io.Discard)

	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}

	if cmd.newEnv != nil {
		t.Errorf("newEnv = %v, want nil for an empty document", cmd.newEnv)
	}
}
