package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/tmplvars/variant"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{name: "outside_action", input: "getv ", cursor: 5},
		{name: "typing_name", input: "{{getv", cursor: 6},
		{name: "first_arg", input: "{{getv ", cursor: 7, wantName: "getv", wantIndex: 0, wantInCall: true},
		{name: "typing_first_arg", input: `{{getv "na`, cursor: 10, wantName: "getv", wantIndex: 0, wantInCall: true},
		{name: "second_arg", input: `{{getv "a" `, cursor: 11, wantName: "getv", wantIndex: 1, wantInCall: true},
		{name: "quoted_space", input: `{{getv "a b" `, cursor: 13, wantName: "getv", wantIndex: 1, wantInCall: true},
		{name: "trim_marker", input: "{{- getv ", cursor: 9, wantName: "getv", wantIndex: 0, wantInCall: true},
		{name: "nested", input: `{{printf "%s" (getv `, cursor: 20, wantName: "getv", wantIndex: 0, wantInCall: true},
		{name: "after_nested", input: `{{printf "%s" (getv "a") `, cursor: 25, wantName: "printf", wantIndex: 2, wantInCall: true},
		{name: "pipeline", input: `{{.x | printf `, cursor: 14, wantName: "printf", wantIndex: 0, wantInCall: true},
		{name: "closed_action", input: `{{getv "a"}} `, cursor: 13},
		{name: "field_command", input: `{{.x `, cursor: 5},
		{name: "cursor_mid_input", input: `{{getv "a" "b"}}`, cursor: 7, wantName: "getv", wantIndex: 0, wantInCall: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)
			if got.inCall != tt.wantInCall {
				t.Fatalf("detectFunctionCall(%q, %d).inCall = %v, want %v",
					tt.input, tt.cursor, got.inCall, tt.wantInCall)
			}

			if !tt.wantInCall {
				return
			}

			if got.name != tt.wantName || got.argIndex != tt.wantIndex {
				t.Errorf("detectFunctionCall(%q, %d) = (%q, %d), want (%q, %d)",
					tt.input, tt.cursor, got.name, got.argIndex, tt.wantName, tt.wantIndex)
			}
		})
	}
}

func TestCommandTokens(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"getv", []string{"getv"}},
		{`getv "a b" "c"`, []string{"getv", `"a b"`, `"c"`}},
		{`printf "%s" (getv "x" "y") .z`, []string{"printf", `"%s"`, `(getv "x" "y")`, ".z"}},
		{"  spaced   out  ", []string{"spaced", "out"}},
		{"raw `a b`", []string{"raw", "`a b`"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := commandTokens(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("commandTokens(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetSignature(t *testing.T) {
	p, ok := variant.Lookup("confd")
	if !ok {
		t.Fatal("confd variant not found")
	}

	reg := p.Registry()

	params, ok := getSignature(reg, "getv")
	if !ok || !slices.Equal(params, []string{"key", "[default]"}) {
		t.Errorf("getSignature(getv) = (%v, %v)", params, ok)
	}

	params, ok = getSignature(reg, "printf")
	if !ok || len(params) != 2 {
		t.Errorf("getSignature(printf) = (%v, %v)", params, ok)
	}

	if _, ok := getSignature(reg, "nosuchfunc"); ok {
		t.Error("getSignature(nosuchfunc) should not be found")
	}
}

func TestRenderSignatureHint(t *testing.T) {
	hint := renderSignatureHint("getv", []string{"key", "[default]"}, 1)

	for _, part := range []string{"getv", "key", "[default]"} {
		if !strings.Contains(hint, part) {
			t.Errorf("renderSignatureHint() = %q, missing %q", hint, part)
		}
	}

	if hint := renderSignatureHint("f", nil, 0); !strings.Contains(hint, "f") {
		t.Errorf("renderSignatureHint() = %q, missing name", hint)
	}
}
