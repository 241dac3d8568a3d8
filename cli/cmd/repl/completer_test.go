package repl

import (
	"slices"
	"testing"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_action", "{{ge", 4, "ge", 2, 4},
		{"after_space", "{{getv ", 7, "", 7, 7},
		{"field", "{{.db.ho", 8, "ho", 6, 8},
		{"after_paren", "{{len (ge", 9, "ge", 7, 9},
		{"after_pipe", "{{.x |pri", 9, "pri", 6, 9},
		{"mid_word", "{{getv}}", 4, "getv", 2, 6},
		{"variable", "{{$x", 4, "x", 3, 4},
		{"past_end", "abc", 10, "abc", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestStringBounds(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		cursor int
		want   string
		wantOK bool
	}{
		{"open", `{{getv "ho`, 10, "ho", true},
		{"closed_before_cursor", `{{getv "a" `, 11, "", false},
		{"inside_closed", `{{getv "host"}}`, 9, "host", true},
		{"dotted", `{{getv "db.ho`, 13, "db.ho", true},
		{"escaped_quote", `{{getv "a\"b`, 12, `a\"b`, true},
		{"no_string", `{{getv`, 6, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from := actionStart(tt.input, tt.cursor)

			got, _, _, ok := stringBounds(tt.input, from, tt.cursor)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("stringBounds(%q, %d) = (%q, %v), want (%q, %v)",
					tt.input, tt.cursor, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
		wantOK    bool
	}{
		{"function", "{{ge", 2, "", false},
		{"top_field", "{{.ho", 3, "", true},
		{"nested_field", "{{.db.ho", 6, "db", true},
		{"deep_field", "{{.a.b.c.d", 9, "a.b.c", true},
		{"after_pipe", "{{x | .a.b", 9, "a", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parentPath(tt.input, tt.wordStart)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("parentPath(%q, %d) = (%q, %v), want (%q, %v)",
					tt.input, tt.wordStart, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestComputeMatches(t *testing.T) {
	env := map[string]any{
		"host": "h",
		"db":   map[string]any{"user": "u", "port": "5432"},
	}

	tests := []struct {
		name  string
		mode  inputMode
		input string
		want  []string // expected to be among the matches
		none  bool     // expect no matches
	}{
		{name: "function", input: "{{get", want: []string{"getv", "get"}},
		{name: "builtin", input: "{{pri", want: []string{"printf", "println", "print"}},
		{name: "outside_action", input: "get", none: true},
		{name: "empty_word", input: "{{ ", none: true},
		{name: "string_key", input: `{{getv "ho`, want: []string{"host"}},
		{name: "string_nested_key", input: `{{getv "db.us`, want: []string{"db.user"}},
		{name: "field_all", input: "{{.db.", want: []string{"port", "user"}},
		{name: "field_top", input: "{{.ho", want: []string{"host"}},
		{name: "command", mode: modeCtrl, input: "un", want: []string{"unset"}},
		{name: "command_key", mode: modeCtrl, input: "unset ho", want: []string{"host"}},
		{name: "set_value", mode: modeCtrl, input: "set host=ho", none: true},
		{name: "command_args", mode: modeCtrl, input: "help he", none: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel(t, env)
			m.mode = tt.mode
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, _, _, _ := m.computeMatches()

			var got []string
			for _, match := range matches {
				got = append(got, match.Str)
			}

			if tt.none {
				if len(got) > 0 {
					t.Errorf("computeMatches(%q) = %v, want none", tt.input, got)
				}

				return
			}

			for _, w := range tt.want {
				if !slices.Contains(got, w) {
					t.Errorf("computeMatches(%q) = %v, want %q among them", tt.input, got, w)
				}
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	m := testModel(t, nil)
	m.input.SetValue("{{get")
	m.input.SetCursor(5)

	matches, _, _, _ := m.computeMatches()
	if len(matches) == 0 {
		t.Fatal("expected matches")
	}

	if bar := renderCandidateBar(matches, 0, true, 80); bar == "" {
		t.Error("renderCandidateBar returned empty string")
	}

	if bar := renderCandidateBar(matches, 0, false, 0); bar != "" {
		t.Errorf("renderCandidateBar with zero width = %q, want empty", bar)
	}
}
