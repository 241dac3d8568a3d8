package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/tmplvars/cli/cmd/environ"
	"github.com/ardnew/tmplvars/tmpl"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "vars", "funcs", "env", "set", "unset", "edit", "clear", "quit",
}

// isWordBoundary reports whether r delimits words of template action syntax.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '\n',
		'{', '}', '(', ')', '|',
		'.', '$', '"', '`', '\'',
		',', '=', ':':
		return true
	}

	return false
}

// wordBounds returns the word at cursor and its byte offsets in input.
// The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// stringBounds returns the contents of the double-quoted literal containing
// cursor within the action starting at from, and its byte offsets. It
// reports false when the cursor is not inside a literal.
func stringBounds(input string, from, cursor int) (word string, start, end int, ok bool) {
	open := -1

	for i := from; i < cursor; i++ {
		switch input[i] {
		case '\\':
			if open >= 0 {
				i++
			}
		case '"':
			if open < 0 {
				open = i
			} else {
				open = -1
			}
		}
	}

	if open < 0 {
		return "", 0, 0, false
	}

	start = open + 1
	end = cursor

	if i := strings.IndexByte(input[cursor:], '"'); i >= 0 {
		end = cursor + i
	}

	return input[start:end], start, end, true
}

// parentPath returns the field chain leading to the word at wordStart. For
// ".db.ho" with the word "ho" it returns "db". It reports false when the
// word is not a field (not preceded by a dot).
func parentPath(input string, wordStart int) (string, bool) {
	if wordStart == 0 || input[wordStart-1] != '.' {
		return "", false
	}

	pos := wordStart - 1
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.Trim(input[pos:wordStart], "."), true
}

// fieldCandidates returns the keys below the dotted path parent in env.
func fieldCandidates(env tmpl.Environment, parent string) []string {
	var node any = map[string]any(env)

	if parent != "" {
		v, ok := env.Lookup(parent)
		if !ok {
			return nil
		}

		node = v
	}

	var keys []string

	switch m := node.(type) {
	case map[string]any:
		for k := range m {
			keys = append(keys, k)
		}
	case tmpl.Environment:
		for k := range m {
			keys = append(keys, k)
		}
	}

	slices.Sort(keys)

	return keys
}

// functionCandidates returns the registered and predefined function names.
func functionCandidates(reg *tmpl.Registry) []string {
	names := append(reg.GetFunctionNames(), builtinNames()...)
	slices.Sort(names)

	return slices.Compact(names)
}

// computeMatches calculates the fuzzy matches for the word at the cursor and
// the word's boundaries. In eval mode the candidates depend on where the
// cursor is: environment keys inside a string literal, nested keys after a
// dot, and function names elsewhere within an action.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := min(m.input.Position(), len(input))

	if m.mode == modeCtrl {
		return m.ctrlMatches(input, cursor)
	}

	word, wordStart, wordEnd := wordBounds(input, cursor)

	from := actionStart(input, cursor)
	if from < 0 {
		return nil, nil, wordStart, wordEnd
	}

	showAll := false

	if s, ss, se, ok := stringBounds(input, from, cursor); ok {
		word, wordStart, wordEnd = s, ss, se
		candidates = environ.Keys(m.env)
		slices.Sort(candidates)
	} else if parent, ok := parentPath(input, wordStart); ok {
		candidates = fieldCandidates(m.env, parent)
		showAll = true
	} else {
		candidates = functionCandidates(m.ex.Registry())
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	if word == "" {
		if !showAll {
			return nil, nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// ctrlMatches completes command names in the first word and environment
// keys in the key argument of set and unset.
func (m model) ctrlMatches(input string, cursor int) (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	head := input[:cursor]
	wordStart = strings.LastIndexAny(head, " \t") + 1
	wordEnd = wordStart + strings.IndexAny(input[wordStart:]+" ", " \t")

	word := input[wordStart:cursor]

	switch args := strings.Fields(head[:wordStart]); {
	case len(args) == 0:
		candidates = ctrlCommands

	case len(args) == 1 && (args[0] == "set" || args[0] == "unset") &&
		!strings.Contains(word, "="):
		if i := strings.IndexByte(input[wordStart:wordEnd], '='); i >= 0 {
			wordEnd = wordStart + i
		}

		candidates = environ.Keys(m.env)
		slices.Sort(candidates)

	default:
		return nil, nil, wordStart, wordEnd
	}

	if word == "" || len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate (when tabbing) uses the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}
