package tmpl

import (
	"log/slog"
	"strings"
	"text/template/parse"
)

// MaxDepth is the deepest node nesting the walker descends into. The root
// list of a template is at depth 1.
const MaxDepth = 40

// walker holds the configuration of a tree walk. It is copied, never
// shared, when a walk enters a scope that rebinds dot.
type walker struct {
	reg   *Registry
	match Matcher

	// rebound is set while dot is not the root environment.
	rebound bool
	// rootOnly drops fields read while dot is rebound.
	rootOnly bool
}

// scope returns w with dot rebound when rebind is set.
func (w *walker) scope(rebind bool) *walker {
	if !rebind || w.rebound {
		return w
	}

	inner := *w
	inner.rebound = true

	return &inner
}

// call is the classification of a command: accessor or generic.
type call interface{ call() }

// accessor is a command whose first word is a recognized function.
type accessor struct{ rule Rule }

// generic is any other command; every argument is walked.
type generic struct{}

func (accessor) call() {}
func (generic) call()  {}

func (w *walker) classify(args []parse.Node) call {
	if len(args) == 0 || w.match == nil {
		return generic{}
	}

	id, ok := args[0].(*parse.IdentifierNode)
	if !ok || id == nil || !w.match.MatchCustomFunc(id.Ident) {
		return generic{}
	}

	if def, ok := w.reg.GetFunction(id.Ident); ok {
		return accessor{rule: def.Rule}
	}

	return accessor{rule: KeyRule(0)}
}

func nameOf(name string, _ *string) string { return name }

func infoOf(name string, def *string) VariableInfo {
	return VariableInfo{Name: name, DefaultValue: def}
}

// walk returns the dependencies under node in source order. emit builds one
// result element from a name and its literal default, if any.
func walk[T any](
	w *walker,
	node parse.Node,
	depth int,
	emit func(name string, def *string) T,
) ([]T, error) {
	depth++
	if depth > MaxDepth {
		return nil, ErrExcessiveNesting.With(
			slog.Int("depth", depth),
			slog.Int("max_depth", MaxDepth),
		)
	}

	switch n := node.(type) {
	case *parse.FieldNode:
		if n == nil || (w.rootOnly && w.rebound) {
			return nil, nil
		}

		return []T{emit(strings.Join(n.Ident, "."), nil)}, nil

	case *parse.CommandNode:
		if n == nil {
			return nil, nil
		}

		return walkCall(w, w.classify(n.Args), n.Args, depth, emit)

	case *parse.ActionNode:
		if n == nil {
			return nil, nil
		}

		return walk(w, n.Pipe, depth, emit)

	case *parse.PipeNode:
		if n == nil {
			return nil, nil
		}

		return walkEach(w, n.Cmds, depth, emit)

	case *parse.ListNode:
		if n == nil {
			return nil, nil
		}

		return walkEach(w, n.Nodes, depth, emit)

	case *parse.IfNode:
		if n == nil {
			return nil, nil
		}

		return walkBranch(w, &n.BranchNode, false, depth, emit)

	case *parse.RangeNode:
		if n == nil {
			return nil, nil
		}

		return walkBranch(w, &n.BranchNode, true, depth, emit)

	case *parse.WithNode:
		if n == nil {
			return nil, nil
		}

		return walkBranch(w, &n.BranchNode, true, depth, emit)

	case *parse.TemplateNode:
		if n == nil {
			return nil, nil
		}

		return walk(w, n.Pipe, depth, emit)

	case *parse.ChainNode:
		if n == nil {
			return nil, nil
		}

		return walk(w, n.Node, depth, emit)

	default:
		// Text, String, Number, Bool, Nil, Dot, Variable, Identifier,
		// Comment, Break, Continue
		return nil, nil
	}
}

func walkEach[T any, N parse.Node](
	w *walker,
	nodes []N,
	depth int,
	emit func(string, *string) T,
) ([]T, error) {
	var out []T

	for _, node := range nodes {
		vars, err := walk(w, node, depth, emit)
		if err != nil {
			return nil, err
		}

		out = append(out, vars...)
	}

	return out, nil
}

// walkBranch walks the pipe, list and else-list of b. With rebind set the
// list runs with dot bound to the pipe's value; the else-list never does.
func walkBranch[T any](
	w *walker,
	b *parse.BranchNode,
	rebind bool,
	depth int,
	emit func(string, *string) T,
) ([]T, error) {
	out, err := walk(w, b.Pipe, depth, emit)
	if err != nil {
		return nil, err
	}

	list, err := walk(w.scope(rebind), b.List, depth, emit)
	if err != nil {
		return nil, err
	}

	out = append(out, list...)

	if b.ElseList != nil {
		alt, err := walk(w, b.ElseList, depth, emit)
		if err != nil {
			return nil, err
		}

		out = append(out, alt...)
	}

	return out, nil
}

// walkCall returns the dependencies of a command classified as c. args[0] is
// the command's first word.
func walkCall[T any](
	w *walker,
	c call,
	args []parse.Node,
	depth int,
	emit func(string, *string) T,
) ([]T, error) {
	switch c := c.(type) {
	case accessor:
		if len(args) < 2 {
			return nil, nil
		}

		key := args[1]

		if s, ok := key.(*parse.StringNode); ok && s != nil {
			if c.rule.Kind != RuleKey {
				return nil, nil
			}

			return []T{emit(s.Text, literalAt(args, c.rule.Default))}, nil
		}

		switch c.rule.Kind {
		case RuleKey:
			// The key is computed; report what it depends on, never a default.
			names, err := walk(w, key, depth, nameOf)
			if err != nil {
				return nil, err
			}

			out := make([]T, len(names))
			for i, name := range names {
				out[i] = emit(name, nil)
			}

			return out, nil

		case RuleTransform:
			return walk(w, key, depth, emit)

		default:
			return nil, nil
		}

	case generic:
		return walkEach(w, args, depth, emit)

	default:
		return nil, nil
	}
}

// literalAt returns the text of args[pos] when it is a string literal.
func literalAt(args []parse.Node, pos int) *string {
	if pos <= 0 || pos >= len(args) {
		return nil
	}

	s, ok := args[pos].(*parse.StringNode)
	if !ok || s == nil {
		return nil
	}

	text := s.Text

	return &text
}

// templateCall is a {{template}} action. dot is set when it passes the root
// environment as dot.
type templateCall struct {
	name string
	dot  bool
}

// templateCalls appends the template actions under node in source order.
func templateCalls(node parse.Node, rebound bool, depth int, out []templateCall) []templateCall {
	depth++
	if depth > MaxDepth {
		return out
	}

	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return out
		}

		for _, c := range n.Nodes {
			out = templateCalls(c, rebound, depth, out)
		}

	case *parse.IfNode:
		if n != nil {
			out = branchCalls(&n.BranchNode, rebound, rebound, depth, out)
		}

	case *parse.RangeNode:
		if n != nil {
			out = branchCalls(&n.BranchNode, true, rebound, depth, out)
		}

	case *parse.WithNode:
		if n != nil {
			out = branchCalls(&n.BranchNode, true, rebound, depth, out)
		}

	case *parse.TemplateNode:
		if n != nil {
			out = append(out, templateCall{name: n.Name, dot: !rebound && isDot(n.Pipe)})
		}
	}

	return out
}

func branchCalls(
	b *parse.BranchNode,
	listRebound, elseRebound bool,
	depth int,
	out []templateCall,
) []templateCall {
	out = templateCalls(b.List, listRebound, depth, out)

	if b.ElseList != nil {
		out = templateCalls(b.ElseList, elseRebound, depth, out)
	}

	return out
}

// isDot reports whether pipe is exactly ".".
func isDot(pipe *parse.PipeNode) bool {
	if pipe == nil || len(pipe.Decl) > 0 || len(pipe.Cmds) != 1 {
		return false
	}

	args := pipe.Cmds[0].Args
	if len(args) != 1 {
		return false
	}

	_, ok := args[0].(*parse.DotNode)

	return ok
}
