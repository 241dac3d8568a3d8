// Package tmpl statically extracts the variable dependencies of Go
// [text/template] sources.
//
// An [Extractor] parses a template with the functions of a [Registry] and
// walks the resulting [parse.Tree]. Field references ({{.a.b}}) and calls to
// accessor functions with a literal key ({{getv "host" "localhost"}}) are
// reported in source order; duplicates are kept. A [Matcher] decides which
// function names are accessors and each [FunctionDefinition] carries the
// [Rule] that says how its arguments are read:
//
//	RuleKey        literal first argument names a dependency
//	RuleTransform  literal first argument is data; expressions are walked
//	RuleNone       arguments never contribute
//
// Calls to any other function are walked argument by argument, so
// {{print (toUpper .name)}} still depends on name.
//
// The walk is bounded by [MaxDepth]; deeper trees fail with
// [ErrExcessiveNesting]. A source the upstream parser rejects fails with
// [ErrSyntax] wrapping the parser error. No partial results are returned.
//
// [Registry.BuildRenderFunctions] binds the same functions to an
// [Environment] so that [Extractor.Render] can execute what was analyzed.
package tmpl
