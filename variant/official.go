package variant

import "github.com/ardnew/tmplvars/tmpl"

// buildOfficial recognizes nothing; only field references are dependencies.
func buildOfficial() (*tmpl.Registry, tmpl.Matcher) {
	return tmpl.NewRegistry(), tmpl.NewFixedMatcher()
}
