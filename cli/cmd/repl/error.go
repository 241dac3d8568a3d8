package repl

import "github.com/ardnew/tmplvars/tmpl"

var (
	ErrOutOfBounds  = tmpl.NewError("history index out of range")
	ErrEditDeclined = tmpl.NewError("environment edit declined")
	ErrNoExtractor  = tmpl.NewError("no template extractor")
)
