package cmd

import "github.com/ardnew/tmplvars/tmpl"

// Errors returned by commands.
var (
	ErrReadSource        = tmpl.NewError("read source")
	ErrDuplicateStdin    = tmpl.NewError("stdin ('-') given more than once")
	ErrWriteOutput       = tmpl.NewError("write output")
	ErrMissingVariables  = tmpl.NewError("missing template variables")
	ErrYAMLMarshal       = tmpl.NewError("marshal YAML")
	ErrWriteConfig       = tmpl.NewError("write configuration file")
	ErrFileExists        = tmpl.NewError("file exists (use --force to overwrite)")
	ErrUndefinedVariable = tmpl.NewError("undefined kong variable")
)
