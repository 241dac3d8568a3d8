// Package cmd implements the tmplvars subcommands.
//
// Each command is a kong command struct with a Run(context.Context) method.
// Commands find their collaborators in the context: the kong context
// ([WithContext]), the standard streams ([WithStreams]) and the selected
// template variant ([WithVariant]).
package cmd

const (
	// CacheIdentifier is the kong variable holding the runtime cache
	// directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the configuration file
	// path.
	ConfigIdentifier = "config"

	// ConfigSection is the name of the mapping in the configuration file
	// that holds flag defaults.
	ConfigSection = "config"
)
