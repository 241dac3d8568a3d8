package cli

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tmplvars/variant"
)

// extractConfig selects the template variant and how extractors behave.
type extractConfig struct {
	Variant string `default:"${variantDefault}" enum:"${variantEnum}" help:"Template variant (${enum})." short:"V"`
	Cache   bool   `default:"true"                                    help:"Cache parse results by source content." negatable:""`
}

func (extractConfig) vars() kong.Vars {
	return kong.Vars{
		"variantDefault": variant.Default,
		"variantEnum":    strings.Join(variant.Names(), ","),
	}
}

func (extractConfig) group() kong.Group {
	return kong.Group{Key: "extract", Title: "Extraction options"}
}
