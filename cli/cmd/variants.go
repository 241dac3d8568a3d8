package cmd

import (
	"context"

	"github.com/ardnew/tmplvars/variant"
)

// Variants lists the available template variants.
type Variants struct{}

// Run executes the variants command.
func (*Variants) Run(ctx context.Context) error {
	selected := variantFrom(ctx).name

	var rows [][]string

	for _, p := range variant.Providers() {
		mark := ""
		if p.Name() == selected {
			mark = "*"
		}

		rows = append(rows, []string{mark, p.Name(), p.Description()})
	}

	if err := writeTable(streamsFrom(ctx).Out, []string{"", "VARIANT", "DESCRIPTION"}, rows); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
