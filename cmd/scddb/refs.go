package main

import (
	"fmt"

	"github.com/fwojciec/scddb"
)

// Run executes the refs command.
func (c *RefsCmd) Run(deps *Dependencies) error {
	refs, err := deps.References.FindReferences(deps.Ctx, scddb.ReferenceKind(c.Kind))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scddb.ErrorMessage(err))
		return err
	}

	if len(refs) == 0 {
		fmt.Fprintf(deps.Stdout, "No %s entries yet.\n", c.Kind)
		return nil
	}
	for _, r := range refs {
		fmt.Fprintf(deps.Stdout, "%d  %s\n", r.ID, r.Name)
	}
	return nil
}
