package main

import (
	"fmt"

	"github.com/fwojciec/scddb"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return scddb.Errorf(scddb.EINVALID, "use --force to confirm deletion")
	}

	for _, id := range c.IDs {
		d, err := deps.Dances.FindDanceByID(deps.Ctx, id)
		if scddb.ErrorCode(err) == scddb.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: dance %q not found. Use 'scddb list' to see stored dances.\n", id)
			return err
		} else if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", scddb.ErrorMessage(err))
			return err
		}

		if err := deps.Dances.DeleteDance(deps.Ctx, id); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", scddb.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Deleted dance %q\n", d.Name)
	}
	return nil
}
