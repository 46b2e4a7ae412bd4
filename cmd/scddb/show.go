package main

import (
	"fmt"

	"github.com/fwojciec/scddb"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	d, err := deps.Dances.FindDanceByID(deps.Ctx, c.ID)
	if scddb.ErrorCode(err) == scddb.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: dance %q not found. Use 'scddb list' to see stored dances.\n", c.ID)
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scddb.ErrorMessage(err))
		return err
	}
	return printDance(deps, d, c.JSON)
}
