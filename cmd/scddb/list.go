package main

import (
	"fmt"

	"github.com/fwojciec/scddb"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := scddb.DanceFilter{
		Name:   c.Name,
		Author: c.Author,
		Limit:  c.Limit,
	}
	if c.Type != "" {
		filter.DanceType = &c.Type
	}
	if c.Formation != "" {
		filter.Formation = &c.Formation
	}

	dances, err := deps.Dances.FindDances(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scddb.ErrorMessage(err))
		return err
	}

	if len(dances) == 0 {
		fmt.Fprintln(deps.Stdout, "No dances found. Use 'scddb import' to add some.")
		return nil
	}

	for _, d := range dances {
		fmt.Fprintln(deps.Stdout, scddb.FormatDanceLine(d))
	}
	return nil
}
