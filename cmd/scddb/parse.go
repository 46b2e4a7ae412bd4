package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/scddb"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	html, err := os.ReadFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	d := deps.Parser.Parse(string(html), c.URL)
	for _, problem := range d.Problems() {
		fmt.Fprintf(deps.Stderr, "warning: %s\n", problem)
	}
	return printDance(deps, d, c.JSON)
}

func printDance(deps *Dependencies, d *scddb.Dance, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}

	fmt.Fprintln(deps.Stdout, scddb.FormatDance(d))
	if len(d.Figures) > 0 {
		fmt.Fprintln(deps.Stdout)
		for _, f := range d.Figures {
			fmt.Fprintf(deps.Stdout, "%-8s %s\n", f.BarsLabel, f.Text)
		}
	}
	return nil
}
