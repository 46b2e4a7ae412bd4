package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/scddb"
	"github.com/fwojciec/scddb/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	dir, err := filepath.Abs(c.Dir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	dances, err := deps.Dances.FindDances(deps.Ctx, scddb.DanceFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scddb.ErrorMessage(err))
		return err
	}

	exporter := fs.NewExporter(filepath.Dir(dir), filepath.Base(dir))
	for _, d := range dances {
		if _, err := exporter.Save(deps.Ctx, d); err != nil {
			_ = exporter.Abort()
			fmt.Fprintf(deps.Stderr, "error exporting %q: %v\n", d.Name, err)
			return err
		}
	}
	if err := exporter.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d dances to %s\n", len(dances), dir)
	return nil
}
