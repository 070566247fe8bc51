package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/keiba"
)

// exportBatch is the number of races read per query.
const exportBatch = 500

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	filter, err := raceFilter(c.Year, c.Venue)
	if err != nil {
		printError(deps, err)
		return err
	}

	var out io.Writer = deps.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		defer f.Close()
		out = f
	}

	rows, err := export(deps, filter, out)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error exporting: %v\n", err)
		return err
	}

	if c.Output != "" {
		fmt.Fprintf(deps.Stdout, "Exported %d rows to %s\n", rows, c.Output)
	}
	return nil
}

func export(deps *Dependencies, filter keiba.RaceFilter, out io.Writer) (int, error) {
	w := csv.NewWriter(out)
	if err := w.Write(keiba.RowHeader); err != nil {
		return 0, err
	}

	n := 0
	filter.Limit = exportBatch
	for {
		races, err := deps.Races.FindRaces(deps.Ctx, filter)
		if err != nil {
			return n, err
		}
		for _, race := range races {
			for _, row := range keiba.Flatten(race) {
				if err := w.Write(row.Values()); err != nil {
					return n, err
				}
				n++
			}
		}
		if len(races) < exportBatch {
			break
		}
		filter.Offset += len(races)
	}

	w.Flush()
	return n, w.Error()
}
