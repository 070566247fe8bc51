package main

import (
	"fmt"
	"time"
)

// Run executes the races command.
func (c *RacesCmd) Run(deps *Dependencies) error {
	filter, err := raceFilter(c.Year, c.Venue)
	if err != nil {
		printError(deps, err)
		return err
	}
	filter.Limit = c.Limit
	filter.Offset = c.Offset

	races, err := deps.Races.FindRaces(deps.Ctx, filter)
	if err != nil {
		printError(deps, err)
		return err
	}

	if len(races) == 0 {
		fmt.Fprintln(deps.Stdout, "No races found. Use 'keiba ingest' to parse downloaded pages.")
		return nil
	}

	for _, r := range races {
		info := r.Information
		fmt.Fprintf(deps.Stdout, "%s  %s  R%d  %s %dm  %d entrants  %s\n",
			r.ID, info.Venue, info.RaceNumber, info.TrackKind, info.Distance, len(r.Entrants), info.Title)
	}
	return nil
}

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	runs, err := deps.Runs.FindRuns(deps.Ctx, c.Limit)
	if err != nil {
		printError(deps, err)
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No ingest runs yet.")
		return nil
	}

	for _, r := range runs {
		finished := "running"
		if r.FinishedAt != nil {
			finished = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  parsed=%d skipped=%d unchanged=%d failed=%d\n",
			r.ID, r.StartedAt.Format(time.RFC3339), finished, r.Parsed, r.Skipped, r.Unchanged, r.Failed)
	}
	return nil
}
