package main

import (
	"fmt"

	"github.com/fwojciec/keiba"
	"github.com/fwojciec/keiba/crawl"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	ids := make([]keiba.RaceID, 0, len(c.IDs))
	for _, s := range c.IDs {
		id, err := keiba.ParseRaceID(deps.Bounds, s)
		if err != nil {
			printError(deps, err)
			return err
		}
		ids = append(ids, id)
	}

	if c.Concurrency > 0 {
		deps.Ingester.Concurrency = c.Concurrency
	}
	deps.Ingester.Strict = c.Strict

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Ingesting %d pages\n", event.Total)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  fail %v\n", event.Error)
		}
	}

	run, err := deps.Ingester.Ingest(deps.Ctx, ids, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error ingesting: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Parsed %d races, %d skipped, %d unchanged, %d failed\n",
		run.Parsed, run.Skipped, run.Unchanged, run.Failed)
	return nil
}
