package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/keiba"
	"github.com/fwojciec/keiba/crawl"
)

// Run executes the download command.
func (c *DownloadCmd) Run(deps *Dependencies) error {
	venues := make([]keiba.Venue, 0, len(c.Venue))
	for _, name := range c.Venue {
		v, err := parseVenue(name)
		if err != nil {
			printError(deps, err)
			return err
		}
		venues = append(venues, v)
	}

	ids, err := deps.Bounds.Enumerate(c.Year, venues...)
	if err != nil {
		printError(deps, err)
		return err
	}

	if c.Concurrency > 0 {
		deps.Downloader.Concurrency = c.Concurrency
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Fetching %d pages\n", event.Total)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.ID, event.Error)
		}
	}

	result, err := deps.Downloader.Download(deps.Ctx, ids, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error downloading: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Downloaded %d pages (%s), %d already stored, %d failed\n",
		result.Downloaded, crawl.FormatBytes(result.Bytes), result.Stored, result.Failed)
	return nil
}

// parseVenue accepts a canonical venue name in any case, e.g. "tokyo", or a
// racecourse name such as "東京".
func parseVenue(name string) (keiba.Venue, error) {
	if v, err := keiba.ParseVenueName(strings.ToUpper(name)); err == nil {
		return v, nil
	}
	return keiba.ParseVenue(name)
}
