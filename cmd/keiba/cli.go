package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/keiba"
	"github.com/fwojciec/keiba/crawl"
	"github.com/fwojciec/keiba/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Bounds     keiba.IdentityBounds
	DB         *sqlite.DB
	Pages      keiba.PageStore
	Races      keiba.RaceService
	Runs       keiba.RunService
	Downloader *crawl.Downloader
	Ingester   *crawl.Ingester
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `help:"Database path" env:"KEIBA_DB"`
	Pages   string `help:"Directory of downloaded pages" env:"KEIBA_PAGES"`
	BaseURL string `name:"base-url" default:"https://db.netkeiba.com" help:"Race database URL" env:"KEIBA_BASE_URL"`
	Verbose bool   `short:"v" help:"Log every request and parsed page"`

	OldestYear int `name:"oldest-year" default:"1986" help:"Oldest accepted race year"`
	MaxMeeting int `name:"max-meeting" default:"7" help:"Highest accepted meeting number"`
	MaxDay     int `name:"max-day" default:"10" help:"Highest accepted day within a meeting"`
	MaxRace    int `name:"max-race" default:"12" help:"Highest accepted race number"`

	Download DownloadCmd `cmd:"" help:"Download the result pages of a year"`
	Ingest   IngestCmd   `cmd:"" help:"Parse downloaded pages into the database"`
	Parse    ParseCmd    `cmd:"" help:"Parse a single result page"`
	Races    RacesCmd    `cmd:"" help:"List parsed races"`
	Runs     RunsCmd     `cmd:"" help:"List ingest runs"`
	Export   ExportCmd   `cmd:"" help:"Export entrants as CSV"`
}

// Bounds returns the identity bounds configured by the flags, accepting
// races up to the year of now.
func (c *CLI) Bounds(now time.Time) keiba.IdentityBounds {
	b := keiba.DefaultIdentityBounds(now)
	b.OldestYear = c.OldestYear
	b.MaxMeeting = c.MaxMeeting
	b.MaxDay = c.MaxDay
	b.MaxRace = c.MaxRace
	return b
}

// DownloadCmd is the "download" subcommand.
type DownloadCmd struct {
	Year        int      `arg:"" help:"Race year"`
	Venue       []string `name:"venue" help:"Restrict to a venue, e.g. TOKYO (repeatable)"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent fetch limit"`
	RPS         float64  `name:"rps" default:"1" help:"Requests per second (0 disables pacing)"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	IDs         []string `arg:"" optional:"" name:"id" help:"Race identifiers (default: every downloaded page)"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent parse limit"`
	Strict      bool     `help:"Abort on the first page that fails to parse"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	File    string `arg:"" type:"existingfile" help:"Result page to parse"`
	Charset string `default:"euc-jp" help:"Page encoding"`
	JSON    bool   `help:"Print the race as JSON"`
}

// RacesCmd is the "races" subcommand.
type RacesCmd struct {
	Year   int    `help:"Filter by year"`
	Venue  string `help:"Filter by venue, e.g. TOKYO"`
	Limit  int    `short:"n" default:"20" help:"Maximum races to list (0 for all)"`
	Offset int    `help:"Races to skip"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Limit int `short:"n" default:"10" help:"Maximum runs to list (0 for all)"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Year   int    `help:"Filter by year"`
	Venue  string `help:"Filter by venue, e.g. TOKYO"`
	Output string `short:"o" help:"Output file (default: stdout)"`
}

// raceFilter builds a filter from optional year and venue flags.
func raceFilter(year int, venue string) (keiba.RaceFilter, error) {
	var filter keiba.RaceFilter
	if year != 0 {
		filter.Year = &year
	}
	if venue != "" {
		v, err := parseVenue(venue)
		if err != nil {
			return filter, err
		}
		filter.Venue = &v
	}
	return filter, nil
}
