package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fwojciec/keiba"
	"github.com/fwojciec/keiba/goquery"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	body, err := os.ReadFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	parser := goquery.NewParser(goquery.WithCharset(c.Charset))

	info, err := parser.ParseInformation(bytes.NewReader(body))
	if err != nil {
		printError(deps, err)
		return err
	}
	entrants, err := parser.ParseResults(bytes.NewReader(body))
	if err != nil {
		printError(deps, err)
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Information *keiba.RaceInformation `json:"information"`
			Entrants    []*keiba.Entrant       `json:"entrants"`
		}{info, entrants})
	}

	fmt.Fprintf(deps.Stdout, "%s R%d %s\n", info.Venue, info.RaceNumber, info.Title)
	fmt.Fprintf(deps.Stdout, "%s %s %dm, %s, %s\n\n",
		info.TrackKind, info.TrackDirection, info.Distance, info.Weather, info.Surface)

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POS\tNO\tHORSE\tSEX/AGE\tIMPOST\tJOCKEY\tTIME\tODDS\tFAV\tWEIGHT")
	for _, e := range entrants {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s%d\t%s\t%s\t%.1f\t%.1f\t%d\t%d(%+d)\n",
			e.FinishPosition, e.HorseNumber, e.HorseName, e.HorseGender.Mark(), e.HorseAge,
			e.Impost, e.JockeyName, e.ElapsedTime, e.WinOdds, e.FavoriteRank, e.BodyWeight, e.WeightChange)
	}
	return w.Flush()
}
