package keiba

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// jst is Japan Standard Time. Race start times are local to the venue.
var jst = time.FixedZone("JST", 9*60*60)

// DefaultStartsAt is the scheduled start reported for every race.
// The start time is printed in the descriptor ("発走 : 09:50") but is not
// scraped yet, so every race carries this placeholder.
var DefaultStartsAt = time.Date(2019, time.July, 27, 9, 50, 0, 0, jst)

// RaceInformation holds the race-level metadata of a result page.
type RaceInformation struct {
	Title          string         `json:"title"`
	Venue          Venue          `json:"venue"`
	TrackKind      TrackKind      `json:"trackKind"`
	TrackDirection TrackDirection `json:"trackDirection"`
	Distance       int            `json:"distance"` // meters
	Surface        TrackSurface   `json:"surface"`
	Weather        Weather        `json:"weather"`
	RaceNumber     int            `json:"raceNumber"`
	StartsAt       time.Time      `json:"startsAt"`
}

// Entrant is one row of the results table.
//
// Rows come in display order, which usually but not always matches
// FinishPosition (dead heats, disqualifications). FinishPosition is the
// ground truth.
type Entrant struct {
	FinishPosition int    `json:"finishPosition"`
	BracketNumber  int    `json:"bracketNumber"`
	HorseNumber    int    `json:"horseNumber"`
	HorseID        int64  `json:"horseId"`
	HorseName      string `json:"horseName"`
	HorseAge       int    `json:"horseAge"`
	HorseGender    Gender `json:"horseGender"`

	// Impost is the carried weight in kilograms.
	Impost decimal.Decimal `json:"impost"`

	JockeyID   string `json:"jockeyId"`
	JockeyName string `json:"jockeyName"`

	// ElapsedTime is the race time in seconds.
	ElapsedTime  float64 `json:"elapsedTime"`
	WinOdds      float64 `json:"winOdds"`
	FavoriteRank int     `json:"favoriteRank"`

	// BodyWeight and WeightChange are in kilograms.
	BodyWeight   int `json:"bodyWeight"`
	WeightChange int `json:"weightChange"`
}

// RaceParser parses race result pages.
//
// Both methods return ENOTFOUND for pages without a results table and
// EINCOMPATIBLE for races of an unsupported category, before any field is
// parsed. Field failures return EUNPARSABLE or EUNKNOWNMARK naming the field.
// No partial result is ever returned.
type RaceParser interface {
	ParseInformation(r io.Reader) (*RaceInformation, error)
	ParseResults(r io.Reader) ([]*Entrant, error)
}
