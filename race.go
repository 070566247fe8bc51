package keiba

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Identity bound defaults.
const (
	// OldestReadableYear is the first year whose result pages list every
	// finisher. 1985 pages exist but only show the winner.
	OldestReadableYear = 1986

	// DefaultMaxMeeting is the meeting number ceiling. The 2020 Tokyo
	// calendar stops at 5; the bound keeps a buffer.
	DefaultMaxMeeting = 7

	// DefaultMaxDay is the ceiling for the day within a meeting. Observed
	// calendars stop at 9. Some historical data used 12; pass a custom
	// IdentityBounds to widen it.
	DefaultMaxDay = 10

	DefaultMaxRace = 12
)

// IdentityBounds holds the inclusive ranges that race identifier components
// must fall in.
type IdentityBounds struct {
	OldestYear int
	LatestYear int
	MaxMeeting int
	MaxDay     int
	MaxRace    int
}

// DefaultIdentityBounds returns the default bounds with the latest year set
// to the year of now.
func DefaultIdentityBounds(now time.Time) IdentityBounds {
	return IdentityBounds{
		OldestYear: OldestReadableYear,
		LatestYear: now.Year(),
		MaxMeeting: DefaultMaxMeeting,
		MaxDay:     DefaultMaxDay,
		MaxRace:    DefaultMaxRace,
	}
}

// Validate returns EINVALID if any component of id is out of bounds.
func (b IdentityBounds) Validate(id RaceID) error {
	if !id.Venue.Valid() {
		return Errorf(EINVALID, "venue code %d out of range", int(id.Venue))
	}
	if id.Year < b.OldestYear || id.Year > b.LatestYear {
		return Errorf(EINVALID, "year %d not in [%d, %d]", id.Year, b.OldestYear, b.LatestYear)
	}
	if id.Meeting < 1 || id.Meeting > b.MaxMeeting {
		return Errorf(EINVALID, "meeting %d not in [1, %d]", id.Meeting, b.MaxMeeting)
	}
	if id.Day < 1 || id.Day > b.MaxDay {
		return Errorf(EINVALID, "day %d not in [1, %d]", id.Day, b.MaxDay)
	}
	if id.Race < 1 || id.Race > b.MaxRace {
		return Errorf(EINVALID, "race number %d not in [1, %d]", id.Race, b.MaxRace)
	}
	return nil
}

// Enumerate returns every identifier of a year within the bounds, ordered by
// venue, meeting, day and race. With no venues given all ten are used.
func (b IdentityBounds) Enumerate(year int, venues ...Venue) ([]RaceID, error) {
	if len(venues) == 0 {
		venues = Venues()
	}
	ids := make([]RaceID, 0, len(venues)*b.MaxMeeting*b.MaxDay*b.MaxRace)
	for _, venue := range venues {
		for meeting := 1; meeting <= b.MaxMeeting; meeting++ {
			for day := 1; day <= b.MaxDay; day++ {
				for race := 1; race <= b.MaxRace; race++ {
					id, err := NewRaceID(b, venue, year, meeting, day, race)
					if err != nil {
						return nil, err
					}
					ids = append(ids, id)
				}
			}
		}
	}
	return ids, nil
}

// RaceID identifies a race by venue, year, meeting, day and race number.
// Two RaceIDs are equal exactly when their identifiers are equal.
type RaceID struct {
	Venue   Venue
	Year    int
	Meeting int
	Day     int
	Race    int
}

// NewRaceID returns a validated RaceID.
func NewRaceID(b IdentityBounds, venue Venue, year, meeting, day, race int) (RaceID, error) {
	id := RaceID{Venue: venue, Year: year, Meeting: meeting, Day: day, Race: race}
	if err := b.Validate(id); err != nil {
		return RaceID{}, err
	}
	return id, nil
}

// ParseRaceID decodes and validates a 12-digit identifier such as "201901010101".
func ParseRaceID(b IdentityBounds, s string) (RaceID, error) {
	if len(s) != 12 {
		return RaceID{}, Errorf(EINVALID, "race identifier %q must have 12 digits", s)
	}
	if _, err := strconv.ParseUint(s, 10, 64); err != nil {
		return RaceID{}, Errorf(EINVALID, "race identifier %q must be numeric", s)
	}
	year, _ := strconv.Atoi(s[0:4])
	venue, _ := strconv.Atoi(s[4:6])
	meeting, _ := strconv.Atoi(s[6:8])
	day, _ := strconv.Atoi(s[8:10])
	race, _ := strconv.Atoi(s[10:12])
	return NewRaceID(b, Venue(venue), year, meeting, day, race)
}

// ID returns the numeric identifier, YYYY VV MM DD RR.
func (id RaceID) ID() int64 {
	return int64(id.Year)*100000000 +
		int64(id.Venue)*1000000 +
		int64(id.Meeting)*10000 +
		int64(id.Day)*100 +
		int64(id.Race)
}

// String returns the zero-padded 12-digit identifier.
func (id RaceID) String() string {
	return fmt.Sprintf("%04d%02d%02d%02d%02d", id.Year, int(id.Venue), id.Meeting, id.Day, id.Race)
}

// URL returns the result page of the race under baseURL,
// e.g. https://db.netkeiba.com/race/201901010101.
func (id RaceID) URL(baseURL string) string {
	return baseURL + "/race/" + id.String()
}

// DefaultBaseURL is the root of the race database site.
const DefaultBaseURL = "https://db.netkeiba.com"

// Race is a parsed race: its information and its entrants in table order.
type Race struct {
	ID          RaceID           `json:"id"`
	Information *RaceInformation `json:"information"`
	Entrants    []*Entrant       `json:"entrants"`

	// PageHash is the hash of the page the race was parsed from.
	PageHash   string    `json:"pageHash"`
	IngestedAt time.Time `json:"ingestedAt"`
}

// Validate returns an error if the race contains invalid fields.
func (r *Race) Validate() error {
	if r.Information == nil {
		return Errorf(EINVALID, "race information required")
	}
	if r.Information.Venue != r.ID.Venue {
		return Errorf(EINVALID, "race %s venue mismatch: page says %s", r.ID, r.Information.Venue)
	}
	if r.Information.RaceNumber != r.ID.Race {
		return Errorf(EINVALID, "race %s number mismatch: page says %d", r.ID, r.Information.RaceNumber)
	}
	return nil
}

// RaceService represents a service for storing parsed races.
type RaceService interface {
	// SaveRace stores a race, replacing any previous version.
	SaveRace(ctx context.Context, race *Race) error

	// FindRaceByID retrieves a race with its entrants.
	// Returns ENOTFOUND if the race does not exist.
	FindRaceByID(ctx context.Context, id RaceID) (*Race, error)

	// FindRaces retrieves races matching the filter, ordered by identifier.
	FindRaces(ctx context.Context, filter RaceFilter) ([]*Race, error)

	// DeleteRace removes a race and its entrants.
	// Returns ENOTFOUND if the race does not exist.
	DeleteRace(ctx context.Context, id RaceID) error
}

// RaceFilter represents a filter for FindRaces.
type RaceFilter struct {
	Year  *int   `json:"year"`
	Venue *Venue `json:"venue"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
