package keiba

import (
	"strconv"
	"time"
)

// Row is one entrant joined with the information of its race, the shape
// handed to tabular analysis.
type Row struct {
	RaceID         int64
	Venue          Venue
	TrackKind      TrackKind
	TrackDirection TrackDirection
	Distance       int
	Surface        TrackSurface
	Weather        Weather
	RaceNumber     int
	StartsAt       time.Time
	Entrant
}

// RowHeader lists the column names of Row.Values, in order.
var RowHeader = []string{
	"race_id", "race_track", "track_kind", "track_direction", "race_distance_by_meter",
	"track_surface", "weather", "race_number", "starts_at",
	"order_of_placing", "bracket_number", "horse_number", "horse_id", "horse_name",
	"horse_age", "horse_gender", "impost", "jockey_id", "jockey_name", "race_time",
	"win_betting_ratio", "favorite_order", "horse_weight", "weight_change",
}

// Flatten returns one Row per entrant of the race, preserving table order.
func Flatten(race *Race) []Row {
	if race == nil || race.Information == nil {
		return nil
	}
	info := race.Information
	rows := make([]Row, 0, len(race.Entrants))
	for _, e := range race.Entrants {
		rows = append(rows, Row{
			RaceID:         race.ID.ID(),
			Venue:          info.Venue,
			TrackKind:      info.TrackKind,
			TrackDirection: info.TrackDirection,
			Distance:       info.Distance,
			Surface:        info.Surface,
			Weather:        info.Weather,
			RaceNumber:     info.RaceNumber,
			StartsAt:       info.StartsAt,
			Entrant:        *e,
		})
	}
	return rows
}

// Values returns the row as strings in RowHeader order. Enumerations are
// written as their numeric codes.
func (r Row) Values() []string {
	itoa := strconv.Itoa
	ftoa := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	return []string{
		strconv.FormatInt(r.RaceID, 10),
		itoa(int(r.Venue)),
		itoa(int(r.TrackKind)),
		itoa(int(r.TrackDirection)),
		itoa(r.Distance),
		itoa(int(r.Surface)),
		itoa(int(r.Weather)),
		itoa(r.RaceNumber),
		r.StartsAt.Format(time.RFC3339),
		itoa(r.FinishPosition),
		itoa(r.BracketNumber),
		itoa(r.HorseNumber),
		strconv.FormatInt(r.HorseID, 10),
		r.HorseName,
		itoa(r.HorseAge),
		itoa(int(r.HorseGender)),
		r.Impost.String(),
		r.JockeyID,
		r.JockeyName,
		ftoa(r.ElapsedTime),
		ftoa(r.WinOdds),
		itoa(r.FavoriteRank),
		itoa(r.BodyWeight),
		itoa(r.WeightChange),
	}
}
