package sqlite

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/keiba"
)

// Compile-time interface verification.
var _ keiba.RaceService = (*RaceService)(nil)

// RaceService implements keiba.RaceService using SQLite.
type RaceService struct {
	db     *DB
	bounds keiba.IdentityBounds
}

// NewRaceService creates a new RaceService. bounds validates the
// identifiers read back from storage.
func NewRaceService(db *DB, bounds keiba.IdentityBounds) *RaceService {
	return &RaceService{db: db, bounds: bounds}
}

const raceColumns = `id, title, venue, track_kind, track_direction, distance, surface, weather,
	race_number, starts_at, page_hash, ingested_at`

// SaveRace stores a race and its entrants, replacing any previous version.
// IngestedAt is set to the current time if zero.
func (s *RaceService) SaveRace(ctx context.Context, race *keiba.Race) error {
	if err := race.Validate(); err != nil {
		return err
	}
	if race.IngestedAt.IsZero() {
		race.IngestedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	info := race.Information
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO races (id, year, venue, meeting, day, race_number, title, track_kind, track_direction,
			distance, surface, weather, starts_at, page_hash, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			track_kind = excluded.track_kind,
			track_direction = excluded.track_direction,
			distance = excluded.distance,
			surface = excluded.surface,
			weather = excluded.weather,
			starts_at = excluded.starts_at,
			page_hash = excluded.page_hash,
			ingested_at = excluded.ingested_at
	`, race.ID.ID(), race.ID.Year, int(race.ID.Venue), race.ID.Meeting, race.ID.Day, race.ID.Race,
		info.Title, int(info.TrackKind), int(info.TrackDirection), info.Distance, int(info.Surface),
		int(info.Weather), formatTime(info.StartsAt), race.PageHash, formatTime(race.IngestedAt)); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM entrants WHERE race_id = ?", race.ID.ID()); err != nil {
		return err
	}

	for i, e := range race.Entrants {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO entrants (race_id, position, finish_position, bracket_number, horse_number, horse_id,
				horse_name, horse_age, horse_gender, impost, jockey_id, jockey_name, elapsed_time, win_odds,
				favorite_rank, body_weight, weight_change)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, race.ID.ID(), i, e.FinishPosition, e.BracketNumber, e.HorseNumber, e.HorseID,
			e.HorseName, e.HorseAge, int(e.HorseGender), e.Impost, e.JockeyID, e.JockeyName,
			e.ElapsedTime, e.WinOdds, e.FavoriteRank, e.BodyWeight, e.WeightChange); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRaceByID retrieves a race with its entrants.
func (s *RaceService) FindRaceByID(ctx context.Context, id keiba.RaceID) (*keiba.Race, error) {
	race, err := s.scanRace(s.db.QueryRowContext(ctx, "SELECT "+raceColumns+" FROM races WHERE id = ?", id.ID()))
	if err == sql.ErrNoRows {
		return nil, keiba.Errorf(keiba.ENOTFOUND, "race %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	if race.Entrants, err = s.findEntrants(ctx, race.ID); err != nil {
		return nil, err
	}
	return race, nil
}

// FindRaces retrieves races matching the filter, ordered by identifier.
func (s *RaceService) FindRaces(ctx context.Context, filter keiba.RaceFilter) ([]*keiba.Race, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + raceColumns + " FROM races WHERE 1=1")

	if filter.Year != nil {
		query.WriteString(" AND year = ?")
		args = append(args, *filter.Year)
	}
	if filter.Venue != nil {
		query.WriteString(" AND venue = ?")
		args = append(args, int(*filter.Venue))
	}

	query.WriteString(" ORDER BY id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}

	races := []*keiba.Race{}
	for rows.Next() {
		race, err := s.scanRace(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		races = append(races, race)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// The database has a single connection; release it before the
	// entrant queries.
	rows.Close()

	for _, race := range races {
		if race.Entrants, err = s.findEntrants(ctx, race.ID); err != nil {
			return nil, err
		}
	}
	return races, nil
}

// DeleteRace removes a race and its entrants.
func (s *RaceService) DeleteRace(ctx context.Context, id keiba.RaceID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM entrants WHERE race_id = ?", id.ID()); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM races WHERE id = ?", id.ID())
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return keiba.Errorf(keiba.ENOTFOUND, "race %s not found", id)
	}

	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *RaceService) scanRace(row scanner) (*keiba.Race, error) {
	var (
		id                   int64
		startsAt, ingestedAt string
		race                 keiba.Race
		info                 keiba.RaceInformation
	)
	if err := row.Scan(&id, &info.Title, &info.Venue, &info.TrackKind, &info.TrackDirection, &info.Distance,
		&info.Surface, &info.Weather, &info.RaceNumber, &startsAt, &race.PageHash, &ingestedAt); err != nil {
		return nil, err
	}

	var err error
	if race.ID, err = keiba.ParseRaceID(s.bounds, strconv.FormatInt(id, 10)); err != nil {
		return nil, err
	}
	if info.StartsAt, err = parseRFC3339(startsAt, "starts_at"); err != nil {
		return nil, err
	}
	if race.IngestedAt, err = parseRFC3339(ingestedAt, "ingested_at"); err != nil {
		return nil, err
	}
	race.Information = &info
	return &race, nil
}

func (s *RaceService) findEntrants(ctx context.Context, id keiba.RaceID) ([]*keiba.Entrant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT finish_position, bracket_number, horse_number, horse_id, horse_name, horse_age, horse_gender,
			impost, jockey_id, jockey_name, elapsed_time, win_odds, favorite_rank, body_weight, weight_change
		FROM entrants
		WHERE race_id = ?
		ORDER BY position ASC
	`, id.ID())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entrants := []*keiba.Entrant{}
	for rows.Next() {
		var e keiba.Entrant
		if err := rows.Scan(&e.FinishPosition, &e.BracketNumber, &e.HorseNumber, &e.HorseID, &e.HorseName,
			&e.HorseAge, &e.HorseGender, &e.Impost, &e.JockeyID, &e.JockeyName, &e.ElapsedTime, &e.WinOdds,
			&e.FavoriteRank, &e.BodyWeight, &e.WeightChange); err != nil {
			return nil, err
		}
		entrants = append(entrants, &e)
	}
	return entrants, rows.Err()
}
