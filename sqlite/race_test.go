package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/keiba"
	"github.com/fwojciec/keiba/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRace(t *testing.T, s string) *keiba.Race {
	t.Helper()
	id, err := keiba.ParseRaceID(bounds, s)
	require.NoError(t, err)
	return &keiba.Race{
		ID: id,
		Information: &keiba.RaceInformation{
			Title:          "2歳未勝利",
			Venue:          id.Venue,
			TrackKind:      keiba.TrackKindGrass,
			TrackDirection: keiba.TrackDirectionRight,
			Distance:       1800,
			Surface:        keiba.TrackSurfaceGoodToFirm,
			Weather:        keiba.WeatherCloud,
			RaceNumber:     id.Race,
			StartsAt:       keiba.DefaultStartsAt,
		},
		Entrants: []*keiba.Entrant{
			{
				FinishPosition: 1, BracketNumber: 1, HorseNumber: 1,
				HorseID: 2017105318, HorseName: "ゴルコンダ", HorseAge: 2, HorseGender: keiba.GenderMale,
				Impost:   decimal.RequireFromString("54"),
				JockeyID: "05339", JockeyName: "ルメール",
				ElapsedTime: 108.3, WinOdds: 1.4, FavoriteRank: 1, BodyWeight: 518, WeightChange: -16,
			},
			{
				FinishPosition: 2, BracketNumber: 3, HorseNumber: 3,
				HorseID: 2017104612, HorseName: "プントファイヤー", HorseAge: 2, HorseGender: keiba.GenderMale,
				Impost:   decimal.RequireFromString("55.5"),
				JockeyID: "z0004", JockeyName: "岩田康誠",
				ElapsedTime: 110.1, WinOdds: 3.5, FavoriteRank: 2, BodyWeight: 496, WeightChange: -8,
			},
		},
		PageHash:   "0123456789abcdef",
		IngestedAt: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRaceService_SaveRace(t *testing.T) {
	t.Parallel()

	t.Run("round-trips a race with its entrants", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRaceService(db, bounds)
		ctx := context.Background()
		race := newRace(t, "201901010101")

		require.NoError(t, svc.SaveRace(ctx, race))

		got, err := svc.FindRaceByID(ctx, race.ID)
		require.NoError(t, err)
		assert.Equal(t, race.ID, got.ID)
		assert.Equal(t, race.PageHash, got.PageHash)
		assert.True(t, race.IngestedAt.Equal(got.IngestedAt))

		info := got.Information
		assert.Equal(t, "2歳未勝利", info.Title)
		assert.Equal(t, keiba.VenueSapporo, info.Venue)
		assert.Equal(t, keiba.TrackKindGrass, info.TrackKind)
		assert.Equal(t, keiba.TrackDirectionRight, info.TrackDirection)
		assert.Equal(t, 1800, info.Distance)
		assert.Equal(t, keiba.TrackSurfaceGoodToFirm, info.Surface)
		assert.Equal(t, keiba.WeatherCloud, info.Weather)
		assert.Equal(t, 1, info.RaceNumber)
		assert.True(t, keiba.DefaultStartsAt.Equal(info.StartsAt))

		require.Len(t, got.Entrants, 2)
		first := got.Entrants[0]
		assert.Equal(t, int64(2017105318), first.HorseID)
		assert.Equal(t, "ゴルコンダ", first.HorseName)
		assert.Equal(t, keiba.GenderMale, first.HorseGender)
		assert.True(t, decimal.NewFromInt(54).Equal(first.Impost))
		assert.Equal(t, "05339", first.JockeyID)
		assert.Equal(t, 108.3, first.ElapsedTime)
		assert.Equal(t, 1.4, first.WinOdds)
		assert.Equal(t, -16, first.WeightChange)
		assert.Equal(t, "55.5", got.Entrants[1].Impost.String())
		assert.Equal(t, "z0004", got.Entrants[1].JockeyID)
	})

	t.Run("replaces a previous version", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRaceService(db, bounds)
		ctx := context.Background()
		race := newRace(t, "201901010101")
		require.NoError(t, svc.SaveRace(ctx, race))

		race.PageHash = "fedcba9876543210"
		race.Information.Weather = keiba.WeatherRainy
		race.Entrants = race.Entrants[:1]
		require.NoError(t, svc.SaveRace(ctx, race))

		got, err := svc.FindRaceByID(ctx, race.ID)
		require.NoError(t, err)
		assert.Equal(t, "fedcba9876543210", got.PageHash)
		assert.Equal(t, keiba.WeatherRainy, got.Information.Weather)
		assert.Len(t, got.Entrants, 1)
	})

	t.Run("sets ingest time when missing", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRaceService(setupTestDB(t), bounds)
		race := newRace(t, "201901010101")
		race.IngestedAt = time.Time{}

		require.NoError(t, svc.SaveRace(context.Background(), race))

		assert.False(t, race.IngestedAt.IsZero())
	})

	t.Run("returns EINVALID for a race without information", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRaceService(setupTestDB(t), bounds)
		race := newRace(t, "201901010101")
		race.Information = nil

		err := svc.SaveRace(context.Background(), race)

		assert.Equal(t, keiba.EINVALID, keiba.ErrorCode(err))
	})
}

func TestRaceService_FindRaceByID(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND for a missing race", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRaceService(setupTestDB(t), bounds)

		_, err := svc.FindRaceByID(context.Background(), newRace(t, "201901010101").ID)

		assert.Equal(t, keiba.ENOTFOUND, keiba.ErrorCode(err))
	})
}

func TestRaceService_FindRaces(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T) *sqlite.RaceService {
		t.Helper()
		svc := sqlite.NewRaceService(setupTestDB(t), bounds)
		for _, s := range []string{"202005010102", "201901010101", "201905020311", "202001010101"} {
			require.NoError(t, svc.SaveRace(context.Background(), newRace(t, s)))
		}
		return svc
	}
	ids := func(races []*keiba.Race) []string {
		out := make([]string, len(races))
		for i, r := range races {
			out[i] = r.ID.String()
		}
		return out
	}

	t.Run("returns all races ordered by identifier", func(t *testing.T) {
		t.Parallel()

		races, err := seed(t).FindRaces(context.Background(), keiba.RaceFilter{})

		require.NoError(t, err)
		assert.Equal(t, []string{"201901010101", "201905020311", "202001010101", "202005010102"}, ids(races))
		assert.Len(t, races[0].Entrants, 2)
	})

	t.Run("filters by year", func(t *testing.T) {
		t.Parallel()

		year := 2020
		races, err := seed(t).FindRaces(context.Background(), keiba.RaceFilter{Year: &year})

		require.NoError(t, err)
		assert.Equal(t, []string{"202001010101", "202005010102"}, ids(races))
	})

	t.Run("filters by venue", func(t *testing.T) {
		t.Parallel()

		venue := keiba.VenueTokyo
		races, err := seed(t).FindRaces(context.Background(), keiba.RaceFilter{Venue: &venue})

		require.NoError(t, err)
		assert.Equal(t, []string{"201905020311", "202005010102"}, ids(races))
	})

	t.Run("paginates", func(t *testing.T) {
		t.Parallel()

		svc := seed(t)

		races, err := svc.FindRaces(context.Background(), keiba.RaceFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"201905020311", "202001010101"}, ids(races))

		races, err = svc.FindRaces(context.Background(), keiba.RaceFilter{Offset: 3})
		require.NoError(t, err)
		assert.Equal(t, []string{"202005010102"}, ids(races))
	})

	t.Run("returns empty list when nothing matches", func(t *testing.T) {
		t.Parallel()

		year := 1999
		races, err := seed(t).FindRaces(context.Background(), keiba.RaceFilter{Year: &year})

		require.NoError(t, err)
		assert.Empty(t, races)
	})
}

func TestRaceService_DeleteRace(t *testing.T) {
	t.Parallel()

	t.Run("removes the race and its entrants", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRaceService(db, bounds)
		ctx := context.Background()
		race := newRace(t, "201901010101")
		require.NoError(t, svc.SaveRace(ctx, race))

		require.NoError(t, svc.DeleteRace(ctx, race.ID))

		_, err := svc.FindRaceByID(ctx, race.ID)
		assert.Equal(t, keiba.ENOTFOUND, keiba.ErrorCode(err))

		var count int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entrants").Scan(&count))
		assert.Equal(t, 0, count)
	})

	t.Run("returns ENOTFOUND for a missing race", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRaceService(setupTestDB(t), bounds)

		err := svc.DeleteRace(context.Background(), newRace(t, "201901010101").ID)

		assert.Equal(t, keiba.ENOTFOUND, keiba.ErrorCode(err))
	})
}
