package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/keiba"
)

// Ensure LoggingRaceService implements keiba.RaceService.
var _ keiba.RaceService = (*LoggingRaceService)(nil)

// LoggingRaceService wraps a RaceService with debug logging.
type LoggingRaceService struct {
	next   keiba.RaceService
	logger *slog.Logger
}

// NewLoggingRaceService creates a new LoggingRaceService.
func NewLoggingRaceService(next keiba.RaceService, logger *slog.Logger) *LoggingRaceService {
	return &LoggingRaceService{next: next, logger: logger}
}

// SaveRace delegates to the wrapped service and logs the operation.
func (s *LoggingRaceService) SaveRace(ctx context.Context, race *keiba.Race) (err error) {
	defer func(begin time.Time) {
		s.logger.DebugContext(ctx, "save race",
			"id", race.ID.String(),
			"entrants", len(race.Entrants),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveRace(ctx, race)
}

// FindRaceByID delegates to the wrapped service and logs the operation.
func (s *LoggingRaceService) FindRaceByID(ctx context.Context, id keiba.RaceID) (race *keiba.Race, err error) {
	defer func(begin time.Time) {
		s.logger.DebugContext(ctx, "find race",
			"id", id.String(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRaceByID(ctx, id)
}

// FindRaces delegates to the wrapped service and logs the operation.
func (s *LoggingRaceService) FindRaces(ctx context.Context, filter keiba.RaceFilter) (races []*keiba.Race, err error) {
	defer func(begin time.Time) {
		s.logger.DebugContext(ctx, "find races",
			"count", len(races),
			"limit", filter.Limit,
			"offset", filter.Offset,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRaces(ctx, filter)
}

// DeleteRace delegates to the wrapped service and logs the operation.
func (s *LoggingRaceService) DeleteRace(ctx context.Context, id keiba.RaceID) (err error) {
	defer func(begin time.Time) {
		s.logger.DebugContext(ctx, "delete race",
			"id", id.String(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteRace(ctx, id)
}
