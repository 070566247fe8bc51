package mock

import (
	"context"
	"io"

	"github.com/fwojciec/keiba"
)

// Compile-time interface verification.
var (
	_ keiba.RaceParser  = (*RaceParser)(nil)
	_ keiba.RaceService = (*RaceService)(nil)
)

// RaceParser is a mock implementation of keiba.RaceParser.
type RaceParser struct {
	ParseInformationFn func(r io.Reader) (*keiba.RaceInformation, error)
	ParseResultsFn     func(r io.Reader) ([]*keiba.Entrant, error)
}

func (p *RaceParser) ParseInformation(r io.Reader) (*keiba.RaceInformation, error) {
	return p.ParseInformationFn(r)
}

func (p *RaceParser) ParseResults(r io.Reader) ([]*keiba.Entrant, error) {
	return p.ParseResultsFn(r)
}

// RaceService is a mock implementation of keiba.RaceService.
type RaceService struct {
	SaveRaceFn     func(ctx context.Context, race *keiba.Race) error
	FindRaceByIDFn func(ctx context.Context, id keiba.RaceID) (*keiba.Race, error)
	FindRacesFn    func(ctx context.Context, filter keiba.RaceFilter) ([]*keiba.Race, error)
	DeleteRaceFn   func(ctx context.Context, id keiba.RaceID) error
}

func (s *RaceService) SaveRace(ctx context.Context, race *keiba.Race) error {
	return s.SaveRaceFn(ctx, race)
}

func (s *RaceService) FindRaceByID(ctx context.Context, id keiba.RaceID) (*keiba.Race, error) {
	return s.FindRaceByIDFn(ctx, id)
}

func (s *RaceService) FindRaces(ctx context.Context, filter keiba.RaceFilter) ([]*keiba.Race, error) {
	return s.FindRacesFn(ctx, filter)
}

func (s *RaceService) DeleteRace(ctx context.Context, id keiba.RaceID) error {
	return s.DeleteRaceFn(ctx, id)
}
