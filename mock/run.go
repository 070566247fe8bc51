package mock

import (
	"context"

	"github.com/fwojciec/keiba"
)

var _ keiba.RunService = (*RunService)(nil)

// RunService is a mock implementation of keiba.RunService.
type RunService struct {
	CreateRunFn func(ctx context.Context, run *keiba.Run) error
	FinishRunFn func(ctx context.Context, run *keiba.Run) error
	FindRunsFn  func(ctx context.Context, limit int) ([]*keiba.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *keiba.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FinishRun(ctx context.Context, run *keiba.Run) error {
	return s.FinishRunFn(ctx, run)
}

func (s *RunService) FindRuns(ctx context.Context, limit int) ([]*keiba.Run, error) {
	return s.FindRunsFn(ctx, limit)
}
