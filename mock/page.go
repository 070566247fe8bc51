package mock

import (
	"context"

	"github.com/fwojciec/keiba"
)

// Compile-time interface verification.
var (
	_ keiba.PageStore   = (*PageStore)(nil)
	_ keiba.RateLimiter = (*RateLimiter)(nil)
)

// PageStore is a mock implementation of keiba.PageStore.
type PageStore struct {
	ExistsFn func(ctx context.Context, id keiba.RaceID) (bool, error)
	SaveFn   func(ctx context.Context, page *keiba.Page) error
	LoadFn   func(ctx context.Context, id keiba.RaceID) (*keiba.Page, error)
	ListFn   func(ctx context.Context) ([]keiba.RaceID, error)
}

func (s *PageStore) Exists(ctx context.Context, id keiba.RaceID) (bool, error) {
	return s.ExistsFn(ctx, id)
}

func (s *PageStore) Save(ctx context.Context, page *keiba.Page) error {
	return s.SaveFn(ctx, page)
}

func (s *PageStore) Load(ctx context.Context, id keiba.RaceID) (*keiba.Page, error) {
	return s.LoadFn(ctx, id)
}

func (s *PageStore) List(ctx context.Context) ([]keiba.RaceID, error) {
	return s.ListFn(ctx)
}

// RateLimiter is a mock implementation of keiba.RateLimiter.
type RateLimiter struct {
	WaitFn func(ctx context.Context) error
}

func (l *RateLimiter) Wait(ctx context.Context) error {
	return l.WaitFn(ctx)
}
