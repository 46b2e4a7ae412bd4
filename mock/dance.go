package mock

import (
	"context"

	"github.com/fwojciec/scddb"
)

var _ scddb.DanceService = (*DanceService)(nil)

// DanceService is a mock implementation of scddb.DanceService.
type DanceService struct {
	CreateDanceFn   func(ctx context.Context, dance *scddb.Dance) error
	FindDanceByIDFn func(ctx context.Context, id string) (*scddb.Dance, error)
	FindDancesFn    func(ctx context.Context, filter scddb.DanceFilter) ([]*scddb.Dance, error)
	UpdateDanceFn   func(ctx context.Context, id string, dance *scddb.Dance) error
	DeleteDanceFn   func(ctx context.Context, id string) error
}

func (s *DanceService) CreateDance(ctx context.Context, dance *scddb.Dance) error {
	return s.CreateDanceFn(ctx, dance)
}

func (s *DanceService) FindDanceByID(ctx context.Context, id string) (*scddb.Dance, error) {
	return s.FindDanceByIDFn(ctx, id)
}

func (s *DanceService) FindDances(ctx context.Context, filter scddb.DanceFilter) ([]*scddb.Dance, error) {
	return s.FindDancesFn(ctx, filter)
}

func (s *DanceService) UpdateDance(ctx context.Context, id string, dance *scddb.Dance) error {
	return s.UpdateDanceFn(ctx, id, dance)
}

func (s *DanceService) DeleteDance(ctx context.Context, id string) error {
	return s.DeleteDanceFn(ctx, id)
}
