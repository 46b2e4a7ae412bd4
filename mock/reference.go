package mock

import (
	"context"

	"github.com/fwojciec/scddb"
)

var _ scddb.ReferenceService = (*ReferenceService)(nil)

// ReferenceService is a mock implementation of scddb.ReferenceService.
type ReferenceService struct {
	FindOrCreateReferenceFn func(ctx context.Context, kind scddb.ReferenceKind, name string) (int64, error)
	FindReferencesFn        func(ctx context.Context, kind scddb.ReferenceKind) ([]*scddb.Reference, error)
}

func (s *ReferenceService) FindOrCreateReference(ctx context.Context, kind scddb.ReferenceKind, name string) (int64, error) {
	return s.FindOrCreateReferenceFn(ctx, kind, name)
}

func (s *ReferenceService) FindReferences(ctx context.Context, kind scddb.ReferenceKind) ([]*scddb.Reference, error) {
	return s.FindReferencesFn(ctx, kind)
}
