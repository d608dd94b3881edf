package insurer

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows insurer list queries.
type Filter struct {
	Search     string // partial name match
	ActiveOnly bool
}

type Repository interface {
	Create(ctx context.Context, ins *Insurer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Insurer, error)
	Update(ctx context.Context, ins *Insurer) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Insurer, int, error)
}
