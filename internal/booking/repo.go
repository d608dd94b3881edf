package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows booking list queries.
type Filter struct {
	Status        string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	PatientName   string // partial match
}

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	Update(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Booking, int, error)
}
