package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/claimdesk/claimdesk/internal/platform/auth"
)

// Service owns the server side of the booking workflow. It re-runs the
// validation gate on every incoming payload: the client-side coordinator is
// a convenience, not a trust boundary.
type Service struct {
	repo Repository
	gate Gate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validatePayload(p *Payload) error {
	if err := s.gate.Validate(p); err != nil {
		return err
	}
	if p.PreAuthDocument() == nil {
		return &ValidationError{Field: "pre_auth_document", Message: "please upload the pre-auth document"}
	}
	return nil
}

// CreateBooking implements the create side of the API collaborator.
func (s *Service) CreateBooking(ctx context.Context, p *Payload) (*Booking, error) {
	if err := s.validatePayload(p); err != nil {
		return nil, err
	}

	b := &Booking{
		Status:    StatusPending,
		CreatedBy: auth.UserIDFromContext(ctx),
		Payload:   *p,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return b, nil
}

// UpdateBooking implements the update side of the API collaborator. Status
// and audit fields survive; the form fields and document list are replaced
// wholesale.
func (s *Service) UpdateBooking(ctx context.Context, id uuid.UUID, p *Payload) (*Booking, error) {
	if err := s.validatePayload(p); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}

	existing.Payload = *p
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}
	return existing, nil
}

func (s *Service) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListBookings(ctx context.Context, f Filter, limit, offset int) ([]*Booking, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

func (s *Service) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// SetStatus moves a booking through the admin workflow. A cancelled booking
// is terminal.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status string) (*Booking, error) {
	if !validStatuses[status] {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("invalid status: %s", status)}
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if b.Status == StatusCancelled {
		return nil, &ValidationError{Field: "status", Message: "booking is cancelled"}
	}

	b.Status = status
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}
	return b, nil
}
