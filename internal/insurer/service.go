package insurer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNameRequired = errors.New("insurer name is required")
	ErrCodeRequired = errors.New("insurer code is required")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func normalize(ins *Insurer) error {
	ins.Name = strings.TrimSpace(ins.Name)
	ins.Code = strings.ToUpper(strings.TrimSpace(ins.Code))
	if ins.Name == "" {
		return ErrNameRequired
	}
	if ins.Code == "" {
		return ErrCodeRequired
	}
	return nil
}

func (s *Service) Create(ctx context.Context, ins *Insurer) error {
	if err := normalize(ins); err != nil {
		return err
	}
	ins.Active = true
	if err := s.repo.Create(ctx, ins); err != nil {
		return fmt.Errorf("create insurer: %w", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Insurer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, ins *Insurer) error {
	if err := normalize(ins); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, ins); err != nil {
		return fmt.Errorf("update insurer: %w", err)
	}
	return nil
}

// Deactivate hides an insurer from the form picker without breaking
// bookings that already reference it.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	ins, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get insurer: %w", err)
	}
	ins.Active = false
	return s.repo.Update(ctx, ins)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Insurer, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}
