package insurer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type mockRepo struct {
	insurers map[uuid.UUID]*Insurer
}

func newMockRepo() *mockRepo {
	return &mockRepo{insurers: make(map[uuid.UUID]*Insurer)}
}

func (m *mockRepo) Create(_ context.Context, ins *Insurer) error {
	if ins.ID == uuid.Nil {
		ins.ID = uuid.New()
	}
	clone := *ins
	m.insurers[ins.ID] = &clone
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Insurer, error) {
	ins, ok := m.insurers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ins
	return &clone, nil
}

func (m *mockRepo) Update(_ context.Context, ins *Insurer) error {
	if _, ok := m.insurers[ins.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *ins
	m.insurers[ins.ID] = &clone
	return nil
}

func (m *mockRepo) List(_ context.Context, f Filter, limit, offset int) ([]*Insurer, int, error) {
	var out []*Insurer
	for _, ins := range m.insurers {
		if f.ActiveOnly && !ins.Active {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(ins.Name), strings.ToLower(f.Search)) {
			continue
		}
		clone := *ins
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func TestServiceCreateNormalizes(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	ins := &Insurer{Name: "  Star Health  ", Code: "star"}
	if err := svc.Create(context.Background(), ins); err != nil {
		t.Fatalf("create: %v", err)
	}
	if ins.Name != "Star Health" || ins.Code != "STAR" {
		t.Fatalf("expected trimmed name and uppercased code, got %q %q", ins.Name, ins.Code)
	}
	if !ins.Active {
		t.Fatal("new insurers start active")
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc := NewService(newMockRepo())

	if err := svc.Create(context.Background(), &Insurer{Code: "X"}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if err := svc.Create(context.Background(), &Insurer{Name: "X"}); !errors.Is(err, ErrCodeRequired) {
		t.Fatalf("expected ErrCodeRequired, got %v", err)
	}
}

func TestServiceDeactivateHidesFromPicker(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	ins := &Insurer{Name: "Star Health", Code: "STAR"}
	if err := svc.Create(context.Background(), ins); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Deactivate(context.Background(), ins.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	active, _, err := svc.List(context.Background(), Filter{ActiveOnly: true}, 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("deactivated insurer should be hidden, got %d", len(active))
	}

	all, _, err := svc.List(context.Background(), Filter{}, 20, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("record should still exist, got %d", len(all))
	}
}

func TestServiceDeactivateMissing(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Deactivate(context.Background(), uuid.New()); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
}
