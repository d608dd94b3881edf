package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type mockRepo struct {
	bookings map[uuid.UUID]*Booking
	listErr  error
}

func newMockRepo() *mockRepo {
	return &mockRepo{bookings: make(map[uuid.UUID]*Booking)}
}

func (m *mockRepo) Create(_ context.Context, b *Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	clone := *b
	m.bookings[b.ID] = &clone
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *b
	return &clone, nil
}

func (m *mockRepo) Update(_ context.Context, b *Booking) error {
	if _, ok := m.bookings[b.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *b
	m.bookings[b.ID] = &clone
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.bookings[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.bookings, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, f Filter, limit, offset int) ([]*Booking, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var out []*Booking
	for _, b := range m.bookings {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func TestServiceCreateBooking(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	b, err := svc.CreateBooking(context.Background(), validPayload())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Status != StatusPending {
		t.Fatalf("new bookings start pending, got %s", b.Status)
	}
	if b.ID == uuid.Nil {
		t.Fatal("expected an assigned id")
	}
	if _, ok := repo.bookings[b.ID]; !ok {
		t.Fatal("booking was not persisted")
	}
}

func TestServiceCreateRejectsInvalidPayload(t *testing.T) {
	svc := NewService(newMockRepo())

	p := validPayload()
	p.PatientMobile = "12"
	_, err := svc.CreateBooking(context.Background(), p)
	assertViolation(t, err, "patient_mobile")
}

func TestServiceCreateRequiresPreAuthDocument(t *testing.T) {
	svc := NewService(newMockRepo())

	p := validPayload()
	p.Documents = []StagedDocument{{FileName: "Lab Report", FilePath: "bookings/documents/Booking-Docs-1.pdf"}}
	_, err := svc.CreateBooking(context.Background(), p)
	assertViolation(t, err, "pre_auth_document")
}

func TestServiceUpdatePreservesStatus(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	created, err := svc.CreateBooking(context.Background(), validPayload())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SetStatus(context.Background(), created.ID, StatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}

	p := validPayload()
	p.PatientName = "Ramesh K Kumar"
	updated, err := svc.UpdateBooking(context.Background(), created.ID, p)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PatientName != "Ramesh K Kumar" {
		t.Fatalf("payload not replaced: %s", updated.PatientName)
	}
	if updated.Status != StatusApproved {
		t.Fatalf("update must not reset the status, got %s", updated.Status)
	}
}

func TestServiceUpdateMissingBooking(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.UpdateBooking(context.Background(), uuid.New(), validPayload())
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
}

func TestServiceSetStatus(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	created, err := svc.CreateBooking(context.Background(), validPayload())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.SetStatus(context.Background(), created.ID, "archived"); err == nil {
		t.Fatal("unknown status must be rejected")
	}

	b, err := svc.SetStatus(context.Background(), created.ID, StatusCancelled)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if b.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", b.Status)
	}

	// Cancelled is terminal.
	_, err = svc.SetStatus(context.Background(), created.ID, StatusApproved)
	assertViolation(t, err, "status")
}
