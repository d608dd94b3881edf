package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockAPI struct {
	created *Payload
	updated *Payload
	lastID  uuid.UUID
	err     error
}

func (m *mockAPI) CreateBooking(_ context.Context, p *Payload) (*Booking, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = p
	return &Booking{ID: uuid.New(), Status: StatusPending, Payload: *p}, nil
}

func (m *mockAPI) UpdateBooking(_ context.Context, id uuid.UUID, p *Payload) (*Booking, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.updated = p
	m.lastID = id
	return &Booking{ID: id, Status: StatusPending, Payload: *p}, nil
}

// readyCoordinator returns a coordinator with a valid draft and a staged
// pre-auth document, one step away from a clean submit.
func readyCoordinator(t *testing.T, api API, transfer Transfer) *Coordinator {
	t.Helper()

	staging := NewStaging(transfer).WithClock(tickingClock(time.UnixMilli(1)))
	if err := staging.AddPreAuth(context.Background(), pdfFile("preauth.pdf")); err != nil {
		t.Fatalf("stage pre-auth: %v", err)
	}

	c := NewCoordinator(api, staging)
	err := c.Update(func(e *Engine, d Draft) Draft {
		d.Payload = *validPayload()
		d.Payload.Documents = nil
		return e.Recompute(d)
	})
	if err != nil {
		t.Fatalf("update draft: %v", err)
	}
	return c
}

func TestCoordinatorSubmitSucceeds(t *testing.T) {
	api := &mockAPI{}
	transfer := &mockTransfer{}
	c := readyCoordinator(t, api, transfer)

	booked, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if booked == nil || booked.Status != StatusPending {
		t.Fatalf("unexpected booking: %+v", booked)
	}
	if c.State() != StateSucceeded || !c.Closed() {
		t.Fatalf("expected a closed succeeded form, state=%s closed=%v", c.State(), c.Closed())
	}

	// Ownership of the uploads moved to the record: staging is empty and
	// nothing was deleted remotely.
	if !c.Staging().Empty() {
		t.Fatal("staging should be released after a successful submit")
	}
	if len(transfer.deletes) != 0 {
		t.Fatalf("no remote deletes on success, got %v", transfer.deletes)
	}

	// The submitted payload carries the merged document list.
	if api.created == nil || api.created.PreAuthDocument() == nil {
		t.Fatalf("submitted payload should include the pre-auth document: %+v", api.created)
	}
}

func TestCoordinatorSubmitRefusedWhilePendingInput(t *testing.T) {
	api := &mockAPI{}
	c := readyCoordinator(t, api, &mockTransfer{})
	c.Staging().SetPendingName("Half-entered")

	_, err := c.Submit(context.Background())
	assertViolation(t, err, "document")
	if c.State() != StateEditing || c.Closed() {
		t.Fatalf("form should return to editing, state=%s closed=%v", c.State(), c.Closed())
	}
	if api.created != nil {
		t.Fatal("nothing should have been submitted")
	}
}

func TestCoordinatorSubmitRequiresPreAuth(t *testing.T) {
	api := &mockAPI{}
	staging := NewStaging(&mockTransfer{})
	c := NewCoordinator(api, staging)

	_, err := c.Submit(context.Background())
	assertViolation(t, err, "pre_auth_document")
	if c.State() != StateEditing {
		t.Fatalf("expected editing state, got %s", c.State())
	}
}

func TestCoordinatorValidationFailureKeepsEverything(t *testing.T) {
	api := &mockAPI{}
	c := readyCoordinator(t, api, &mockTransfer{})
	if err := c.Update(func(e *Engine, d Draft) Draft {
		d.PatientMobile = "12345"
		return d
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	_, err := c.Submit(context.Background())
	assertViolation(t, err, "patient_mobile")
	if c.State() != StateEditing || c.Closed() {
		t.Fatal("validation failure must return the open form to editing")
	}
	if c.Staging().PreAuth() == nil {
		t.Fatal("staged documents must survive a validation failure")
	}
	if !errors.Is(c.LastError(), err) {
		t.Fatalf("last error should be retained, got %v", c.LastError())
	}
}

func TestCoordinatorServerRejectionWrapsSubmissionError(t *testing.T) {
	rejected := errors.New("insurer service down")
	api := &mockAPI{err: rejected}
	c := readyCoordinator(t, api, &mockTransfer{})

	_, err := c.Submit(context.Background())
	var serr *SubmissionError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if !errors.Is(err, rejected) {
		t.Fatal("submission error should wrap the server error")
	}
	if c.State() != StateEditing || c.Closed() {
		t.Fatal("server rejection must return the open form to editing")
	}
	if c.Staging().PreAuth() == nil {
		t.Fatal("staged documents must survive a server rejection")
	}

	// Retry after the outage passes.
	api.err = nil
	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
}

func TestCoordinatorUpdateFormUsesUpdateCall(t *testing.T) {
	api := &mockAPI{}
	transfer := &mockTransfer{}
	staging := NewStaging(transfer).WithClock(tickingClock(time.UnixMilli(1)))
	if err := staging.AddPreAuth(context.Background(), pdfFile("preauth.pdf")); err != nil {
		t.Fatalf("stage pre-auth: %v", err)
	}

	stale := 3
	existing := &Booking{ID: uuid.New(), Status: StatusPending, Payload: *validPayload()}
	existing.PatientAge = &stale
	existing.Documents = nil

	c := NewUpdateCoordinator(api, staging, existing)
	if got := c.Draft().PatientAge; got == nil || *got == 3 {
		t.Fatalf("prefill should re-derive the age, got %v", got)
	}

	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if api.created != nil {
		t.Fatal("an update form must not create a new booking")
	}
	if api.updated == nil || api.lastID != existing.ID {
		t.Fatalf("expected update of %s, got %v", existing.ID, api.lastID)
	}
}

func TestCoordinatorClosedFormRefusesOperations(t *testing.T) {
	api := &mockAPI{}
	c := readyCoordinator(t, api, &mockTransfer{})
	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := c.Update(func(e *Engine, d Draft) Draft { return d }); !errors.Is(err, ErrFormClosed) {
		t.Fatalf("expected ErrFormClosed, got %v", err)
	}
	if _, err := c.Submit(context.Background()); !errors.Is(err, ErrFormClosed) {
		t.Fatalf("expected ErrFormClosed, got %v", err)
	}
	if err := c.Cancel(context.Background()); !errors.Is(err, ErrFormClosed) {
		t.Fatalf("expected ErrFormClosed, got %v", err)
	}
}

func TestCoordinatorCancelUnwindsStaging(t *testing.T) {
	transfer := &mockTransfer{}
	c := readyCoordinator(t, &mockAPI{}, transfer)

	if err := c.Cancel(context.Background()); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !c.Closed() {
		t.Fatal("cancel should close the form")
	}
	if len(transfer.deletes) != 1 {
		t.Fatalf("the staged pre-auth should be deleted on cancel, got %v", transfer.deletes)
	}
}

func TestCoordinatorCancelReportsDiscardFailuresButCloses(t *testing.T) {
	transfer := &mockTransfer{deleteErrs: map[string]error{}}
	c := readyCoordinator(t, &mockAPI{}, transfer)
	transfer.deleteErrs[c.Staging().PreAuth().FilePath] = errors.New("remote unavailable")

	err := c.Cancel(context.Background())
	if err == nil {
		t.Fatal("expected discard error")
	}
	if !c.Closed() {
		t.Fatal("the form closes even when discards fail")
	}
}

func TestCoordinatorCancelWithNothingStaged(t *testing.T) {
	transfer := &mockTransfer{}
	c := NewCoordinator(&mockAPI{}, NewStaging(transfer))

	if err := c.Cancel(context.Background()); err != nil {
		t.Fatalf("cancel of an empty form: %v", err)
	}
	if len(transfer.deletes) != 0 {
		t.Fatalf("no deletes expected, got %v", transfer.deletes)
	}
}
