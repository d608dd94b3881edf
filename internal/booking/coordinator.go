package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// State of the submission coordinator.
type State string

const (
	StateEditing    State = "editing"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
)

// ErrFormClosed is returned for operations on a form that already succeeded
// or was cancelled.
var ErrFormClosed = errors.New("booking form is closed")

// API is the booking create/update collaborator the coordinator submits to.
// Satisfied by *Service in-process and by a REST client elsewhere.
type API interface {
	CreateBooking(ctx context.Context, p *Payload) (*Booking, error)
	UpdateBooking(ctx context.Context, id uuid.UUID, p *Payload) (*Booking, error)
}

// Coordinator drives one booking form through
// editing → validating → submitting → succeeded, or back to editing on any
// validation or submission failure with the draft and staged documents
// intact.
type Coordinator struct {
	engine  *Engine
	staging *Staging
	gate    Gate
	api     API

	draft     Draft
	bookingID *uuid.UUID // nil for a new intimation, set for an update
	state     State
	closed    bool
	lastErr   error
}

// NewCoordinator opens a form for a new booking.
func NewCoordinator(api API, staging *Staging) *Coordinator {
	return &Coordinator{
		engine:  NewEngine(),
		staging: staging,
		api:     api,
		state:   StateEditing,
	}
}

// NewUpdateCoordinator opens a form pre-populated from an existing booking.
// Derived fields are recomputed immediately so a stale stored age or total
// never survives into the draft.
func NewUpdateCoordinator(api API, staging *Staging, existing *Booking) *Coordinator {
	c := NewCoordinator(api, staging)
	id := existing.ID
	c.bookingID = &id
	c.draft = c.engine.Recompute(Draft{Payload: existing.Payload})
	return c
}

// Engine exposes the field-derivation engine bound to this form.
func (c *Coordinator) Engine() *Engine { return c.engine }

// Staging exposes the document staging area bound to this form.
func (c *Coordinator) Staging() *Staging { return c.staging }

// Draft returns the current draft value.
func (c *Coordinator) Draft() Draft { return c.draft }

// State returns the coordinator state.
func (c *Coordinator) State() State { return c.state }

// LastError returns the error surfaced by the most recent failed submit.
func (c *Coordinator) LastError() error { return c.lastErr }

// Update applies a field mutation through the derivation engine. Permitted
// only while editing.
func (c *Coordinator) Update(mutate func(*Engine, Draft) Draft) error {
	if c.closed {
		return ErrFormClosed
	}
	c.draft = mutate(c.engine, c.draft)
	return nil
}

// Submit validates the draft and submits it. On a validation violation or a
// server rejection the coordinator returns to editing with everything
// preserved for a retry; on success the form closes and ownership of the
// uploaded documents passes to the persisted record.
func (c *Coordinator) Submit(ctx context.Context) (*Booking, error) {
	if c.closed {
		return nil, ErrFormClosed
	}

	c.state = StateValidating
	if err := c.gate.CheckReadiness(c.staging); err != nil {
		c.state = StateEditing
		c.lastErr = err
		return nil, err
	}

	payload := c.draft.Payload
	payload.Documents = c.staging.MergedDocuments()

	if err := c.gate.Validate(&payload); err != nil {
		c.state = StateEditing
		c.lastErr = err
		return nil, err
	}

	c.state = StateSubmitting
	var booked *Booking
	var err error
	if c.bookingID != nil {
		booked, err = c.api.UpdateBooking(ctx, *c.bookingID, &payload)
	} else {
		booked, err = c.api.CreateBooking(ctx, &payload)
	}
	if err != nil {
		c.state = StateEditing
		c.lastErr = &SubmissionError{Err: err}
		return nil, c.lastErr
	}

	// Documents now belong to the persisted record; no compensating
	// deletes.
	c.staging.ReleaseAll()
	c.state = StateSucceeded
	c.closed = true
	c.lastErr = nil
	return booked, nil
}

// Cancel closes the form, deleting every still-staged remote document
// first. Nothing staged means nothing to unwind. Delete failures do not
// keep the form open; they are reported so the orphaned paths are visible.
func (c *Coordinator) Cancel(ctx context.Context) error {
	if c.closed {
		return ErrFormClosed
	}

	var err error
	if !c.staging.Empty() {
		err = c.staging.DiscardAll(ctx)
	}
	c.closed = true
	return err
}

// Closed reports whether the form has been submitted or cancelled.
func (c *Coordinator) Closed() bool { return c.closed }
