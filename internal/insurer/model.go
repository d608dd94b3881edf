// Package insurer maintains the directory of insurance companies offered in
// the booking form's provider picker.
package insurer

import (
	"time"

	"github.com/google/uuid"
)

type Insurer struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"` // short identifier used on claim paperwork
	ContactEmail string    `json:"contact_email,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
