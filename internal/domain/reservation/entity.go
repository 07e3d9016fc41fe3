package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrBookStillAvailable = errors.New("book is available, no need to reserve")

const (
	DefaultHoldDays = 3
	MinHoldDays     = 1
)

// Reservation is a hold on a title that currently has zero available copies.
// expiresAt is advisory: nothing sweeps expired holds or blocks fulfillment
// after expiry, mirroring the lending desk's manual process.
type Reservation struct {
	id              uuid.UUID
	userID          uuid.UUID
	bookID          uuid.UUID
	reservedAt      time.Time
	expiresAt       time.Time
	notified        bool
	fulfilledByLoan *uuid.UUID
	createdAt       time.Time
	updatedAt       time.Time
}

// NewReservation places a hold. holdDays below the minimum is clamped up, so
// a zero request still yields a one-day window.
func NewReservation(userID, bookID uuid.UUID, now time.Time, holdDays int) *Reservation {
	if holdDays < MinHoldDays {
		holdDays = MinHoldDays
	}

	return &Reservation{
		id:         uuid.New(),
		userID:     userID,
		bookID:     bookID,
		reservedAt: now,
		expiresAt:  now.AddDate(0, 0, holdDays),
	}
}

func ReconstructReservation(
	id, userID, bookID uuid.UUID,
	reservedAt, expiresAt time.Time,
	notified bool,
	fulfilledByLoan *uuid.UUID,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:              id,
		userID:          userID,
		bookID:          bookID,
		reservedAt:      reservedAt,
		expiresAt:       expiresAt,
		notified:        notified,
		fulfilledByLoan: fulfilledByLoan,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (r *Reservation) HasExpired(now time.Time) bool {
	return now.After(r.expiresAt)
}

func (r *Reservation) IsFulfilled() bool {
	return r.fulfilledByLoan != nil
}

func (r *Reservation) ID() uuid.UUID              { return r.id }
func (r *Reservation) UserID() uuid.UUID          { return r.userID }
func (r *Reservation) BookID() uuid.UUID          { return r.bookID }
func (r *Reservation) ReservedAt() time.Time      { return r.reservedAt }
func (r *Reservation) ExpiresAt() time.Time       { return r.expiresAt }
func (r *Reservation) Notified() bool             { return r.notified }
func (r *Reservation) FulfilledByLoan() *uuid.UUID { return r.fulfilledByLoan }
func (r *Reservation) CreatedAt() time.Time       { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time       { return r.updatedAt }
