package request

import (
	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	BookID uuid.UUID `json:"book_id" binding:"required"`
	// HoldDays overrides the configured hold window when set.
	HoldDays *int `json:"hold_days,omitempty" binding:"omitempty,min=1"`
}
