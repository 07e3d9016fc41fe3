package request

import (
	"time"

	"github.com/google/uuid"
)

type BorrowRequest struct {
	BookID uuid.UUID  `json:"book_id" binding:"required"`
	DueAt  *time.Time `json:"due_at,omitempty"`
}

// AdminLoanUpdateRequest is deliberately restricted to the two mutable loan
// columns; everything else is owned by the lending workflow.
type AdminLoanUpdateRequest struct {
	DueAt      *time.Time `json:"due_at,omitempty"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
}
