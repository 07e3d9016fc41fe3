package shared

import (
	"time"

	"github.com/google/uuid"
)

// Write-side snapshots keep commands off the read-side view types.
type BookSnapshot struct {
	ID              uuid.UUID
	Title           string
	Author          string
	ISBN            string
	Genre           string
	Summary         string
	CoverURL        string
	TotalCopies     int
	AvailableCopies int
}

type LoanSnapshot struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	BookID     uuid.UUID
	BorrowedAt time.Time
	DueAt      time.Time
	ReturnedAt *time.Time
	FineAmount int64
}

type ReservationSnapshot struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	BookID    uuid.UUID
	ExpiresAt time.Time
}

// UpdateBookParams is the fully-merged column set for a catalog update.
// Merging of optional request fields happens in the usecase; the repository
// always writes every column.
type UpdateBookParams struct {
	Title           string
	Author          string
	ISBN            string
	Genre           string
	Summary         string
	CoverURL        string
	TotalCopies     int
	AvailableCopies int
}

// AdminLoanPatch is the whitelisted escape hatch for administrative loan
// edits. Nil means leave unchanged; it deliberately bypasses availability
// and fine recalculation.
type AdminLoanPatch struct {
	DueAt      *time.Time
	ReturnedAt *time.Time
}
