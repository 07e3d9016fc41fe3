package shared

import (
	"context"
	"time"

	"biblio-api/internal/domain/book"
	"biblio-api/internal/domain/loan"
	"biblio-api/internal/domain/reservation"
	"biblio-api/internal/domain/user"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full read-write transaction; the closure may be re-run on
	// serialization failures, so it must be side-effect free outside the tx.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: validation reads outside any transaction
	CommandReads() CommandReads
}

type Tx interface {
	Books() BookRepository
	Loans() LoanRepository
	Reservations() ReservationRepository
	Users() UserRepository
	Reads() CommandReads
}

type CommandReads interface {
	BookByID(ctx context.Context, id uuid.UUID) (*BookSnapshot, error)
	LoanByID(ctx context.Context, id uuid.UUID) (*LoanSnapshot, error)
	ReservationByID(ctx context.Context, id uuid.UUID) (*ReservationSnapshot, error)
	OpenLoanCount(ctx context.Context, bookID uuid.UUID) (int, error)
}

type BookRepository interface {
	Create(ctx context.Context, b *book.Book) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateBookParams) error
	// ClaimCopy conditionally decrements availability; returns false when no
	// copy was free at commit time (the borrow race loser).
	ClaimCopy(ctx context.Context, id uuid.UUID) (bool, error)
	ReleaseCopy(ctx context.Context, id uuid.UUID) error
	SetCover(ctx context.Context, id uuid.UUID, data []byte, contentType string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type LoanRepository interface {
	Create(ctx context.Context, l *loan.Loan) (uuid.UUID, error)
	// Close sets returnedAt and the fine iff the loan is still open; returns
	// false when it was already closed.
	Close(ctx context.Context, id uuid.UUID, returnedAt time.Time, fineAmount int64) (bool, error)
	AdminUpdate(ctx context.Context, id uuid.UUID, patch AdminLoanPatch) error
}

type ReservationRepository interface {
	Create(ctx context.Context, r *reservation.Reservation) (uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) (uuid.UUID, error)
}
