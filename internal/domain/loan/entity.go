package loan

import (
	"time"

	"github.com/google/uuid"
)

// Loan is a borrow record. It is created open and transitions exactly once
// to closed via Close; a closed loan is immutable outside the admin escape
// hatch in the usecase layer.
type Loan struct {
	id         uuid.UUID
	userID     uuid.UUID
	bookID     uuid.UUID
	borrowedAt time.Time
	dueAt      time.Time
	returnedAt *time.Time
	fineAmount int64
	createdAt  time.Time
	updatedAt  time.Time
}

func NewLoan(userID, bookID uuid.UUID, borrowedAt, dueAt time.Time) (*Loan, error) {
	if !dueAt.After(borrowedAt) {
		return nil, ErrDueDateNotAfterBorrow
	}

	return &Loan{
		id:         uuid.New(),
		userID:     userID,
		bookID:     bookID,
		borrowedAt: borrowedAt,
		dueAt:      dueAt,
	}, nil
}

func ReconstructLoan(
	id, userID, bookID uuid.UUID,
	borrowedAt, dueAt time.Time,
	returnedAt *time.Time,
	fineAmount int64,
	createdAt, updatedAt time.Time,
) *Loan {
	return &Loan{
		id:         id,
		userID:     userID,
		bookID:     bookID,
		borrowedAt: borrowedAt,
		dueAt:      dueAt,
		returnedAt: returnedAt,
		fineAmount: fineAmount,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// ResolveDueDate picks the due date for a new loan: the caller's explicit
// choice when given (must be strictly in the future), otherwise now plus the
// configured loan duration.
func ResolveDueDate(now time.Time, requested *time.Time, loanDays int) (time.Time, error) {
	if requested == nil {
		return now.AddDate(0, 0, loanDays), nil
	}
	if !requested.After(now) {
		return time.Time{}, ErrDueDateInPast
	}
	return *requested, nil
}

// Close marks the loan returned at the given instant and fixes the fine.
// Closing twice is an error; returnedAt and fineAmount never change again.
func (l *Loan) Close(returnedAt time.Time, policy FinePolicy) error {
	if l.returnedAt != nil {
		return ErrAlreadyReturned
	}
	fine := policy.Fine(l.dueAt, returnedAt)
	l.returnedAt = &returnedAt
	l.fineAmount = fine
	return nil
}

func (l *Loan) IsOpen() bool {
	return l.returnedAt == nil
}

func (l *Loan) IsOverdue(now time.Time) bool {
	return l.IsOpen() && l.dueAt.Before(now)
}

func (l *Loan) ID() uuid.UUID          { return l.id }
func (l *Loan) UserID() uuid.UUID      { return l.userID }
func (l *Loan) BookID() uuid.UUID      { return l.bookID }
func (l *Loan) BorrowedAt() time.Time  { return l.borrowedAt }
func (l *Loan) DueAt() time.Time       { return l.dueAt }
func (l *Loan) ReturnedAt() *time.Time { return l.returnedAt }
func (l *Loan) FineAmount() int64      { return l.fineAmount }
func (l *Loan) CreatedAt() time.Time   { return l.createdAt }
func (l *Loan) UpdatedAt() time.Time   { return l.updatedAt }
