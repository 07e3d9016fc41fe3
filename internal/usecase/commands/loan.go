package commands

import (
	"context"
	"errors"

	"biblio-api/internal/domain/loan"
	reqdto "biblio-api/internal/handler/dto/request"
	"biblio-api/internal/infra"
	"biblio-api/internal/pkg/clock"
	"biblio-api/internal/pkg/config"
	"biblio-api/internal/pkg/errs"
	"biblio-api/internal/usecase/queries"
	"biblio-api/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrLoanNotFound        = errs.New("loan not found")
	ErrNoCopiesAvailable   = errs.New("no copies available")
	ErrInvalidDueDate      = errs.New("invalid due date")
	ErrLoanAlreadyReturned = errs.New("loan already returned")
	ErrNotLoanOwner        = errs.New("loan belongs to another user")
	ErrLoanOperationFailed = errs.New("loan operation failed")
)

type LoanCommands interface {
	Borrow(ctx context.Context, req reqdto.BorrowRequest, userID uuid.UUID) (*queries.LoanView, error)
	Return(ctx context.Context, loanID, actorID uuid.UUID, actorIsAdmin bool) (*queries.LoanView, error)
	AdminUpdate(ctx context.Context, loanID uuid.UUID, req reqdto.AdminLoanUpdateRequest) (*queries.LoanView, error)
}

type loanCommandsImpl struct {
	uow       shared.UnitOfWork
	readStore queries.LoanReadStore
	clock     clock.Clock
	policy    config.LibraryConfig
}

func NewLoanCommands(uow shared.UnitOfWork, readStore queries.LoanReadStore, clock clock.Clock, policy config.LibraryConfig) LoanCommands {
	return &loanCommandsImpl{
		uow:       uow,
		readStore: readStore,
		clock:     clock,
		policy:    policy,
	}
}

// Borrow creates the loan record and claims a copy in one transaction. The
// availability pre-check gives the fast failure; the conditional claim is what
// actually decides a race over the last copy.
func (l *loanCommandsImpl) Borrow(ctx context.Context, req reqdto.BorrowRequest, userID uuid.UUID) (*queries.LoanView, error) {
	now := l.clock.Now()

	dueAt, err := loan.ResolveDueDate(now, req.DueAt, l.policy.LoanDays)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidDueDate)
	}

	entity, err := loan.NewLoan(userID, req.BookID, now, dueAt)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidDueDate)
	}

	var loanID uuid.UUID
	err = l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		book, readErr := tx.Reads().BookByID(ctx, req.BookID)
		if readErr != nil {
			return readErr
		}
		if book.AvailableCopies <= 0 {
			return ErrNoCopiesAvailable
		}

		id, createErr := tx.Loans().Create(ctx, entity)
		if createErr != nil {
			return createErr
		}

		claimed, claimErr := tx.Books().ClaimCopy(ctx, req.BookID)
		if claimErr != nil {
			return claimErr
		}
		if !claimed {
			return ErrNoCopiesAvailable
		}

		loanID = id
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNoCopiesAvailable):
			return nil, ErrNoCopiesAvailable
		case infra.IsKind(err, infra.KindNotFound):
			return nil, ErrBookNotFound
		case infra.IsKind(err, infra.KindForeignKeyViolated):
			return nil, ErrBookNotFound
		default:
			return nil, errs.Mark(err, ErrLoanOperationFailed)
		}
	}

	view, err := l.readStore.FindByID(ctx, loanID)
	if err != nil {
		return nil, errs.Mark(err, ErrLoanOperationFailed)
	}

	return view, nil
}

// Return closes the loan before releasing the copy. The order matters: if the
// close loses to a concurrent return the release never happens, so a copy is
// returned to the pool exactly once per loan.
func (l *loanCommandsImpl) Return(ctx context.Context, loanID, actorID uuid.UUID, actorIsAdmin bool) (*queries.LoanView, error) {
	now := l.clock.Now()
	policy := loan.FinePolicy{PerDay: l.policy.FinePerDay}

	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, readErr := tx.Reads().LoanByID(ctx, loanID)
		if readErr != nil {
			return readErr
		}
		if current.UserID != actorID && !actorIsAdmin {
			return ErrNotLoanOwner
		}
		if current.ReturnedAt != nil {
			return ErrLoanAlreadyReturned
		}

		fine := policy.Fine(current.DueAt, now)
		closed, closeErr := tx.Loans().Close(ctx, loanID, now, fine)
		if closeErr != nil {
			return closeErr
		}
		if !closed {
			return ErrLoanAlreadyReturned
		}

		return tx.Books().ReleaseCopy(ctx, current.BookID)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotLoanOwner), errors.Is(err, ErrLoanAlreadyReturned):
			return nil, err
		case infra.IsKind(err, infra.KindNotFound):
			return nil, ErrLoanNotFound
		default:
			return nil, errs.Mark(err, ErrLoanOperationFailed)
		}
	}

	view, err := l.readStore.FindByID(ctx, loanID)
	if err != nil {
		return nil, errs.Mark(err, ErrLoanOperationFailed)
	}

	return view, nil
}

// AdminUpdate bypasses availability accounting and fine recalculation on
// purpose; it exists to correct records, not to run the lending workflow.
func (l *loanCommandsImpl) AdminUpdate(ctx context.Context, loanID uuid.UUID, req reqdto.AdminLoanUpdateRequest) (*queries.LoanView, error) {
	patch := shared.AdminLoanPatch{
		DueAt:      req.DueAt,
		ReturnedAt: req.ReturnedAt,
	}

	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Loans().AdminUpdate(ctx, loanID, patch)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, errs.Mark(err, ErrLoanOperationFailed)
	}

	view, err := l.readStore.FindByID(ctx, loanID)
	if err != nil {
		return nil, errs.Mark(err, ErrLoanOperationFailed)
	}

	return view, nil
}
