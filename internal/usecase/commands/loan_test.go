//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"biblio-api/internal/pkg/clock"
	"biblio-api/internal/pkg/config"
	"biblio-api/internal/usecase/commands"
	"biblio-api/internal/usecase/shared"

	reqdto "biblio-api/internal/handler/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPolicy = config.LibraryConfig{
	LoanDays:   14,
	FinePerDay: 1000,
	HoldDays:   3,
}

func newLoanCommands(state *fakeState, now time.Time) commands.LoanCommands {
	return commands.NewLoanCommands(
		&fakeUoW{state: state},
		&fakeLoanReadStore{state: state},
		clock.NewMockClock(now),
		testPolicy,
	)
}

func seedOpenLoan(state *fakeState, userID, bookID uuid.UUID, borrowedAt, dueAt time.Time) uuid.UUID {
	id := uuid.New()
	state.loans[id] = &shared.LoanSnapshot{
		ID:         id,
		UserID:     userID,
		BookID:     bookID,
		BorrowedAt: borrowedAt,
		DueAt:      dueAt,
	}
	return id
}

func TestLoanCommands_Borrow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("claims a copy and applies the default due date", func(t *testing.T) {
		state := newFakeState()
		bookID := state.addBook("Dune", 2, 2)
		svc := newLoanCommands(state, now)

		view, err := svc.Borrow(ctx, reqdto.BorrowRequest{BookID: bookID}, userID)
		require.NoError(t, err)

		assert.Equal(t, userID, view.UserID)
		assert.Equal(t, bookID, view.Book.ID)
		assert.Equal(t, now.AddDate(0, 0, 14), view.DueAt)
		assert.Nil(t, view.ReturnedAt)
		assert.Equal(t, 1, state.books[bookID].AvailableCopies)
	})

	t.Run("explicit future due date wins over the default", func(t *testing.T) {
		state := newFakeState()
		bookID := state.addBook("Dune", 1, 1)
		svc := newLoanCommands(state, now)

		requested := now.AddDate(0, 0, 7)
		view, err := svc.Borrow(ctx, reqdto.BorrowRequest{BookID: bookID, DueAt: &requested}, userID)
		require.NoError(t, err)
		assert.Equal(t, requested, view.DueAt)
	})

	t.Run("past due date rejected before touching state", func(t *testing.T) {
		state := newFakeState()
		bookID := state.addBook("Dune", 1, 1)
		svc := newLoanCommands(state, now)

		past := now.Add(-time.Hour)
		_, err := svc.Borrow(ctx, reqdto.BorrowRequest{BookID: bookID, DueAt: &past}, userID)
		require.ErrorIs(t, err, commands.ErrInvalidDueDate)
		assert.Equal(t, 1, state.books[bookID].AvailableCopies)
		assert.Empty(t, state.loans)
	})

	t.Run("no copies available", func(t *testing.T) {
		state := newFakeState()
		bookID := state.addBook("Dune", 1, 0)
		svc := newLoanCommands(state, now)

		_, err := svc.Borrow(ctx, reqdto.BorrowRequest{BookID: bookID}, userID)
		require.ErrorIs(t, err, commands.ErrNoCopiesAvailable)
		assert.Empty(t, state.loans)
	})

	t.Run("unknown book", func(t *testing.T) {
		state := newFakeState()
		svc := newLoanCommands(state, now)

		_, err := svc.Borrow(ctx, reqdto.BorrowRequest{BookID: uuid.New()}, userID)
		require.ErrorIs(t, err, commands.ErrBookNotFound)
	})

	t.Run("last copy exhausted over repeated borrows", func(t *testing.T) {
		state := newFakeState()
		bookID := state.addBook("Dune", 1, 1)
		svc := newLoanCommands(state, now)

		_, err := svc.Borrow(ctx, reqdto.BorrowRequest{BookID: bookID}, userID)
		require.NoError(t, err)

		_, err = svc.Borrow(ctx, reqdto.BorrowRequest{BookID: bookID}, uuid.New())
		require.ErrorIs(t, err, commands.ErrNoCopiesAvailable)
		assert.Equal(t, 0, state.books[bookID].AvailableCopies)
		assert.Len(t, state.loans, 1)
	})
}

func TestLoanCommands_Return(t *testing.T) {
	ctx := context.Background()
	borrowedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	dueAt := borrowedAt.AddDate(0, 0, 14)
	userID := uuid.New()

	t.Run("on-time return releases the copy without fine", func(t *testing.T) {
		state := newFakeState()
		bookID := state.addBook("Dune", 1, 0)
		loanID := seedOpenLoan(state, userID, bookID, borrowedAt, dueAt)
		svc := newLoanCommands(state, dueAt.Add(-time.Hour))

		view, err := svc.Return(ctx, loanID, userID, false)
		require.NoError(t, err)

		require.NotNil(t, view.ReturnedAt)
		assert.Zero(t, view.FineAmount)
		assert.Equal(t, 1, state.books[bookID].AvailableCopies)
	})

	t.Run("late return fixes the fine on the record", func(t *testing.T) {
		state := newFakeState()
		bookID := state.addBook("Dune", 1, 0)
		loanID := seedOpenLoan(state, userID, bookID, borrowedAt, dueAt)
		svc := newLoanCommands(state, dueAt.Add(25*time.Hour))

		view, err := svc.Return(ctx, loanID, userID, false)
		require.NoError(t, err)
		assert.Equal(t, int64(2000), view.FineAmount)
	})

	t.Run("returning twice fails and keeps availability intact", func(t *testing.T) {
		state := newFakeState()
		bookID := state.addBook("Dune", 1, 0)
		loanID := seedOpenLoan(state, userID, bookID, borrowedAt, dueAt)
		svc := newLoanCommands(state, dueAt)

		_, err := svc.Return(ctx, loanID, userID, false)
		require.NoError(t, err)

		_, err = svc.Return(ctx, loanID, userID, false)
		require.ErrorIs(t, err, commands.ErrLoanAlreadyReturned)
		assert.Equal(t, 1, state.books[bookID].AvailableCopies)
	})

	t.Run("another member cannot return the loan", func(t *testing.T) {
		state := newFakeState()
		bookID := state.addBook("Dune", 1, 0)
		loanID := seedOpenLoan(state, userID, bookID, borrowedAt, dueAt)
		svc := newLoanCommands(state, dueAt)

		_, err := svc.Return(ctx, loanID, uuid.New(), false)
		require.ErrorIs(t, err, commands.ErrNotLoanOwner)
		assert.Nil(t, state.loans[loanID].ReturnedAt)
	})

	t.Run("admin may return on behalf of the member", func(t *testing.T) {
		state := newFakeState()
		bookID := state.addBook("Dune", 1, 0)
		loanID := seedOpenLoan(state, userID, bookID, borrowedAt, dueAt)
		svc := newLoanCommands(state, dueAt)

		view, err := svc.Return(ctx, loanID, uuid.New(), true)
		require.NoError(t, err)
		require.NotNil(t, view.ReturnedAt)
	})

	t.Run("unknown loan", func(t *testing.T) {
		state := newFakeState()
		svc := newLoanCommands(state, dueAt)

		_, err := svc.Return(ctx, uuid.New(), userID, false)
		require.ErrorIs(t, err, commands.ErrLoanNotFound)
	})
}

func TestLoanCommands_AdminUpdate(t *testing.T) {
	ctx := context.Background()
	borrowedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	dueAt := borrowedAt.AddDate(0, 0, 14)
	userID := uuid.New()

	t.Run("patches only the provided fields", func(t *testing.T) {
		state := newFakeState()
		bookID := state.addBook("Dune", 1, 0)
		loanID := seedOpenLoan(state, userID, bookID, borrowedAt, dueAt)
		svc := newLoanCommands(state, dueAt)

		extended := dueAt.AddDate(0, 0, 7)
		view, err := svc.AdminUpdate(ctx, loanID, reqdto.AdminLoanUpdateRequest{DueAt: &extended})
		require.NoError(t, err)

		assert.Equal(t, extended, view.DueAt)
		assert.Nil(t, view.ReturnedAt)
	})

	t.Run("unknown loan", func(t *testing.T) {
		state := newFakeState()
		svc := newLoanCommands(state, dueAt)

		_, err := svc.AdminUpdate(ctx, uuid.New(), reqdto.AdminLoanUpdateRequest{})
		require.ErrorIs(t, err, commands.ErrLoanNotFound)
	})
}
