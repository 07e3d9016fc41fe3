//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"biblio-api/internal/pkg/clock"
	"biblio-api/internal/usecase/commands"
	"biblio-api/internal/usecase/shared"

	reqdto "biblio-api/internal/handler/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReservationCommands(state *fakeState, now time.Time) commands.ReservationCommands {
	return commands.NewReservationCommands(
		&fakeUoW{state: state},
		&fakeReservationReadStore{state: state},
		clock.NewMockClock(now),
		testPolicy,
	)
}

func seedReservation(state *fakeState, userID, bookID uuid.UUID, expiresAt time.Time) uuid.UUID {
	id := uuid.New()
	state.reservations[id] = &shared.ReservationSnapshot{
		ID:        id,
		UserID:    userID,
		BookID:    bookID,
		ExpiresAt: expiresAt,
	}
	return id
}

func TestReservationCommands_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("holds a fully loaned title with the configured window", func(t *testing.T) {
		state := newFakeState()
		bookID := state.addBook("Dune", 2, 0)
		svc := newReservationCommands(state, now)

		view, err := svc.Create(ctx, reqdto.CreateReservationRequest{BookID: bookID}, userID)
		require.NoError(t, err)

		assert.Equal(t, userID, view.UserID)
		assert.Equal(t, bookID, view.Book.ID)
		assert.Equal(t, now.AddDate(0, 0, 3), view.ExpiresAt)
		assert.Len(t, state.reservations, 1)
	})

	t.Run("requested hold days override the configured window", func(t *testing.T) {
		state := newFakeState()
		bookID := state.addBook("Dune", 2, 0)
		svc := newReservationCommands(state, now)

		holdDays := 7
		view, err := svc.Create(ctx, reqdto.CreateReservationRequest{BookID: bookID, HoldDays: &holdDays}, userID)
		require.NoError(t, err)
		assert.Equal(t, now.AddDate(0, 0, 7), view.ExpiresAt)
	})

	t.Run("title with free copies cannot be reserved", func(t *testing.T) {
		state := newFakeState()
		bookID := state.addBook("Dune", 2, 1)
		svc := newReservationCommands(state, now)

		_, err := svc.Create(ctx, reqdto.CreateReservationRequest{BookID: bookID}, userID)
		require.ErrorIs(t, err, commands.ErrBookStillAvailable)
		assert.Empty(t, state.reservations)
	})

	t.Run("unknown book", func(t *testing.T) {
		state := newFakeState()
		svc := newReservationCommands(state, now)

		_, err := svc.Create(ctx, reqdto.CreateReservationRequest{BookID: uuid.New()}, userID)
		require.ErrorIs(t, err, commands.ErrBookNotFound)
	})
}

func TestReservationCommands_Cancel(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("owner cancels their own hold", func(t *testing.T) {
		state := newFakeState()
		bookID := state.addBook("Dune", 1, 0)
		resID := seedReservation(state, userID, bookID, now.AddDate(0, 0, 3))
		svc := newReservationCommands(state, now)

		require.NoError(t, svc.Cancel(ctx, resID, userID, false))
		assert.Empty(t, state.reservations)
	})

	t.Run("another member cannot cancel the hold", func(t *testing.T) {
		state := newFakeState()
		bookID := state.addBook("Dune", 1, 0)
		resID := seedReservation(state, userID, bookID, now.AddDate(0, 0, 3))
		svc := newReservationCommands(state, now)

		err := svc.Cancel(ctx, resID, uuid.New(), false)
		require.ErrorIs(t, err, commands.ErrNotReservationOwner)
		assert.Len(t, state.reservations, 1)
	})

	t.Run("admin cancels on behalf of the member", func(t *testing.T) {
		state := newFakeState()
		bookID := state.addBook("Dune", 1, 0)
		resID := seedReservation(state, userID, bookID, now.AddDate(0, 0, 3))
		svc := newReservationCommands(state, now)

		require.NoError(t, svc.Cancel(ctx, resID, uuid.New(), true))
		assert.Empty(t, state.reservations)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		state := newFakeState()
		svc := newReservationCommands(state, now)

		err := svc.Cancel(ctx, uuid.New(), userID, false)
		require.ErrorIs(t, err, commands.ErrReservationNotFound)
	})
}
