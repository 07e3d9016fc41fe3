package commands

import (
	"context"
	"errors"

	"biblio-api/internal/domain/reservation"
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
	ErrReservationNotFound        = errs.New("reservation not found")
	ErrBookStillAvailable         = errs.New("book has available copies")
	ErrNotReservationOwner        = errs.New("reservation belongs to another user")
	ErrReservationOperationFailed = errs.New("reservation operation failed")
)

type ReservationCommands interface {
	Create(ctx context.Context, req reqdto.CreateReservationRequest, userID uuid.UUID) (*queries.ReservationView, error)
	Cancel(ctx context.Context, reservationID, actorID uuid.UUID, actorIsAdmin bool) error
}

type reservationCommandsImpl struct {
	uow       shared.UnitOfWork
	readStore queries.ReservationReadStore
	clock     clock.Clock
	policy    config.LibraryConfig
}

func NewReservationCommands(uow shared.UnitOfWork, readStore queries.ReservationReadStore, clock clock.Clock, policy config.LibraryConfig) ReservationCommands {
	return &reservationCommandsImpl{
		uow:       uow,
		readStore: readStore,
		clock:     clock,
		policy:    policy,
	}
}

// Create places a hold on a title with zero available copies. The availability
// check runs in the same transaction as the insert so a concurrent return
// cannot slip a copy in between check and hold.
func (r *reservationCommandsImpl) Create(ctx context.Context, req reqdto.CreateReservationRequest, userID uuid.UUID) (*queries.ReservationView, error) {
	holdDays := r.policy.HoldDays
	if req.HoldDays != nil {
		holdDays = *req.HoldDays
	}
	entity := reservation.NewReservation(userID, req.BookID, r.clock.Now(), holdDays)

	var reservationID uuid.UUID
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		book, readErr := tx.Reads().BookByID(ctx, req.BookID)
		if readErr != nil {
			return readErr
		}
		if book.AvailableCopies > 0 {
			return ErrBookStillAvailable
		}

		id, createErr := tx.Reservations().Create(ctx, entity)
		if createErr != nil {
			return createErr
		}
		reservationID = id
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrBookStillAvailable):
			return nil, ErrBookStillAvailable
		case infra.IsKind(err, infra.KindNotFound), infra.IsKind(err, infra.KindForeignKeyViolated):
			return nil, ErrBookNotFound
		default:
			return nil, errs.Mark(err, ErrReservationOperationFailed)
		}
	}

	view, err := r.readStore.FindByID(ctx, reservationID)
	if err != nil {
		return nil, errs.Mark(err, ErrReservationOperationFailed)
	}

	return view, nil
}

func (r *reservationCommandsImpl) Cancel(ctx context.Context, reservationID, actorID uuid.UUID, actorIsAdmin bool) error {
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, readErr := tx.Reads().ReservationByID(ctx, reservationID)
		if readErr != nil {
			return readErr
		}
		if current.UserID != actorID && !actorIsAdmin {
			return ErrNotReservationOwner
		}

		return tx.Reservations().Delete(ctx, reservationID)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotReservationOwner):
			return ErrNotReservationOwner
		case infra.IsKind(err, infra.KindNotFound):
			return ErrReservationNotFound
		default:
			return errs.Mark(err, ErrReservationOperationFailed)
		}
	}

	return nil
}
