package queries

import (
	"context"

	"biblio-api/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrReservationQueryFailed = errs.New("reservation query failed")

type ReservationQueries interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*ReservationView, error)
	ListAll(ctx context.Context) ([]*AdminReservationView, error)
}

type reservationQueriesImpl struct {
	store     ReservationReadStore
	loanStore LoanReadStore
}

func NewReservationQueries(store ReservationReadStore, loanStore LoanReadStore) ReservationQueries {
	return &reservationQueriesImpl{store: store, loanStore: loanStore}
}

// ListByUser decorates each hold with the earliest due date among the open
// loans of its title, so the holder sees when a copy is next expected back.
func (q *reservationQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*ReservationView, error) {
	views, err := q.store.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrReservationQueryFailed)
	}
	if len(views) == 0 {
		return []*ReservationView{}, nil
	}

	bookIDs := make([]uuid.UUID, 0, len(views))
	seen := make(map[uuid.UUID]bool, len(views))
	for _, v := range views {
		if !seen[v.Book.ID] {
			seen[v.Book.ID] = true
			bookIDs = append(bookIDs, v.Book.ID)
		}
	}

	nextDue, err := q.loanStore.MinOpenDueByBookIDs(ctx, bookIDs)
	if err != nil {
		return nil, errs.Mark(err, ErrReservationQueryFailed)
	}

	for _, v := range views {
		if due, ok := nextDue[v.Book.ID]; ok {
			d := due
			v.NextDueAt = &d
		}
	}

	return views, nil
}

func (q *reservationQueriesImpl) ListAll(ctx context.Context) ([]*AdminReservationView, error) {
	views, err := q.store.FindAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrReservationQueryFailed)
	}
	if views == nil {
		views = []*AdminReservationView{}
	}

	return views, nil
}
