package queries

import (
	"context"

	"biblio-api/internal/pkg/clock"
	"biblio-api/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrAdminQueryFailed = errs.New("admin query failed")

type AdminQueries interface {
	Stats(ctx context.Context) (*StatsView, error)
	Users(ctx context.Context) ([]*AuthorizedUserView, error)
	UserHistory(ctx context.Context, userID uuid.UUID) (*UserHistoryView, error)
}

type adminQueriesImpl struct {
	users        UserReadStore
	books        BookReadStore
	loans        LoanReadStore
	reservations ReservationReadStore
	clock        clock.Clock
}

func NewAdminQueries(
	users UserReadStore,
	books BookReadStore,
	loans LoanReadStore,
	reservations ReservationReadStore,
	clock clock.Clock,
) AdminQueries {
	return &adminQueriesImpl{
		users:        users,
		books:        books,
		loans:        loans,
		reservations: reservations,
		clock:        clock,
	}
}

func (q *adminQueriesImpl) Stats(ctx context.Context) (*StatsView, error) {
	userCount, err := q.users.Count(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrAdminQueryFailed)
	}

	bookCount, err := q.books.Count(ctx, BookSearch{})
	if err != nil {
		return nil, errs.Mark(err, ErrAdminQueryFailed)
	}

	loanCounts, err := q.loans.Counts(ctx, q.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrAdminQueryFailed)
	}

	return &StatsView{
		Users:        userCount,
		Books:        bookCount,
		Loans:        loanCounts.Total,
		OpenLoans:    loanCounts.Open,
		OverdueLoans: loanCounts.Overdue,
	}, nil
}

func (q *adminQueriesImpl) Users(ctx context.Context) ([]*AuthorizedUserView, error) {
	views, err := q.users.FindAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrAdminQueryFailed)
	}
	if views == nil {
		views = []*AuthorizedUserView{}
	}

	return views, nil
}

func (q *adminQueriesImpl) UserHistory(ctx context.Context, userID uuid.UUID) (*UserHistoryView, error) {
	loans, err := q.loans.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrAdminQueryFailed)
	}
	if loans == nil {
		loans = []*LoanView{}
	}

	reservations, err := q.reservations.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrAdminQueryFailed)
	}
	if reservations == nil {
		reservations = []*ReservationView{}
	}

	return &UserHistoryView{
		Loans:        loans,
		Reservations: reservations,
	}, nil
}
