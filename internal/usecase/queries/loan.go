package queries

import (
	"context"

	"biblio-api/internal/infra"
	"biblio-api/internal/pkg/clock"
	"biblio-api/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrLoanNotFound    = errs.New("loan not found")
	ErrLoanQueryFailed = errs.New("loan query failed")
)

type LoanQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*LoanView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*LoanView, error)
	ListAll(ctx context.Context, overdueOnly bool) ([]*AdminLoanView, error)
}

type loanQueriesImpl struct {
	store LoanReadStore
	clock clock.Clock
}

func NewLoanQueries(store LoanReadStore, clock clock.Clock) LoanQueries {
	return &loanQueriesImpl{store: store, clock: clock}
}

func (q *loanQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*LoanView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, errs.Mark(err, ErrLoanQueryFailed)
	}

	return view, nil
}

func (q *loanQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*LoanView, error) {
	views, err := q.store.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrLoanQueryFailed)
	}
	if views == nil {
		views = []*LoanView{}
	}

	return views, nil
}

func (q *loanQueriesImpl) ListAll(ctx context.Context, overdueOnly bool) ([]*AdminLoanView, error) {
	views, err := q.store.FindAll(ctx, overdueOnly, q.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrLoanQueryFailed)
	}
	if views == nil {
		views = []*AdminLoanView{}
	}

	return views, nil
}
