package queries

import (
	"context"

	"biblio-api/internal/infra"
	"biblio-api/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrBookNotFound    = errs.New("book not found")
	ErrCoverNotFound   = errs.New("cover image not found")
	ErrBookQueryFailed = errs.New("book query failed")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ListBooksParams struct {
	Search   string
	Author   string
	Genre    string
	Page     int
	PageSize int
}

type BookQueries interface {
	List(ctx context.Context, params ListBooksParams) (*BookPage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*BookView, error)
	GetCover(ctx context.Context, id uuid.UUID) (*CoverView, error)
}

type bookQueriesImpl struct {
	store BookReadStore
}

func NewBookQueries(store BookReadStore) BookQueries {
	return &bookQueriesImpl{store: store}
}

// List clamps paging input rather than rejecting it: page floors at 1 and
// page size lands in [1, 100], defaulting to 20 when absent.
func (q *bookQueriesImpl) List(ctx context.Context, params ListBooksParams) (*BookPage, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	search := BookSearch{
		Text:   params.Search,
		Author: params.Author,
		Genre:  params.Genre,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}

	items, err := q.store.Search(ctx, search)
	if err != nil {
		return nil, errs.Mark(err, ErrBookQueryFailed)
	}

	total, err := q.store.Count(ctx, search)
	if err != nil {
		return nil, errs.Mark(err, ErrBookQueryFailed)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if items == nil {
		items = []*BookView{}
	}

	return &BookPage{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func (q *bookQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, errs.Mark(err, ErrBookQueryFailed)
	}

	return view, nil
}

func (q *bookQueriesImpl) GetCover(ctx context.Context, id uuid.UUID) (*CoverView, error) {
	cover, err := q.store.FindCover(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCoverNotFound
		}
		return nil, errs.Mark(err, ErrBookQueryFailed)
	}

	return cover, nil
}
