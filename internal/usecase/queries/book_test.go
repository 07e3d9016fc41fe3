//go:build unit

package queries_test

import (
	"context"
	"testing"

	"biblio-api/internal/infra"
	"biblio-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBookReadStore struct {
	items      []*queries.BookView
	total      int64
	lastSearch queries.BookSearch
}

func (s *stubBookReadStore) FindByID(_ context.Context, _ uuid.UUID) (*queries.BookView, error) {
	return nil, infra.WrapRepoErr("book not found", nil, infra.KindNotFound)
}

func (s *stubBookReadStore) Search(_ context.Context, f queries.BookSearch) ([]*queries.BookView, error) {
	s.lastSearch = f
	return s.items, nil
}

func (s *stubBookReadStore) Count(_ context.Context, _ queries.BookSearch) (int64, error) {
	return s.total, nil
}

func (s *stubBookReadStore) FindCover(_ context.Context, _ uuid.UUID) (*queries.CoverView, error) {
	return nil, infra.WrapRepoErr("cover not found", nil, infra.KindNotFound)
}

func TestBookQueries_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name           string
		params         queries.ListBooksParams
		total          int64
		wantPage       int
		wantPageSize   int
		wantOffset     int
		wantTotalPages int
	}{
		{
			name:           "defaults applied when paging absent",
			params:         queries.ListBooksParams{},
			total:          45,
			wantPage:       1,
			wantPageSize:   20,
			wantOffset:     0,
			wantTotalPages: 3,
		},
		{
			name:           "page zero floors at one",
			params:         queries.ListBooksParams{Page: 0, PageSize: 10},
			total:          5,
			wantPage:       1,
			wantPageSize:   10,
			wantOffset:     0,
			wantTotalPages: 1,
		},
		{
			name:           "oversized page size capped",
			params:         queries.ListBooksParams{Page: 2, PageSize: 150},
			total:          250,
			wantPage:       2,
			wantPageSize:   100,
			wantOffset:     100,
			wantTotalPages: 3,
		},
		{
			name:           "negative page size floors at one",
			params:         queries.ListBooksParams{Page: 3, PageSize: -7},
			total:          10,
			wantPage:       3,
			wantPageSize:   1,
			wantOffset:     2,
			wantTotalPages: 10,
		},
		{
			name:           "empty result set yields zero pages",
			params:         queries.ListBooksParams{},
			total:          0,
			wantPage:       1,
			wantPageSize:   20,
			wantOffset:     0,
			wantTotalPages: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubBookReadStore{total: tt.total}
			svc := queries.NewBookQueries(store)

			page, err := svc.List(ctx, tt.params)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantPageSize, page.PageSize)
			assert.Equal(t, tt.total, page.Total)
			assert.Equal(t, tt.wantTotalPages, page.TotalPages)
			assert.Equal(t, tt.wantPageSize, store.lastSearch.Limit)
			assert.Equal(t, tt.wantOffset, store.lastSearch.Offset)
			assert.NotNil(t, page.Items)
		})
	}

	t.Run("filters passed through to the store", func(t *testing.T) {
		store := &stubBookReadStore{}
		svc := queries.NewBookQueries(store)

		_, err := svc.List(ctx, queries.ListBooksParams{Search: "dune", Author: "herbert", Genre: "sci-fi"})
		require.NoError(t, err)

		assert.Equal(t, "dune", store.lastSearch.Text)
		assert.Equal(t, "herbert", store.lastSearch.Author)
		assert.Equal(t, "sci-fi", store.lastSearch.Genre)
	})
}

func TestBookQueries_GetByID(t *testing.T) {
	svc := queries.NewBookQueries(&stubBookReadStore{})

	_, err := svc.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, queries.ErrBookNotFound)
}

func TestBookQueries_GetCover(t *testing.T) {
	svc := queries.NewBookQueries(&stubBookReadStore{})

	_, err := svc.GetCover(context.Background(), uuid.New())
	require.ErrorIs(t, err, queries.ErrCoverNotFound)
}
