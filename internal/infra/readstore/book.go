package readstore

import (
	"context"

	"biblio-api/internal/infra"
	"biblio-api/internal/infra/db"
	"biblio-api/internal/usecase/queries"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
)

var pg = goqu.Dialect("postgres")

type BookReadStore struct {
	db db.DBTX
}

func NewBookReadStore(dbtx db.DBTX) *BookReadStore {
	return &BookReadStore{db: dbtx}
}

const bookColumns = `
	id, title, author, isbn, genre, summary, cover_url,
	total_copies, available_copies, created_at, updated_at`

func (s *BookReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookView, error) {
	query := `SELECT` + bookColumns + ` FROM books WHERE id = $1`

	v := &queries.BookView{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Title, &v.Author, &v.ISBN, &v.Genre, &v.Summary, &v.CoverURL,
		&v.TotalCopies, &v.AvailableCopies, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("book not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find book", err)
	}

	return v, nil
}

// searchConditions translates the catalog filter into WHERE clauses. The free
// text filter matches any of title, author, genre or isbn, while the dedicated
// author and genre filters narrow independently.
func searchConditions(f queries.BookSearch) []goqu.Expression {
	var conds []goqu.Expression
	if f.Text != "" {
		pat := "%" + f.Text + "%"
		conds = append(conds, goqu.Or(
			goqu.I("title").ILike(pat),
			goqu.I("author").ILike(pat),
			goqu.I("genre").ILike(pat),
			goqu.I("isbn").ILike(pat),
		))
	}
	if f.Author != "" {
		conds = append(conds, goqu.I("author").ILike("%"+f.Author+"%"))
	}
	if f.Genre != "" {
		conds = append(conds, goqu.I("genre").ILike("%"+f.Genre+"%"))
	}

	return conds
}

func (s *BookReadStore) Search(ctx context.Context, f queries.BookSearch) ([]*queries.BookView, error) {
	ds := pg.From("books").
		Select(
			"id", "title", "author", "isbn", "genre", "summary", "cover_url",
			"total_copies", "available_copies", "created_at", "updated_at",
		).
		Where(searchConditions(f)...).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(f.Limit)).
		Offset(uint(f.Offset))

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build book search query", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to search books", err)
	}
	defer rows.Close()

	var views []*queries.BookView
	for rows.Next() {
		v := &queries.BookView{}
		if err := rows.Scan(
			&v.ID, &v.Title, &v.Author, &v.ISBN, &v.Genre, &v.Summary, &v.CoverURL,
			&v.TotalCopies, &v.AvailableCopies, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan book row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate book rows", err)
	}

	return views, nil
}

func (s *BookReadStore) Count(ctx context.Context, f queries.BookSearch) (int64, error) {
	ds := pg.From("books").
		Select(goqu.COUNT(goqu.Star())).
		Where(searchConditions(f)...)

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build book count query", err)
	}

	var total int64
	if err := s.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, infra.WrapRepoErr("failed to count books", err)
	}

	return total, nil
}

func (s *BookReadStore) FindCover(ctx context.Context, id uuid.UUID) (*queries.CoverView, error) {
	const query = `SELECT cover_image, cover_image_type FROM books WHERE id = $1`

	var data []byte
	var contentType *string
	err := s.db.QueryRow(ctx, query, id).Scan(&data, &contentType)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("book not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find book cover", err)
	}
	if len(data) == 0 || contentType == nil {
		return nil, infra.WrapRepoErr("book has no cover image", nil, infra.KindNotFound)
	}

	return &queries.CoverView{Data: data, ContentType: *contentType}, nil
}
