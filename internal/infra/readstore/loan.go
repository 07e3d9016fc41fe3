package readstore

import (
	"context"
	"time"

	"biblio-api/internal/infra"
	"biblio-api/internal/infra/db"
	"biblio-api/internal/usecase/queries"

	"github.com/google/uuid"
)

type LoanReadStore struct {
	db db.DBTX
}

func NewLoanReadStore(dbtx db.DBTX) *LoanReadStore {
	return &LoanReadStore{db: dbtx}
}

const loanSelect = `
	SELECT l.id, l.user_id, l.borrowed_at, l.due_at, l.returned_at, l.fine_amount, l.created_at,
	       b.id, b.title, b.author, b.isbn, b.cover_url
	FROM loans l
	JOIN books b ON b.id = l.book_id`

func scanLoanView(row interface{ Scan(dest ...any) error }) (*queries.LoanView, error) {
	v := &queries.LoanView{}
	err := row.Scan(
		&v.ID, &v.UserID, &v.BorrowedAt, &v.DueAt, &v.ReturnedAt, &v.FineAmount, &v.CreatedAt,
		&v.Book.ID, &v.Book.Title, &v.Book.Author, &v.Book.ISBN, &v.Book.CoverURL,
	)
	if err != nil {
		return nil, err
	}

	return v, nil
}

func (s *LoanReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.LoanView, error) {
	v, err := scanLoanView(s.db.QueryRow(ctx, loanSelect+` WHERE l.id = $1`, id))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("loan not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find loan", err)
	}

	return v, nil
}

func (s *LoanReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*queries.LoanView, error) {
	query := loanSelect + ` WHERE l.user_id = $1 ORDER BY l.borrowed_at DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list loans", err)
	}
	defer rows.Close()

	var views []*queries.LoanView
	for rows.Next() {
		v, err := scanLoanView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan loan row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate loan rows", err)
	}

	return views, nil
}

func (s *LoanReadStore) FindAll(ctx context.Context, overdueOnly bool, now time.Time) ([]*queries.AdminLoanView, error) {
	query := `
		SELECT l.id, l.user_id, l.borrowed_at, l.due_at, l.returned_at, l.fine_amount, l.created_at,
		       b.id, b.title, b.author, b.isbn, b.cover_url,
		       u.id, u.name, u.email
		FROM loans l
		JOIN books b ON b.id = l.book_id
		JOIN users u ON u.id = l.user_id`
	args := []any{}
	if overdueOnly {
		query += ` WHERE l.returned_at IS NULL AND l.due_at < $1`
		args = append(args, now)
	}
	query += ` ORDER BY l.borrowed_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list loans", err)
	}
	defer rows.Close()

	var views []*queries.AdminLoanView
	for rows.Next() {
		v := &queries.AdminLoanView{}
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.BorrowedAt, &v.DueAt, &v.ReturnedAt, &v.FineAmount, &v.CreatedAt,
			&v.Book.ID, &v.Book.Title, &v.Book.Author, &v.Book.ISBN, &v.Book.CoverURL,
			&v.User.ID, &v.User.Name, &v.User.Email,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan loan row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate loan rows", err)
	}

	return views, nil
}

// MinOpenDueByBookIDs returns the earliest due date among open loans per book,
// used to tell reservation holders when a copy is next expected back.
func (s *LoanReadStore) MinOpenDueByBookIDs(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]time.Time, error) {
	if len(bookIDs) == 0 {
		return map[uuid.UUID]time.Time{}, nil
	}

	const query = `
		SELECT book_id, MIN(due_at)
		FROM loans
		WHERE returned_at IS NULL AND book_id = ANY($1)
		GROUP BY book_id`

	rows, err := s.db.Query(ctx, query, bookIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query next due dates", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID]time.Time, len(bookIDs))
	for rows.Next() {
		var bookID uuid.UUID
		var dueAt time.Time
		if err := rows.Scan(&bookID, &dueAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan next due row", err)
		}
		result[bookID] = dueAt
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate next due rows", err)
	}

	return result, nil
}

func (s *LoanReadStore) OpenCountByBookID(ctx context.Context, bookID uuid.UUID) (int64, error) {
	const query = `SELECT COUNT(*) FROM loans WHERE book_id = $1 AND returned_at IS NULL`

	var count int64
	if err := s.db.QueryRow(ctx, query, bookID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count open loans", err)
	}

	return count, nil
}

func (s *LoanReadStore) Counts(ctx context.Context, now time.Time) (queries.LoanCounts, error) {
	const query = `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE returned_at IS NULL),
		       COUNT(*) FILTER (WHERE returned_at IS NULL AND due_at < $1)
		FROM loans`

	var c queries.LoanCounts
	if err := s.db.QueryRow(ctx, query, now).Scan(&c.Total, &c.Open, &c.Overdue); err != nil {
		return queries.LoanCounts{}, infra.WrapRepoErr("failed to count loans", err)
	}

	return c, nil
}
