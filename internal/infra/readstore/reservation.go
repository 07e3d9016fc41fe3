package readstore

import (
	"context"

	"biblio-api/internal/infra"
	"biblio-api/internal/infra/db"
	"biblio-api/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: dbtx}
}

func (s *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	const query = `
		SELECT r.id, r.user_id, r.reserved_at, r.expires_at, r.notified, r.created_at,
		       b.id, b.title, b.author, b.isbn, b.cover_url
		FROM reservations r
		JOIN books b ON b.id = r.book_id
		WHERE r.id = $1`

	v := &queries.ReservationView{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.UserID, &v.ReservedAt, &v.ExpiresAt, &v.Notified, &v.CreatedAt,
		&v.Book.ID, &v.Book.Title, &v.Book.Author, &v.Book.ISBN, &v.Book.CoverURL,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}

	return v, nil
}

func (s *ReservationReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*queries.ReservationView, error) {
	const query = `
		SELECT r.id, r.user_id, r.reserved_at, r.expires_at, r.notified, r.created_at,
		       b.id, b.title, b.author, b.isbn, b.cover_url
		FROM reservations r
		JOIN books b ON b.id = r.book_id
		WHERE r.user_id = $1
		ORDER BY r.reserved_at DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	var views []*queries.ReservationView
	for rows.Next() {
		v := &queries.ReservationView{}
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.ReservedAt, &v.ExpiresAt, &v.Notified, &v.CreatedAt,
			&v.Book.ID, &v.Book.Title, &v.Book.Author, &v.Book.ISBN, &v.Book.CoverURL,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation rows", err)
	}

	return views, nil
}

func (s *ReservationReadStore) FindAll(ctx context.Context) ([]*queries.AdminReservationView, error) {
	const query = `
		SELECT r.id, r.user_id, r.reserved_at, r.expires_at, r.notified, r.created_at,
		       b.id, b.title, b.author, b.isbn, b.cover_url,
		       u.id, u.name, u.email
		FROM reservations r
		JOIN books b ON b.id = r.book_id
		JOIN users u ON u.id = r.user_id
		ORDER BY r.reserved_at DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	var views []*queries.AdminReservationView
	for rows.Next() {
		v := &queries.AdminReservationView{}
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.ReservedAt, &v.ExpiresAt, &v.Notified, &v.CreatedAt,
			&v.Book.ID, &v.Book.Title, &v.Book.Author, &v.Book.ISBN, &v.Book.CoverURL,
			&v.User.ID, &v.User.Name, &v.User.Email,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation rows", err)
	}

	return views, nil
}
