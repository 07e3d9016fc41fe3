package readstore

import (
	"context"

	"biblio-api/internal/infra"
	"biblio-api/internal/infra/db"
	"biblio-api/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{db: dbtx}
}

const userColumns = `id, name, email, role, is_active, created_at`

func (s *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	v := &queries.AuthorizedUserView{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Name, &v.Email, &v.Role, &v.IsActive, &v.CreatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user", err)
	}

	return v, nil
}

// FindByEmail also returns the stored password hash for credential checks.
func (s *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	query := `SELECT ` + userColumns + `, password_hash FROM users WHERE email = $1`

	v := &queries.AuthorizedUserView{}
	var hash string
	err := s.db.QueryRow(ctx, query, email).Scan(
		&v.ID, &v.Name, &v.Email, &v.Role, &v.IsActive, &v.CreatedAt, &hash,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user", err)
	}

	return v, hash, nil
}

func (s *UserReadStore) FindAll(ctx context.Context) ([]*queries.AuthorizedUserView, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list users", err)
	}
	defer rows.Close()

	var views []*queries.AuthorizedUserView
	for rows.Next() {
		v := &queries.AuthorizedUserView{}
		if err := rows.Scan(&v.ID, &v.Name, &v.Email, &v.Role, &v.IsActive, &v.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan user row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate user rows", err)
	}

	return views, nil
}

func (s *UserReadStore) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, infra.WrapRepoErr("failed to count users", err)
	}

	return total, nil
}
