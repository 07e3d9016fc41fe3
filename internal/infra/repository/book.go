package repository

import (
	"context"

	"biblio-api/internal/domain/book"
	"biblio-api/internal/infra"
	"biblio-api/internal/infra/db"
	"biblio-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookRepository struct {
	db db.DBTX
}

func NewBookRepository(dbtx db.DBTX) *BookRepository {
	return &BookRepository{db: dbtx}
}

func (r *BookRepository) Create(ctx context.Context, b *book.Book) (uuid.UUID, error) {
	const query = `
		INSERT INTO books (id, title, author, isbn, genre, summary, cover_url, total_copies, available_copies, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query,
		b.ID(),
		b.Title(),
		b.Author(),
		b.ISBN().Value(),
		b.Genre(),
		b.Summary(),
		b.CoverURL(),
		b.Copies().Total(),
		b.Copies().Available(),
		b.CreatedBy(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create book", err)
	}

	return id, nil
}

func (r *BookRepository) Update(ctx context.Context, id uuid.UUID, params shared.UpdateBookParams) error {
	const query = `
		UPDATE books
		SET title = $2,
		    author = $3,
		    isbn = $4,
		    genre = $5,
		    summary = $6,
		    cover_url = $7,
		    total_copies = $8,
		    available_copies = $9,
		    updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		id,
		params.Title,
		params.Author,
		params.ISBN,
		params.Genre,
		params.Summary,
		params.CoverURL,
		params.TotalCopies,
		params.AvailableCopies,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update book", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("book not found", nil, infra.KindNotFound)
	}

	return nil
}

// ClaimCopy is the compare-and-swap that closes the over-commit race: the
// decrement only lands while a copy is still free, so two concurrent borrows
// of the last copy cannot both succeed.
func (r *BookRepository) ClaimCopy(ctx context.Context, id uuid.UUID) (bool, error) {
	const query = `
		UPDATE books
		SET available_copies = available_copies - 1, updated_at = now()
		WHERE id = $1 AND available_copies > 0`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim book copy", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *BookRepository) ReleaseCopy(ctx context.Context, id uuid.UUID) error {
	// Capped at total_copies so an admin resize between borrow and return
	// cannot push availability past the ledger bound.
	const query = `
		UPDATE books
		SET available_copies = LEAST(available_copies + 1, total_copies), updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return infra.WrapRepoErr("failed to release book copy", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("book not found", nil, infra.KindNotFound)
	}

	return nil
}

func (r *BookRepository) SetCover(ctx context.Context, id uuid.UUID, data []byte, contentType string) error {
	const query = `
		UPDATE books
		SET cover_image = $2, cover_image_type = $3, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, data, contentType)
	if err != nil {
		return infra.WrapRepoErr("failed to set book cover", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("book not found", nil, infra.KindNotFound)
	}

	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete book", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("book not found", nil, infra.KindNotFound)
	}

	return nil
}
