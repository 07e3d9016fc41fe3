package repository

import (
	"context"
	"time"

	"biblio-api/internal/domain/loan"
	"biblio-api/internal/infra"
	"biblio-api/internal/infra/db"
	"biblio-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type LoanRepository struct {
	db db.DBTX
}

func NewLoanRepository(dbtx db.DBTX) *LoanRepository {
	return &LoanRepository{db: dbtx}
}

func (r *LoanRepository) Create(ctx context.Context, l *loan.Loan) (uuid.UUID, error) {
	const query = `
		INSERT INTO loans (id, user_id, book_id, borrowed_at, due_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query,
		l.ID(),
		l.UserID(),
		l.BookID(),
		l.BorrowedAt(),
		l.DueAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create loan", err)
	}

	return id, nil
}

// Close is conditional on the loan still being open, making the
// closed-transition idempotence a database guarantee rather than a
// read-then-write race.
func (r *LoanRepository) Close(ctx context.Context, id uuid.UUID, returnedAt time.Time, fineAmount int64) (bool, error) {
	const query = `
		UPDATE loans
		SET returned_at = $2, fine_amount = $3, updated_at = now()
		WHERE id = $1 AND returned_at IS NULL`

	tag, err := r.db.Exec(ctx, query, id, returnedAt, fineAmount)
	if err != nil {
		return false, infra.WrapRepoErr("failed to close loan", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *LoanRepository) AdminUpdate(ctx context.Context, id uuid.UUID, patch shared.AdminLoanPatch) error {
	const query = `
		UPDATE loans
		SET due_at = COALESCE($2, due_at),
		    returned_at = COALESCE($3, returned_at),
		    updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, patch.DueAt, patch.ReturnedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to update loan", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("loan not found", nil, infra.KindNotFound)
	}

	return nil
}
