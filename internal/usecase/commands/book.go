package commands

import (
	"context"
	"errors"
	"strings"

	"biblio-api/internal/domain/book"
	reqdto "biblio-api/internal/handler/dto/request"
	"biblio-api/internal/infra"
	"biblio-api/internal/pkg/errs"
	"biblio-api/internal/pkg/patch"
	"biblio-api/internal/usecase/queries"
	"biblio-api/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookNotFound        = errs.New("book not found")
	ErrDuplicateISBN       = errs.New("isbn already registered")
	ErrInvalidBookData     = errs.New("invalid book data")
	ErrBookHasActivity     = errs.New("book has loans or reservations")
	ErrCoverTooLarge       = errs.New("cover image too large")
	ErrUnsupportedCover    = errs.New("unsupported cover image type")
	ErrBookOperationFailed = errs.New("book operation failed")
)

type BookCommands interface {
	Create(ctx context.Context, req reqdto.CreateBookRequest, createdBy uuid.UUID) (*queries.BookView, error)
	Update(ctx context.Context, id uuid.UUID, req reqdto.UpdateBookRequest) (*queries.BookView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetCover(ctx context.Context, id uuid.UUID, data []byte, contentType string) error
}

type bookCommandsImpl struct {
	uow           shared.UnitOfWork
	readStore     queries.BookReadStore
	maxCoverBytes int64
}

func NewBookCommands(uow shared.UnitOfWork, readStore queries.BookReadStore, maxCoverBytes int64) BookCommands {
	return &bookCommandsImpl{
		uow:           uow,
		readStore:     readStore,
		maxCoverBytes: maxCoverBytes,
	}
}

func (b *bookCommandsImpl) Create(ctx context.Context, req reqdto.CreateBookRequest, createdBy uuid.UUID) (*queries.BookView, error) {
	isbn, err := book.NewISBN(req.ISBN)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidBookData)
	}

	entity, err := book.NewBook(req.Title, req.Author, isbn, req.Genre, req.Summary, req.CoverURL, req.TotalCopies, &createdBy)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidBookData)
	}

	var bookID uuid.UUID
	err = b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, createErr := tx.Books().Create(ctx, entity)
		if createErr != nil {
			return createErr
		}
		bookID = id
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrDuplicateISBN
		}
		return nil, errs.Mark(err, ErrBookOperationFailed)
	}

	view, err := b.readStore.FindByID(ctx, bookID)
	if err != nil {
		return nil, errs.Mark(err, ErrBookOperationFailed)
	}

	return view, nil
}

// Update merges the request onto the stored record and writes every column.
// A change to total_copies recomputes availability from the open-loan count
// inside the same transaction, which also repairs a drifted counter.
func (b *bookCommandsImpl) Update(ctx context.Context, id uuid.UUID, req reqdto.UpdateBookRequest) (*queries.BookView, error) {
	err := b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, readErr := tx.Reads().BookByID(ctx, id)
		if readErr != nil {
			return readErr
		}

		isbnValue := current.ISBN
		if req.ISBN != nil {
			isbn, isbnErr := book.NewISBN(*req.ISBN)
			if isbnErr != nil {
				return errs.Mark(isbnErr, ErrInvalidBookData)
			}
			isbnValue = isbn.Value()
		}

		params := shared.UpdateBookParams{
			Title:           strings.TrimSpace(patch.Coalesce(req.Title, current.Title)),
			Author:          strings.TrimSpace(patch.Coalesce(req.Author, current.Author)),
			ISBN:            isbnValue,
			Genre:           strings.TrimSpace(patch.Coalesce(req.Genre, current.Genre)),
			Summary:         patch.Coalesce(req.Summary, current.Summary),
			CoverURL:        strings.TrimSpace(patch.Coalesce(req.CoverURL, current.CoverURL)),
			TotalCopies:     current.TotalCopies,
			AvailableCopies: current.AvailableCopies,
		}
		if params.Title == "" {
			return errs.Mark(book.ErrEmptyTitle, ErrInvalidBookData)
		}
		if params.Author == "" {
			return errs.Mark(book.ErrEmptyAuthor, ErrInvalidBookData)
		}

		if req.TotalCopies != nil && *req.TotalCopies != current.TotalCopies {
			openLoans, countErr := tx.Reads().OpenLoanCount(ctx, id)
			if countErr != nil {
				return countErr
			}
			counts, countsErr := book.NewCopyCounts(current.TotalCopies, current.AvailableCopies)
			if countsErr != nil {
				return errs.Mark(countsErr, ErrInvalidBookData)
			}
			resized := counts.Resize(*req.TotalCopies, openLoans)
			params.TotalCopies = resized.Total()
			params.AvailableCopies = resized.Available()
		}

		return tx.Books().Update(ctx, id, params)
	})
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return nil, ErrBookNotFound
		case infra.IsKind(err, infra.KindDuplicateKey):
			return nil, ErrDuplicateISBN
		case errors.Is(err, ErrInvalidBookData):
			return nil, err
		default:
			return nil, errs.Mark(err, ErrBookOperationFailed)
		}
	}

	view, err := b.readStore.FindByID(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, ErrBookOperationFailed)
	}

	return view, nil
}

func (b *bookCommandsImpl) Delete(ctx context.Context, id uuid.UUID) error {
	err := b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Books().Delete(ctx, id)
	})
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return ErrBookNotFound
		case infra.IsKind(err, infra.KindForeignKeyViolated):
			return ErrBookHasActivity
		default:
			return errs.Mark(err, ErrBookOperationFailed)
		}
	}

	return nil
}

func (b *bookCommandsImpl) SetCover(ctx context.Context, id uuid.UUID, data []byte, contentType string) error {
	if int64(len(data)) > b.maxCoverBytes {
		return ErrCoverTooLarge
	}
	if !strings.HasPrefix(contentType, "image/") {
		return ErrUnsupportedCover
	}

	err := b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Books().SetCover(ctx, id, data, contentType)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrBookNotFound
		}
		return errs.Mark(err, ErrBookOperationFailed)
	}

	return nil
}
