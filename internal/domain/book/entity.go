package book

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle  = errors.New("title cannot be empty")
	ErrEmptyAuthor = errors.New("author cannot be empty")
)

// Book is the catalog aggregate. availableCopies is a cached counter kept
// consistent with the open-loan count by the loan lifecycle; Resize is the
// only operation that recomputes it from scratch.
type Book struct {
	id        uuid.UUID
	title     string
	author    string
	isbn      ISBN
	genre     string
	summary   string
	coverURL  string
	copies    CopyCounts
	createdBy *uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

func NewBook(title, author string, isbn ISBN, genre, summary, coverURL string, totalCopies int, createdBy *uuid.UUID) (*Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	author = strings.TrimSpace(author)
	if author == "" {
		return nil, ErrEmptyAuthor
	}

	// A new title starts fully available.
	if totalCopies < 0 {
		totalCopies = 0
	}
	copies, err := NewCopyCounts(totalCopies, totalCopies)
	if err != nil {
		return nil, err
	}

	return &Book{
		id:        uuid.New(),
		title:     title,
		author:    author,
		isbn:      isbn,
		genre:     strings.TrimSpace(genre),
		summary:   summary,
		coverURL:  strings.TrimSpace(coverURL),
		copies:    copies,
		createdBy: createdBy,
	}, nil
}

func ReconstructBook(
	id uuid.UUID,
	title, author string,
	isbn ISBN,
	genre, summary, coverURL string,
	copies CopyCounts,
	createdBy *uuid.UUID,
	createdAt, updatedAt time.Time,
) *Book {
	return &Book{
		id:        id,
		title:     title,
		author:    author,
		isbn:      isbn,
		genre:     genre,
		summary:   summary,
		coverURL:  coverURL,
		copies:    copies,
		createdBy: createdBy,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (b *Book) ID() uuid.UUID         { return b.id }
func (b *Book) Title() string         { return b.title }
func (b *Book) Author() string        { return b.author }
func (b *Book) ISBN() ISBN            { return b.isbn }
func (b *Book) Genre() string         { return b.genre }
func (b *Book) Summary() string       { return b.summary }
func (b *Book) CoverURL() string      { return b.coverURL }
func (b *Book) Copies() CopyCounts    { return b.copies }
func (b *Book) CreatedBy() *uuid.UUID { return b.createdBy }
func (b *Book) CreatedAt() time.Time  { return b.createdAt }
func (b *Book) UpdatedAt() time.Time  { return b.updatedAt }

func (b *Book) IsAvailable() bool {
	return b.copies.HasAvailable()
}
