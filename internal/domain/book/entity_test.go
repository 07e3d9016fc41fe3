//go:build unit

package book_test

import (
	"testing"

	"biblio-api/internal/domain/book"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustISBN(t *testing.T, value string) book.ISBN {
	t.Helper()
	isbn, err := book.NewISBN(value)
	require.NoError(t, err)
	return isbn
}

func TestNewBook(t *testing.T) {
	creator := uuid.New()

	t.Run("new title starts fully available", func(t *testing.T) {
		b, err := book.NewBook("Dune", "Frank Herbert", mustISBN(t, "9780441013593"), "sci-fi", "", "", 4, &creator)
		require.NoError(t, err)

		assert.Equal(t, 4, b.Copies().Total())
		assert.Equal(t, 4, b.Copies().Available())
		assert.True(t, b.IsAvailable())
	})

	t.Run("whitespace-only title rejected", func(t *testing.T) {
		_, err := book.NewBook("   ", "Frank Herbert", mustISBN(t, "9780441013593"), "", "", "", 1, nil)
		require.ErrorIs(t, err, book.ErrEmptyTitle)
	})

	t.Run("empty author rejected", func(t *testing.T) {
		_, err := book.NewBook("Dune", "", mustISBN(t, "9780441013593"), "", "", "", 1, nil)
		require.ErrorIs(t, err, book.ErrEmptyAuthor)
	})

	t.Run("negative copies clamped to zero", func(t *testing.T) {
		b, err := book.NewBook("Dune", "Frank Herbert", mustISBN(t, "9780441013593"), "", "", "", -2, nil)
		require.NoError(t, err)

		assert.Equal(t, 0, b.Copies().Total())
		assert.False(t, b.IsAvailable())
	})
}
