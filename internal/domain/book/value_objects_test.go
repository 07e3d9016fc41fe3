//go:build unit

package book_test

import (
	"testing"

	"biblio-api/internal/domain/book"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewISBN(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		errIs    error
	}{
		{name: "plain 13 digits", input: "9780134190440", expected: "9780134190440"},
		{name: "dashes stripped", input: "978-0-13-419044-0", expected: "9780134190440"},
		{name: "spaces stripped", input: "978 0134 190440", expected: "9780134190440"},
		{name: "10 digits", input: "0134190440", expected: "0134190440"},
		{name: "isbn-10 check digit X", input: "097522980X", expected: "097522980X"},
		{name: "lowercase x uppercased", input: "097522980x", expected: "097522980X"},
		{name: "empty rejected", input: "", errIs: book.ErrInvalidISBN},
		{name: "wrong length rejected", input: "12345", errIs: book.ErrInvalidISBN},
		{name: "letters rejected", input: "97801341904AB", errIs: book.ErrInvalidISBN},
		{name: "X outside check digit rejected", input: "0X34190440", errIs: book.ErrInvalidISBN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isbn, err := book.NewISBN(tt.input)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, isbn.Value())
		})
	}
}

func TestCopyCounts(t *testing.T) {
	t.Run("available above total rejected", func(t *testing.T) {
		_, err := book.NewCopyCounts(2, 3)
		require.ErrorIs(t, err, book.ErrAvailableOverTotal)
	})

	t.Run("negative counts rejected", func(t *testing.T) {
		_, err := book.NewCopyCounts(-1, 0)
		require.ErrorIs(t, err, book.ErrNegativeCopies)

		_, err = book.NewCopyCounts(1, -1)
		require.ErrorIs(t, err, book.ErrNegativeCopies)
	})

	t.Run("claim decrements until exhausted", func(t *testing.T) {
		counts, err := book.NewCopyCounts(2, 2)
		require.NoError(t, err)

		counts, err = counts.Claim()
		require.NoError(t, err)
		assert.Equal(t, 1, counts.Available())

		counts, err = counts.Claim()
		require.NoError(t, err)
		assert.Equal(t, 0, counts.Available())
		assert.False(t, counts.HasAvailable())

		_, err = counts.Claim()
		require.ErrorIs(t, err, book.ErrNoCopiesAvailable)
	})

	t.Run("release is capped at total", func(t *testing.T) {
		counts, err := book.NewCopyCounts(2, 2)
		require.NoError(t, err)

		counts = counts.Release()
		assert.Equal(t, 2, counts.Available())
	})

	t.Run("release after claim restores the copy", func(t *testing.T) {
		counts, err := book.NewCopyCounts(3, 3)
		require.NoError(t, err)

		counts, err = counts.Claim()
		require.NoError(t, err)
		counts = counts.Release()
		assert.Equal(t, 3, counts.Available())
	})
}

func TestCopyCounts_Resize(t *testing.T) {
	tests := []struct {
		name              string
		newTotal          int
		openLoans         int
		expectedTotal     int
		expectedAvailable int
	}{
		{name: "grow with open loans", newTotal: 10, openLoans: 3, expectedTotal: 10, expectedAvailable: 7},
		{name: "shrink below open loans floors at zero", newTotal: 2, openLoans: 5, expectedTotal: 2, expectedAvailable: 0},
		{name: "shrink to zero", newTotal: 0, openLoans: 0, expectedTotal: 0, expectedAvailable: 0},
		{name: "negative total treated as zero", newTotal: -4, openLoans: 1, expectedTotal: 0, expectedAvailable: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts, err := book.NewCopyCounts(5, 5)
			require.NoError(t, err)

			resized := counts.Resize(tt.newTotal, tt.openLoans)
			assert.Equal(t, tt.expectedTotal, resized.Total())
			assert.Equal(t, tt.expectedAvailable, resized.Available())
		})
	}
}
