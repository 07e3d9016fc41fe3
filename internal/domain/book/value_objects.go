package book

import (
	"errors"
	"strings"
)

var (
	ErrInvalidISBN        = errors.New("invalid isbn")
	ErrNegativeCopies     = errors.New("copy count cannot be negative")
	ErrAvailableOverTotal = errors.New("available copies cannot exceed total copies")
	ErrNoCopiesAvailable  = errors.New("no copies available")
)

type ISBN struct {
	value string
}

// NewISBN normalizes separators and accepts the two common lengths.
// Checksum validation is deliberately out of scope; catalogs routinely carry
// legacy identifiers that fail strict ISBN-10/13 checks.
func NewISBN(value string) (ISBN, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(value), "-", "")
	normalized = strings.ReplaceAll(normalized, " ", "")
	if normalized == "" {
		return ISBN{}, ErrInvalidISBN
	}
	if len(normalized) != 10 && len(normalized) != 13 {
		return ISBN{}, ErrInvalidISBN
	}
	for i, r := range normalized {
		if r >= '0' && r <= '9' {
			continue
		}
		// ISBN-10 check digit may be X
		if len(normalized) == 10 && i == 9 && (r == 'X' || r == 'x') {
			continue
		}
		return ISBN{}, ErrInvalidISBN
	}
	return ISBN{value: strings.ToUpper(normalized)}, nil
}

func (i ISBN) Value() string {
	return i.value
}

// CopyCounts is the availability ledger state of a single title:
// 0 <= Available <= Total always holds for a constructed value.
type CopyCounts struct {
	total     int
	available int
}

func NewCopyCounts(total, available int) (CopyCounts, error) {
	if total < 0 || available < 0 {
		return CopyCounts{}, ErrNegativeCopies
	}
	if available > total {
		return CopyCounts{}, ErrAvailableOverTotal
	}
	return CopyCounts{total: total, available: available}, nil
}

func (c CopyCounts) Total() int     { return c.total }
func (c CopyCounts) Available() int { return c.available }

func (c CopyCounts) HasAvailable() bool {
	return c.available > 0
}

// Claim hands out one copy. Fails when the ledger is exhausted.
func (c CopyCounts) Claim() (CopyCounts, error) {
	if c.available <= 0 {
		return c, ErrNoCopiesAvailable
	}
	return CopyCounts{total: c.total, available: c.available - 1}, nil
}

// Release puts one copy back. The caller guarantees it corresponds to a real
// return; the total acts as the upper bound.
func (c CopyCounts) Release() CopyCounts {
	next := c.available + 1
	if next > c.total {
		next = c.total
	}
	return CopyCounts{total: c.total, available: next}
}

// Resize recomputes availability from the authoritative open-loan count.
// This is the self-healing path: available = max(newTotal - openLoans, 0).
func (c CopyCounts) Resize(newTotal, openLoans int) CopyCounts {
	if newTotal < 0 {
		newTotal = 0
	}
	if openLoans < 0 {
		openLoans = 0
	}
	available := newTotal - openLoans
	if available < 0 {
		available = 0
	}
	return CopyCounts{total: newTotal, available: available}
}
