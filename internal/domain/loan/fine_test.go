//go:build unit

package loan_test

import (
	"testing"
	"time"

	"biblio-api/internal/domain/loan"

	"github.com/stretchr/testify/assert"
)

func TestFinePolicy_Fine(t *testing.T) {
	policy := loan.FinePolicy{PerDay: 1000}
	dueAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		returnedAt time.Time
		expected   int64
	}{
		{
			name:       "returned before due is free",
			returnedAt: dueAt.Add(-48 * time.Hour),
			expected:   0,
		},
		{
			name:       "returned exactly at due is free",
			returnedAt: dueAt,
			expected:   0,
		},
		{
			name:       "one second late bills the first day",
			returnedAt: dueAt.Add(time.Second),
			expected:   1000,
		},
		{
			name:       "just under a full day late still bills one day",
			returnedAt: dueAt.Add(23*time.Hour + 59*time.Minute),
			expected:   1000,
		},
		{
			name:       "exactly one day late starts the second day",
			returnedAt: dueAt.Add(24 * time.Hour),
			expected:   2000,
		},
		{
			name:       "25 hours late bills two days",
			returnedAt: dueAt.Add(25 * time.Hour),
			expected:   2000,
		},
		{
			name:       "a week late bills eight days",
			returnedAt: dueAt.Add(7 * 24 * time.Hour),
			expected:   8000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, policy.Fine(dueAt, tt.returnedAt))
		})
	}
}

func TestFinePolicy_Fine_ZeroRate(t *testing.T) {
	policy := loan.FinePolicy{PerDay: 0}
	dueAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Zero(t, policy.Fine(dueAt, dueAt.Add(72*time.Hour)))
}
