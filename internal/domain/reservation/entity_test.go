//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"biblio-api/internal/domain/reservation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReservation(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("hold window from configured days", func(t *testing.T) {
		r := reservation.NewReservation(uuid.New(), uuid.New(), now, 3)
		require.NotNil(t, r)

		assert.Equal(t, now, r.ReservedAt())
		assert.Equal(t, now.AddDate(0, 0, 3), r.ExpiresAt())
		assert.False(t, r.Notified())
		assert.False(t, r.IsFulfilled())
	})

	t.Run("hold days below minimum clamped up", func(t *testing.T) {
		for _, holdDays := range []int{0, -5} {
			r := reservation.NewReservation(uuid.New(), uuid.New(), now, holdDays)
			assert.Equal(t, now.AddDate(0, 0, reservation.MinHoldDays), r.ExpiresAt())
		}
	})
}

func TestReservation_HasExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := reservation.NewReservation(uuid.New(), uuid.New(), now, 3)

	assert.False(t, r.HasExpired(now))
	assert.False(t, r.HasExpired(r.ExpiresAt()))
	assert.True(t, r.HasExpired(r.ExpiresAt().Add(time.Second)))
}
