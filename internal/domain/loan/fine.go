package loan

import "time"

// FinePolicy bills a flat per-day rate for late returns. The first day of
// lateness is charged in full the instant the due date passes, so a return
// one second late already costs one day.
type FinePolicy struct {
	PerDay int64
}

func NewFinePolicy(perDay int64) FinePolicy {
	if perDay < 0 {
		perDay = 0
	}
	return FinePolicy{PerDay: perDay}
}

// Fine is a pure function of the two instants and the configured rate:
// zero when returned on time, otherwise (full late days + 1) * PerDay.
func (p FinePolicy) Fine(dueAt, returnedAt time.Time) int64 {
	late := returnedAt.Sub(dueAt)
	if late <= 0 {
		return 0
	}
	billedDays := int64(late/(24*time.Hour)) + 1
	return billedDays * p.PerDay
}
