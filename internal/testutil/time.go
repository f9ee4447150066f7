package testutil

import "time"

func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FixedClock returns a clock pinned to t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
