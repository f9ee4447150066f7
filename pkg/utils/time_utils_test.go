package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToday_TruncatesToUTCMidnight(t *testing.T) {
	in := time.Date(2024, 3, 15, 23, 30, 0, 0, time.FixedZone("X", -2*3600))
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), Today(in))
}

func TestDaysUntil(t *testing.T) {
	today := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 29, DaysUntil(today, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, DaysUntil(today, today))
	assert.Equal(t, -1, DaysUntil(today, today.AddDate(0, 0, -1)))
}

func TestAddMonths_ClampsToMonthEnd(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{"plain", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), 1, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)},
		{"leap february", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"december rollover", time.Date(2024, 12, 10, 0, 0, 0, 0, time.UTC), 1, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
		{"leap day plus a year", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), 12, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.in, tt.n))
		})
	}
}
