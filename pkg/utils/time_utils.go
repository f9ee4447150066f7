package utils

import "time"

// Today truncates t to midnight UTC; subscription dates are calendar days.
func Today(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntil counts whole days from today to target; negative when past.
func DaysUntil(today, target time.Time) int {
	return int(Today(target).Sub(Today(today)).Hours() / 24)
}

func DatePtr(t time.Time) *time.Time {
	d := Today(t)
	return &d
}

// AddMonths moves a calendar day by n months, clamping to the last day of
// the target month (Jan 31 + 1 month = Feb 28/29).
func AddMonths(day time.Time, n int) time.Time {
	d := Today(day)
	first := time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	lastDay := first.AddDate(0, 1, -1).Day()
	dom := d.Day()
	if dom > lastDay {
		dom = lastDay
	}
	return time.Date(first.Year(), first.Month(), dom, 0, 0, 0, 0, time.UTC)
}
