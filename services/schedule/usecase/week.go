package usecase

import (
	"teachhub/domain"
	"time"
)

const anchorLayout = "2006-01-02"

// MostRecentSunday returns the Sunday at or before t, truncated to a date.
func MostRecentSunday(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// ResolveWeekType computes which alternating week is active. The anchor is
// the Sunday a numerator week started on; parity of whole weeks between the
// anchor and the Sunday of today's week decides the result, so the active
// week flips every calendar week without any scheduled job.
func ResolveWeekType(anchor, today time.Time) domain.WeekType {
	a := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)
	sunday := MostRecentSunday(today)

	days := int(sunday.Sub(a).Hours() / 24)
	week := floorDiv(days, 7)

	if mod2(week) == 0 {
		return domain.WeekNumerator
	}
	return domain.WeekDenominator
}

// ParseAnchor parses the stored "YYYY-MM-DD" anchor. Empty or malformed
// values mean no anchor is set.
func ParseAnchor(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(anchorLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func mod2(n int) int {
	return ((n % 2) + 2) % 2
}
