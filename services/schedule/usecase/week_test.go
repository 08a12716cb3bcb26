package usecase

import (
	"testing"
	"time"

	"teachhub/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMostRecentSunday(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"sunday stays put", date(2025, 9, 7), date(2025, 9, 7)},
		{"monday goes back one day", date(2025, 9, 8), date(2025, 9, 7)},
		{"saturday goes back six days", date(2025, 9, 13), date(2025, 9, 7)},
		{"time of day is dropped", time.Date(2025, 9, 10, 23, 59, 0, 0, time.UTC), date(2025, 9, 7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MostRecentSunday(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("MostRecentSunday(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveWeekType(t *testing.T) {
	anchor := date(2025, 9, 7) // a Sunday, numerator week starts

	tests := []struct {
		name  string
		today time.Time
		want  domain.WeekType
	}{
		{"anchor week is numerator", date(2025, 9, 7), domain.WeekNumerator},
		{"mid anchor week", date(2025, 9, 10), domain.WeekNumerator},
		{"next week flips to denominator", date(2025, 9, 14), domain.WeekDenominator},
		{"mid second week", date(2025, 9, 17), domain.WeekDenominator},
		{"third week flips back", date(2025, 9, 21), domain.WeekNumerator},
		{"saturday before flip still numerator", date(2025, 9, 13), domain.WeekNumerator},
		{"anchor in the future", date(2025, 8, 31), domain.WeekDenominator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveWeekType(anchor, tt.today)
			if got != tt.want {
				t.Errorf("ResolveWeekType(%v, %v) = %v, want %v", anchor, tt.today, got, tt.want)
			}
		})
	}
}

func TestResolveWeekTypeFourteenDayPeriod(t *testing.T) {
	anchor := date(2025, 9, 7)
	for days := 0; days < 60; days++ {
		today := anchor.AddDate(0, 0, days)
		base := ResolveWeekType(anchor, today)
		shifted := ResolveWeekType(anchor, today.AddDate(0, 0, 14))
		if base != shifted {
			t.Fatalf("week type at %v (%v) differs from %v (%v)", today, base, today.AddDate(0, 0, 14), shifted)
		}
		flipped := ResolveWeekType(anchor, today.AddDate(0, 0, 7))
		if base == flipped {
			t.Fatalf("week type did not flip between %v and %v", today, today.AddDate(0, 0, 7))
		}
	}
}

func TestParseAnchor(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"valid date", "2025-09-07", true},
		{"empty means unset", "", false},
		{"garbage", "next sunday", false},
		{"wrong layout", "07.09.2025", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseAnchor(tt.in)
			if ok != tt.ok {
				t.Errorf("ParseAnchor(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
		})
	}
}
