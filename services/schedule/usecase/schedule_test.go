package usecase

import (
	"context"
	"testing"
	"time"

	"teachhub/domain"
)

func TestCurrentWeekTypeResolution(t *testing.T) {
	today := date(2025, 9, 17) // falls in the week after anchor 2025-09-07

	tests := []struct {
		name string
		meta *domain.ScheduleMetadata
		want domain.WeekType
	}{
		{"no metadata defaults to numerator", nil, domain.WeekNumerator},
		{
			"anchor beats the manual pin",
			&domain.ScheduleMetadata{CurrentWeek: domain.WeekNumerator, NumeratorStartDate: "2025-09-07"},
			domain.WeekDenominator,
		},
		{
			"manual pin without anchor",
			&domain.ScheduleMetadata{CurrentWeek: domain.WeekDenominator},
			domain.WeekDenominator,
		},
		{
			"malformed anchor falls back to the pin",
			&domain.ScheduleMetadata{CurrentWeek: domain.WeekDenominator, NumeratorStartDate: "not a date"},
			domain.WeekDenominator,
		},
		{
			"invalid pin falls back to numerator",
			&domain.ScheduleMetadata{CurrentWeek: "whatever"},
			domain.WeekNumerator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeScheduleRepo{meta: tt.meta}
			su := NewScheduleUseCase(repo, time.Second).(*scheduleUseCase)
			su.now = func() time.Time { return today }

			if got := su.CurrentWeekType(context.Background()); got != tt.want {
				t.Errorf("CurrentWeekType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetCurrentWeekClearsAnchor(t *testing.T) {
	repo := &fakeScheduleRepo{meta: &domain.ScheduleMetadata{
		CurrentWeek:        domain.WeekNumerator,
		NumeratorStartDate: "2025-09-07",
	}}
	su := NewScheduleUseCase(repo, time.Second).(*scheduleUseCase)
	su.now = func() time.Time { return date(2025, 9, 17) }

	if err := su.SetCurrentWeek(context.Background(), domain.WeekDenominator); err != nil {
		t.Fatalf("SetCurrentWeek: %v", err)
	}
	if repo.meta.NumeratorStartDate != "" {
		t.Errorf("anchor survived a manual pin: %q", repo.meta.NumeratorStartDate)
	}
	if got := su.CurrentWeekType(context.Background()); got != domain.WeekDenominator {
		t.Errorf("CurrentWeekType() = %v, want pinned denominator", got)
	}

	// weeks later the pin still holds, nothing auto-cycles it away
	su.now = func() time.Time { return date(2025, 10, 15) }
	if got := su.CurrentWeekType(context.Background()); got != domain.WeekDenominator {
		t.Errorf("pin decayed after four weeks: %v", got)
	}
}

func TestSetAnchorDateValidation(t *testing.T) {
	repo := &fakeScheduleRepo{}
	su := NewScheduleUseCase(repo, time.Second)

	if err := su.SetAnchorDate(context.Background(), "07.09.2025"); err == nil {
		t.Error("expected an error for a non-ISO date")
	}
	if err := su.SetAnchorDate(context.Background(), "2025-09-07"); err != nil {
		t.Errorf("valid anchor rejected: %v", err)
	}
	if err := su.SetAnchorDate(context.Background(), ""); err != nil {
		t.Errorf("clearing the anchor rejected: %v", err)
	}
}

func TestSetCurrentWeekRejectsUnknownValues(t *testing.T) {
	su := NewScheduleUseCase(&fakeScheduleRepo{}, time.Second)
	if err := su.SetCurrentWeek(context.Background(), "spring"); err == nil {
		t.Error("expected an error for an unknown week type")
	}
}

func TestDayScheduleCaching(t *testing.T) {
	repo := &fakeScheduleRepo{entries: []domain.ScheduleEntry{entry("09:00-10:30", "Математика")}}
	su := NewScheduleUseCase(repo, time.Second).(*scheduleUseCase)

	clock := date(2025, 9, 10)
	su.now = func() time.Time { return clock }

	ctx := context.Background()
	if _, err := su.DaySchedule(ctx, "wednesday", domain.WeekNumerator); err != nil {
		t.Fatal(err)
	}
	if _, err := su.DaySchedule(ctx, "wednesday", domain.WeekNumerator); err != nil {
		t.Fatal(err)
	}
	if repo.dayReads != 1 {
		t.Fatalf("repo hit %d times, want 1 (cached)", repo.dayReads)
	}

	// different key misses
	if _, err := su.DaySchedule(ctx, "wednesday", domain.WeekDenominator); err != nil {
		t.Fatal(err)
	}
	if repo.dayReads != 2 {
		t.Fatalf("repo hit %d times, want 2", repo.dayReads)
	}

	// TTL expiry misses
	clock = clock.Add(2 * scheduleCacheTTL)
	if _, err := su.DaySchedule(ctx, "wednesday", domain.WeekNumerator); err != nil {
		t.Fatal(err)
	}
	if repo.dayReads != 3 {
		t.Fatalf("repo hit %d times, want 3 after TTL", repo.dayReads)
	}
}

func TestMutationsInvalidateCache(t *testing.T) {
	repo := &fakeScheduleRepo{}
	su := NewScheduleUseCase(repo, time.Second).(*scheduleUseCase)
	ctx := context.Background()

	if _, err := su.DaySchedule(ctx, "monday", domain.WeekNumerator); err != nil {
		t.Fatal(err)
	}
	newEntry := entry("09:00-10:30", "Фізика")
	newEntry.DayOfWeek = "monday"
	newEntry.Teacher = "Іваненко І.І."
	if err := su.CreateEntry(ctx, &newEntry); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	entries, err := su.DaySchedule(ctx, "monday", domain.WeekNumerator)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("stale cache after create: got %d entries, want 1", len(entries))
	}
}

func TestCreateEntryValidation(t *testing.T) {
	su := NewScheduleUseCase(&fakeScheduleRepo{}, time.Second)
	ctx := context.Background()

	tests := []struct {
		name  string
		build func() domain.ScheduleEntry
	}{
		{"bad day", func() domain.ScheduleEntry {
			e := entry("09:00-10:30", "X")
			e.DayOfWeek = "someday"
			return e
		}},
		{"bad week", func() domain.ScheduleEntry {
			e := entry("09:00-10:30", "X")
			e.WeekType = "spring"
			return e
		}},
		{"bad time range", func() domain.ScheduleEntry {
			return entry("morning", "X")
		}},
		{"missing subject", func() domain.ScheduleEntry {
			return entry("09:00-10:30", "")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.build()
			e.Teacher = "Іваненко І.І."
			if err := su.CreateEntry(ctx, &e); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestWeekScheduleCoversAllDays(t *testing.T) {
	repo := &fakeScheduleRepo{entries: []domain.ScheduleEntry{entry("09:00-10:30", "Математика")}}
	su := NewScheduleUseCase(repo, time.Second)

	days, err := su.WeekSchedule(context.Background(), domain.WeekNumerator)
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != len(domain.DayOrder) {
		t.Fatalf("got %d days, want %d", len(days), len(domain.DayOrder))
	}
	if len(days["wednesday"]) != 1 {
		t.Errorf("wednesday lessons = %d, want 1", len(days["wednesday"]))
	}
}
