package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"teachhub/domain"

	"github.com/asaskevich/govalidator"
)

const scheduleCacheTTL = 60 * time.Second

type cachedDay struct {
	entries []domain.ScheduleEntry
	fetched time.Time
}

type scheduleUseCase struct {
	repo    domain.ScheduleRepo
	TimeOut time.Duration

	mu    sync.RWMutex
	cache map[string]cachedDay
	now   func() time.Time
}

func NewScheduleUseCase(repo domain.ScheduleRepo, to time.Duration) domain.ScheduleUseCase {
	return &scheduleUseCase{
		repo:    repo,
		TimeOut: to,
		cache:   make(map[string]cachedDay),
		now:     time.Now,
	}
}

// CurrentWeekType resolves the active week. A stored anchor date takes
// precedence over the manual pin; with neither set the week is numerator.
func (su *scheduleUseCase) CurrentWeekType(ctx context.Context) domain.WeekType {
	meta, err := su.repo.GetMetadata(ctx)
	if err != nil || meta == nil {
		return domain.WeekNumerator
	}
	if anchor, ok := ParseAnchor(meta.NumeratorStartDate); ok {
		return ResolveWeekType(anchor, su.now())
	}
	if meta.CurrentWeek.Valid() {
		return meta.CurrentWeek
	}
	return domain.WeekNumerator
}

// SetCurrentWeek pins the week manually and clears the anchor, so the pin
// stays in force instead of being recomputed away on the next Sunday.
func (su *scheduleUseCase) SetCurrentWeek(ctx context.Context, week domain.WeekType) error {
	ctx, cancel := context.WithTimeout(ctx, su.TimeOut)
	defer cancel()

	if !week.Valid() {
		return fmt.Errorf("invalid week type: %s", week)
	}
	meta, err := su.metadataOrDefault(ctx)
	if err != nil {
		return err
	}
	meta.CurrentWeek = week
	meta.NumeratorStartDate = ""
	if err := su.repo.SaveMetadata(ctx, meta); err != nil {
		return err
	}
	su.invalidate()
	return nil
}

// SetAnchorDate enables automatic week cycling from the given numerator
// Sunday. An empty anchor disables cycling and falls back to the pin.
func (su *scheduleUseCase) SetAnchorDate(ctx context.Context, anchor string) error {
	ctx, cancel := context.WithTimeout(ctx, su.TimeOut)
	defer cancel()

	if anchor != "" {
		if _, ok := ParseAnchor(anchor); !ok {
			return fmt.Errorf("invalid anchor date %q, want YYYY-MM-DD", anchor)
		}
	}
	meta, err := su.metadataOrDefault(ctx)
	if err != nil {
		return err
	}
	meta.NumeratorStartDate = anchor
	if err := su.repo.SaveMetadata(ctx, meta); err != nil {
		return err
	}
	su.invalidate()
	return nil
}

func (su *scheduleUseCase) Metadata(ctx context.Context) (*domain.ScheduleMetadata, error) {
	return su.metadataOrDefault(ctx)
}

func (su *scheduleUseCase) UpdateSettings(ctx context.Context, groupName, academicYear string) error {
	ctx, cancel := context.WithTimeout(ctx, su.TimeOut)
	defer cancel()

	meta, err := su.metadataOrDefault(ctx)
	if err != nil {
		return err
	}
	if groupName != "" {
		meta.GroupName = groupName
	}
	if academicYear != "" {
		meta.AcademicYear = academicYear
	}
	return su.repo.SaveMetadata(ctx, meta)
}

func (su *scheduleUseCase) DaySchedule(ctx context.Context, day string, week domain.WeekType) ([]domain.ScheduleEntry, error) {
	if !domain.ValidDay(day) {
		return nil, fmt.Errorf("unknown day: %s", day)
	}
	key := day + "|" + string(week)

	su.mu.RLock()
	hit, ok := su.cache[key]
	su.mu.RUnlock()
	if ok && su.now().Sub(hit.fetched) < scheduleCacheTTL {
		return hit.entries, nil
	}

	entries, err := su.repo.EntriesForDay(ctx, day, week)
	if err != nil {
		return nil, err
	}
	su.mu.Lock()
	su.cache[key] = cachedDay{entries: entries, fetched: su.now()}
	su.mu.Unlock()
	return entries, nil
}

func (su *scheduleUseCase) WeekSchedule(ctx context.Context, week domain.WeekType) (map[string][]domain.ScheduleEntry, error) {
	out := make(map[string][]domain.ScheduleEntry, len(domain.DayOrder))
	for _, day := range domain.DayOrder {
		entries, err := su.DaySchedule(ctx, day, week)
		if err != nil {
			return nil, err
		}
		out[day] = entries
	}
	return out, nil
}

// CurrentLessonInfo matches today's lessons against the wall clock.
func (su *scheduleUseCase) CurrentLessonInfo(ctx context.Context, now time.Time) (*domain.ScheduleEntry, *domain.ScheduleEntry, error) {
	day := domain.DayName(now.Weekday())
	week := su.CurrentWeekType(ctx)

	entries, err := su.DaySchedule(ctx, day, week)
	if err != nil {
		return nil, nil, err
	}
	current, next := MatchWindow(entries, now)
	return current, next, nil
}

func (su *scheduleUseCase) LessonTimer(lesson *domain.ScheduleEntry, now time.Time) *domain.LessonTimer {
	return FormatRemaining(lesson, now)
}

func (su *scheduleUseCase) AllEntries(ctx context.Context) ([]domain.ScheduleEntry, error) {
	return su.repo.AllEntries(ctx)
}

func (su *scheduleUseCase) CreateEntry(ctx context.Context, entry *domain.ScheduleEntry) error {
	ctx, cancel := context.WithTimeout(ctx, su.TimeOut)
	defer cancel()

	if err := validateEntry(entry); err != nil {
		return err
	}
	if err := su.repo.CreateEntry(ctx, entry); err != nil {
		return err
	}
	su.invalidate()
	return nil
}

func (su *scheduleUseCase) UpdateEntry(ctx context.Context, entry *domain.ScheduleEntry) error {
	ctx, cancel := context.WithTimeout(ctx, su.TimeOut)
	defer cancel()

	if err := validateEntry(entry); err != nil {
		return err
	}
	if err := su.repo.UpdateEntry(ctx, entry); err != nil {
		return err
	}
	su.invalidate()
	return nil
}

func (su *scheduleUseCase) DeleteEntry(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, su.TimeOut)
	defer cancel()

	if err := su.repo.DeleteEntry(ctx, id); err != nil {
		return err
	}
	su.invalidate()
	return nil
}

func (su *scheduleUseCase) TeacherWorkload(ctx context.Context) ([]domain.TeacherWorkload, error) {
	return su.repo.TeacherWorkload(ctx)
}

func (su *scheduleUseCase) metadataOrDefault(ctx context.Context) (*domain.ScheduleMetadata, error) {
	meta, err := su.repo.GetMetadata(ctx)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		meta = &domain.ScheduleMetadata{CurrentWeek: domain.WeekNumerator}
	}
	return meta, nil
}

func (su *scheduleUseCase) invalidate() {
	su.mu.Lock()
	su.cache = make(map[string]cachedDay)
	su.mu.Unlock()
}

func validateEntry(entry *domain.ScheduleEntry) error {
	if _, err := govalidator.ValidateStruct(entry); err != nil {
		return err
	}
	if !domain.ValidDay(entry.DayOfWeek) {
		return fmt.Errorf("unknown day: %s", entry.DayOfWeek)
	}
	if !entry.WeekType.Valid() {
		return fmt.Errorf("invalid week type: %s", entry.WeekType)
	}
	if _, _, ok := parseTimeRange(entry.Time); !ok {
		return fmt.Errorf("invalid time range %q, want HH:MM-HH:MM", entry.Time)
	}
	return nil
}
