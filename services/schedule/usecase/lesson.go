package usecase

import (
	"fmt"
	"strings"
	"time"

	"teachhub/domain"
)

const progressBarWidth = 20

// parseTimeRange parses "HH:MM-HH:MM" into minutes since midnight.
// Malformed values report ok=false so callers can skip the row.
func parseTimeRange(s string) (start, end int, ok bool) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, ok = parseClock(strings.TrimSpace(parts[0]))
	if !ok {
		return 0, 0, false
	}
	end, ok = parseClock(strings.TrimSpace(parts[1]))
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// MatchWindow finds the lesson running at now and the next one after it.
// Bounds are inclusive on both ends. When two lessons overlap the moment,
// the one with the later start wins. Rows with a malformed time range are
// skipped without error.
func MatchWindow(entries []domain.ScheduleEntry, now time.Time) (current, next *domain.ScheduleEntry) {
	nowMin := now.Hour()*60 + now.Minute()

	curStart := -1
	nextStart := -1
	for i := range entries {
		start, end, ok := parseTimeRange(entries[i].Time)
		if !ok {
			continue
		}
		if start <= nowMin && nowMin <= end {
			if start >= curStart {
				curStart = start
				current = &entries[i]
			}
			continue
		}
		if start > nowMin && (nextStart == -1 || start < nextStart) {
			nextStart = start
			next = &entries[i]
		}
	}
	return current, next
}

// FormatRemaining builds the countdown for a lesson in progress. It returns
// nil when now falls outside the lesson or the range is degenerate.
func FormatRemaining(entry *domain.ScheduleEntry, now time.Time) *domain.LessonTimer {
	if entry == nil {
		return nil
	}
	start, end, ok := parseTimeRange(entry.Time)
	if !ok {
		return nil
	}
	total := end - start
	if total <= 0 {
		return nil
	}
	nowMin := now.Hour()*60 + now.Minute()
	if nowMin < start || nowMin > end {
		return nil
	}
	remaining := end - nowMin
	if remaining <= 0 {
		return nil
	}

	filled := (total - remaining) * progressBarWidth / total
	if filled < 0 {
		filled = 0
	}
	if filled > progressBarWidth {
		filled = progressBarWidth
	}

	return &domain.LessonTimer{
		Remaining:   formatMinutes(remaining),
		ProgressBar: strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled),
		Percent:     filled * 100 / progressBarWidth,
	}
}

func formatMinutes(m int) string {
	if m >= 60 {
		h := m / 60
		rest := m % 60
		if rest == 0 {
			return fmt.Sprintf("%dг", h)
		}
		return fmt.Sprintf("%dг %dхв", h, rest)
	}
	return fmt.Sprintf("%d хв", m)
}
