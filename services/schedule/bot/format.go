package bot

import (
	"fmt"
	"strings"
	"time"

	"teachhub/domain"
)

func formatLesson(e *domain.ScheduleEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🕐 <b>%s</b>\n📚 %s (%s)", e.Time, e.Subject, e.LessonType)
	if e.ExamType != "" {
		fmt.Fprintf(&b, " — %s", e.ExamType)
	}
	b.WriteString("\n")
	if e.Teacher != "" {
		fmt.Fprintf(&b, "👨‍🏫 %s", e.Teacher)
		if e.TeacherPhone != "" {
			fmt.Fprintf(&b, " (%s)", e.TeacherPhone)
		}
		b.WriteString("\n")
	}
	if e.Classroom != "" {
		fmt.Fprintf(&b, "🚪 Ауд. %s\n", e.Classroom)
	}
	if e.ConferenceLink != "" {
		fmt.Fprintf(&b, "🔗 <a href=\"%s\">Конференція</a>\n", e.ConferenceLink)
	}
	return b.String()
}

func formatDay(day string, week domain.WeekType, entries []domain.ScheduleEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 <b>%s</b>\n%s\n\n", domain.DayNameUA(day), week.DisplayUA())
	if len(entries) == 0 {
		b.WriteString("🎉 Пар немає, вихідний!")
		return b.String()
	}
	for i := range entries {
		b.WriteString(formatLesson(&entries[i]))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatWeek(week domain.WeekType, days map[string][]domain.ScheduleEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🗓 <b>Розклад на тиждень</b>\n%s\n\n", week.DisplayUA())
	for _, day := range domain.DayOrder {
		entries := days[day]
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "<b>%s</b>\n", domain.DayNameUA(day))
		for i := range entries {
			fmt.Fprintf(&b, "  %s — %s (%s)\n", entries[i].Time, entries[i].Subject, entries[i].LessonType)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCurrentLesson(current, next *domain.ScheduleEntry, timer *domain.LessonTimer) string {
	var b strings.Builder
	if current != nil {
		b.WriteString("▶️ <b>Зараз триває:</b>\n\n")
		b.WriteString(formatLesson(current))
		if timer != nil {
			fmt.Fprintf(&b, "\n⏳ Залишилось: %s\n%s %d%%\n", timer.Remaining, timer.ProgressBar, timer.Percent)
		}
	} else {
		b.WriteString("💤 Зараз пари немає\n")
	}
	if next != nil {
		b.WriteString("\n⏭ <b>Наступна пара:</b>\n\n")
		b.WriteString(formatLesson(next))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatPollForVoting(poll *domain.Poll) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>%s</b>\n", poll.Question)
	if poll.ExpiresAt != nil {
		fmt.Fprintf(&b, "\n⏰ До %s", poll.ExpiresAt.Format("02.01.2006 15:04"))
	}
	b.WriteString("\n\nОберіть варіант:")
	return b.String()
}

func formatPollResults(r *domain.PollResults) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>%s</b>\n\n", r.Poll.Question)
	for _, opt := range r.Options {
		filled := 0
		if r.TotalVotes > 0 {
			filled = opt.Votes * 10 / r.TotalVotes
		}
		bar := strings.Repeat("▰", filled) + strings.Repeat("▱", 10-filled)
		fmt.Fprintf(&b, "%s\n%s %d (%.0f%%)\n\n", opt.Text, bar, opt.Votes, opt.Percent)
	}
	fmt.Fprintf(&b, "👥 Всього голосів: %d", r.TotalVotes)
	return b.String()
}

func formatPendingRequest(req *domain.PendingRequest) string {
	name := req.Username
	if name == "" {
		name = "без імені"
	}
	return fmt.Sprintf("🔐 <b>Новий запит на доступ</b>\n\n👤 @%s\n🆔 <code>%d</code>\n🕐 %s",
		name, req.UserID, req.Timestamp.Format("02.01.2006 15:04"))
}

func formatDate(t time.Time) string {
	return t.Format("02.01.2006")
}
