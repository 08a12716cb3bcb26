package bot

import (
	"strings"
	"testing"

	"teachhub/domain"
)

func sampleEntry() domain.ScheduleEntry {
	return domain.ScheduleEntry{
		DayOfWeek:      "monday",
		Time:           "09:00-10:30",
		Subject:        "Математичний аналіз",
		LessonType:     "Лекція",
		Teacher:        "Іваненко І.І.",
		TeacherPhone:   "+380501112233",
		Classroom:      "305",
		ConferenceLink: "https://meet.example.com/room",
		WeekType:       domain.WeekNumerator,
	}
}

func TestFormatDay(t *testing.T) {
	e := sampleEntry()
	text := formatDay("monday", domain.WeekNumerator, []domain.ScheduleEntry{e})

	for _, want := range []string{"Понеділок", "чисельника", "Математичний аналіз", "09:00-10:30", "Іваненко І.І.", "305"} {
		if !strings.Contains(text, want) {
			t.Errorf("day view misses %q:\n%s", want, text)
		}
	}
}

func TestFormatDayEmpty(t *testing.T) {
	text := formatDay("sunday", domain.WeekDenominator, nil)
	if !strings.Contains(text, "вихідний") {
		t.Errorf("empty day view = %q", text)
	}
}

func TestFormatWeekSkipsEmptyDays(t *testing.T) {
	e := sampleEntry()
	days := map[string][]domain.ScheduleEntry{"monday": {e}}
	text := formatWeek(domain.WeekNumerator, days)

	if !strings.Contains(text, "Понеділок") {
		t.Errorf("week view misses monday:\n%s", text)
	}
	if strings.Contains(text, "Вівторок") {
		t.Errorf("week view shows an empty day:\n%s", text)
	}
}

func TestFormatCurrentLesson(t *testing.T) {
	e := sampleEntry()
	next := sampleEntry()
	next.Subject = "Фізика"
	timer := &domain.LessonTimer{Remaining: "30 хв", ProgressBar: "████░░", Percent: 65}

	text := formatCurrentLesson(&e, &next, timer)
	for _, want := range []string{"Зараз триває", "30 хв", "65%", "Наступна пара", "Фізика"} {
		if !strings.Contains(text, want) {
			t.Errorf("current view misses %q:\n%s", want, text)
		}
	}

	idle := formatCurrentLesson(nil, nil, nil)
	if !strings.Contains(idle, "пари немає") {
		t.Errorf("idle view = %q", idle)
	}
}

func TestFormatPollResults(t *testing.T) {
	r := &domain.PollResults{
		Poll:       domain.Poll{Question: "Коли пара?"},
		TotalVotes: 3,
		Options: []domain.PollOptionResult{
			{Text: "Вранці", Votes: 2, Percent: 66.67},
			{Text: "Вдень", Votes: 1, Percent: 33.33},
		},
	}
	text := formatPollResults(r)
	for _, want := range []string{"Коли пара?", "Вранці", "67%", "Всього голосів: 3"} {
		if !strings.Contains(text, want) {
			t.Errorf("results view misses %q:\n%s", want, text)
		}
	}
}
