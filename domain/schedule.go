package domain

import (
	"context"
	"time"
)

type WeekType string

const (
	WeekNumerator   WeekType = "numerator"
	WeekDenominator WeekType = "denominator"
)

func (w WeekType) Valid() bool {
	return w == WeekNumerator || w == WeekDenominator
}

func (w WeekType) Other() WeekType {
	if w == WeekNumerator {
		return WeekDenominator
	}
	return WeekNumerator
}

// DisplayUA returns the user-facing week label.
func (w WeekType) DisplayUA() string {
	if w == WeekDenominator {
		return "📖 Тиждень знаменника"
	}
	return "📚 Тиждень чисельника"
}

func (w WeekType) ShortUA() string {
	if w == WeekDenominator {
		return "🔢 Знамен."
	}
	return "🔢 Чисел."
}

// DayOrder is the canonical iteration order for weekly views.
var DayOrder = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var dayNamesUA = map[string]string{
	"monday":    "Понеділок",
	"tuesday":   "Вівторок",
	"wednesday": "Середа",
	"thursday":  "Четвер",
	"friday":    "П'ятниця",
	"saturday":  "Субота",
	"sunday":    "Неділя",
}

func DayNameUA(day string) string {
	if name, ok := dayNamesUA[day]; ok {
		return name
	}
	return day
}

func ValidDay(day string) bool {
	_, ok := dayNamesUA[day]
	return ok
}

// DayName maps time.Weekday to the schedule's lowercase day key.
func DayName(wd time.Weekday) string {
	names := map[time.Weekday]string{
		time.Monday: "monday", time.Tuesday: "tuesday", time.Wednesday: "wednesday",
		time.Thursday: "thursday", time.Friday: "friday", time.Saturday: "saturday",
		time.Sunday: "sunday",
	}
	return names[wd]
}

// ScheduleEntry is a recurring weekly lesson slot tagged with the alternating
// week it belongs to. The time range is stored as "HH:MM-HH:MM".
type ScheduleEntry struct {
	ID             int      `gorm:"primaryKey;autoIncrement" json:"id"`
	DayOfWeek      string   `gorm:"type:varchar(20);not null;index" json:"day_of_week" valid:"required~Day of week is required"`
	Time           string   `gorm:"type:varchar(20);not null" json:"time" valid:"required~Time range is required"`
	Subject        string   `gorm:"type:varchar(200);not null" json:"subject" valid:"required~Subject is required"`
	LessonType     string   `gorm:"type:varchar(50);not null" json:"lesson_type" valid:"required~Lesson type is required"`
	Teacher        string   `gorm:"type:varchar(200);not null" json:"teacher" valid:"required~Teacher is required"`
	TeacherPhone   string   `gorm:"type:varchar(50)" json:"teacher_phone"`
	Classroom      string   `gorm:"type:varchar(50)" json:"classroom"`
	ConferenceLink string   `gorm:"type:varchar(500)" json:"conference_link"`
	ExamType       string   `gorm:"type:varchar(50)" json:"exam_type"`
	WeekType       WeekType `gorm:"type:varchar(20);not null;index" json:"week_type" valid:"required~Week type is required"`
	TeacherUserID  int64    `gorm:"index" json:"teacher_user_id"`
	GroupID        *int     `json:"group_id,omitempty"`
	Group          *Group   `gorm:"foreignKey:GroupID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"group,omitempty" valid:"-"`
}

func (ScheduleEntry) TableName() string { return "schedule_entries" }

// ScheduleMetadata is a singleton row. CurrentWeek is the manual pin;
// NumeratorStartDate ("YYYY-MM-DD", empty when unset) is the optional
// auto-cycle anchor and takes precedence when present.
type ScheduleMetadata struct {
	ID                 int       `gorm:"primaryKey;autoIncrement" json:"id"`
	CurrentWeek        WeekType  `gorm:"type:varchar(20);default:numerator" json:"current_week"`
	GroupName          string    `gorm:"type:varchar(100);default:KCM-24-11" json:"group_name"`
	AcademicYear       string    `gorm:"type:varchar(20);default:2025/2026" json:"academic_year"`
	NumeratorStartDate string    `gorm:"type:varchar(20)" json:"numerator_start_date"`
	LastUpdated        time.Time `gorm:"autoUpdateTime" json:"last_updated"`
}

func (ScheduleMetadata) TableName() string { return "schedule_metadata" }

// TeacherWorkload is an aggregate row for the workload stats view.
type TeacherWorkload struct {
	Teacher     string `json:"teacher"`
	Numerator   int    `json:"numerator"`
	Denominator int    `json:"denominator"`
	Total       int    `json:"total"`
}

type ScheduleRepo interface {
	GetMetadata(ctx context.Context) (*ScheduleMetadata, error)
	SaveMetadata(ctx context.Context, meta *ScheduleMetadata) error

	EntriesForDay(ctx context.Context, day string, week WeekType) ([]ScheduleEntry, error)
	EntriesOwnedBy(ctx context.Context, userID int64, day string, week WeekType) ([]ScheduleEntry, error)
	AllEntries(ctx context.Context) ([]ScheduleEntry, error)
	GetEntry(ctx context.Context, id int) (*ScheduleEntry, error)
	CreateEntry(ctx context.Context, entry *ScheduleEntry) error
	UpdateEntry(ctx context.Context, entry *ScheduleEntry) error
	DeleteEntry(ctx context.Context, id int) error
	TeacherWorkload(ctx context.Context) ([]TeacherWorkload, error)
}

type ScheduleUseCase interface {
	CurrentWeekType(ctx context.Context) WeekType
	SetCurrentWeek(ctx context.Context, week WeekType) error
	SetAnchorDate(ctx context.Context, anchor string) error

	Metadata(ctx context.Context) (*ScheduleMetadata, error)
	UpdateSettings(ctx context.Context, groupName, academicYear string) error

	DaySchedule(ctx context.Context, day string, week WeekType) ([]ScheduleEntry, error)
	WeekSchedule(ctx context.Context, week WeekType) (map[string][]ScheduleEntry, error)
	CurrentLessonInfo(ctx context.Context, now time.Time) (current, next *ScheduleEntry, err error)
	LessonTimer(lesson *ScheduleEntry, now time.Time) *LessonTimer

	AllEntries(ctx context.Context) ([]ScheduleEntry, error)
	CreateEntry(ctx context.Context, entry *ScheduleEntry) error
	UpdateEntry(ctx context.Context, entry *ScheduleEntry) error
	DeleteEntry(ctx context.Context, id int) error
	TeacherWorkload(ctx context.Context) ([]TeacherWorkload, error)
}

// LessonTimer describes time remaining in an active lesson.
type LessonTimer struct {
	Remaining   string `json:"remaining"`
	ProgressBar string `json:"progress_bar"`
	Percent     int    `json:"percent"`
}
