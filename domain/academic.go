package domain

import (
	"context"
	"time"
)

// AcademicPeriod is one stretch of the academic year (semester, session,
// holidays). Dates are inclusive "YYYY-MM-DD" strings, as entered by admins.
type AcademicPeriod struct {
	ID            int    `gorm:"primaryKey;autoIncrement" json:"id"`
	PeriodID      string `gorm:"type:varchar(100);uniqueIndex;not null" json:"period_id" valid:"required~Period id is required"`
	Name          string `gorm:"type:varchar(200);not null" json:"name" valid:"required~Name is required"`
	StartDate     string `gorm:"type:varchar(20);not null" json:"start_date" valid:"required~Start date is required"`
	EndDate       string `gorm:"type:varchar(20);not null" json:"end_date" valid:"required~End date is required"`
	Weeks         int    `gorm:"not null" json:"weeks"`
	Color         string `gorm:"type:varchar(10);default:🟦" json:"color"`
	Description   string `gorm:"type:text" json:"description"`
	TeacherUserID int64  `gorm:"index" json:"teacher_user_id"`
}

func (AcademicPeriod) TableName() string { return "academic_periods" }

const (
	PeriodNotStarted = "not_started"
	PeriodInProgress = "in_progress"
	PeriodCompleted  = "completed"
)

// PeriodProgress is the computed progress of one period at a given date.
type PeriodProgress struct {
	PeriodID  string    `json:"period_id"`
	Name      string    `json:"name"`
	Progress  float64   `json:"progress"`
	Status    string    `json:"status"`
	Color     string    `json:"color"`
	Weeks     int       `json:"weeks"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type AcademicRepo interface {
	ListPeriods(ctx context.Context) ([]AcademicPeriod, error)
	GetPeriod(ctx context.Context, id int) (*AcademicPeriod, error)
	CreatePeriod(ctx context.Context, period *AcademicPeriod) error
	UpdatePeriod(ctx context.Context, period *AcademicPeriod) error
	DeletePeriod(ctx context.Context, id int) error
}

type AcademicUseCase interface {
	ListPeriods(ctx context.Context) ([]AcademicPeriod, error)
	CreatePeriod(ctx context.Context, period *AcademicPeriod) error
	UpdatePeriod(ctx context.Context, period *AcademicPeriod) error
	DeletePeriod(ctx context.Context, id int) error

	CurrentPeriod(ctx context.Context, at time.Time) (*PeriodProgress, error)
	Progress(ctx context.Context, at time.Time) ([]PeriodProgress, error)
	ProgressReport(ctx context.Context, at time.Time) (string, error)
}
