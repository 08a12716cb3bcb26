package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"teachhub/domain"

	"github.com/asaskevich/govalidator"
)

const reportBarWidth = 15

type academicUseCase struct {
	repo    domain.AcademicRepo
	TimeOut time.Duration
}

func NewAcademicUseCase(repo domain.AcademicRepo, to time.Duration) domain.AcademicUseCase {
	return &academicUseCase{
		repo:    repo,
		TimeOut: to,
	}
}

func (au *academicUseCase) ListPeriods(ctx context.Context) ([]domain.AcademicPeriod, error) {
	return au.repo.ListPeriods(ctx)
}

func (au *academicUseCase) CreatePeriod(ctx context.Context, period *domain.AcademicPeriod) error {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	if err := validatePeriod(period); err != nil {
		return err
	}
	return au.repo.CreatePeriod(ctx, period)
}

func (au *academicUseCase) UpdatePeriod(ctx context.Context, period *domain.AcademicPeriod) error {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	if err := validatePeriod(period); err != nil {
		return err
	}
	return au.repo.UpdatePeriod(ctx, period)
}

func (au *academicUseCase) DeletePeriod(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	return au.repo.DeletePeriod(ctx, id)
}

// CurrentPeriod returns the first period that contains the given date, or
// nil when the date falls between periods.
func (au *academicUseCase) CurrentPeriod(ctx context.Context, at time.Time) (*domain.PeriodProgress, error) {
	all, err := au.Progress(ctx, at)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Status == domain.PeriodInProgress {
			return &all[i], nil
		}
	}
	return nil, nil
}

// Progress computes completion for every period. Period bounds are inclusive
// on both ends; rows with unparseable dates are skipped.
func (au *academicUseCase) Progress(ctx context.Context, at time.Time) ([]domain.PeriodProgress, error) {
	periods, err := au.repo.ListPeriods(ctx)
	if err != nil {
		return nil, err
	}
	today := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)

	out := make([]domain.PeriodProgress, 0, len(periods))
	for _, p := range periods {
		start, okS := ParseAnchor(p.StartDate)
		end, okE := ParseAnchor(p.EndDate)
		if !okS || !okE || end.Before(start) {
			continue
		}
		prog := domain.PeriodProgress{
			PeriodID:  p.PeriodID,
			Name:      p.Name,
			Color:     p.Color,
			Weeks:     p.Weeks,
			StartDate: start,
			EndDate:   end,
		}
		switch {
		case today.Before(start):
			prog.Status = domain.PeriodNotStarted
		case today.After(end):
			prog.Status = domain.PeriodCompleted
			prog.Progress = 100
		default:
			total := end.Sub(start).Hours()/24 + 1
			elapsed := today.Sub(start).Hours()/24 + 1
			prog.Status = domain.PeriodInProgress
			prog.Progress = elapsed / total * 100
			if prog.Progress > 100 {
				prog.Progress = 100
			}
		}
		out = append(out, prog)
	}
	return out, nil
}

// ProgressReport renders the year overview shown by the bot and the panel.
func (au *academicUseCase) ProgressReport(ctx context.Context, at time.Time) (string, error) {
	all, err := au.Progress(ctx, at)
	if err != nil {
		return "", err
	}
	if len(all) == 0 {
		return "📅 Навчальні періоди ще не налаштовані", nil
	}

	var b strings.Builder
	b.WriteString("📊 <b>Прогрес навчального року</b>\n\n")
	for _, p := range all {
		filled := int(p.Progress / 100 * reportBarWidth)
		if filled > reportBarWidth {
			filled = reportBarWidth
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", reportBarWidth-filled)

		b.WriteString(fmt.Sprintf("%s <b>%s</b>\n", p.Color, p.Name))
		b.WriteString(fmt.Sprintf("%s %.0f%%\n", bar, p.Progress))
		b.WriteString(fmt.Sprintf("📆 %s — %s (%d тиж.)\n", p.StartDate.Format("02.01.2006"), p.EndDate.Format("02.01.2006"), p.Weeks))
		switch p.Status {
		case domain.PeriodNotStarted:
			b.WriteString("⏳ Ще не розпочато\n")
		case domain.PeriodCompleted:
			b.WriteString("✅ Завершено\n")
		default:
			b.WriteString("▶️ Триває\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func validatePeriod(period *domain.AcademicPeriod) error {
	if _, err := govalidator.ValidateStruct(period); err != nil {
		return err
	}
	start, okS := ParseAnchor(period.StartDate)
	end, okE := ParseAnchor(period.EndDate)
	if !okS || !okE {
		return fmt.Errorf("invalid period dates, want YYYY-MM-DD")
	}
	if end.Before(start) {
		return fmt.Errorf("period ends before it starts")
	}
	return nil
}
