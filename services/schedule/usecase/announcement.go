package usecase

import (
	"context"
	"fmt"
	"time"

	"teachhub/domain"

	"github.com/sirupsen/logrus"
)

type announcementUseCase struct {
	repo    domain.AnnouncementRepo
	users   domain.UserRepo
	sender  domain.Sender
	log     *logrus.Logger
	TimeOut time.Duration
}

func NewAnnouncementUseCase(repo domain.AnnouncementRepo, users domain.UserRepo, sender domain.Sender, log *logrus.Logger, to time.Duration) domain.AnnouncementUseCase {
	return &announcementUseCase{
		repo:    repo,
		users:   users,
		sender:  sender,
		log:     log,
		TimeOut: to,
	}
}

func (au *announcementUseCase) List(ctx context.Context) ([]domain.Announcement, error) {
	return au.repo.ListAnnouncements(ctx)
}

func (au *announcementUseCase) Active(ctx context.Context) (*domain.Announcement, error) {
	return au.repo.GetActive(ctx)
}

// Create stores a new announcement and makes it the only active one.
func (au *announcementUseCase) Create(ctx context.Context, content string, authorID int64, authorUsername, priority string) (*domain.Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	if content == "" {
		return nil, fmt.Errorf("announcement content is empty")
	}
	if !validPriority(priority) {
		priority = domain.PriorityNormal
	}
	if err := au.repo.DeactivateAll(ctx); err != nil {
		return nil, err
	}
	a := &domain.Announcement{
		Content:        content,
		AuthorID:       authorID,
		AuthorUsername: authorUsername,
		Priority:       priority,
		IsActive:       true,
	}
	if err := au.repo.CreateAnnouncement(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (au *announcementUseCase) Update(ctx context.Context, id int, content, priority string) error {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	a, err := au.repo.GetAnnouncement(ctx, id)
	if err != nil {
		return err
	}
	if content != "" {
		a.Content = content
	}
	if validPriority(priority) {
		a.Priority = priority
	}
	return au.repo.UpdateAnnouncement(ctx, a)
}

func (au *announcementUseCase) Delete(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	return au.repo.DeleteAnnouncement(ctx, id)
}

func (au *announcementUseCase) Activate(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	if err := au.repo.DeactivateAll(ctx); err != nil {
		return err
	}
	return au.repo.Activate(ctx, id)
}

// Broadcast pushes the announcement to every approved user. A failed send
// for one user is logged and does not stop the rest.
func (au *announcementUseCase) Broadcast(ctx context.Context, id int) (int, error) {
	a, err := au.repo.GetAnnouncement(ctx, id)
	if err != nil {
		return 0, err
	}
	users, err := au.users.ListUsers(ctx)
	if err != nil {
		return 0, err
	}

	text := formatAnnouncement(a)
	sent := 0
	for _, u := range users {
		if err := au.sender.SendHTML(u.UserID, text); err != nil {
			au.log.WithFields(logrus.Fields{"user_id": u.UserID}).Warnf("announcement delivery failed: %v", err)
			continue
		}
		sent++
	}
	if err := au.repo.MarkSent(ctx, id, sent); err != nil {
		return sent, err
	}
	return sent, nil
}

func (au *announcementUseCase) FormatActive(ctx context.Context) (string, error) {
	a, err := au.repo.GetActive(ctx)
	if err != nil {
		return "", err
	}
	if a == nil {
		return "📢 Наразі немає активних оголошень", nil
	}
	return formatAnnouncement(a), nil
}

func formatAnnouncement(a *domain.Announcement) string {
	icon := "📢"
	switch a.Priority {
	case domain.PriorityImportant:
		icon = "⚠️"
	case domain.PriorityUrgent:
		icon = "🚨"
	}
	text := fmt.Sprintf("%s <b>Оголошення</b>\n\n%s", icon, a.Content)
	if a.AuthorUsername != "" {
		text += fmt.Sprintf("\n\n✍️ @%s", a.AuthorUsername)
	}
	text += fmt.Sprintf("\n🕐 %s", a.CreatedAt.Format("02.01.2006 15:04"))
	return text
}

func validPriority(p string) bool {
	return p == domain.PriorityNormal || p == domain.PriorityImportant || p == domain.PriorityUrgent
}
