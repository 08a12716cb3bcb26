package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"teachhub/domain"
)

type fakeAnnouncementRepo struct {
	items []domain.Announcement
}

func (f *fakeAnnouncementRepo) ListAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	return f.items, nil
}

func (f *fakeAnnouncementRepo) GetAnnouncement(ctx context.Context, id int) (*domain.Announcement, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			return &f.items[i], nil
		}
	}
	return nil, fmt.Errorf("announcement %d not found", id)
}

func (f *fakeAnnouncementRepo) GetActive(ctx context.Context) (*domain.Announcement, error) {
	for i := range f.items {
		if f.items[i].IsActive {
			return &f.items[i], nil
		}
	}
	return nil, nil
}

func (f *fakeAnnouncementRepo) CreateAnnouncement(ctx context.Context, a *domain.Announcement) error {
	a.ID = len(f.items) + 1
	a.CreatedAt = time.Now()
	f.items = append(f.items, *a)
	return nil
}

func (f *fakeAnnouncementRepo) UpdateAnnouncement(ctx context.Context, a *domain.Announcement) error {
	for i := range f.items {
		if f.items[i].ID == a.ID {
			f.items[i] = *a
			return nil
		}
	}
	return fmt.Errorf("announcement %d not found", a.ID)
}

func (f *fakeAnnouncementRepo) DeleteAnnouncement(ctx context.Context, id int) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("announcement %d not found", id)
}

func (f *fakeAnnouncementRepo) DeactivateAll(ctx context.Context) error {
	for i := range f.items {
		f.items[i].IsActive = false
	}
	return nil
}

func (f *fakeAnnouncementRepo) Activate(ctx context.Context, id int) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].IsActive = true
			return nil
		}
	}
	return fmt.Errorf("announcement %d not found", id)
}

func (f *fakeAnnouncementRepo) MarkSent(ctx context.Context, id, recipients int) error {
	for i := range f.items {
		if f.items[i].ID == id {
			now := time.Now()
			f.items[i].SentAt = &now
			f.items[i].RecipientCount = recipients
			return nil
		}
	}
	return fmt.Errorf("announcement %d not found", id)
}

func newTestAnnouncementUC(repo *fakeAnnouncementRepo, users *fakeUserRepo, sender *fakeSender) domain.AnnouncementUseCase {
	return NewAnnouncementUseCase(repo, users, sender, testLogger(), time.Second)
}

func TestAnnouncementCreateKeepsSingleActive(t *testing.T) {
	repo := &fakeAnnouncementRepo{}
	uc := newTestAnnouncementUC(repo, &fakeUserRepo{}, &fakeSender{})
	ctx := context.Background()

	first, err := uc.Create(ctx, "Перше оголошення", 1, "admin", domain.PriorityNormal)
	if err != nil {
		t.Fatal(err)
	}
	second, err := uc.Create(ctx, "Друге оголошення", 1, "admin", domain.PriorityUrgent)
	if err != nil {
		t.Fatal(err)
	}

	active, err := uc.Active(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if active == nil || active.ID != second.ID {
		t.Fatalf("active = %+v, want the second announcement", active)
	}

	if err := uc.Activate(ctx, first.ID); err != nil {
		t.Fatal(err)
	}
	active, _ = uc.Active(ctx)
	if active == nil || active.ID != first.ID {
		t.Fatalf("after re-activation active = %+v, want the first", active)
	}
	count := 0
	for _, a := range repo.items {
		if a.IsActive {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("%d active announcements, want exactly 1", count)
	}
}

func TestAnnouncementUnknownPriorityFallsBack(t *testing.T) {
	uc := newTestAnnouncementUC(&fakeAnnouncementRepo{}, &fakeUserRepo{}, &fakeSender{})
	a, err := uc.Create(context.Background(), "Текст", 1, "admin", "shouting")
	if err != nil {
		t.Fatal(err)
	}
	if a.Priority != domain.PriorityNormal {
		t.Errorf("priority = %q, want normal", a.Priority)
	}
}

func TestAnnouncementBroadcast(t *testing.T) {
	repo := &fakeAnnouncementRepo{}
	users := &fakeUserRepo{users: []domain.User{{UserID: 100}, {UserID: 200}, {UserID: 300}}}
	sender := &fakeSender{failFor: map[int64]bool{300: true}}
	uc := newTestAnnouncementUC(repo, users, sender)
	ctx := context.Background()

	a, err := uc.Create(ctx, "Пари скасовано", 1, "admin", domain.PriorityUrgent)
	if err != nil {
		t.Fatal(err)
	}

	sent, err := uc.Broadcast(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if sent != 2 {
		t.Fatalf("sent = %d, want 2", sent)
	}
	stored, _ := repo.GetAnnouncement(ctx, a.ID)
	if stored.SentAt == nil || stored.RecipientCount != 2 {
		t.Errorf("MarkSent not applied: %+v", stored)
	}
	if !strings.Contains(sender.sent[0].text, "🚨") {
		t.Errorf("urgent priority icon missing: %q", sender.sent[0].text)
	}
}

func TestFormatActiveWithoutAnnouncement(t *testing.T) {
	uc := newTestAnnouncementUC(&fakeAnnouncementRepo{}, &fakeUserRepo{}, &fakeSender{})
	text, err := uc.FormatActive(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "немає активних") {
		t.Errorf("placeholder text = %q", text)
	}
}
