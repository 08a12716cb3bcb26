package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"teachhub/domain"

	"github.com/sirupsen/logrus"
)

type pollUseCase struct {
	repo    domain.PollRepo
	users   domain.UserRepo
	sender  domain.Sender
	log     *logrus.Logger
	TimeOut time.Duration
}

func NewPollUseCase(repo domain.PollRepo, users domain.UserRepo, sender domain.Sender, log *logrus.Logger, to time.Duration) domain.PollUseCase {
	return &pollUseCase{
		repo:    repo,
		users:   users,
		sender:  sender,
		log:     log,
		TimeOut: to,
	}
}

func (pu *pollUseCase) Create(ctx context.Context, question string, authorID int64, authorUsername string, options []string, expiresAt *time.Time) (*domain.Poll, error) {
	ctx, cancel := context.WithTimeout(ctx, pu.TimeOut)
	defer cancel()

	options = trimOptions(options)
	if question == "" {
		return nil, fmt.Errorf("poll question is empty")
	}
	if len(options) < 2 {
		return nil, fmt.Errorf("poll needs at least two options")
	}
	poll := &domain.Poll{
		Question:       question,
		AuthorID:       authorID,
		AuthorUsername: authorUsername,
		ExpiresAt:      expiresAt,
	}
	for i, text := range options {
		poll.Options = append(poll.Options, domain.PollOption{Text: text, OptionOrder: i})
	}
	if err := pu.repo.CreatePoll(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

// Update rewrites the question and options. Replacing options wipes the
// votes already cast, since they would point at dead option ids.
func (pu *pollUseCase) Update(ctx context.Context, id int, question string, options []string) error {
	ctx, cancel := context.WithTimeout(ctx, pu.TimeOut)
	defer cancel()

	poll, err := pu.repo.GetPoll(ctx, id)
	if err != nil {
		return err
	}
	if poll.IsClosed {
		return fmt.Errorf("poll %d is closed", id)
	}
	if question != "" {
		poll.Question = question
		if err := pu.repo.UpdatePoll(ctx, poll); err != nil {
			return err
		}
	}
	options = trimOptions(options)
	if len(options) > 0 {
		if len(options) < 2 {
			return fmt.Errorf("poll needs at least two options")
		}
		replacement := make([]domain.PollOption, 0, len(options))
		for i, text := range options {
			replacement = append(replacement, domain.PollOption{PollID: id, Text: text, OptionOrder: i})
		}
		if err := pu.repo.ReplaceOptions(ctx, id, replacement); err != nil {
			return err
		}
	}
	return nil
}

func (pu *pollUseCase) ListActive(ctx context.Context) ([]domain.Poll, error) {
	return pu.repo.ListActive(ctx)
}

func (pu *pollUseCase) Results(ctx context.Context, id int) (*domain.PollResults, error) {
	poll, err := pu.repo.GetPoll(ctx, id)
	if err != nil {
		return nil, err
	}
	total, err := pu.repo.CountResponses(ctx, id)
	if err != nil {
		return nil, err
	}
	byOption, err := pu.repo.ResponsesByOption(ctx, id)
	if err != nil {
		return nil, err
	}

	results := &domain.PollResults{Poll: *poll, TotalVotes: total}
	for _, opt := range poll.Options {
		row := domain.PollOptionResult{OptionID: opt.ID, Text: opt.Text, Votes: byOption[opt.ID]}
		if total > 0 {
			row.Percent = float64(row.Votes) / float64(total) * 100
		}
		results.Options = append(results.Options, row)
	}
	return results, nil
}

func (pu *pollUseCase) Close(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, pu.TimeOut)
	defer cancel()

	return pu.repo.ClosePoll(ctx, id)
}

// Vote records or replaces the user's choice. The option must belong to the
// poll, and the poll must still be open.
func (pu *pollUseCase) Vote(ctx context.Context, pollID, optionID int, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, pu.TimeOut)
	defer cancel()

	poll, err := pu.repo.GetPoll(ctx, pollID)
	if err != nil {
		return err
	}
	if poll.IsClosed {
		return fmt.Errorf("poll %d is closed", pollID)
	}
	if poll.ExpiresAt != nil && time.Now().After(*poll.ExpiresAt) {
		return fmt.Errorf("poll %d has expired", pollID)
	}
	found := false
	for _, opt := range poll.Options {
		if opt.ID == optionID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("option %d does not belong to poll %d", optionID, pollID)
	}
	return pu.repo.SaveResponse(ctx, &domain.PollResponse{
		PollID:   pollID,
		OptionID: optionID,
		UserID:   userID,
	})
}

// Broadcast pushes the poll to every approved user.
func (pu *pollUseCase) Broadcast(ctx context.Context, id int) (int, error) {
	poll, err := pu.repo.GetPoll(ctx, id)
	if err != nil {
		return 0, err
	}
	users, err := pu.users.ListUsers(ctx)
	if err != nil {
		return 0, err
	}

	text := formatPoll(poll)
	sent := 0
	for _, u := range users {
		if err := pu.sender.SendHTML(u.UserID, text); err != nil {
			pu.log.WithFields(logrus.Fields{"user_id": u.UserID}).Warnf("poll delivery failed: %v", err)
			continue
		}
		sent++
	}
	return sent, nil
}

// CloseExpired sweeps polls whose deadline passed. The notifier calls this
// on its tick.
func (pu *pollUseCase) CloseExpired(ctx context.Context, now time.Time) (int, error) {
	expired, err := pu.repo.ListExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	closed := 0
	for _, poll := range expired {
		if err := pu.repo.ClosePoll(ctx, poll.ID); err != nil {
			pu.log.Errorf("closing expired poll %d: %v", poll.ID, err)
			continue
		}
		closed++
	}
	return closed, nil
}

func formatPoll(poll *domain.Poll) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Нове опитування</b>\n\n%s\n\n", poll.Question))
	for i, opt := range poll.Options {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, opt.Text))
	}
	if poll.ExpiresAt != nil {
		b.WriteString(fmt.Sprintf("\n⏰ До %s", poll.ExpiresAt.Format("02.01.2006 15:04")))
	}
	b.WriteString("\n\nПроголосуйте через меню бота: 📊 Опитування")
	return b.String()
}

func trimOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
