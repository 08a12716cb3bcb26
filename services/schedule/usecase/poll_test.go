package usecase

import (
	"context"
	"testing"
	"time"

	"teachhub/domain"
)

func newTestPollUC(repo *fakePollRepo, users *fakeUserRepo, sender *fakeSender) domain.PollUseCase {
	return NewPollUseCase(repo, users, sender, testLogger(), time.Second)
}

func TestPollCreateValidation(t *testing.T) {
	uc := newTestPollUC(&fakePollRepo{}, &fakeUserRepo{}, &fakeSender{})
	ctx := context.Background()

	tests := []struct {
		name     string
		question string
		options  []string
		wantErr  bool
	}{
		{"two options is enough", "Коли пара?", []string{"Вранці", "Вдень"}, false},
		{"one option rejected", "Коли пара?", []string{"Вранці"}, true},
		{"blank options are dropped", "Коли пара?", []string{"Вранці", "  ", ""}, true},
		{"empty question rejected", "", []string{"Так", "Ні"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(ctx, tt.question, 1, "admin", tt.options, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("Create() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPollVoteAndResults(t *testing.T) {
	repo := &fakePollRepo{}
	uc := newTestPollUC(repo, &fakeUserRepo{}, &fakeSender{})
	ctx := context.Background()

	poll, err := uc.Create(ctx, "Коли пара?", 1, "admin", []string{"Вранці", "Вдень", "Ввечері"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	optA, optB := poll.Options[0].ID, poll.Options[1].ID

	if err := uc.Vote(ctx, poll.ID, optA, 100); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if err := uc.Vote(ctx, poll.ID, optA, 200); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if err := uc.Vote(ctx, poll.ID, optB, 300); err != nil {
		t.Fatalf("vote: %v", err)
	}

	// re-vote replaces, it does not add
	if err := uc.Vote(ctx, poll.ID, optB, 100); err != nil {
		t.Fatalf("re-vote: %v", err)
	}

	results, err := uc.Results(ctx, poll.ID)
	if err != nil {
		t.Fatal(err)
	}
	if results.TotalVotes != 3 {
		t.Fatalf("TotalVotes = %d, want 3", results.TotalVotes)
	}
	byText := map[string]domain.PollOptionResult{}
	for _, r := range results.Options {
		byText[r.Text] = r
	}
	if byText["Вранці"].Votes != 1 || byText["Вдень"].Votes != 2 {
		t.Errorf("votes = %+v", byText)
	}
	if p := byText["Вдень"].Percent; p < 66 || p > 67 {
		t.Errorf("percent = %.2f, want about 66.67", p)
	}
	if byText["Ввечері"].Votes != 0 {
		t.Errorf("option without votes must appear with 0, got %+v", byText["Ввечері"])
	}
}

func TestPollVoteRejections(t *testing.T) {
	repo := &fakePollRepo{}
	uc := newTestPollUC(repo, &fakeUserRepo{}, &fakeSender{})
	ctx := context.Background()

	poll, err := uc.Create(ctx, "Коли пара?", 1, "admin", []string{"Так", "Ні"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := uc.Vote(ctx, poll.ID, 999999, 100); err == nil {
		t.Error("vote for a foreign option accepted")
	}

	if err := uc.Close(ctx, poll.ID); err != nil {
		t.Fatal(err)
	}
	if err := uc.Vote(ctx, poll.ID, poll.Options[0].ID, 100); err == nil {
		t.Error("vote on a closed poll accepted")
	}
}

func TestPollCloseExpired(t *testing.T) {
	repo := &fakePollRepo{}
	uc := newTestPollUC(repo, &fakeUserRepo{}, &fakeSender{})
	ctx := context.Background()

	past := date(2025, 9, 1)
	future := date(2025, 12, 1)
	if _, err := uc.Create(ctx, "Старе?", 1, "admin", []string{"Так", "Ні"}, &past); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Create(ctx, "Нове?", 1, "admin", []string{"Так", "Ні"}, &future); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Create(ctx, "Безстрокове?", 1, "admin", []string{"Так", "Ні"}, nil); err != nil {
		t.Fatal(err)
	}

	closed, err := uc.CloseExpired(ctx, date(2025, 10, 1))
	if err != nil {
		t.Fatal(err)
	}
	if closed != 1 {
		t.Fatalf("closed %d polls, want 1", closed)
	}

	active, err := uc.ListActive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 2 {
		t.Fatalf("active polls = %d, want 2", len(active))
	}
}

func TestPollBroadcast(t *testing.T) {
	repo := &fakePollRepo{}
	users := &fakeUserRepo{users: []domain.User{
		{UserID: 100}, {UserID: 200}, {UserID: 300},
	}}
	sender := &fakeSender{failFor: map[int64]bool{200: true}}
	uc := newTestPollUC(repo, users, sender)
	ctx := context.Background()

	poll, err := uc.Create(ctx, "Коли пара?", 1, "admin", []string{"Так", "Ні"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	sent, err := uc.Broadcast(ctx, poll.ID)
	if err != nil {
		t.Fatal(err)
	}
	if sent != 2 {
		t.Fatalf("sent = %d, want 2 (one chat unreachable)", sent)
	}
}
