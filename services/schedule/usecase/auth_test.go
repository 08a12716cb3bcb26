package usecase

import (
	"context"
	"testing"
	"time"

	"teachhub/domain"
	"teachhub/middleware"

	"golang.org/x/crypto/bcrypt"
)

func newTestAuthUC(users *fakeUserRepo) domain.AuthUseCase {
	return NewAuthUseCase(users, time.Second)
}

func TestLogin(t *testing.T) {
	middleware.SetSecret("test-secret")
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatal(err)
	}
	users := &fakeUserRepo{admins: []domain.AdminAccount{
		{ID: 1, Username: "admin", Password: string(hash), Role: "admin"},
	}}
	uc := newTestAuthUC(users)
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := uc.Login(ctx, &domain.LoginRequest{Username: "admin", Password: "correct horse"})
		if err != nil {
			t.Fatal(err)
		}
		if resp.Token == "" || resp.Role != "admin" {
			t.Errorf("response = %+v", resp)
		}
		claims, err := middleware.VerifyJWT(resp.Token)
		if err != nil {
			t.Fatalf("issued token does not verify: %v", err)
		}
		if claims.Username != "admin" || claims.Role != "admin" {
			t.Errorf("claims = %+v", claims)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := uc.Login(ctx, &domain.LoginRequest{Username: "admin", Password: "wrong"}); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		if _, err := uc.Login(ctx, &domain.LoginRequest{Username: "ghost", Password: "x"}); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestAccessRequestFlow(t *testing.T) {
	users := &fakeUserRepo{}
	uc := newTestAuthUC(users)
	ctx := context.Background()

	created, err := uc.RequestAccess(ctx, 100, "student")
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatal("first request should create a pending row")
	}

	// repeats collapse into the existing request
	created, err = uc.RequestAccess(ctx, 100, "student")
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("repeat request created a second row")
	}
	pending, _ := uc.ListPending(ctx)
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}

	user, err := uc.ApproveUser(ctx, 100)
	if err != nil {
		t.Fatal(err)
	}
	if user.UserID != 100 || user.Username != "student" {
		t.Errorf("approved user = %+v", user)
	}
	if !uc.IsUserAllowed(ctx, 100) {
		t.Error("approved user is not allowed")
	}
	pending, _ = uc.ListPending(ctx)
	if len(pending) != 0 {
		t.Errorf("pending after approval = %d, want 0", len(pending))
	}

	// an approved user asking again changes nothing
	created, err = uc.RequestAccess(ctx, 100, "student")
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("approved user created a pending row")
	}

	if err := uc.RevokeUser(ctx, 100); err != nil {
		t.Fatal(err)
	}
	if uc.IsUserAllowed(ctx, 100) {
		t.Error("revoked user is still allowed")
	}
}

func TestDenyUser(t *testing.T) {
	users := &fakeUserRepo{}
	uc := newTestAuthUC(users)
	ctx := context.Background()

	if _, err := uc.RequestAccess(ctx, 100, "student"); err != nil {
		t.Fatal(err)
	}
	if err := uc.DenyUser(ctx, 100); err != nil {
		t.Fatal(err)
	}
	if uc.IsUserAllowed(ctx, 100) {
		t.Error("denied user is allowed")
	}
	if _, err := uc.ApproveUser(ctx, 100); err == nil {
		t.Error("approving a denied request should fail")
	}
}

func TestAddUserDirectly(t *testing.T) {
	users := &fakeUserRepo{}
	uc := newTestAuthUC(users)
	ctx := context.Background()

	// a pending request from the same user is cleared on direct add
	if _, err := uc.RequestAccess(ctx, 100, "student"); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.AddUser(ctx, 100, "student"); err != nil {
		t.Fatal(err)
	}
	if !uc.IsUserAllowed(ctx, 100) {
		t.Error("added user is not allowed")
	}
	pending, _ := uc.ListPending(ctx)
	if len(pending) != 0 {
		t.Errorf("pending after direct add = %d, want 0", len(pending))
	}

	if _, err := uc.AddUser(ctx, 100, "student"); err == nil {
		t.Error("adding an existing user should fail")
	}
}

func TestNotificationsToggle(t *testing.T) {
	users := &fakeUserRepo{users: []domain.User{{UserID: 100}}}
	uc := newTestAuthUC(users)
	ctx := context.Background()

	if uc.NotificationsEnabled(ctx, 100) {
		t.Error("notifications default to off")
	}
	if err := uc.SetNotifications(ctx, 100, true); err != nil {
		t.Fatal(err)
	}
	if !uc.NotificationsEnabled(ctx, 100) {
		t.Error("toggle on did not stick")
	}
	if uc.NotificationsEnabled(ctx, 999) {
		t.Error("unknown user reports notifications on")
	}
}
