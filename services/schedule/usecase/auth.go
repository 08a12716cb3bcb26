package usecase

import (
	"context"
	"fmt"
	"time"

	"teachhub/domain"
	"teachhub/middleware"

	"golang.org/x/crypto/bcrypt"
)

type authUseCase struct {
	repo    domain.UserRepo
	TimeOut time.Duration
}

func NewAuthUseCase(repo domain.UserRepo, to time.Duration) domain.AuthUseCase {
	return &authUseCase{
		repo:    repo,
		TimeOut: to,
	}
}

func (au *authUseCase) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	account, err := au.repo.FindAdminByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	token, err := middleware.GenerateJWT(account.ID, account.Username, account.Role)
	if err != nil {
		return nil, err
	}
	return &domain.LoginResponse{Token: token, Role: account.Role}, nil
}

func (au *authUseCase) IsUserAllowed(ctx context.Context, userID int64) bool {
	user, err := au.repo.GetUser(ctx, userID)
	return err == nil && user != nil
}

// RequestAccess files a pending request. Repeat requests from the same user
// are collapsed into the existing row; created reports whether this call
// opened a new one, so the caller knows whether to ping the admin.
func (au *authUseCase) RequestAccess(ctx context.Context, userID int64, username string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	if au.IsUserAllowed(ctx, userID) {
		return false, nil
	}
	existing, err := au.repo.GetPending(ctx, userID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	err = au.repo.CreatePending(ctx, &domain.PendingRequest{
		UserID:   userID,
		Username: username,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (au *authUseCase) ApproveUser(ctx context.Context, userID int64) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	pending, err := au.repo.GetPending(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, fmt.Errorf("no pending request for user %d", userID)
	}
	user := &domain.User{
		UserID:   pending.UserID,
		Username: pending.Username,
	}
	if err := au.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	if err := au.repo.DeletePending(ctx, userID); err != nil {
		return nil, err
	}
	return user, nil
}

func (au *authUseCase) DenyUser(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	return au.repo.DeletePending(ctx, userID)
}

func (au *authUseCase) RevokeUser(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	return au.repo.DeleteUser(ctx, userID)
}

// AddUser grants access directly, bypassing the request queue. Any pending
// request from the same user is cleared.
func (au *authUseCase) AddUser(ctx context.Context, userID int64, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	if existing, err := au.repo.GetUser(ctx, userID); err == nil && existing != nil {
		return nil, fmt.Errorf("user %d already has access", userID)
	}
	user := &domain.User{
		UserID:   userID,
		Username: username,
	}
	if err := au.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	if pending, err := au.repo.GetPending(ctx, userID); err == nil && pending != nil {
		_ = au.repo.DeletePending(ctx, userID)
	}
	return user, nil
}

func (au *authUseCase) ListUsers(ctx context.Context) ([]domain.User, error) {
	return au.repo.ListUsers(ctx)
}

func (au *authUseCase) ListPending(ctx context.Context) ([]domain.PendingRequest, error) {
	return au.repo.ListPending(ctx)
}

func (au *authUseCase) SetNotifications(ctx context.Context, userID int64, enabled bool) error {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	return au.repo.SetNotifications(ctx, userID, enabled)
}

func (au *authUseCase) NotificationsEnabled(ctx context.Context, userID int64) bool {
	user, err := au.repo.GetUser(ctx, userID)
	if err != nil || user == nil {
		return false
	}
	return user.NotificationsEnabled
}
