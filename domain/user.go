package domain

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is a Telegram user with approved access to the bot.
type User struct {
	ID                   int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID               int64     `gorm:"uniqueIndex;not null" json:"user_id" valid:"required~Telegram user id is required"`
	Username             string    `gorm:"type:varchar(100)" json:"username"`
	FullName             string    `gorm:"type:varchar(200)" json:"full_name"`
	ApprovedAt           time.Time `gorm:"autoCreateTime" json:"approved_at"`
	NotificationsEnabled bool      `gorm:"default:false" json:"notifications_enabled"`
}

func (User) TableName() string { return "users" }

// PendingRequest is an access request awaiting admin review.
type PendingRequest struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"uniqueIndex;not null" json:"user_id"`
	Username  string    `gorm:"type:varchar(100)" json:"username"`
	Timestamp time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

func (PendingRequest) TableName() string { return "pending_requests" }

// AdminAccount is a web panel login, separate from Telegram users.
type AdminAccount struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"type:varchar(200);not null" json:"-"`
	Role      string    `gorm:"type:varchar(20);default:admin" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AdminAccount) TableName() string { return "admin_accounts" }

type LoginRequest struct {
	Username string `json:"username" valid:"required~Username is required"`
	Password string `json:"password" valid:"required~Password is required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type Claims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type UserRepo interface {
	GetUser(ctx context.Context, userID int64) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	ListSubscribed(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, userID int64) error
	SetNotifications(ctx context.Context, userID int64, enabled bool) error

	GetPending(ctx context.Context, userID int64) (*PendingRequest, error)
	ListPending(ctx context.Context) ([]PendingRequest, error)
	CreatePending(ctx context.Context, req *PendingRequest) error
	DeletePending(ctx context.Context, userID int64) error

	FindAdminByUsername(ctx context.Context, username string) (*AdminAccount, error)
}

type AuthUseCase interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)

	IsUserAllowed(ctx context.Context, userID int64) bool
	RequestAccess(ctx context.Context, userID int64, username string) (created bool, err error)
	ApproveUser(ctx context.Context, userID int64) (*User, error)
	DenyUser(ctx context.Context, userID int64) error
	RevokeUser(ctx context.Context, userID int64) error
	AddUser(ctx context.Context, userID int64, username string) (*User, error)

	ListUsers(ctx context.Context) ([]User, error)
	ListPending(ctx context.Context) ([]PendingRequest, error)
	SetNotifications(ctx context.Context, userID int64, enabled bool) error
	NotificationsEnabled(ctx context.Context, userID int64) bool
}
