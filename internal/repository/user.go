package repository

import (
	"context"
	"time"

	"github.com/vkravchuk/courseshop/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)

	UpdateName(ctx context.Context, id, userName string) (*domain.User, error)

	// UpdatePassword stores the new hash, bumps password_changed_at and
	// clears any pending reset state in one statement.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	PurgeExpiredResetTokens(ctx context.Context) (int64, error)
}
