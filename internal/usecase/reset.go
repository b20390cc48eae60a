package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vkravchuk/courseshop/internal/domain"
	"github.com/vkravchuk/courseshop/internal/email"
	"github.com/vkravchuk/courseshop/internal/metrics"
	"github.com/vkravchuk/courseshop/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// ResetUsecase drives the one-time password reset codes:
// NoResetPending -> ResetPending -> Consumed | Expired | Overwritten.
type ResetUsecase struct {
	users   repository.UserRepository
	email   email.Sender
	codeTTL time.Duration
	codeLen int
	jwtKey  []byte
	jwtTTL  time.Duration
}

func NewResetUsecase(users repository.UserRepository, sender email.Sender, codeTTL time.Duration, codeLen int, jwtKey []byte, jwtTTL time.Duration) *ResetUsecase {
	return &ResetUsecase{
		users:   users,
		email:   sender,
		codeTTL: codeTTL,
		codeLen: codeLen,
		jwtKey:  jwtKey,
		jwtTTL:  jwtTTL,
	}
}

// Request issues a one-time code, persists only its bcrypt hash with an
// expiry, and emails the plaintext code. A failed dispatch rolls the pending
// state back: a stored hash the user never received would lock the flow.
func (u *ResetUsecase) Request(ctx context.Context, emailAddr string) error {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	code, err := randomString(u.codeLen)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash reset code: %w", err)
	}

	expiresAt := time.Now().Add(u.codeTTL)
	if err := u.users.SetResetToken(ctx, user.ID, string(hash), expiresAt); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	subject := "Forgot your password?"
	body := fmt.Sprintf("Forgot your password? Enter this code on the site: %s\nThe code expires in %d minutes.",
		code, int(u.codeTTL.Minutes()))
	if err := u.email.Send(ctx, user.Email, subject, body); err != nil {
		if clearErr := u.users.ClearResetToken(ctx, user.ID); clearErr != nil {
			return fmt.Errorf("rollback reset token after send failure: %w", clearErr)
		}
		return fmt.Errorf("%w: %v", domain.ErrEmailDelivery, err)
	}

	metrics.ResetRequestsTotal.Inc()
	return nil
}

// Verify checks the candidate code against the pending reset without
// consuming it. The storefront calls this before showing the new-password
// form.
func (u *ResetUsecase) Verify(ctx context.Context, emailAddr, code string) error {
	_, err := u.lookupPending(ctx, emailAddr, code)
	return err
}

// Reset consumes a verified code: the password is re-hashed, the pending
// state is cleared and a fresh session token is issued.
func (u *ResetUsecase) Reset(ctx context.Context, emailAddr, code, newPassword string) (string, error) {
	user, err := u.lookupPending(ctx, emailAddr, code)
	if err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	if err := u.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return "", err
	}

	return signToken(u.jwtKey, u.jwtTTL, user.ID)
}

func (u *ResetUsecase) lookupPending(ctx context.Context, emailAddr, code string) (*domain.User, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}

	if user.ResetTokenExpiresAt != nil && time.Now().After(*user.ResetTokenExpiresAt) {
		metrics.ResetFailuresTotal.WithLabelValues("expired").Inc()
		return nil, domain.ErrResetExpired
	}
	if user.ResetTokenHash == nil {
		metrics.ResetFailuresTotal.WithLabelValues("no_pending").Inc()
		return nil, domain.ErrNoPendingReset
	}
	if code == "" {
		return nil, domain.ErrEmptyResetCode
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.ResetTokenHash), []byte(code)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			metrics.ResetFailuresTotal.WithLabelValues("mismatch").Inc()
			return nil, domain.ErrResetCodeMismatch
		}
		return nil, fmt.Errorf("compare reset code: %w", err)
	}
	return user, nil
}
