package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vkravchuk/courseshop/internal/domain"
	"github.com/vkravchuk/courseshop/internal/usecase"
	"golang.org/x/crypto/bcrypt"
)

const testCodeLen = 8

func newResetUsecase(users *fakeUserRepo, sender *fakeSender) *usecase.ResetUsecase {
	return usecase.NewResetUsecase(users, sender, 10*time.Minute, testCodeLen, testJWTKey, time.Hour)
}

// codeFromBody extracts the one-time code from the email text. The code is
// the token following "site:".
func codeFromBody(t *testing.T, body string) string {
	t.Helper()

	_, rest, ok := strings.Cut(body, "site: ")
	if !ok {
		t.Fatalf("no code marker in email body: %q", body)
	}
	code, _, _ := strings.Cut(rest, "\n")
	if len(code) != testCodeLen {
		t.Fatalf("code %q has length %d, want %d", code, len(code), testCodeLen)
	}
	return code
}

func TestRequestStoresHashOfEmailedCode(t *testing.T) {
	var storedHash string
	var storedExpiry time.Time
	users := &fakeUserRepo{
		findByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: email}, nil
		},
		setResetTokenFn: func(_ context.Context, id, tokenHash string, expiresAt time.Time) error {
			storedHash = tokenHash
			storedExpiry = expiresAt
			return nil
		},
	}
	var sentTo, sentBody string
	sender := &fakeSender{
		sendFn: func(_ context.Context, to, _, body string) error {
			sentTo = to
			sentBody = body
			return nil
		},
	}

	if err := newResetUsecase(users, sender).Request(context.Background(), "olha@example.com"); err != nil {
		t.Fatalf("Request: %v", err)
	}

	if sentTo != "olha@example.com" {
		t.Fatalf("sent to %q", sentTo)
	}
	code := codeFromBody(t, sentBody)
	if strings.Contains(storedHash, code) {
		t.Fatal("plaintext code leaked into the stored hash")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(code)); err != nil {
		t.Fatalf("stored hash does not match emailed code: %v", err)
	}
	wantExpiry := time.Now().Add(10 * time.Minute)
	if storedExpiry.Before(wantExpiry.Add(-time.Minute)) || storedExpiry.After(wantExpiry.Add(time.Minute)) {
		t.Fatalf("expiry = %v, want ~%v", storedExpiry, wantExpiry)
	}
}

// A reset code the user never received must not stay pending, otherwise the
// flow is locked until the code expires.
func TestRequestRollsBackOnSendFailure(t *testing.T) {
	var cleared bool
	users := &fakeUserRepo{
		findByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: email}, nil
		},
		setResetTokenFn: func(_ context.Context, _, _ string, _ time.Time) error {
			return nil
		},
		clearResetTokenFn: func(_ context.Context, id string) error {
			cleared = true
			return nil
		},
	}
	sender := &fakeSender{
		sendFn: func(_ context.Context, _, _, _ string) error {
			return errors.New("smtp down")
		},
	}

	err := newResetUsecase(users, sender).Request(context.Background(), "olha@example.com")
	if !errors.Is(err, domain.ErrEmailDelivery) {
		t.Fatalf("err = %v, want ErrEmailDelivery", err)
	}
	if !cleared {
		t.Fatal("pending reset state was not rolled back")
	}
}

func TestRequestUnknownEmail(t *testing.T) {
	users := &fakeUserRepo{
		findByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	sender := &fakeSender{
		sendFn: func(_ context.Context, _, _, _ string) error {
			t.Fatal("no email must be sent for an unknown address")
			return nil
		},
	}

	err := newResetUsecase(users, sender).Request(context.Background(), "ghost@example.com")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func userWithPendingReset(t *testing.T, code string, expiresAt time.Time) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash code: %v", err)
	}
	h := string(hash)
	return &domain.User{
		ID:                  "user-1",
		Email:               "olha@example.com",
		ResetTokenHash:      &h,
		ResetTokenExpiresAt: &expiresAt,
	}
}

func TestVerifyAcceptsPendingCode(t *testing.T) {
	user := userWithPendingReset(t, "SECRET01", time.Now().Add(5*time.Minute))
	users := &fakeUserRepo{
		findByEmailFn: func(_ context.Context, _ string) (*domain.User, error) { return user, nil },
	}

	if err := newResetUsecase(users, nil).Verify(context.Background(), user.Email, "SECRET01"); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyRejections(t *testing.T) {
	tests := []struct {
		name    string
		user    func(t *testing.T) *domain.User
		code    string
		wantErr error
	}{
		{
			name: "expired code",
			user: func(t *testing.T) *domain.User {
				return userWithPendingReset(t, "SECRET01", time.Now().Add(-time.Minute))
			},
			code:    "SECRET01",
			wantErr: domain.ErrResetExpired,
		},
		{
			name: "no pending reset",
			user: func(_ *testing.T) *domain.User {
				return &domain.User{ID: "user-1", Email: "olha@example.com"}
			},
			code:    "SECRET01",
			wantErr: domain.ErrNoPendingReset,
		},
		{
			name: "empty code",
			user: func(t *testing.T) *domain.User {
				return userWithPendingReset(t, "SECRET01", time.Now().Add(5*time.Minute))
			},
			code:    "",
			wantErr: domain.ErrEmptyResetCode,
		},
		{
			name: "wrong code",
			user: func(t *testing.T) *domain.User {
				return userWithPendingReset(t, "SECRET01", time.Now().Add(5*time.Minute))
			},
			code:    "WRONG123",
			wantErr: domain.ErrResetCodeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := tt.user(t)
			users := &fakeUserRepo{
				findByEmailFn: func(_ context.Context, _ string) (*domain.User, error) { return user, nil },
			}
			err := newResetUsecase(users, nil).Verify(context.Background(), user.Email, tt.code)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResetConsumesCodeAndIssuesToken(t *testing.T) {
	user := userWithPendingReset(t, "SECRET01", time.Now().Add(5*time.Minute))
	var updatedID, updatedHash string
	users := &fakeUserRepo{
		findByEmailFn: func(_ context.Context, _ string) (*domain.User, error) { return user, nil },
		updatePasswordFn: func(_ context.Context, id, passwordHash string) error {
			updatedID = id
			updatedHash = passwordHash
			return nil
		},
	}

	token, err := newResetUsecase(users, nil).Reset(context.Background(), user.Email, "SECRET01", "new-password-1")
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if updatedID != "user-1" {
		t.Fatalf("password updated for %q, want user-1", updatedID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updatedHash), []byte("new-password-1")); err != nil {
		t.Fatalf("stored hash does not match new password: %v", err)
	}
	if sub := parseSubject(t, token); sub != "user-1" {
		t.Fatalf("token sub = %q, want user-1", sub)
	}
}

func TestResetRejectsWrongCodeWithoutUpdating(t *testing.T) {
	user := userWithPendingReset(t, "SECRET01", time.Now().Add(5*time.Minute))
	users := &fakeUserRepo{
		findByEmailFn: func(_ context.Context, _ string) (*domain.User, error) { return user, nil },
		updatePasswordFn: func(_ context.Context, _, _ string) error {
			t.Fatal("password must not change on a wrong code")
			return nil
		},
	}

	_, err := newResetUsecase(users, nil).Reset(context.Background(), user.Email, "WRONG123", "new-password-1")
	if !errors.Is(err, domain.ErrResetCodeMismatch) {
		t.Fatalf("err = %v, want ErrResetCodeMismatch", err)
	}
}
