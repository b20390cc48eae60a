package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vkravchuk/courseshop/internal/domain"
	"github.com/vkravchuk/courseshop/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// GoogleIdentity is the verified subject of a Google ID token.
type GoogleIdentity struct {
	Email string
	Name  string
}

// GoogleVerifier checks a Google-issued ID token and extracts the identity.
type GoogleVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*GoogleIdentity, error)
}

type AuthUsecase struct {
	users  repository.UserRepository
	google GoogleVerifier
	jwtKey []byte
	jwtTTL time.Duration
}

func NewAuthUsecase(users repository.UserRepository, google GoogleVerifier, jwtKey []byte, jwtTTL time.Duration) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		google: google,
		jwtKey: jwtKey,
		jwtTTL: jwtTTL,
	}
}

type SignUpInput struct {
	UserName string
	Email    string
	Password string
}

// SignUp creates the account and returns it with a fresh session token.
func (u *AuthUsecase) SignUp(ctx context.Context, input SignUpInput) (*domain.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, &domain.User{
		UserName:     input.UserName,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := signToken(u.jwtKey, u.jwtTTL, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SignIn verifies the credentials and issues a session token. Unknown email
// and wrong password collapse into the same error so callers cannot probe
// which emails exist.
func (u *AuthUsecase) SignIn(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := signToken(u.jwtKey, u.jwtTTL, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GoogleSignIn verifies the ID token, then finds or creates the account.
// A created account gets a random password the user never sees; they can
// claim it later through the reset flow.
func (u *AuthUsecase) GoogleSignIn(ctx context.Context, rawIDToken string) (*domain.User, string, error) {
	identity, err := u.google.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, "", domain.ErrTokenInvalid
	}

	user, err := u.users.FindByEmail(ctx, identity.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		password, genErr := randomString(15)
		if genErr != nil {
			return nil, "", genErr
		}
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, "", fmt.Errorf("hash password: %w", hashErr)
		}
		user, err = u.users.Create(ctx, &domain.User{
			UserName:     identity.Name,
			Email:        identity.Email,
			PasswordHash: string(hash),
			Role:         domain.RoleUser,
		})
	}
	if err != nil {
		return nil, "", fmt.Errorf("find or create user: %w", err)
	}

	token, err := signToken(u.jwtKey, u.jwtTTL, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
