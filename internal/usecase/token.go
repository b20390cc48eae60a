package usecase

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signToken issues the session credential: HS256 over {sub, iat, exp}.
// Expiry is fixed at issue time; invalidation after a password change is
// enforced by comparing iat against password_changed_at on every request.
func signToken(key []byte, ttl time.Duration, userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// Charset kept from the storefront's validation rules: printable, no
// whitespace, safe to type from an email.
const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*()_+"

// randomString draws n characters from codeCharset using crypto/rand.
func randomString(n int) (string, error) {
	raw := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("generate random string: %w", err)
	}
	out := make([]byte, n)
	for i, b := range raw {
		out[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return string(out), nil
}
