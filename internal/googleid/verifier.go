package googleid

import (
	"context"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/vkravchuk/courseshop/internal/domain"
	"github.com/vkravchuk/courseshop/internal/usecase"
)

const defaultJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

// Verifier validates Google-issued ID tokens against Google's JWKS.
// The key set is auto-cached and refreshed every 15 minutes.
type Verifier struct {
	clientID string
	jwksURL  string
	cache    *jwk.Cache
}

func NewVerifier(ctx context.Context, clientID string) (*Verifier, error) {
	return NewVerifierWithJWKS(ctx, clientID, defaultJWKSURL)
}

func NewVerifierWithJWKS(ctx context.Context, clientID, jwksURL string) (*Verifier, error) {
	cache := jwk.NewCache(ctx)
	if err := cache.Register(jwksURL, jwk.WithMinRefreshInterval(15*time.Minute)); err != nil {
		return nil, fmt.Errorf("jwk cache register: %w", err)
	}
	return &Verifier{
		clientID: clientID,
		jwksURL:  jwksURL,
		cache:    cache,
	}, nil
}

func (v *Verifier) Verify(ctx context.Context, rawIDToken string) (*usecase.GoogleIdentity, error) {
	keySet, err := v.cache.Get(ctx, v.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("fetch google jwks: %w", err)
	}

	tok, err := jwt.Parse([]byte(rawIDToken),
		jwt.WithKeySet(keySet),
		jwt.WithValidate(true),
		jwt.WithAudience(v.clientID),
	)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	// Google issues tokens under either issuer form.
	if iss := tok.Issuer(); iss != "https://accounts.google.com" && iss != "accounts.google.com" {
		return nil, domain.ErrTokenInvalid
	}

	email, ok := tok.Get("email")
	emailStr, isStr := email.(string)
	if !ok || !isStr || emailStr == "" {
		return nil, domain.ErrTokenInvalid
	}

	identity := &usecase.GoogleIdentity{Email: emailStr}
	if name, ok := tok.Get("name"); ok {
		if nameStr, isStr := name.(string); isStr {
			identity.Name = nameStr
		}
	}
	return identity, nil
}
