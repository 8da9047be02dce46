package server

import (
	"context"
	"fmt"

	"barangay/pkg/types"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

type IdentityVerifier interface {
	Verify(ctx context.Context, accessToken string) (*types.Identity, error)
}

// JWKSVerifier checks identity-provider tokens against the provider's
// published signing keys.
type JWKSVerifier struct {
	cache      *jwk.Cache
	jwksURL    string
	adminGroup string
}

func NewJWKSVerifier(cache *jwk.Cache, jwksURL, adminGroup string) *JWKSVerifier {
	return &JWKSVerifier{
		cache:      cache,
		jwksURL:    jwksURL,
		adminGroup: adminGroup,
	}
}

func (v *JWKSVerifier) Verify(ctx context.Context, accessToken string) (*types.Identity, error) {
	set, err := v.cache.Lookup(ctx, v.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	token, err := jwt.Parse(
		[]byte(accessToken),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}

	return identityFromToken(token, v.adminGroup)
}

func identityFromToken(token jwt.Token, adminGroup string) (*types.Identity, error) {
	// Use Subject() for the standard "sub" claim
	userID, ok := token.Subject()
	if !ok || userID == "" {
		return nil, fmt.Errorf("no user ID in JWT subject claim")
	}

	identity := &types.Identity{UserID: userID}

	// Cognito access tokens carry "username" rather than "email"
	for _, claim := range []string{"email", "username"} {
		var value string
		if err := token.Get(claim, &value); err == nil && value != "" {
			identity.Email = value
			break
		}
	}

	var groups any
	if err := token.Get("cognito:groups", &groups); err == nil {
		identity.IsAdmin = containsGroup(groups, adminGroup)
	}

	return identity, nil
}

func containsGroup(groups any, want string) bool {
	if want == "" {
		return false
	}

	switch g := groups.(type) {
	case []string:
		for _, group := range g {
			if group == want {
				return true
			}
		}
	case []any:
		for _, group := range g {
			if s, ok := group.(string); ok && s == want {
				return true
			}
		}
	case string:
		return g == want
	}

	return false
}
