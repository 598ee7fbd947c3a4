// Package identity verifies bearer credentials issued by the platform's
// identity provider and exposes the verified identity to request handlers.
package identity

import (
	"context"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/newsdeskapp/newsdesk-server/internal/id"
)

const (
	tokenIssuer   = "newsdesk-identity"
	tokenAudience = "newsdesk-server"

	// PASETO v4 symmetric key requirements.
	keyBytesSize = 32 // 256 bits
)

// Identity is the verified (subject, email) pair attached to a request after
// a successful credential check.
type Identity struct {
	UID   string
	Email string
	Name  string
}

// Verifier exchanges an opaque bearer credential for a verified identity.
// The rest of the service depends only on this interface.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// TokenService verifies PASETO v4.local tokens minted by the identity
// provider with a shared symmetric key. It also mints tokens, which only
// cmd/seed and tests use.
type TokenService struct {
	symmetricKey  paseto.V4SymmetricKey
	tokenDuration time.Duration
}

// NewTokenService creates a token service from the shared 32-byte key.
func NewTokenService(key []byte, tokenDuration time.Duration) (*TokenService, error) {
	if len(key) != keyBytesSize {
		return nil, fmt.Errorf("identity key must be exactly %d bytes, got %d", keyBytesSize, len(key))
	}

	symmetricKey, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("create PASETO symmetric key: %w", err)
	}

	return &TokenService{
		symmetricKey:  symmetricKey,
		tokenDuration: tokenDuration,
	}, nil
}

// Verify implements Verifier. The credential is opaque to callers; any parse,
// signature, or claim failure is a single verification failure with no retry.
func (s *TokenService) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	subject, err := token.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("token missing subject: %w", err)
	}

	ident := &Identity{UID: subject}
	// Email and name are provider-populated custom claims. Absence is not a
	// verification failure; upsert-on-login validates what it needs.
	_ = token.Get("email", &ident.Email)
	_ = token.Get("name", &ident.Name)

	return ident, nil
}

// Mint creates a credential for the given identity, signed with the shared
// key. In production the identity provider does this; the service only ever
// verifies. Used by cmd/seed and tests.
func (s *TokenService) Mint(ident Identity) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(ident.UID)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.tokenDuration))

	tokenID, err := id.Generate("token")
	if err != nil {
		return "", fmt.Errorf("generate token ID: %w", err)
	}
	token.SetJti(tokenID)

	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("email", ident.Email)
	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("name", ident.Name)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}
