package api

import (
	"context"
	"strings"

	"github.com/newsdeskapp/newsdesk-server/internal/domain"
	domainerrors "github.com/newsdeskapp/newsdesk-server/internal/errors"
)

// authenticateRequest validates the Authorization header against the identity
// provider and resolves the verified subject to a user record.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (*domain.User, error) {
	if authHeader == "" {
		return nil, domainerrors.Unauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, domainerrors.Unauthorized("invalid authorization header format")
	}

	ident, err := s.verifier.Verify(ctx, parts[1])
	if err != nil {
		return nil, domainerrors.InvalidCredentials("invalid or expired credentials")
	}

	user, err := s.services.User.GetByUID(ctx, ident.UID)
	if err != nil {
		// Verified identity with no account yet: they have to log in first.
		return nil, domainerrors.Unauthorized("no account for this identity")
	}

	return user, nil
}
