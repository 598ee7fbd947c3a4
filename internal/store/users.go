package store

import (
	"context"
	"sort"
	"strings"

	"github.com/newsdeskapp/newsdesk-server/internal/domain"
)

// normalizeEmail lowercases and trims an email for index storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserByUID looks a user up by their identity-provider subject.
func (s *Store) UserByUID(ctx context.Context, uid string) (*domain.User, error) {
	return s.Users.GetByIndex(ctx, "uid", uid)
}

// UserByEmail looks a user up by email, case-insensitively.
func (s *Store) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.Users.GetByIndex(ctx, "email", email)
}

// ListUsers returns every user, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.Users.Find(ctx, nil)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}
