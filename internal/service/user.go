package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/newsdeskapp/newsdesk-server/internal/domain"
	domainerrors "github.com/newsdeskapp/newsdesk-server/internal/errors"
	"github.com/newsdeskapp/newsdesk-server/internal/id"
	"github.com/newsdeskapp/newsdesk-server/internal/store"
	"github.com/newsdeskapp/newsdesk-server/internal/validation"
)

// UserService orchestrates user records and role management.
type UserService struct {
	store     *store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewUserService creates a new user service.
func NewUserService(store *store.Store, logger *slog.Logger) *UserService {
	return &UserService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// UpsertUserRequest contains the profile fields delivered on login.
type UpsertUserRequest struct {
	UID      string `json:"uid" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"omitempty,max=200"`
	PhotoURL string `json:"photoURL" validate:"omitempty,url"`
}

// Upsert records a login: a first login creates the user with the default
// role, later logins refresh the profile fields only. Role and CreatedAt
// never change here.
func (s *UserService) Upsert(ctx context.Context, req UpsertUserRequest) (*domain.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	existing, err := s.store.UserByUID(ctx, req.UID)
	if err == nil {
		return s.refreshProfile(ctx, existing.ID, req)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	recordID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to generate user id")
	}

	user := &domain.User{
		ID:        recordID,
		UID:       req.UID,
		Name:      req.Name,
		Email:     req.Email,
		PhotoURL:  req.PhotoURL,
		Role:      domain.RoleUser,
		CreatedAt: time.Now().UTC(),
	}

	err = s.store.Users.Create(ctx, user.ID, user)
	if errors.Is(err, store.ErrAlreadyExists) {
		// Lost a race with a concurrent first login for the same identity,
		// or the email belongs to another record.
		if existing, lookupErr := s.store.UserByUID(ctx, req.UID); lookupErr == nil {
			return s.refreshProfile(ctx, existing.ID, req)
		}
		return nil, domainerrors.Conflict("email is already registered to another account")
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "id", user.ID, "uid", user.UID)
	return user, nil
}

func (s *UserService) refreshProfile(ctx context.Context, recordID string, req UpsertUserRequest) (*domain.User, error) {
	user, err := s.store.Users.Mutate(ctx, recordID, func(u *domain.User) error {
		u.Name = req.Name
		u.Email = req.Email
		u.PhotoURL = req.PhotoURL
		return nil
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil, domainerrors.Conflict("email is already registered to another account")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByUID returns the user owning the given identity subject.
func (s *UserService) GetByUID(ctx context.Context, uid string) (*domain.User, error) {
	if uid == "" {
		return nil, domainerrors.Validation("uid is required")
	}

	user, err := s.store.UserByUID(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("user not found")
	}
	return user, err
}

// GetByEmail returns the user registered under the given email,
// case-insensitively.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.store.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("user not found")
	}
	return user, err
}

// List returns every user, newest first. Admin only.
func (s *UserService) List(ctx context.Context, caller *domain.User) ([]*domain.User, error) {
	if !caller.IsAdmin() {
		return nil, domainerrors.Forbidden("listing users requires the admin role")
	}
	return s.store.ListUsers(ctx)
}

// UpdateRole changes a user's role by record id. Admin only.
func (s *UserService) UpdateRole(ctx context.Context, caller *domain.User, recordID string, role domain.Role) (*domain.User, error) {
	if !caller.IsAdmin() {
		return nil, domainerrors.Forbidden("changing roles requires the admin role")
	}
	if !id.Valid(id.PrefixUser, recordID) {
		return nil, domainerrors.InvalidIdentifierf("malformed user id: %s", recordID)
	}
	if !domain.ValidRole(role) {
		return nil, domainerrors.Validationf("role must be %q or %q", domain.RoleUser, domain.RoleAdmin)
	}

	user, err := s.store.Users.Mutate(ctx, recordID, func(u *domain.User) error {
		u.Role = role
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("user role updated", "id", recordID, "role", role, "by", caller.UID)
	return user, nil
}

// Delete removes a user record by record id. Admin only; admins cannot
// delete themselves. Returns a summary of the deleted user. The self-delete
// guard runs inside the delete transaction.
func (s *UserService) Delete(ctx context.Context, caller *domain.User, recordID string) (*domain.User, error) {
	if !caller.IsAdmin() {
		return nil, domainerrors.Forbidden("deleting users requires the admin role")
	}
	if !id.Valid(id.PrefixUser, recordID) {
		return nil, domainerrors.InvalidIdentifierf("malformed user id: %s", recordID)
	}

	var deleted domain.User
	err := s.store.Users.DeleteWhere(ctx, recordID, func(u *domain.User) error {
		if u.UID == caller.UID {
			return domainerrors.SelfDeleteDenied("you cannot delete your own account")
		}
		deleted = *u
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("user deleted", "id", recordID, "uid", deleted.UID, "by", caller.UID)
	return &deleted, nil
}
