package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/newsdeskapp/newsdesk-server/internal/domain"
	"github.com/newsdeskapp/newsdesk-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "upsertUser",
		Method:      http.MethodPost,
		Path:        "/users",
		Summary:     "Record login",
		Description: "Creates the user on first login, refreshes profile fields on later logins",
		Tags:        []string{"Users"},
	}, s.handleUpsertUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List users",
		Description: "With ?email= returns that user; without, returns all users (admin only)",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserByUID",
		Method:      http.MethodGet,
		Path:        "/users/{uid}",
		Summary:     "Get user",
		Description: "Returns the user owning the given identity subject",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetUserByUID)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateUserRole",
		Method:      http.MethodPut,
		Path:        "/users/{id}/role",
		Summary:     "Update user role",
		Description: "Changes a user's role (admin only)",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateUserRole)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteUser",
		Method:      http.MethodDelete,
		Path:        "/users/{id}",
		Summary:     "Delete user",
		Description: "Removes a user record (admin only, never your own)",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteUser)
}

// === DTOs ===

type UserResponse struct {
	ID           string     `json:"id" doc:"User record ID"`
	UID          string     `json:"uid" doc:"Identity provider subject"`
	Name         string     `json:"name,omitempty" doc:"Display name"`
	Email        string     `json:"email" doc:"Email address"`
	PhotoURL     string     `json:"photoURL,omitempty" doc:"Avatar URL"`
	Role         string     `json:"role" doc:"Role: user or admin"`
	PremiumTaken *time.Time `json:"premiumTaken,omitempty" doc:"When a premium subscription was taken"`
	CreatedAt    time.Time  `json:"createdAt" doc:"First login time"`
}

type UpsertUserRequest struct {
	UID      string `json:"uid,omitempty" doc:"Identity provider subject"`
	Email    string `json:"email,omitempty" doc:"Email address"`
	Name     string `json:"name,omitempty" doc:"Display name"`
	PhotoURL string `json:"photoURL,omitempty" doc:"Avatar URL"`
}

type UpsertUserInput struct {
	Body UpsertUserRequest
}

type UserOutput struct {
	Body UserResponse
}

type ListUsersInput struct {
	Authorization string `header:"Authorization"`
	Email         string `query:"email" doc:"Look a single user up by email"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users" doc:"List of users"`
}

type UserListOutput struct {
	Body UserListResponse
}

type GetUserByUIDInput struct {
	Authorization string `header:"Authorization"`
	UID           string `path:"uid" doc:"Identity provider subject"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role,omitempty" doc:"New role: user or admin"`
}

type UpdateUserRoleInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User record ID"`
	Body          UpdateUserRoleRequest
}

type DeleteUserInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User record ID"`
}

// DeletedUserResponse summarizes the removed record.
type DeletedUserResponse struct {
	ID    string `json:"id" doc:"User record ID"`
	UID   string `json:"uid" doc:"Identity provider subject"`
	Email string `json:"email" doc:"Email address"`
	Name  string `json:"name,omitempty" doc:"Display name"`
}

type DeletedUserOutput struct {
	Body DeletedUserResponse
}

// === Handlers ===

func (s *Server) handleUpsertUser(ctx context.Context, input *UpsertUserInput) (*UserOutput, error) {
	user, err := s.services.User.Upsert(ctx, service.UpsertUserRequest{
		UID:      input.Body.UID,
		Email:    input.Body.Email,
		Name:     input.Body.Name,
		PhotoURL: input.Body.PhotoURL,
	})
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleListUsers(ctx context.Context, input *ListUsersInput) (*UserListOutput, error) {
	caller, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	// Email lookup is open to any authenticated caller; the full listing
	// is admin only.
	if input.Email != "" {
		user, err := s.services.User.GetByEmail(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		return &UserListOutput{Body: UserListResponse{Users: []UserResponse{mapUserResponse(user)}}}, nil
	}

	users, err := s.services.User.List(ctx, caller)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapUserResponse(u)
	}
	return &UserListOutput{Body: UserListResponse{Users: resp}}, nil
}

func (s *Server) handleGetUserByUID(ctx context.Context, input *GetUserByUIDInput) (*UserOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	user, err := s.services.User.GetByUID(ctx, input.UID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleUpdateUserRole(ctx context.Context, input *UpdateUserRoleInput) (*UserOutput, error) {
	caller, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.UpdateRole(ctx, caller, input.ID, domain.Role(input.Body.Role))
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleDeleteUser(ctx context.Context, input *DeleteUserInput) (*DeletedUserOutput, error) {
	caller, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	deleted, err := s.services.User.Delete(ctx, caller, input.ID)
	if err != nil {
		return nil, err
	}

	return &DeletedUserOutput{Body: DeletedUserResponse{
		ID:    deleted.ID,
		UID:   deleted.UID,
		Email: deleted.Email,
		Name:  deleted.Name,
	}}, nil
}

// === Mappers ===

func mapUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		UID:          u.UID,
		Name:         u.Name,
		Email:        u.Email,
		PhotoURL:     u.PhotoURL,
		Role:         string(u.Role),
		PremiumTaken: u.PremiumTaken,
		CreatedAt:    u.CreatedAt,
	}
}
