package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdeskapp/newsdesk-server/internal/domain"
	domainerrors "github.com/newsdeskapp/newsdesk-server/internal/errors"
)

func TestUserService_Upsert_FirstLogin(t *testing.T) {
	_, _, users, _ := setupTestServices(t)

	created, err := users.Upsert(context.Background(), UpsertUserRequest{
		UID:      "idp-subject-1",
		Email:    "reader@example.com",
		Name:     "Reader",
		PhotoURL: "https://example.com/avatar.png",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, created.Role)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestUserService_Upsert_RefreshesProfileOnly(t *testing.T) {
	testStore, _, users, _ := setupTestServices(t)

	created, err := users.Upsert(context.Background(), UpsertUserRequest{
		UID:   "idp-subject-1",
		Email: "reader@example.com",
		Name:  "Reader",
	})
	require.NoError(t, err)

	// Promote, then log in again with fresh profile data.
	_, err = testStore.Users.Mutate(context.Background(), created.ID, func(u *domain.User) error {
		u.Role = domain.RoleAdmin
		return nil
	})
	require.NoError(t, err)

	refreshed, err := users.Upsert(context.Background(), UpsertUserRequest{
		UID:      "idp-subject-1",
		Email:    "reader@example.com",
		Name:     "Reader Renamed",
		PhotoURL: "https://example.com/new.png",
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, refreshed.ID)
	assert.Equal(t, "Reader Renamed", refreshed.Name)
	assert.Equal(t, "https://example.com/new.png", refreshed.PhotoURL)
	assert.Equal(t, domain.RoleAdmin, refreshed.Role, "upsert must not reset role")
	assert.Equal(t, created.CreatedAt, refreshed.CreatedAt, "upsert must not reset CreatedAt")
}

func TestUserService_Upsert_EmailTakenByOtherAccount(t *testing.T) {
	_, _, users, _ := setupTestServices(t)

	_, err := users.Upsert(context.Background(), UpsertUserRequest{
		UID:   "idp-subject-1",
		Email: "shared@example.com",
	})
	require.NoError(t, err)

	_, err = users.Upsert(context.Background(), UpsertUserRequest{
		UID:   "idp-subject-2",
		Email: "Shared@example.com",
	})
	requireCode(t, err, domainerrors.CodeConflict)
}

func TestUserService_Upsert_Validation(t *testing.T) {
	_, _, users, _ := setupTestServices(t)

	_, err := users.Upsert(context.Background(), UpsertUserRequest{Email: "reader@example.com"})
	requireCode(t, err, domainerrors.CodeValidation)

	_, err = users.Upsert(context.Background(), UpsertUserRequest{UID: "idp-1", Email: "not-an-email"})
	requireCode(t, err, domainerrors.CodeValidation)
}

func TestUserService_GetByUID(t *testing.T) {
	testStore, _, users, _ := setupTestServices(t)
	u := testUser(t, testStore, domain.RoleUser)

	got, err := users.GetByUID(context.Background(), u.UID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.GetByUID(context.Background(), "")
	requireCode(t, err, domainerrors.CodeValidation)

	_, err = users.GetByUID(context.Background(), "unknown-subject")
	requireCode(t, err, domainerrors.CodeNotFound)
}

func TestUserService_List_AdminOnly(t *testing.T) {
	testStore, _, users, _ := setupTestServices(t)
	regular := testUser(t, testStore, domain.RoleUser)
	admin := testUser(t, testStore, domain.RoleAdmin)

	_, err := users.List(context.Background(), regular)
	requireCode(t, err, domainerrors.CodeForbidden)

	all, err := users.List(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestUserService_UpdateRole(t *testing.T) {
	testStore, _, users, _ := setupTestServices(t)
	target := testUser(t, testStore, domain.RoleUser)
	admin := testUser(t, testStore, domain.RoleAdmin)

	_, err := users.UpdateRole(context.Background(), target, target.ID, domain.RoleAdmin)
	requireCode(t, err, domainerrors.CodeForbidden)

	_, err = users.UpdateRole(context.Background(), admin, "bogus", domain.RoleAdmin)
	requireCode(t, err, domainerrors.CodeInvalidIdentifier)

	_, err = users.UpdateRole(context.Background(), admin, target.ID, domain.Role("owner"))
	requireCode(t, err, domainerrors.CodeValidation)

	promoted, err := users.UpdateRole(context.Background(), admin, target.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, promoted.Role)
}

func TestUserService_Delete(t *testing.T) {
	testStore, _, users, _ := setupTestServices(t)
	target := testUser(t, testStore, domain.RoleUser)
	admin := testUser(t, testStore, domain.RoleAdmin)

	_, err := users.Delete(context.Background(), target, admin.ID)
	requireCode(t, err, domainerrors.CodeForbidden)

	_, err = users.Delete(context.Background(), admin, "bogus")
	requireCode(t, err, domainerrors.CodeInvalidIdentifier)

	_, err = users.Delete(context.Background(), admin, admin.ID)
	requireCode(t, err, domainerrors.CodeSelfDeleteDenied)

	deleted, err := users.Delete(context.Background(), admin, target.ID)
	require.NoError(t, err)
	assert.Equal(t, target.UID, deleted.UID)
	assert.Equal(t, target.Email, deleted.Email)

	_, err = users.GetByUID(context.Background(), target.UID)
	requireCode(t, err, domainerrors.CodeNotFound)
}
