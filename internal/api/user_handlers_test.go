package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdeskapp/newsdesk-server/internal/domain"
)

func TestUpsertUser(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/users", map[string]any{
		"uid":   "idp-subject-1",
		"email": "reader@example.com",
		"name":  "Reader",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var user UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &user))
	assert.Equal(t, "user", user.Role)
	assert.Equal(t, "idp-subject-1", user.UID)

	// Second login refreshes the profile, keeps the record.
	resp = ts.api.Post("/users", map[string]any{
		"uid":   "idp-subject-1",
		"email": "reader@example.com",
		"name":  "Reader Renamed",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var again UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &again))
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "Reader Renamed", again.Name)
}

func TestUpsertUser_Validation(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/users", map[string]any{"email": "reader@example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "VALIDATION")
}

func TestListUsers(t *testing.T) {
	ts := setupTestServer(t)
	_, userAuth := ts.login(t, "idp-1", "reader@example.com", domain.RoleUser)
	_, adminAuth := ts.login(t, "idp-2", "admin@example.com", domain.RoleAdmin)

	// Email lookup works for any authenticated caller.
	resp := ts.api.Get("/users?email=admin@example.com", userAuth)
	require.Equal(t, http.StatusOK, resp.Code)
	var list UserListResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Users, 1)
	assert.Equal(t, "idp-2", list.Users[0].UID)

	resp = ts.api.Get("/users?email=nobody@example.com", userAuth)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// Full listing is admin only.
	resp = ts.api.Get("/users", userAuth)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Get("/users", adminAuth)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Len(t, list.Users, 2)
}

func TestGetUserByUID(t *testing.T) {
	ts := setupTestServer(t)
	_, auth := ts.login(t, "idp-1", "reader@example.com", domain.RoleUser)

	resp := ts.api.Get("/users/idp-1", auth)
	require.Equal(t, http.StatusOK, resp.Code)

	var user UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &user))
	assert.Equal(t, "reader@example.com", user.Email)

	resp = ts.api.Get("/users/unknown-subject", auth)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateUserRole(t *testing.T) {
	ts := setupTestServer(t)
	target, userAuth := ts.login(t, "idp-1", "reader@example.com", domain.RoleUser)
	_, adminAuth := ts.login(t, "idp-2", "admin@example.com", domain.RoleAdmin)

	resp := ts.api.Put("/users/"+target.ID+"/role", userAuth,
		map[string]any{"role": "admin"})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Put("/users/"+target.ID+"/role", adminAuth,
		map[string]any{"role": "owner"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Put("/users/"+target.ID+"/role", adminAuth,
		map[string]any{"role": "admin"})
	require.Equal(t, http.StatusOK, resp.Code)

	var user UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &user))
	assert.Equal(t, "admin", user.Role)
}

func TestDeleteUser(t *testing.T) {
	ts := setupTestServer(t)
	target, _ := ts.login(t, "idp-1", "reader@example.com", domain.RoleUser)
	admin, adminAuth := ts.login(t, "idp-2", "admin@example.com", domain.RoleAdmin)

	resp := ts.api.Delete("/users/bogus", adminAuth)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "INVALID_IDENTIFIER")

	resp = ts.api.Delete("/users/"+admin.ID, adminAuth)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "SELF_DELETE_DENIED")

	resp = ts.api.Delete("/users/"+target.ID, adminAuth)
	require.Equal(t, http.StatusOK, resp.Code)

	var deleted DeletedUserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &deleted))
	assert.Equal(t, target.UID, deleted.UID)
	assert.Equal(t, target.Email, deleted.Email)

	resp = ts.api.Get("/users/idp-1", adminAuth)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
