package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdeskapp/newsdesk-server/internal/domain"
	domainerrors "github.com/newsdeskapp/newsdesk-server/internal/errors"
	"github.com/newsdeskapp/newsdesk-server/internal/id"
	"github.com/newsdeskapp/newsdesk-server/internal/store"
)

func setupTestServices(t *testing.T) (*store.Store, *ArticleService, *UserService, *PublisherService) {
	t.Helper()

	testStore, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testStore.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return testStore,
		NewArticleService(testStore, logger),
		NewUserService(testStore, logger),
		NewPublisherService(testStore, logger)
}

func testUser(t *testing.T, s *store.Store, role domain.Role) *domain.User {
	t.Helper()

	u := &domain.User{
		ID:        id.MustGenerate(id.PrefixUser),
		UID:       "uid-" + id.MustGenerate(id.PrefixUser),
		Name:      "Test User",
		Email:     id.MustGenerate(id.PrefixUser) + "@example.com",
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.Users.Create(context.Background(), u.ID, u))
	return u
}

func validSubmission() SubmitArticleRequest {
	return SubmitArticleRequest{
		Title:       "City Council Approves New Budget",
		Image:       "https://example.com/budget.jpg",
		Publisher:   "Daily Planet",
		Tags:        []string{"politics", "local"},
		Description: "The council voted 7-2 in favor of the plan.",
	}
}

func TestArticleService_Submit(t *testing.T) {
	testStore, articles, _, _ := setupTestServices(t)
	author := testUser(t, testStore, domain.RoleUser)

	article, err := articles.Submit(context.Background(), author, validSubmission())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, article.Status)
	assert.Equal(t, int64(0), article.Views)
	assert.False(t, article.IsPremium)
	assert.Equal(t, author.Name, article.Author)
	assert.Equal(t, author.UID, article.AuthorID)
	assert.True(t, id.Valid(id.PrefixArticle, article.ID))
}

func TestArticleService_Submit_Validation(t *testing.T) {
	testStore, articles, _, _ := setupTestServices(t)
	author := testUser(t, testStore, domain.RoleUser)

	tests := []struct {
		name   string
		mutate func(*SubmitArticleRequest)
	}{
		{"missing title", func(r *SubmitArticleRequest) { r.Title = "" }},
		{"missing image", func(r *SubmitArticleRequest) { r.Image = "" }},
		{"image not a url", func(r *SubmitArticleRequest) { r.Image = "not-a-url" }},
		{"missing publisher", func(r *SubmitArticleRequest) { r.Publisher = "" }},
		{"missing tags", func(r *SubmitArticleRequest) { r.Tags = nil }},
		{"only blank tags", func(r *SubmitArticleRequest) { r.Tags = []string{"", "  "} }},
		{"missing description", func(r *SubmitArticleRequest) { r.Description = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSubmission()
			tt.mutate(&req)

			_, err := articles.Submit(context.Background(), author, req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
		})
	}
}

func TestArticleService_PublicGet(t *testing.T) {
	testStore, articles, _, _ := setupTestServices(t)
	author := testUser(t, testStore, domain.RoleUser)
	admin := testUser(t, testStore, domain.RoleAdmin)

	article, err := articles.Submit(context.Background(), author, validSubmission())
	require.NoError(t, err)

	// Pending articles are invisible to the public surface.
	_, err = articles.PublicGet(context.Background(), article.ID)
	requireCode(t, err, domainerrors.CodeNotFound)

	_, err = articles.Moderate(context.Background(), admin, article.ID,
		ModerateArticleRequest{Status: "approved"})
	require.NoError(t, err)

	got, err := articles.PublicGet(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)

	got, err = articles.PublicGet(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)
}

func TestArticleService_PublicGet_MalformedID(t *testing.T) {
	_, articles, _, _ := setupTestServices(t)

	_, err := articles.PublicGet(context.Background(), "12345")
	requireCode(t, err, domainerrors.CodeInvalidIdentifier)
}

func TestArticleService_Update_Guards(t *testing.T) {
	testStore, articles, _, _ := setupTestServices(t)
	author := testUser(t, testStore, domain.RoleUser)
	stranger := testUser(t, testStore, domain.RoleUser)
	admin := testUser(t, testStore, domain.RoleAdmin)

	article, err := articles.Submit(context.Background(), author, validSubmission())
	require.NoError(t, err)

	update := UpdateArticleRequest{
		Title:       "Revised Headline",
		Description: "Updated copy.",
		Tags:        []string{"politics"},
	}

	// Not the owner: reads as absent, even though the article exists.
	_, err = articles.Update(context.Background(), stranger, article.ID, update)
	requireCode(t, err, domainerrors.CodeNotFound)

	// Owner may edit while pending.
	updated, err := articles.Update(context.Background(), author, article.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "Revised Headline", updated.Title)
	assert.False(t, updated.UpdatedAt.IsZero())

	_, err = articles.Moderate(context.Background(), admin, article.ID,
		ModerateArticleRequest{Status: "approved"})
	require.NoError(t, err)

	// Approved articles are frozen for their author.
	_, err = articles.Update(context.Background(), author, article.ID, update)
	requireCode(t, err, domainerrors.CodeConflict)
}

func TestArticleService_Delete_Guards(t *testing.T) {
	testStore, articles, _, _ := setupTestServices(t)
	author := testUser(t, testStore, domain.RoleUser)
	stranger := testUser(t, testStore, domain.RoleUser)
	admin := testUser(t, testStore, domain.RoleAdmin)

	article, err := articles.Submit(context.Background(), author, validSubmission())
	require.NoError(t, err)

	err = articles.Delete(context.Background(), stranger, article.ID)
	requireCode(t, err, domainerrors.CodeNotFound)

	_, err = articles.Moderate(context.Background(), admin, article.ID,
		ModerateArticleRequest{Status: "approved"})
	require.NoError(t, err)

	err = articles.Delete(context.Background(), author, article.ID)
	requireCode(t, err, domainerrors.CodeConflict)

	// A fresh pending article deletes cleanly.
	second, err := articles.Submit(context.Background(), author, validSubmission())
	require.NoError(t, err)
	require.NoError(t, articles.Delete(context.Background(), author, second.ID))

	_, err = articles.OwnArticle(context.Background(), author, second.ID)
	requireCode(t, err, domainerrors.CodeNotFound)
}

func TestArticleService_Moderate(t *testing.T) {
	testStore, articles, _, _ := setupTestServices(t)
	author := testUser(t, testStore, domain.RoleUser)
	admin := testUser(t, testStore, domain.RoleAdmin)

	article, err := articles.Submit(context.Background(), author, validSubmission())
	require.NoError(t, err)

	// Non-admins cannot moderate.
	_, err = articles.Moderate(context.Background(), author, article.ID,
		ModerateArticleRequest{Status: "approved"})
	requireCode(t, err, domainerrors.CodeForbidden)

	// Only the two verdicts are accepted.
	_, err = articles.Moderate(context.Background(), admin, article.ID,
		ModerateArticleRequest{Status: "pending"})
	requireCode(t, err, domainerrors.CodeValidation)

	declined, err := articles.Moderate(context.Background(), admin, article.ID,
		ModerateArticleRequest{Status: "declined", DeclineReason: "needs sources"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeclined, declined.Status)
	assert.Equal(t, "needs sources", declined.DeclineReason)

	// Approval clears any stored decline reason.
	approved, err := articles.Moderate(context.Background(), admin, article.ID,
		ModerateArticleRequest{Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)
	assert.Empty(t, approved.DeclineReason)
}

func TestArticleService_OwnArticles(t *testing.T) {
	testStore, articles, _, _ := setupTestServices(t)
	author := testUser(t, testStore, domain.RoleUser)
	other := testUser(t, testStore, domain.RoleUser)

	_, err := articles.Submit(context.Background(), author, validSubmission())
	require.NoError(t, err)
	_, err = articles.Submit(context.Background(), other, validSubmission())
	require.NoError(t, err)

	own, err := articles.OwnArticles(context.Background(), author)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, author.UID, own[0].AuthorID)
}

func requireCode(t *testing.T, err error, code domainerrors.Code) {
	t.Helper()

	require.Error(t, err)
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, code, domainErr.Code)
}
