// Package service implements the business rules of the platform on top of
// the store: validation, ownership and role authorization, and the article
// approval lifecycle.
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

// trendingLimit is how many articles the trending feed returns.
const trendingLimit = 6

// ArticleService orchestrates article submission, browsing, and moderation.
type ArticleService struct {
	store     *store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewArticleService creates a new article service.
func NewArticleService(store *store.Store, logger *slog.Logger) *ArticleService {
	return &ArticleService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// SubmitArticleRequest contains the fields for submitting an article.
type SubmitArticleRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Image       string   `json:"image" validate:"required,url"`
	Publisher   string   `json:"publisher" validate:"required"`
	Tags        []string `json:"tags" validate:"required,min=1"`
	Description string   `json:"description" validate:"required"`
}

// Submit stores a new article on behalf of author. Submissions always enter
// the lifecycle pending, with zero views and without premium status.
func (s *ArticleService) Submit(ctx context.Context, author *domain.User, req SubmitArticleRequest) (*domain.Article, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	tags := domain.TagSet(req.Tags).Normalized()
	if len(tags) == 0 {
		return nil, domainerrors.Validation("at least one non-empty tag is required")
	}

	articleID, err := id.Generate(id.PrefixArticle)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to generate article id")
	}

	article := &domain.Article{
		ID:          articleID,
		Title:       req.Title,
		Image:       req.Image,
		Publisher:   req.Publisher,
		Tags:        tags,
		Description: req.Description,
		Status:      domain.StatusPending,
		Author:      author.Name,
		AuthorID:    author.UID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.Articles.Create(ctx, article.ID, article); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to store article")
	}

	s.logger.Info("article submitted", "id", article.ID, "author", author.UID, "publisher", article.Publisher)
	return article, nil
}

// PublicList returns approved articles matching the filter, newest first.
func (s *ArticleService) PublicList(ctx context.Context, filter domain.ArticleFilter) ([]*domain.Article, error) {
	return s.store.ListPublicArticles(ctx, filter)
}

// Trending returns the most viewed approved articles.
func (s *ArticleService) Trending(ctx context.Context) ([]*domain.Article, error) {
	return s.store.TrendingArticles(ctx, trendingLimit)
}

// PublicGet returns an approved article and counts the view. The approval
// check and the view increment run in one store transaction, so a pending or
// declined article is never exposed and never accrues views.
func (s *ArticleService) PublicGet(ctx context.Context, articleID string) (*domain.Article, error) {
	if !id.Valid(id.PrefixArticle, articleID) {
		return nil, domainerrors.InvalidIdentifierf("malformed article id: %s", articleID)
	}

	article, err := s.store.Articles.Mutate(ctx, articleID, func(a *domain.Article) error {
		if !a.IsApproved() {
			return domainerrors.NotFound("article not found")
		}
		a.Views++
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("article not found")
	}
	if err != nil {
		return nil, err
	}
	return article, nil
}

// OwnArticles returns every article the caller has submitted, any status,
// newest first.
func (s *ArticleService) OwnArticles(ctx context.Context, caller *domain.User) ([]*domain.Article, error) {
	return s.store.ArticlesByAuthor(ctx, caller.UID)
}

// OwnArticle returns one of the caller's own articles regardless of status.
// Articles owned by someone else read as absent.
func (s *ArticleService) OwnArticle(ctx context.Context, caller *domain.User, articleID string) (*domain.Article, error) {
	if !id.Valid(id.PrefixArticle, articleID) {
		return nil, domainerrors.InvalidIdentifierf("malformed article id: %s", articleID)
	}

	article, err := s.store.Articles.Get(ctx, articleID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("article not found")
	}
	if err != nil {
		return nil, err
	}
	if !article.IsOwnedBy(caller.UID) {
		return nil, domainerrors.NotFound("article not found")
	}
	return article, nil
}

// UpdateArticleRequest contains the editable fields of an article.
type UpdateArticleRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description" validate:"required"`
	Tags        []string `json:"tags" validate:"required,min=1"`
}

// Update replaces an article's editable fields. The ownership and lifecycle
// guards run inside the store transaction that performs the write.
func (s *ArticleService) Update(ctx context.Context, caller *domain.User, articleID string, req UpdateArticleRequest) (*domain.Article, error) {
	if !id.Valid(id.PrefixArticle, articleID) {
		return nil, domainerrors.InvalidIdentifierf("malformed article id: %s", articleID)
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	tags := domain.TagSet(req.Tags).Normalized()
	if len(tags) == 0 {
		return nil, domainerrors.Validation("at least one non-empty tag is required")
	}

	article, err := s.store.Articles.Mutate(ctx, articleID, func(a *domain.Article) error {
		if !a.IsOwnedBy(caller.UID) {
			return domainerrors.NotFound("article not found")
		}
		if !a.Mutable() {
			return domainerrors.Conflict("approved articles cannot be modified")
		}
		a.Title = req.Title
		a.Description = req.Description
		a.Tags = tags
		a.UpdatedAt = time.Now().UTC()
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("article not found")
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("article updated", "id", articleID, "author", caller.UID)
	return article, nil
}

// Delete permanently removes one of the caller's non-approved articles.
func (s *ArticleService) Delete(ctx context.Context, caller *domain.User, articleID string) error {
	if !id.Valid(id.PrefixArticle, articleID) {
		return domainerrors.InvalidIdentifierf("malformed article id: %s", articleID)
	}

	err := s.store.Articles.DeleteWhere(ctx, articleID, func(a *domain.Article) error {
		if !a.IsOwnedBy(caller.UID) {
			return domainerrors.NotFound("article not found")
		}
		if !a.Mutable() {
			return domainerrors.Conflict("approved articles cannot be deleted")
		}
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound("article not found")
	}
	if err != nil {
		return err
	}

	s.logger.Info("article deleted", "id", articleID, "author", caller.UID)
	return nil
}

// ModerateArticleRequest contains the moderation verdict for an article.
type ModerateArticleRequest struct {
	Status        string `json:"status" validate:"required,oneof=approved declined"`
	DeclineReason string `json:"declineReason,omitempty" validate:"omitempty,max=500"`
}

// Moderate sets an article's lifecycle status. Admin only. The decline
// reason is stored only when declining and cleared on approval.
func (s *ArticleService) Moderate(ctx context.Context, caller *domain.User, articleID string, req ModerateArticleRequest) (*domain.Article, error) {
	if !caller.IsAdmin() {
		return nil, domainerrors.Forbidden("moderation requires the admin role")
	}
	if !id.Valid(id.PrefixArticle, articleID) {
		return nil, domainerrors.InvalidIdentifierf("malformed article id: %s", articleID)
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	verdict := domain.Status(req.Status)
	if !domain.ModerationOutcome(verdict) {
		return nil, domainerrors.Validationf("status must be %q or %q", domain.StatusApproved, domain.StatusDeclined)
	}

	article, err := s.store.Articles.Mutate(ctx, articleID, func(a *domain.Article) error {
		a.Status = verdict
		if verdict == domain.StatusDeclined {
			a.DeclineReason = req.DeclineReason
		} else {
			a.DeclineReason = ""
		}
		a.UpdatedAt = time.Now().UTC()
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("article not found")
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("article moderated", "id", articleID, "status", verdict, "moderator", caller.UID)
	return article, nil
}

// Publishers returns the distinct publisher names across approved articles.
func (s *ArticleService) Publishers(ctx context.Context) ([]string, error) {
	return s.store.DistinctPublishers(ctx)
}

// Tags returns the distinct tags across approved articles.
func (s *ArticleService) Tags(ctx context.Context) ([]string, error) {
	return s.store.DistinctTags(ctx)
}
