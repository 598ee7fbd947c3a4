package store

import (
	"context"
	"sort"

	"github.com/newsdeskapp/newsdesk-server/internal/domain"
)

// ListPublicArticles returns approved articles matching the filter,
// newest first.
func (s *Store) ListPublicArticles(ctx context.Context, filter domain.ArticleFilter) ([]*domain.Article, error) {
	articles, err := s.Articles.Find(ctx, func(a *domain.Article) bool {
		return a.IsApproved() && filter.Matches(a)
	})
	if err != nil {
		return nil, err
	}
	sortNewestFirst(articles)
	return articles, nil
}

// TrendingArticles returns up to limit approved articles ranked by views.
func (s *Store) TrendingArticles(ctx context.Context, limit int) ([]*domain.Article, error) {
	articles, err := s.Articles.Find(ctx, func(a *domain.Article) bool {
		return a.IsApproved()
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Views > articles[j].Views
	})
	if len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

// ArticlesByAuthor returns every article submitted by the given author,
// regardless of status, newest first.
func (s *Store) ArticlesByAuthor(ctx context.Context, authorID string) ([]*domain.Article, error) {
	articles, err := s.Articles.Find(ctx, func(a *domain.Article) bool {
		return a.AuthorID == authorID
	})
	if err != nil {
		return nil, err
	}
	sortNewestFirst(articles)
	return articles, nil
}

// AllArticles returns every article in the store, newest first.
// Admin-facing; includes pending and declined submissions.
func (s *Store) AllArticles(ctx context.Context) ([]*domain.Article, error) {
	articles, err := s.Articles.Find(ctx, nil)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(articles)
	return articles, nil
}

// DistinctPublishers returns the unique publisher names across approved
// articles, in first-seen order.
func (s *Store) DistinctPublishers(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var names []string
	for a, err := range s.Articles.List(ctx) {
		if err != nil {
			return nil, err
		}
		if !a.IsApproved() || a.Publisher == "" {
			continue
		}
		if _, ok := seen[a.Publisher]; ok {
			continue
		}
		seen[a.Publisher] = struct{}{}
		names = append(names, a.Publisher)
	}
	return names, nil
}

// DistinctTags returns the unique non-empty tags across approved articles,
// in first-seen order.
func (s *Store) DistinctTags(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var tags []string
	for a, err := range s.Articles.List(ctx) {
		if err != nil {
			return nil, err
		}
		if !a.IsApproved() {
			continue
		}
		for _, tag := range a.Tags {
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// IncrementViews bumps an article's view counter by one. Each increment is
// its own read-modify-write transaction, so concurrent readers never lose
// counts to each other.
func (s *Store) IncrementViews(ctx context.Context, id string) (*domain.Article, error) {
	return s.Articles.Mutate(ctx, id, func(a *domain.Article) error {
		a.Views++
		return nil
	})
}

func sortNewestFirst(articles []*domain.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].CreatedAt.After(articles[j].CreatedAt)
	})
}
