package store

import (
	"context"
	"sort"

	"github.com/newsdeskapp/newsdesk-server/internal/domain"
)

// PublisherByName looks a publisher up by exact name.
func (s *Store) PublisherByName(ctx context.Context, name string) (*domain.Publisher, error) {
	return s.Publishers.GetByIndex(ctx, "name", name)
}

// ListPublishers returns every registered publisher, ordered by name.
func (s *Store) ListPublishers(ctx context.Context) ([]*domain.Publisher, error) {
	publishers, err := s.Publishers.Find(ctx, nil)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(publishers, func(i, j int) bool {
		return publishers[i].Name < publishers[j].Name
	})
	return publishers, nil
}
