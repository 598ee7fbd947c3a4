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

// PublisherService manages the publisher directory.
type PublisherService struct {
	store     *store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewPublisherService creates a new publisher service.
func NewPublisherService(store *store.Store, logger *slog.Logger) *PublisherService {
	return &PublisherService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// Directory returns every registered publisher, ordered by name.
func (s *PublisherService) Directory(ctx context.Context) ([]*domain.Publisher, error) {
	return s.store.ListPublishers(ctx)
}

// CreatePublisherRequest contains the fields for registering a publisher.
// Used by the seed tool; there is no HTTP route for publisher creation.
type CreatePublisherRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	Logo string `json:"logo" validate:"omitempty,url"`
}

// Create registers a publisher, skipping names already present.
func (s *PublisherService) Create(ctx context.Context, req CreatePublisherRequest) (*domain.Publisher, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	publisherID, err := id.Generate(id.PrefixPublisher)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to generate publisher id")
	}

	publisher := &domain.Publisher{
		ID:        publisherID,
		Name:      req.Name,
		Logo:      req.Logo,
		CreatedAt: time.Now().UTC(),
	}

	err = s.store.Publishers.Create(ctx, publisher.ID, publisher)
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil, domainerrors.Conflict("publisher name is already registered")
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("publisher registered", "id", publisher.ID, "name", publisher.Name)
	return publisher, nil
}
