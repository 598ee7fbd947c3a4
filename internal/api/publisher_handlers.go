package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/newsdeskapp/newsdesk-server/internal/domain"
)

func (s *Server) registerPublisherRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPublishers",
		Method:      http.MethodGet,
		Path:        "/publishers",
		Summary:     "List publisher names",
		Description: "Returns the distinct publisher names across approved articles",
		Tags:        []string{"Publishers"},
	}, s.handleListPublishers)

	huma.Register(s.api, huma.Operation{
		OperationID: "publisherDirectory",
		Method:      http.MethodGet,
		Path:        "/publishers/directory",
		Summary:     "Publisher directory",
		Description: "Returns the registered publisher records with logos",
		Tags:        []string{"Publishers"},
	}, s.handlePublisherDirectory)
}

// === DTOs ===

type PublisherNamesResponse struct {
	Publishers []string `json:"publishers" doc:"Distinct publisher names"`
}

type PublisherNamesOutput struct {
	Body PublisherNamesResponse
}

type PublisherResponse struct {
	ID        string    `json:"id" doc:"Publisher ID"`
	Name      string    `json:"name" doc:"Publisher name"`
	Logo      string    `json:"logo,omitempty" doc:"Logo URL"`
	CreatedAt time.Time `json:"createdAt" doc:"Registration time"`
}

type PublisherDirectoryResponse struct {
	Publishers []PublisherResponse `json:"publishers" doc:"Registered publishers"`
}

type PublisherDirectoryOutput struct {
	Body PublisherDirectoryResponse
}

// === Handlers ===

func (s *Server) handleListPublishers(ctx context.Context, _ *struct{}) (*PublisherNamesOutput, error) {
	names, err := s.services.Article.Publishers(ctx)
	if err != nil {
		return nil, err
	}

	return &PublisherNamesOutput{Body: PublisherNamesResponse{Publishers: names}}, nil
}

func (s *Server) handlePublisherDirectory(ctx context.Context, _ *struct{}) (*PublisherDirectoryOutput, error) {
	publishers, err := s.services.Publisher.Directory(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]PublisherResponse, len(publishers))
	for i, p := range publishers {
		resp[i] = mapPublisherResponse(p)
	}
	return &PublisherDirectoryOutput{Body: PublisherDirectoryResponse{Publishers: resp}}, nil
}

// === Mappers ===

func mapPublisherResponse(p *domain.Publisher) PublisherResponse {
	return PublisherResponse{
		ID:        p.ID,
		Name:      p.Name,
		Logo:      p.Logo,
		CreatedAt: p.CreatedAt,
	}
}
