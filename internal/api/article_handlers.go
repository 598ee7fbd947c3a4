package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/newsdeskapp/newsdesk-server/internal/domain"
	"github.com/newsdeskapp/newsdesk-server/internal/service"
)

func (s *Server) registerArticleRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listArticles",
		Method:      http.MethodGet,
		Path:        "/articles",
		Summary:     "List approved articles",
		Description: "Returns approved articles, optionally filtered by title search, publisher, and tags",
		Tags:        []string{"Articles"},
	}, s.handleListArticles)

	huma.Register(s.api, huma.Operation{
		OperationID: "trendingArticles",
		Method:      http.MethodGet,
		Path:        "/articles/trending",
		Summary:     "Trending articles",
		Description: "Returns the most viewed approved articles",
		Tags:        []string{"Articles"},
	}, s.handleTrendingArticles)

	huma.Register(s.api, huma.Operation{
		OperationID: "getArticle",
		Method:      http.MethodGet,
		Path:        "/articles/{id}",
		Summary:     "Get article",
		Description: "Returns an approved article and counts the view",
		Tags:        []string{"Articles"},
	}, s.handleGetArticle)

	huma.Register(s.api, huma.Operation{
		OperationID:   "submitArticle",
		Method:        http.MethodPost,
		Path:          "/articles",
		Summary:       "Submit article",
		Description:   "Submits a new article for moderation",
		Tags:          []string{"Articles"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleSubmitArticle)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateArticle",
		Method:      http.MethodPut,
		Path:        "/articles/{id}",
		Summary:     "Update article",
		Description: "Replaces the editable fields of the caller's non-approved article",
		Tags:        []string{"Articles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateArticle)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteArticle",
		Method:      http.MethodDelete,
		Path:        "/article/{id}",
		Summary:     "Delete article",
		Description: "Permanently deletes the caller's non-approved article",
		Tags:        []string{"Articles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteArticle)

	huma.Register(s.api, huma.Operation{
		OperationID: "moderateArticle",
		Method:      http.MethodPatch,
		Path:        "/articles/{id}/status",
		Summary:     "Moderate article",
		Description: "Approves or declines a submission (admin only)",
		Tags:        []string{"Articles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleModerateArticle)

	huma.Register(s.api, huma.Operation{
		OperationID: "listOwnArticles",
		Method:      http.MethodGet,
		Path:        "/my-articles",
		Summary:     "List own articles",
		Description: "Returns the caller's articles in every lifecycle status",
		Tags:        []string{"Articles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListOwnArticles)

	huma.Register(s.api, huma.Operation{
		OperationID: "getOwnArticle",
		Method:      http.MethodGet,
		Path:        "/my-article/{id}",
		Summary:     "Get own article",
		Description: "Returns one of the caller's articles regardless of status",
		Tags:        []string{"Articles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetOwnArticle)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/tags",
		Summary:     "List tags",
		Description: "Returns the distinct tags across approved articles",
		Tags:        []string{"Articles"},
	}, s.handleListTags)
}

// === DTOs ===

type ArticleResponse struct {
	ID            string    `json:"id" doc:"Article ID"`
	Title         string    `json:"title" doc:"Headline"`
	Image         string    `json:"image" doc:"Cover image URL"`
	Publisher     string    `json:"publisher" doc:"Publisher name"`
	Tags          []string  `json:"tags" doc:"Topic tags"`
	Description   string    `json:"description" doc:"Body text"`
	Status        string    `json:"status" doc:"Lifecycle status: pending, approved, or declined"`
	Author        string    `json:"author" doc:"Author display name"`
	AuthorID      string    `json:"authorId" doc:"Author identity subject"`
	Views         int64     `json:"views" doc:"View counter"`
	IsPremium     bool      `json:"isPremium" doc:"Premium-only flag"`
	DeclineReason string    `json:"declineReason,omitempty" doc:"Reason given when declined"`
	CreatedAt     time.Time `json:"createdAt" doc:"Submission time"`
	UpdatedAt     time.Time `json:"updatedAt,omitzero" doc:"Last edit time"`
}

type ListArticlesInput struct {
	Search    string `query:"search" doc:"Case-insensitive title substring"`
	Publisher string `query:"publisher" doc:"Exact publisher name"`
	Tags      string `query:"tags" doc:"Comma-separated tags, any-of match"`
}

type ArticleListResponse struct {
	Articles []ArticleResponse `json:"articles" doc:"List of articles"`
}

type ArticleListOutput struct {
	Body ArticleListResponse
}

type GetArticleInput struct {
	ID string `path:"id" doc:"Article ID"`
}

type ArticleOutput struct {
	Body ArticleResponse
}

type SubmitArticleRequest struct {
	Title       string   `json:"title,omitempty" doc:"Headline"`
	Image       string   `json:"image,omitempty" doc:"Cover image URL"`
	Publisher   string   `json:"publisher,omitempty" doc:"Publisher name"`
	Tags        []string `json:"tags,omitempty" doc:"Topic tags"`
	Description string   `json:"description,omitempty" doc:"Body text"`
}

type SubmitArticleInput struct {
	Authorization string `header:"Authorization"`
	Body          SubmitArticleRequest
}

type UpdateArticleRequest struct {
	Title       string   `json:"title,omitempty" doc:"Headline"`
	Description string   `json:"description,omitempty" doc:"Body text"`
	Tags        []string `json:"tags,omitempty" doc:"Topic tags"`
}

type UpdateArticleInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Article ID"`
	Body          UpdateArticleRequest
}

type DeleteArticleInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Article ID"`
}

type ModerateArticleRequest struct {
	Status        string `json:"status,omitempty" doc:"Verdict: approved or declined"`
	DeclineReason string `json:"declineReason,omitempty" doc:"Reason, stored when declining"`
}

type ModerateArticleInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Article ID"`
	Body          ModerateArticleRequest
}

type OwnArticlesInput struct {
	Authorization string `header:"Authorization"`
}

type OwnArticleInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Article ID"`
}

type TagListResponse struct {
	Tags []string `json:"tags" doc:"Distinct tags across approved articles"`
}

type TagListOutput struct {
	Body TagListResponse
}

// === Handlers ===

func (s *Server) handleListArticles(ctx context.Context, input *ListArticlesInput) (*ArticleListOutput, error) {
	filter := domain.ParseArticleFilter(input.Search, input.Publisher, input.Tags)

	articles, err := s.services.Article.PublicList(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ArticleListOutput{Body: ArticleListResponse{Articles: mapArticleResponses(articles)}}, nil
}

func (s *Server) handleTrendingArticles(ctx context.Context, _ *struct{}) (*ArticleListOutput, error) {
	articles, err := s.services.Article.Trending(ctx)
	if err != nil {
		return nil, err
	}

	return &ArticleListOutput{Body: ArticleListResponse{Articles: mapArticleResponses(articles)}}, nil
}

func (s *Server) handleGetArticle(ctx context.Context, input *GetArticleInput) (*ArticleOutput, error) {
	article, err := s.services.Article.PublicGet(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ArticleOutput{Body: mapArticleResponse(article)}, nil
}

func (s *Server) handleSubmitArticle(ctx context.Context, input *SubmitArticleInput) (*ArticleOutput, error) {
	caller, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	article, err := s.services.Article.Submit(ctx, caller, service.SubmitArticleRequest{
		Title:       input.Body.Title,
		Image:       input.Body.Image,
		Publisher:   input.Body.Publisher,
		Tags:        input.Body.Tags,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}

	return &ArticleOutput{Body: mapArticleResponse(article)}, nil
}

func (s *Server) handleUpdateArticle(ctx context.Context, input *UpdateArticleInput) (*ArticleOutput, error) {
	caller, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	article, err := s.services.Article.Update(ctx, caller, input.ID, service.UpdateArticleRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Tags:        input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &ArticleOutput{Body: mapArticleResponse(article)}, nil
}

func (s *Server) handleDeleteArticle(ctx context.Context, input *DeleteArticleInput) (*MessageOutput, error) {
	caller, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Article.Delete(ctx, caller, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Article deleted"}}, nil
}

func (s *Server) handleModerateArticle(ctx context.Context, input *ModerateArticleInput) (*ArticleOutput, error) {
	caller, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	article, err := s.services.Article.Moderate(ctx, caller, input.ID, service.ModerateArticleRequest{
		Status:        input.Body.Status,
		DeclineReason: input.Body.DeclineReason,
	})
	if err != nil {
		return nil, err
	}

	return &ArticleOutput{Body: mapArticleResponse(article)}, nil
}

func (s *Server) handleListOwnArticles(ctx context.Context, input *OwnArticlesInput) (*ArticleListOutput, error) {
	caller, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	articles, err := s.services.Article.OwnArticles(ctx, caller)
	if err != nil {
		return nil, err
	}

	return &ArticleListOutput{Body: ArticleListResponse{Articles: mapArticleResponses(articles)}}, nil
}

func (s *Server) handleGetOwnArticle(ctx context.Context, input *OwnArticleInput) (*ArticleOutput, error) {
	caller, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	article, err := s.services.Article.OwnArticle(ctx, caller, input.ID)
	if err != nil {
		return nil, err
	}

	return &ArticleOutput{Body: mapArticleResponse(article)}, nil
}

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*TagListOutput, error) {
	tags, err := s.services.Article.Tags(ctx)
	if err != nil {
		return nil, err
	}

	return &TagListOutput{Body: TagListResponse{Tags: tags}}, nil
}

// === Mappers ===

func mapArticleResponse(a *domain.Article) ArticleResponse {
	return ArticleResponse{
		ID:            a.ID,
		Title:         a.Title,
		Image:         a.Image,
		Publisher:     a.Publisher,
		Tags:          []string(a.Tags),
		Description:   a.Description,
		Status:        string(a.Status),
		Author:        a.Author,
		AuthorID:      a.AuthorID,
		Views:         a.Views,
		IsPremium:     a.IsPremium,
		DeclineReason: a.DeclineReason,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func mapArticleResponses(articles []*domain.Article) []ArticleResponse {
	resp := make([]ArticleResponse, len(articles))
	for i, a := range articles {
		resp[i] = mapArticleResponse(a)
	}
	return resp
}
