package api

import "github.com/newsdeskapp/newsdesk-server/internal/service"

// Services groups the service dependencies handlers reach for.
type Services struct {
	Article   *service.ArticleService
	User      *service.UserService
	Publisher *service.PublisherService
}
