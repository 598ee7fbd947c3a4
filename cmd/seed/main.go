// Package main provides a tool to seed a development database.
//
// It registers a couple of publishers, an admin account, and a handful of
// sample articles, then mints a bearer token for manual API testing.
//
// Usage:
//
//	DATA_PATH=~/Newsdesk/data go run ./cmd/seed
//	DATA_PATH=~/Newsdesk/data go run ./cmd/seed --articles=20
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/newsdeskapp/newsdesk-server/internal/domain"
	"github.com/newsdeskapp/newsdesk-server/internal/id"
	"github.com/newsdeskapp/newsdesk-server/internal/identity"
	"github.com/newsdeskapp/newsdesk-server/internal/service"
	"github.com/newsdeskapp/newsdesk-server/internal/store"
)

var articleCount = flag.Int("articles", 8, "Number of sample articles to create")

var samplePublishers = []struct {
	name string
	logo string
}{
	{"Daily Planet", "https://cdn.newsdesk.example/logos/daily-planet.png"},
	{"The Gazette", "https://cdn.newsdesk.example/logos/gazette.png"},
	{"Morning Chronicle", "https://cdn.newsdesk.example/logos/chronicle.png"},
}

var sampleTags = []string{"politics", "business", "sports", "culture", "science", "local"}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Newsdesk/data")
	}

	fmt.Printf("Opening database at: %s\n", dataPath)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := store.New(dataPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	publishers := service.NewPublisherService(s, logger)
	for _, p := range samplePublishers {
		_, err := publishers.Create(ctx, service.CreatePublisherRequest{Name: p.name, Logo: p.logo})
		if err != nil {
			fmt.Printf("Publisher %q: %v (skipping)\n", p.name, err)
			continue
		}
		fmt.Printf("Created publisher %q\n", p.name)
	}

	admin, err := seedAdmin(ctx, s)
	if err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}
	fmt.Printf("Admin user ready: %s (%s)\n", admin.Email, admin.ID)

	if err := seedArticles(ctx, s, admin, *articleCount); err != nil {
		log.Fatalf("Failed to seed articles: %v", err)
	}

	token, err := mintToken(dataPath, admin)
	if err != nil {
		log.Fatalf("Failed to mint token: %v", err)
	}
	fmt.Printf("\nBearer token for %s (valid 24h):\n%s\n", admin.Email, token)
}

func seedAdmin(ctx context.Context, s *store.Store) (*domain.User, error) {
	existing, err := s.UserByUID(ctx, "seed-admin")
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	admin := &domain.User{
		ID:        id.MustGenerate(id.PrefixUser),
		UID:       "seed-admin",
		Name:      "Seed Admin",
		Email:     "admin@newsdesk.local",
		Role:      domain.RoleAdmin,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Users.Create(ctx, admin.ID, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func seedArticles(ctx context.Context, s *store.Store, author *domain.User, count int) error {
	statuses := []domain.Status{domain.StatusApproved, domain.StatusApproved, domain.StatusPending, domain.StatusDeclined}

	for i := range count {
		publisher := samplePublishers[rand.Intn(len(samplePublishers))]
		status := statuses[rand.Intn(len(statuses))]

		article := &domain.Article{
			ID:          id.MustGenerate(id.PrefixArticle),
			Title:       fmt.Sprintf("Sample Story %d: %s Report", i+1, publisher.name),
			Image:       fmt.Sprintf("https://cdn.newsdesk.example/images/sample-%d.jpg", i+1),
			Publisher:   publisher.name,
			Tags:        domain.TagSet{sampleTags[rand.Intn(len(sampleTags))], sampleTags[rand.Intn(len(sampleTags))]}.Normalized(),
			Description: "Seeded article for development and manual testing.",
			Status:      status,
			Author:      author.Name,
			AuthorID:    author.UID,
			Views:       int64(rand.Intn(500)),
			CreatedAt:   time.Now().UTC().Add(-time.Duration(rand.Intn(720)) * time.Hour),
		}
		if status == domain.StatusDeclined {
			article.DeclineReason = "Seeded decline for testing"
		}

		if err := s.Articles.Create(ctx, article.ID, article); err != nil {
			return err
		}
		fmt.Printf("Created article %q [%s]\n", article.Title, article.Status)
	}
	return nil
}

func mintToken(dataPath string, admin *domain.User) (string, error) {
	key, err := identity.LoadOrGenerateKey(dataPath)
	if err != nil {
		return "", err
	}

	tokens, err := identity.NewTokenService(key, 24*time.Hour)
	if err != nil {
		return "", err
	}

	return tokens.Mint(identity.Identity{
		UID:   admin.UID,
		Email: admin.Email,
		Name:  admin.Name,
	})
}
