package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// fold case-folds s for caseless comparison. A fresh Caser per call; Casers
// may be stateful and must not be shared between goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}

// ArticleFilter narrows a public article listing. The zero value matches
// every article; status gating happens in the store accessor, not here.
type ArticleFilter struct {
	// Search is a case-insensitive substring match on the title.
	Search string
	// Publisher is an exact match on the denormalized publisher name.
	Publisher string
	// Tags matches articles carrying any of the listed tags.
	Tags []string
}

// ParseArticleFilter builds a filter from the raw query parameters of a
// listing request. Tags arrive as a comma-separated list.
func ParseArticleFilter(search, publisher, tags string) ArticleFilter {
	f := ArticleFilter{
		Search:    strings.TrimSpace(search),
		Publisher: strings.TrimSpace(publisher),
	}
	for _, tag := range strings.Split(tags, ",") {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			f.Tags = append(f.Tags, trimmed)
		}
	}
	return f
}

// Matches reports whether the article satisfies every requested criterion.
func (f ArticleFilter) Matches(a *Article) bool {
	if f.Search != "" && !strings.Contains(fold(a.Title), fold(f.Search)) {
		return false
	}
	if f.Publisher != "" && a.Publisher != f.Publisher {
		return false
	}
	if len(f.Tags) > 0 && !a.Tags.ContainsAny(f.Tags) {
		return false
	}
	return true
}
