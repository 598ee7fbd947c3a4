package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		id, err := Generate(PrefixArticle)
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	id, err := Generate(PrefixUser)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(id, "usr-"))
	assert.Len(t, id, len("usr-")+21)
}

func TestValid(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		id     string
		want   bool
	}{
		{"generated id", PrefixArticle, MustGenerate(PrefixArticle), true},
		{"empty", PrefixArticle, "", false},
		{"prefix only", PrefixArticle, "art-", false},
		{"wrong prefix", PrefixArticle, MustGenerate(PrefixUser), false},
		{"too short", PrefixArticle, "art-abc", false},
		{"too long", PrefixArticle, "art-" + strings.Repeat("a", 22), false},
		{"invalid rune", PrefixArticle, "art-" + strings.Repeat("a", 20) + "!", false},
		{"missing separator", PrefixArticle, "art" + strings.Repeat("a", 21), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.prefix, tt.id))
		})
	}
}
