package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdeskapp/newsdesk-server/internal/service"
)

func TestPublisherDirectory(t *testing.T) {
	ts := setupTestServer(t)

	_, err := ts.services.Publisher.Create(context.Background(), service.CreatePublisherRequest{
		Name: "Daily Planet",
		Logo: "https://example.com/planet.png",
	})
	require.NoError(t, err)

	resp := ts.api.Get("/publishers/directory")
	require.Equal(t, http.StatusOK, resp.Code)

	var directory PublisherDirectoryResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &directory))
	require.Len(t, directory.Publishers, 1)
	assert.Equal(t, "Daily Planet", directory.Publishers[0].Name)
	assert.Equal(t, "https://example.com/planet.png", directory.Publishers[0].Logo)
}

func TestPublisherDirectory_Empty(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/publishers/directory")
	require.Equal(t, http.StatusOK, resp.Code)

	var directory PublisherDirectoryResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &directory))
	assert.Empty(t, directory.Publishers)
}
