package schemes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyal-jij0/pragati/internal/common"
	"github.com/joyal-jij0/pragati/internal/config"
	"github.com/joyal-jij0/pragati/internal/logging"
)

func chatReply(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

const listingJSON = `{"schemes":[{"name":"Kisan Credit Card Scheme","description":"Provides easy credit to farmers.","eligibility":"Farmers with land records and Aadhaar","requiredDocuments":["Aadhaar","land records"],"applicationProcess":"Apply through local bank branches."}]}`

func newTestClient(t *testing.T, upstream string) *Client {
	t.Helper()
	cfg := config.SchemesConfig{
		APIKey:  "test-key",
		BaseURL: upstream,
		Model:   "compound-beta",
		Timeout: 5 * time.Second,
	}
	return NewClient(cfg, logging.NewJSONLogger(io.Discard))
}

func TestList_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "compound-beta", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		fmt.Fprint(w, chatReply(listingJSON))
	}))
	defer srv.Close()

	listing, err := newTestClient(t, srv.URL).List(context.Background())
	require.NoError(t, err)
	require.Len(t, listing.Schemes, 1)
	assert.Equal(t, "Kisan Credit Card Scheme", listing.Schemes[0].Name)
	assert.Equal(t, []string{"Aadhaar", "land records"}, listing.Schemes[0].RequiredDocuments)
}

func TestList_StripsProseAndFences(t *testing.T) {
	content := "Here you go:\n```json\n" + listingJSON + "\n```\nHope this helps!"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatReply(content))
	}))
	defer srv.Close()

	listing, err := newTestClient(t, srv.URL).List(context.Background())
	require.NoError(t, err)
	require.Len(t, listing.Schemes, 1)
}

func TestList_MissingAPIKey(t *testing.T) {
	cfg := config.SchemesConfig{BaseURL: "http://unused.invalid", Timeout: time.Second}
	c := NewClient(cfg, logging.NewJSONLogger(io.Discard))

	_, err := c.List(context.Background())
	assert.ErrorIs(t, err, common.ErrInternal)
}

func TestList_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).List(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestExtractListing(t *testing.T) {
	t.Parallel()

	t.Run("bare array", func(t *testing.T) {
		listing, err := extractListing(`[{"name":"A","description":"d","eligibility":"e","requiredDocuments":[],"applicationProcess":"p"}]`)
		require.NoError(t, err)
		require.Len(t, listing.Schemes, 1)
		assert.Equal(t, "A", listing.Schemes[0].Name)
	})

	t.Run("single object wrapped", func(t *testing.T) {
		listing, err := extractListing(`{"name":"A","description":"d","eligibility":"e","requiredDocuments":[],"applicationProcess":"p"}`)
		require.NoError(t, err)
		require.Len(t, listing.Schemes, 1)
	})

	t.Run("no json", func(t *testing.T) {
		_, err := extractListing("sorry, I cannot help with that")
		require.Error(t, err)
	})
}
