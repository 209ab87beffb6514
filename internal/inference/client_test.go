package inference

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

func newTestClient(t *testing.T, upstream string) *Client {
	t.Helper()
	cfg := config.InferenceConfig{BaseURL: upstream, Timeout: 5 * time.Second}
	return NewClient(cfg, logging.NewJSONLogger(io.Discard))
}

func TestDetectDisease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/disease-detect", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "http://bucket/img.jpg", req["image_url"])

		fmt.Fprint(w, `{"detections":{"Blight":2,"Healthy":1}}`)
	}))
	defer srv.Close()

	det, err := newTestClient(t, srv.URL).DetectDisease(context.Background(), "http://bucket/img.jpg")
	require.NoError(t, err)
	assert.Equal(t, Detection{"Blight": 2, "Healthy": 1}, det)
}

func TestDetectPest_UsesPestPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pest-detect", r.URL.Path)
		fmt.Fprint(w, `{"detections":{"Aphid":5}}`)
	}))
	defer srv.Close()

	det, err := newTestClient(t, srv.URL).DetectPest(context.Background(), "http://bucket/img.jpg")
	require.NoError(t, err)
	assert.Equal(t, Detection{"Aphid": 5}, det)
}

func TestPredictMarketPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/market-price", r.URL.Path)

		var req MarketPriceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2026-09-01", req.Date)
		assert.Equal(t, "Punjab", req.State)
		assert.Equal(t, "Wheat", req.Commodity)

		fmt.Fprint(w, `{"prediction":2150.5}`)
	}))
	defer srv.Close()

	price, err := newTestClient(t, srv.URL).PredictMarketPrice(context.Background(), MarketPriceRequest{
		Date:      "2026-09-01",
		State:     "Punjab",
		District:  "Ludhiana",
		Commodity: "Wheat",
		Variety:   "Dara",
		Grade:     "FAQ",
	})
	require.NoError(t, err)
	assert.Equal(t, 2150.5, price)
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient(config.InferenceConfig{Timeout: time.Second}, logging.NewJSONLogger(io.Discard))

	_, err := c.DetectDisease(context.Background(), "http://bucket/img.jpg")
	assert.ErrorIs(t, err, common.ErrInternal)
}

func TestClient_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).DetectDisease(context.Background(), "http://bucket/img.jpg")
	assert.ErrorIs(t, err, ErrUnavailable)
}
