// Package inference forwards detection and prediction requests to the
// external model server. The ML runtime itself lives behind an HTTP boundary;
// this client only ships inputs and reshapes outputs.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/joyal-jij0/pragati/internal/common"
	"github.com/joyal-jij0/pragati/internal/config"
	"github.com/joyal-jij0/pragati/internal/logging"
)

// ErrUnavailable reports that the model server could not be reached or
// answered with a failure status.
var ErrUnavailable = errors.New("inference service unavailable")

// Detection maps a detected class name to the number of occurrences in the
// image.
type Detection map[string]int

// MarketPriceRequest carries the features of a price prediction.
type MarketPriceRequest struct {
	Date      string `json:"date" binding:"required"`
	State     string `json:"state" binding:"required"`
	District  string `json:"district" binding:"required"`
	Commodity string `json:"commodity" binding:"required"`
	Variety   string `json:"variety" binding:"required"`
	Grade     string `json:"grade" binding:"required"`
}

// Client talks to the model server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     logging.Logger
}

func NewClient(cfg config.InferenceConfig, logger logging.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		logger:     logger.With("component", "inference"),
	}
}

// DetectDisease runs the crop disease detector against the image at imageURL.
func (c *Client) DetectDisease(ctx context.Context, imageURL string) (Detection, error) {
	return c.detect(ctx, "/disease-detect", imageURL)
}

// DetectPest runs the pest detector against the image at imageURL.
func (c *Client) DetectPest(ctx context.Context, imageURL string) (Detection, error) {
	return c.detect(ctx, "/pest-detect", imageURL)
}

func (c *Client) detect(ctx context.Context, path, imageURL string) (Detection, error) {
	var out struct {
		Detections Detection `json:"detections"`
	}
	if err := c.post(ctx, path, map[string]string{"image_url": imageURL}, &out); err != nil {
		return nil, err
	}
	return out.Detections, nil
}

// PredictMarketPrice forwards the feature payload to the price model and
// returns the predicted price.
func (c *Client) PredictMarketPrice(ctx context.Context, req MarketPriceRequest) (float64, error) {
	var out struct {
		Prediction float64 `json:"prediction"`
	}
	if err := c.post(ctx, "/market-price", req, &out); err != nil {
		return 0, err
	}
	return out.Prediction, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	if c.baseURL == "" {
		c.logger.Error(ctx, "inference base url is not configured")
		return common.ErrInternal
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "inference request failed", "path", path, "error", err)
		return ErrUnavailable
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		c.logger.Error(ctx, "inference returned failure status", "path", path, "status", httpResp.StatusCode)
		return ErrUnavailable
	}

	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		c.logger.Error(ctx, "inference response decode failed", "path", path, "error", err)
		return ErrUnavailable
	}
	return nil
}
