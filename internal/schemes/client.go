// Package schemes asks an LLM (Groq, OpenAI-compatible chat completions) for
// a listing of currently active government agricultural schemes and extracts
// the JSON payload from its reply.
package schemes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/joyal-jij0/pragati/internal/common"
	"github.com/joyal-jij0/pragati/internal/config"
	"github.com/joyal-jij0/pragati/internal/logging"
)

// ErrUnavailable reports that the LLM API could not be reached or refused the
// request.
var ErrUnavailable = errors.New("scheme service unavailable")

// Scheme describes one government scheme in the listing.
type Scheme struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Eligibility        string   `json:"eligibility"`
	RequiredDocuments  []string `json:"requiredDocuments"`
	Forms              string   `json:"forms,omitempty"`
	ApplicationProcess string   `json:"applicationProcess"`
	Helpline           string   `json:"helpline,omitempty"`
	Tracking           string   `json:"tracking,omitempty"`
	URL                string   `json:"url,omitempty"`
}

// Listing is the payload returned to clients.
type Listing struct {
	Schemes []Scheme `json:"schemes"`
}

const systemPrompt = `You are Sahayak AI Assistant. Do not include any explanations, markdown, or extra text. Output a JSON object with a single key "schemes" whose value is a list of scheme objects. Each object has the keys name, description, eligibility, requiredDocuments, forms, applicationProcess, helpline, tracking and url.`

const userPrompt = `Search the web and find the best and currently active government agricultural schemes for Indian farmers.

For each scheme, include:
- Scheme Name
- Description
- Eligibility
- Required Documents
- Forms
- Application Process

Important instructions:
1. Try to list the latest schemes, keep stuff as recent as possible.
2. Include information about where to find forms, how to fill them, where to submit them, etc.
3. Include relevant URLs, contact information, and helpline numbers where applicable.
4. Make the instructions simple enough for farmers with limited technical knowledge to understand.
5. Include information about tracking the application status after submission.`

// jsonBlock matches the first JSON object or array in the reply, tolerating
// surrounding prose or code fences the model may add despite instructions.
var jsonBlock = regexp.MustCompile(`(?s)(\{.*\}|\[.*\])`)

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Client calls the chat-completions endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logger     logging.Logger
}

func NewClient(cfg config.SchemesConfig, logger logging.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		logger:     logger.With("component", "schemes"),
	}
}

// List fetches the scheme listing from the LLM.
func (c *Client) List(ctx context.Context) (*Listing, error) {
	if c.apiKey == "" {
		c.logger.Error(ctx, "groq api key is not configured")
		return nil, common.ErrInternal
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "chat completion request failed", "error", err)
		return nil, ErrUnavailable
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		c.logger.Error(ctx, "chat completion returned failure status", "status", httpResp.StatusCode)
		return nil, ErrUnavailable
	}

	var chat chatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&chat); err != nil {
		c.logger.Error(ctx, "chat completion decode failed", "error", err)
		return nil, ErrUnavailable
	}
	if len(chat.Choices) == 0 {
		c.logger.Error(ctx, "chat completion returned no choices")
		return nil, ErrUnavailable
	}

	listing, err := extractListing(chat.Choices[0].Message.Content)
	if err != nil {
		c.logger.Error(ctx, "scheme listing extraction failed", "error", err)
		return nil, ErrUnavailable
	}
	return listing, nil
}

// extractListing pulls the scheme list out of the model's reply. The reply
// may be the listing object itself, a bare array of schemes, or a single
// scheme object.
func extractListing(content string) (*Listing, error) {
	raw := jsonBlock.FindString(content)
	if raw == "" {
		return nil, errors.New("no JSON object or array found in reply")
	}

	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "[") {
		var schemes []Scheme
		if err := json.Unmarshal([]byte(trimmed), &schemes); err != nil {
			return nil, err
		}
		return &Listing{Schemes: schemes}, nil
	}

	var listing Listing
	if err := json.Unmarshal([]byte(trimmed), &listing); err == nil && listing.Schemes != nil {
		return &listing, nil
	}

	var single Scheme
	if err := json.Unmarshal([]byte(trimmed), &single); err != nil {
		return nil, err
	}
	return &Listing{Schemes: []Scheme{single}}, nil
}
