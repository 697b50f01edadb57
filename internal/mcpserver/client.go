package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Config holds the configuration for connecting to the screening API.
type Config struct {
	APIURL      string // Base URL, e.g. "http://localhost:8080"
	AdminSecret string // Optional; needed for rule management tools
	RequestedBy string // Recruiter identity attached to analysis requests
}

// ScreeningClient is a pure HTTP client for the screening API.
type ScreeningClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewScreeningClient creates a new client for the screening API.
func NewScreeningClient(cfg Config) *ScreeningClient {
	return &ScreeningClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// apiError represents an error response from the API.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// doRequest makes an HTTP request to the API and returns the response body.
func (c *ScreeningClient) doRequest(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	u, err := url.Parse(c.cfg.APIURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.cfg.AdminSecret != "" {
		req.Header.Set("X-Admin-Secret", c.cfg.AdminSecret)
	}
	if c.cfg.RequestedBy != "" {
		req.Header.Set("X-Requested-By", c.cfg.RequestedBy)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	return json.RawMessage(respBody), nil
}

// Analyze submits an assembled profile for screening and returns the verdict.
func (c *ScreeningClient) Analyze(ctx context.Context, profile json.RawMessage) (json.RawMessage, error) {
	body := map[string]any{
		"profile":     profile,
		"requestedBy": c.cfg.RequestedBy,
	}
	return c.doRequest(ctx, http.MethodPost, "/api/v1/analyze", nil, body)
}

// GetVerdict fetches a stored verdict by ID.
func (c *ScreeningClient) GetVerdict(ctx context.Context, id string) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/api/v1/verdicts/"+id, nil, nil)
}

// ListVerdicts lists recent verdicts.
func (c *ScreeningClient) ListVerdicts(ctx context.Context, limit int) (json.RawMessage, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return c.doRequest(ctx, http.MethodGet, "/api/v1/verdicts", q, nil)
}

// ListCharacterVerdicts lists the screening history for one character.
func (c *ScreeningClient) ListCharacterVerdicts(ctx context.Context, characterID int64, limit int) (json.RawMessage, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/v1/characters/" + strconv.FormatInt(characterID, 10) + "/verdicts"
	return c.doRequest(ctx, http.MethodGet, path, q, nil)
}

// ListRules lists the operator-defined screening rules.
func (c *ScreeningClient) ListRules(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/api/v1/rules", nil, nil)
}
