package remote

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

	"github.com/sirupsen/logrus"
)

// Client talks to the hosted search API. All methods take a context so the
// search service can supersede in-flight calls.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(baseURL, apiKey string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Search(ctx context.Context, query, scope string, limit int, cursor string) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("scope", scope)
	params.Set("limit", strconv.Itoa(limit))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	var response SearchResponse
	err := c.makeRequest(ctx, "GET", "/search?"+params.Encode(), nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *Client) Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	var response SuggestResponse
	err := c.makeRequest(ctx, "GET", "/search/suggest?"+params.Encode(), nil, &response)
	if err != nil {
		return nil, err
	}
	return response.Suggestions, nil
}

func (c *Client) RebuildIndex(ctx context.Context, scope string) error {
	return c.makeRequest(ctx, "POST", "/search/index/rebuild", RebuildRequest{Scope: scope}, nil)
}

func (c *Client) ReindexDocument(ctx context.Context, docID string) error {
	return c.makeRequest(ctx, "POST", "/search/index/doc/"+url.PathEscape(docID), nil, nil)
}

// Probe issues a bare GET against one endpoint of the reachability chain.
// Any 2xx/3xx counts as reachable.
func (c *Client) Probe(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create probe request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("probe returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) makeRequest(ctx context.Context, method, endpoint string, payload interface{}, result interface{}) error {
	reqURL := c.baseURL + endpoint

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"url":      reqURL,
		"has_body": payload != nil,
	}).Debug("Making search API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"status_code":   resp.StatusCode,
		"method":        method,
		"url":           reqURL,
		"response_size": len(responseBody),
	}).Debug("Search API response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(responseBody))
	}

	if result != nil && len(responseBody) > 0 {
		if err := json.Unmarshal(responseBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
