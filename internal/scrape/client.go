// Package scrape implements the optional content-enrichment collaborator.
package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/brandprobe/brandprobe/internal/investigation"
)

const defaultBaseURL = "https://api.firecrawl.dev/v1/scrape"

// Client deep-fetches a single URL through the scraping API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// New constructs a scrape client. baseURL is optional and exists for
// proxies/testing.
func New(apiKey, baseURL string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

type scrapeRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

type scrapeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Markdown string         `json:"markdown"`
		HTML     string         `json:"html"`
		Metadata map[string]any `json:"metadata"`
	} `json:"data"`
}

// Scrape fetches markdown and HTML renditions of the URL.
func (c *Client) Scrape(ctx context.Context, url string) (*investigation.Enrichment, error) {
	payload, err := json.Marshal(scrapeRequest{URL: url, Formats: []string{"markdown", "html"}})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		return nil, investigation.NewHTTPError("scrape", resp, body)
	}

	var out scrapeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parse scrape response: %w", err)
	}
	if !out.Success {
		return nil, fmt.Errorf("scrape reported failure for %s", url)
	}

	enr := &investigation.Enrichment{
		Markdown: out.Data.Markdown,
		HTML:     out.Data.HTML,
		Metadata: out.Data.Metadata,
	}
	if title, ok := out.Data.Metadata["title"].(string); ok {
		enr.Title = title
	}
	if desc, ok := out.Data.Metadata["description"].(string); ok {
		enr.Description = desc
	}
	return enr, nil
}

// Safe wraps Scrape so that enrichment is purely additive: every failure is
// logged and normalized to nil, never surfaced to the orchestrator.
func (c *Client) Safe(ctx context.Context, url string) *investigation.Enrichment {
	enr, err := c.Scrape(ctx, url)
	if err != nil {
		c.log.Warn("scrape failed, treating as no enrichment",
			zap.String("url", url),
			zap.Error(err),
		)
		return nil
	}
	return enr
}
