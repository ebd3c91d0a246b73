// Package search implements the web-search collaborator.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brandprobe/brandprobe/internal/investigation"
)

const defaultBaseURL = "https://google.serper.dev/search"

// Client issues one query per call against the search API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// New constructs a search client. baseURL is optional and exists for
// proxies/testing.
func New(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type searchResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search posts the query and returns the ranked organic hits. Hits are kept
// in relevance order and are not deduplicated. There is no retry: a failed
// search fails the stage.
func (c *Client) Search(ctx context.Context, query string) ([]investigation.SearchHit, error) {
	payload, err := json.Marshal(map[string]string{"q": query})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &investigation.Error{
			Kind:    investigation.KindRequestFailed,
			Op:      "search",
			Message: err.Error(),
		}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		return nil, investigation.NewHTTPError("search", resp, body)
	}

	var out searchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	hits := make([]investigation.SearchHit, 0, len(out.Organic))
	for _, r := range out.Organic {
		hits = append(hits, investigation.SearchHit{Title: r.Title, Link: r.Link, Snippet: r.Snippet})
	}
	return hits, nil
}
