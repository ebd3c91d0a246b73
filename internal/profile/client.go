// Package profile implements the optional professional-profile collaborator.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brandprobe/brandprobe/internal/investigation"
)

const defaultBaseURL = "https://linkedin-data-api.p.rapidapi.com"

// featureFlags are the upstream boolean toggles appended to every lookup.
// All of them are disabled in this deployment.
var featureFlags = []string{
	"includeSkills",
	"includeCertifications",
	"includeHonors",
	"includeVolunteers",
	"includeProjects",
}

// Client fetches one professional-profile record per call. Auth is a
// host/key header pair.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// New constructs a profile client. baseURL is optional and exists for
// proxies/testing.
func New(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Fetch retrieves and normalizes the record for one profile identifier.
func (c *Client) Fetch(ctx context.Context, identifier string) (investigation.ProfileRecord, error) {
	q := url.Values{}
	q.Set("username", identifier)
	for _, flag := range featureFlags {
		q.Set(flag, "false")
	}

	endpoint := c.baseURL + "/?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return investigation.ProfileRecord{}, err
	}
	req.Header.Set("x-rapidapi-host", hostOf(c.baseURL))
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return investigation.ProfileRecord{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return investigation.ProfileRecord{}, err
	}
	if resp.StatusCode/100 != 2 {
		httpErr := investigation.NewHTTPError("profile", resp, body)
		// 403 here means this resource is denied, not that the key is bad.
		if resp.StatusCode == http.StatusForbidden {
			httpErr.Kind = investigation.KindAccessDenied
		}
		return investigation.ProfileRecord{}, httpErr
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return investigation.ProfileRecord{}, fmt.Errorf("parse profile response: %w", err)
	}

	rec := Normalize(raw)
	if rec.ProfileURL == investigation.UnknownField {
		rec.ProfileURL = "https://www.linkedin.com/in/" + identifier
	}
	return rec, nil
}

func hostOf(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return u.Host
}
