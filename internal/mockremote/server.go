// Package mockremote implements minimal mock surfaces for the four remote
// collaborators (search, analysis, scrape, profile). Client tests and the
// mock-services command share these handlers.
package mockremote

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/brandprobe/brandprobe/internal/investigation"
)

// Call records a request made to the mock services.
type Call struct {
	Method string
	Path   string
}

// Server holds mock state for all four services.
type Server struct {
	mu sync.Mutex

	calls []Call

	searchKey  string
	scrapeKey  string
	profileKey string

	hits     []investigation.SearchHit
	markdown string
	profiles map[string]map[string]any

	// analysisQueue holds raw response texts returned in FIFO order; when
	// empty, a canned valid JSON object is returned.
	analysisQueue []string
}

// New constructs a mock server with empty canned state.
func New() *Server {
	return &Server{profiles: make(map[string]map[string]any)}
}

// RequireSearchKey enforces the X-API-KEY header on search requests.
func (s *Server) RequireSearchKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchKey = strings.TrimSpace(key)
}

// RequireScrapeKey enforces bearer auth on scrape requests.
func (s *Server) RequireScrapeKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrapeKey = strings.TrimSpace(key)
}

// RequireProfileKey enforces the x-rapidapi-key header on profile requests.
func (s *Server) RequireProfileKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profileKey = strings.TrimSpace(key)
}

// SetHits installs the canned search response.
func (s *Server) SetHits(hits []investigation.SearchHit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits = hits
}

// SetMarkdown installs the canned scrape payload.
func (s *Server) SetMarkdown(md string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markdown = md
}

// SetProfile installs a canned profile payload for a username.
func (s *Server) SetProfile(username string, payload map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[username] = payload
}

// QueueAnalysisText appends one raw analysis response text. Responses are
// served in FIFO order.
func (s *Server) QueueAnalysisText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysisQueue = append(s.analysisQueue, text)
}

// Calls returns a snapshot of recorded calls.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// Handler returns an http.Handler serving all four mock APIs.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/v1/scrape", s.handleScrape)
	mux.HandleFunc("/v1beta/models/", s.handleAnalysis)
	mux.HandleFunc("/", s.handleProfile)
	return mux
}

func (s *Server) recordCall(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.recordCall(r)
	s.mu.Lock()
	expected := s.searchKey
	hits := s.hits
	s.mu.Unlock()

	if expected != "" && r.Header.Get("X-API-KEY") != expected {
		http.Error(w, `{"message":"Unauthorized."}`, http.StatusForbidden)
		return
	}
	type organicHit struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	}
	out := struct {
		Organic []organicHit `json:"organic"`
	}{}
	for _, h := range hits {
		out.Organic = append(out.Organic, organicHit{Title: h.Title, Link: h.Link, Snippet: h.Snippet})
	}
	writeJSON(w, out)
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	s.recordCall(r)
	s.mu.Lock()
	expected := s.scrapeKey
	md := s.markdown
	s.mu.Unlock()

	if expected != "" && r.Header.Get("Authorization") != "Bearer "+expected {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}
	writeJSON(w, map[string]any{
		"success": true,
		"data": map[string]any{
			"markdown": md,
			"html":     "<html><body>" + md + "</body></html>",
			"metadata": map[string]any{"title": "Mock Page", "description": "mock description"},
		},
	})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	s.recordCall(r)
	if !strings.Contains(r.URL.Path, ":generateContent") {
		http.NotFound(w, r)
		return
	}
	s.mu.Lock()
	text := `{"isValid": true, "summary": "mock", "confidence": "low"}`
	if len(s.analysisQueue) > 0 {
		text = s.analysisQueue[0]
		s.analysisQueue = s.analysisQueue[1:]
	}
	s.mu.Unlock()

	writeJSON(w, map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.recordCall(r)
	s.mu.Lock()
	expected := s.profileKey
	s.mu.Unlock()

	if expected != "" && r.Header.Get("x-rapidapi-key") != expected {
		http.Error(w, `{"message":"Invalid API key"}`, http.StatusUnauthorized)
		return
	}
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	s.mu.Lock()
	payload, ok := s.profiles[username]
	s.mu.Unlock()
	if !ok {
		http.Error(w, fmt.Sprintf(`{"message":"profile %s not found"}`, username), http.StatusNotFound)
		return
	}
	writeJSON(w, payload)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
