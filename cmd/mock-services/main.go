// Command mock-services serves local stand-ins for the four remote
// collaborators so the pipeline can be exercised without real credentials.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/brandprobe/brandprobe/internal/investigation"
	"github.com/brandprobe/brandprobe/internal/mockremote"
)

func main() {
	addr := defaultString("MOCK_SERVICES_ADDR", ":8090")
	searchKey := defaultString("MOCK_SERVICES_SEARCH_KEY", "")
	scrapeKey := defaultString("MOCK_SERVICES_SCRAPE_KEY", "")
	profileKey := defaultString("MOCK_SERVICES_PROFILE_KEY", "")

	fs := flag.NewFlagSet("mock-services", flag.ExitOnError)
	fs.StringVar(&addr, "addr", addr, "Listen address")
	fs.StringVar(&searchKey, "search-key", searchKey, "Required X-API-KEY for /search (empty disables the check)")
	fs.StringVar(&scrapeKey, "scrape-key", scrapeKey, "Required bearer token for /v1/scrape (empty disables the check)")
	fs.StringVar(&profileKey, "profile-key", profileKey, "Required x-rapidapi-key for profile lookups (empty disables the check)")
	_ = fs.Parse(os.Args[1:])

	srv := mockremote.New()
	srv.RequireSearchKey(searchKey)
	srv.RequireScrapeKey(scrapeKey)
	srv.RequireProfileKey(profileKey)
	srv.SetHits([]investigation.SearchHit{
		{Title: "Acme Widgets - Official Site", Link: "https://acmewidgets.example.com/about", Snippet: "Acme Widgets was founded in 2019."},
		{Title: "Acme Widgets on LinkedIn", Link: "https://www.linkedin.com/in/jane-acme", Snippet: "Jane Doe, founder"},
	})
	srv.SetMarkdown("# Acme Widgets\n\nFamily-owned widget maker shipping from Ohio.")
	srv.SetProfile("jane-acme", map[string]any{
		"fullName": "Jane Doe",
		"headline": "Founder at Acme Widgets",
		"location": "Columbus, Ohio",
	})

	_, _ = fmt.Fprintf(os.Stdout, "mock-services listening on %s\n", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func defaultString(envVar string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(envVar))
	if v == "" {
		return fallback
	}
	return v
}
