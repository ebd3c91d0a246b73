package scrape_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/brandprobe/brandprobe/internal/investigation"
	"github.com/brandprobe/brandprobe/internal/mockremote"
	"github.com/brandprobe/brandprobe/internal/scrape"
)

func TestScrapeReturnsEnrichment(t *testing.T) {
	mock := mockremote.New()
	mock.SetMarkdown("# About Acme\n\nFamily-owned since 2019.")
	srv := httptest.NewServer(mock.Handler())
	defer srv.Close()

	client := scrape.New("key", srv.URL+"/v1/scrape", nil)
	enr, err := client.Scrape(context.Background(), "https://example.com/about")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enr.Markdown != "# About Acme\n\nFamily-owned since 2019." {
		t.Fatalf("unexpected markdown: %q", enr.Markdown)
	}
	if enr.Title != "Mock Page" || enr.Description != "mock description" {
		t.Fatalf("metadata not lifted: %#v", enr)
	}
}

func TestScrapeRejectedTokenIsTyped(t *testing.T) {
	mock := mockremote.New()
	mock.RequireScrapeKey("right-token")
	srv := httptest.NewServer(mock.Handler())
	defer srv.Close()

	client := scrape.New("wrong-token", srv.URL+"/v1/scrape", nil)
	_, err := client.Scrape(context.Background(), "https://example.com")
	if err == nil {
		t.Fatal("expected error for rejected token")
	}
	if investigation.KindOf(err) != investigation.KindInvalidCredential {
		t.Fatalf("expected invalid_credential, got %s", investigation.KindOf(err))
	}
}

func TestSafeNormalizesFailuresToNil(t *testing.T) {
	mock := mockremote.New()
	mock.RequireScrapeKey("right-token")
	srv := httptest.NewServer(mock.Handler())
	defer srv.Close()

	client := scrape.New("wrong-token", srv.URL+"/v1/scrape", nil)
	if enr := client.Safe(context.Background(), "https://example.com"); enr != nil {
		t.Fatalf("Safe must return nil on failure, got %#v", enr)
	}

	// Transport failure normalizes the same way.
	closed := httptest.NewServer(mock.Handler())
	url := closed.URL
	closed.Close()
	client = scrape.New("key", url+"/v1/scrape", nil)
	if enr := client.Safe(context.Background(), "https://example.com"); enr != nil {
		t.Fatalf("Safe must return nil on transport failure, got %#v", enr)
	}
}
