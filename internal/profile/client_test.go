package profile_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brandprobe/brandprobe/internal/investigation"
	"github.com/brandprobe/brandprobe/internal/mockremote"
	"github.com/brandprobe/brandprobe/internal/profile"
)

func TestFetchNormalizesRecord(t *testing.T) {
	mock := mockremote.New()
	mock.SetProfile("jane-acme", map[string]any{
		"fullName": "Jane Doe",
		"headline": "Founder at Acme",
		"location": "Columbus, Ohio",
	})
	srv := httptest.NewServer(mock.Handler())
	defer srv.Close()

	client := profile.New("key", srv.URL)
	rec, err := client.Fetch(context.Background(), "jane-acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.FullName != "Jane Doe" || rec.Headline != "Founder at Acme" {
		t.Fatalf("unexpected record: %#v", rec)
	}
	if rec.Summary != investigation.UnknownField {
		t.Fatalf("missing field must be the sentinel, got %q", rec.Summary)
	}
	if rec.ProfileURL != "https://www.linkedin.com/in/jane-acme" {
		t.Fatalf("profile URL not defaulted from identifier: %q", rec.ProfileURL)
	}
}

func TestFetchUnknownUsernameIsNotFound(t *testing.T) {
	srv := httptest.NewServer(mockremote.New().Handler())
	defer srv.Close()

	client := profile.New("key", srv.URL)
	_, err := client.Fetch(context.Background(), "nobody")
	if err == nil {
		t.Fatal("expected error for unknown username")
	}
	if investigation.KindOf(err) != investigation.KindNotFound {
		t.Fatalf("expected not_found, got %s", investigation.KindOf(err))
	}
}

func TestFetchRejectedKey(t *testing.T) {
	mock := mockremote.New()
	mock.RequireProfileKey("right-key")
	srv := httptest.NewServer(mock.Handler())
	defer srv.Close()

	client := profile.New("wrong-key", srv.URL)
	_, err := client.Fetch(context.Background(), "jane-acme")
	if err == nil {
		t.Fatal("expected error for rejected key")
	}
	if investigation.KindOf(err) != investigation.KindInvalidCredential {
		t.Fatalf("expected invalid_credential, got %s", investigation.KindOf(err))
	}
}

func TestFetchForbiddenMeansAccessDenied(t *testing.T) {
	// Unlike the other backends, 403 on a profile lookup is a per-resource
	// denial, not a bad key.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"This profile cannot be accessed"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	client := profile.New("key", srv.URL)
	_, err := client.Fetch(context.Background(), "private-person")
	if err == nil {
		t.Fatal("expected error")
	}
	if investigation.KindOf(err) != investigation.KindAccessDenied {
		t.Fatalf("expected access_denied, got %s", investigation.KindOf(err))
	}
}
