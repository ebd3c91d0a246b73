package redact_test

import (
	"strings"
	"testing"

	"github.com/brandprobe/brandprobe/pkg/redact"
)

func TestSecrets(t *testing.T) {
	cases := []struct {
		name string
		in   string
		leak string
	}{
		{"bearer token", `request failed: Authorization: Bearer sk-live-abc123`, "sk-live-abc123"},
		{"api key kv", `rejected api_key=secret-value-1`, "secret-value-1"},
		{"rapidapi header", `x-rapidapi-key: rk-998877 was invalid`, "rk-998877"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := redact.Secrets(tc.in)
			if strings.Contains(out, tc.leak) {
				t.Fatalf("secret leaked: %q", out)
			}
			if !strings.Contains(out, "redact") {
				t.Fatalf("expected a redaction marker, got %q", out)
			}
		})
	}
}

func TestSecretsLeavesPlainTextAlone(t *testing.T) {
	in := "connection refused: dial tcp 127.0.0.1:8090"
	if out := redact.Secrets(in); out != in {
		t.Fatalf("plain text altered: %q", out)
	}
}

func TestSecretsEmpty(t *testing.T) {
	if out := redact.Secrets(""); out != "" {
		t.Fatalf("expected empty, got %q", out)
	}
}
