package investigation

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/brandprobe/brandprobe/pkg/redact"
)

// Kind classifies a run failure. Required-collaborator kinds abort the run;
// optional-collaborator failures are absorbed at the point of use and never
// carry a Kind to the caller.
type Kind string

const (
	// KindValidationFailed means the language-analysis collaborator declared
	// the inputs invalid before any stage ran.
	KindValidationFailed Kind = "validation_failed"
	// KindInvalidCredential means a remote rejected a required credential.
	KindInvalidCredential Kind = "invalid_credential"
	// KindAccessDenied means a remote refused access to a specific resource.
	KindAccessDenied Kind = "access_denied"
	// KindNotFound means the requested record does not exist upstream.
	KindNotFound Kind = "not_found"
	// KindRequestFailed covers transport failures and other non-2xx statuses.
	KindRequestFailed Kind = "request_failed"
)

// Error is the typed failure surfaced by clients and the orchestrator.
// Stage is set by the orchestrator when the failure is attributable to one
// stage of the run.
type Error struct {
	Kind       Kind
	Op         string
	Stage      string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e == nil {
		return "investigation error"
	}
	parts := []string{fmt.Sprintf("%s: op=%s", e.Kind, e.Op)}
	if e.Stage != "" {
		parts = append(parts, "stage="+e.Stage)
	}
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	if strings.TrimSpace(e.Message) != "" {
		parts = append(parts, strings.TrimSpace(e.Message))
	}
	return strings.Join(parts, " ")
}

// KindOf returns the kind carried by err, or KindRequestFailed for untyped
// errors so callers always have something renderable.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindRequestFailed
}

// withStage stamps the originating stage onto a typed error, wrapping
// untyped errors into a RequestFailed carrying the stage.
func withStage(err error, stage string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		stamped := *e
		stamped.Stage = stage
		return &stamped
	}
	return &Error{Kind: KindRequestFailed, Op: "stage", Stage: stage, Message: redact.Secrets(err.Error())}
}

// NewHTTPError builds a typed error from a non-2xx response. Bodies are
// redacted and truncated: they can carry tokens or PII.
func NewHTTPError(op string, resp *http.Response, body []byte) *Error {
	e := &Error{Op: op, Kind: KindRequestFailed}
	if resp != nil {
		e.StatusCode = resp.StatusCode
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			e.Kind = KindInvalidCredential
		case http.StatusForbidden:
			// Search and analysis backends signal a rejected key with 403;
			// the profile backend uses 403 for per-resource denial and the
			// profile client overrides the kind itself.
			e.Kind = KindInvalidCredential
		case http.StatusNotFound:
			e.Kind = KindNotFound
		}
	}
	e.Message = snippet(body)
	return e
}

func snippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	const max = 256
	b := body
	if len(b) > max {
		b = b[:max]
	}
	s := redact.Secrets(string(b))
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)
	if s != "" && len(body) > max {
		s += "..."
	}
	return s
}
