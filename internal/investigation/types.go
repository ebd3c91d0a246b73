// Package investigation holds the core pipeline: the stage model, the
// findings accumulator, and the orchestrator that sequences remote
// collaborators into one investigation run.
package investigation

import (
	"context"
	"strings"
	"time"
)

// DefaultCategory is substituted when the caller leaves the product
// category blank.
const DefaultCategory = "products"

// FindingsKeyTeam is the reserved findings key for profile-derived analysis.
// It is never a stage identifier.
const FindingsKeyTeam = "team-analysis"

// UnknownField is the sentinel written into every ProfileRecord field the
// upstream record did not carry. Downstream consumers never branch on field
// presence, only on this value.
const UnknownField = "Unknown"

// SearchHit is one ranked result from the search collaborator.
type SearchHit struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Enrichment is the optional deep-fetch payload for a stage's top hit.
type Enrichment struct {
	Markdown    string         `json:"markdown"`
	HTML        string         `json:"html"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Analysis is a structured object returned by the language-analysis
// collaborator. It is stored verbatim; the remote is asked, but not
// guaranteed, to honor the shape declared in the prompt.
type Analysis map[string]any

// IsErrorTagged reports whether the analysis is the designated error object
// produced when no JSON could be extracted from the raw response.
func (a Analysis) IsErrorTagged() bool {
	v, ok := a["error"].(bool)
	return ok && v
}

// Bool returns the named field as a bool, false when absent or mistyped.
func (a Analysis) Bool(key string) bool {
	v, _ := a[key].(bool)
	return v
}

// String returns the named field as a string, "" when absent or mistyped.
func (a Analysis) String(key string) string {
	v, _ := a[key].(string)
	return v
}

// StageDescriptor is one fixed investigation sub-task. Descriptors are
// derived once per run and never mutated.
type StageDescriptor struct {
	ID          string
	Title       string
	Query       string
	Description string
	Priority    int
}

// StageResult is the accumulated finding for one stage.
type StageResult struct {
	Stage      string      `json:"stage"`
	Hits       []SearchHit `json:"hits"`
	Enrichment *Enrichment `json:"enrichment,omitempty"`
	Analysis   Analysis    `json:"analysis"`
}

// Position is one past role in a professional profile.
type Position struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Duration string `json:"duration"`
}

// Education is one schooling entry in a professional profile.
type Education struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Field  string `json:"field"`
}

// ProfileRecord is the canonical professional-profile shape. Every field
// defaults to UnknownField rather than being absent.
type ProfileRecord struct {
	FullName       string      `json:"fullName"`
	Headline       string      `json:"headline"`
	Location       string      `json:"location"`
	Summary        string      `json:"summary"`
	CurrentCompany string      `json:"currentCompany"`
	CurrentTitle   string      `json:"currentTitle"`
	Positions      []Position  `json:"positions"`
	Educations     []Education `json:"educations"`
	Skills         []string    `json:"skills"`
	ProfileURL     string      `json:"profileUrl"`
}

// Findings is an insertion-ordered mapping of stage identifiers (plus the
// reserved team key) to stage results. Order matters for rendering, not for
// correctness.
type Findings struct {
	order []string
	byID  map[string]StageResult
}

// NewFindings returns an empty findings mapping.
func NewFindings() *Findings {
	return &Findings{byID: make(map[string]StageResult)}
}

// Put appends a result under its key. Re-putting an existing key replaces the
// value but keeps the original position.
func (f *Findings) Put(key string, res StageResult) {
	if _, ok := f.byID[key]; !ok {
		f.order = append(f.order, key)
	}
	f.byID[key] = res
}

// Get returns the result stored under key.
func (f *Findings) Get(key string) (StageResult, bool) {
	res, ok := f.byID[key]
	return res, ok
}

// Keys returns the keys in insertion order.
func (f *Findings) Keys() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Len returns the number of stored findings.
func (f *Findings) Len() int { return len(f.order) }

// Aggregate is the complete result of one investigation run. It is owned by
// the orchestrator for the duration of the run and returned read-only.
type Aggregate struct {
	Brand      string            `json:"brand"`
	Category   string            `json:"category"`
	Validation Analysis          `json:"validation"`
	Stages     []StageDescriptor `json:"stages"`
	Findings   *Findings         `json:"-"`
	Profiles   []ProfileRecord   `json:"profiles,omitempty"`
	Synthesis  Analysis          `json:"synthesis"`
	StartedAt  time.Time         `json:"startedAt"`
	FinishedAt time.Time         `json:"finishedAt"`
}

// SearchClient issues one query and returns ranked hits.
type SearchClient interface {
	Search(ctx context.Context, query string) ([]SearchHit, error)
}

// Scraper deep-fetches one URL. Safe never fails: any failure is normalized
// to nil so enrichment stays purely additive.
type Scraper interface {
	Safe(ctx context.Context, url string) *Enrichment
}

// ProfileClient fetches one professional-profile record by identifier.
type ProfileClient interface {
	Fetch(ctx context.Context, identifier string) (ProfileRecord, error)
}

// Analyzer is the language-analysis collaborator. All four operations funnel
// through one generate primitive on the remote side; unparseable responses
// surface as error-tagged Analysis objects, never as errors.
type Analyzer interface {
	ValidateInputs(ctx context.Context, brand, category string) (Analysis, error)
	InterpretStage(ctx context.Context, stage StageDescriptor, hits []SearchHit, enrichment *Enrichment) (Analysis, error)
	AnalyzeProfiles(ctx context.Context, brand string, profiles []ProfileRecord) (Analysis, error)
	Synthesize(ctx context.Context, agg *Aggregate) (Analysis, error)
}

// Credentials holds the four opaque tokens, one per remote collaborator.
// Search and Analysis are required; Scrape and Profile are optional and
// their absence selects progressive degradation, not failure.
type Credentials struct {
	Search   string
	Analysis string
	Scrape   string
	Profile  string
}

// Validate enforces the initialization precondition: both required
// credentials present. Optional slots are deliberately not checked.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Search) == "" {
		return &Error{Kind: KindInvalidCredential, Op: "init", Message: "search credential is required"}
	}
	if strings.TrimSpace(c.Analysis) == "" {
		return &Error{Kind: KindInvalidCredential, Op: "init", Message: "analysis credential is required"}
	}
	return nil
}
