package investigation_test

import (
	"context"
	"strings"
	"testing"

	"github.com/brandprobe/brandprobe/internal/investigation"
)

type stubSearch struct {
	hits    map[string][]investigation.SearchHit
	err     error
	errOn   string
	queries []string
}

func (s *stubSearch) Search(ctx context.Context, query string) ([]investigation.SearchHit, error) {
	s.queries = append(s.queries, query)
	if s.err != nil && (s.errOn == "" || strings.Contains(query, s.errOn)) {
		return nil, s.err
	}
	for key, hits := range s.hits {
		if strings.Contains(query, key) {
			return hits, nil
		}
	}
	return []investigation.SearchHit{
		{Title: "generic", Link: "https://example.com/page", Snippet: "generic result"},
	}, nil
}

type stubAnalyzer struct {
	validation investigation.Analysis

	validateCalls  int
	interpretCalls int
	teamCalls      int
	synthCalls     int

	teamProfiles []investigation.ProfileRecord
}

func (a *stubAnalyzer) ValidateInputs(ctx context.Context, brand, category string) (investigation.Analysis, error) {
	a.validateCalls++
	if a.validation != nil {
		return a.validation, nil
	}
	return investigation.Analysis{"isValid": true, "normalizedBrand": brand}, nil
}

func (a *stubAnalyzer) InterpretStage(ctx context.Context, stage investigation.StageDescriptor, hits []investigation.SearchHit, enrichment *investigation.Enrichment) (investigation.Analysis, error) {
	a.interpretCalls++
	return investigation.Analysis{"summary": "summary of " + stage.ID, "confidence": "medium"}, nil
}

func (a *stubAnalyzer) AnalyzeProfiles(ctx context.Context, brand string, profiles []investigation.ProfileRecord) (investigation.Analysis, error) {
	a.teamCalls++
	a.teamProfiles = profiles
	return investigation.Analysis{"teamSummary": "small founding team"}, nil
}

func (a *stubAnalyzer) Synthesize(ctx context.Context, agg *investigation.Aggregate) (investigation.Analysis, error) {
	a.synthCalls++
	return investigation.Analysis{"verdict": "likely dropshipped", "confidence": "medium"}, nil
}

type stubScraper struct {
	enrichment *investigation.Enrichment
	urls       []string
}

func (s *stubScraper) Safe(ctx context.Context, url string) *investigation.Enrichment {
	s.urls = append(s.urls, url)
	return s.enrichment
}

type stubProfiles struct {
	records map[string]investigation.ProfileRecord
	err     error
	ids     []string
}

func (p *stubProfiles) Fetch(ctx context.Context, identifier string) (investigation.ProfileRecord, error) {
	p.ids = append(p.ids, identifier)
	if p.err != nil {
		return investigation.ProfileRecord{}, p.err
	}
	if rec, ok := p.records[identifier]; ok {
		return rec, nil
	}
	return investigation.ProfileRecord{FullName: identifier}, nil
}

func TestRunRequiresBrand(t *testing.T) {
	orch := investigation.New(&stubSearch{}, &stubAnalyzer{})
	_, err := orch.Run(context.Background(), "   ", "gadgets")
	if err == nil {
		t.Fatal("expected error for blank brand")
	}
	if investigation.KindOf(err) != investigation.KindValidationFailed {
		t.Fatalf("expected validation_failed, got %s", investigation.KindOf(err))
	}
}

func TestRunAbortsOnExplicitInvalidBrand(t *testing.T) {
	search := &stubSearch{}
	analyzer := &stubAnalyzer{validation: investigation.Analysis{
		"isValid":    false,
		"suggestion": "did you mean Acme?",
	}}
	orch := investigation.New(search, analyzer)

	_, err := orch.Run(context.Background(), "Acme", "")
	if err == nil {
		t.Fatal("expected validation abort")
	}
	if investigation.KindOf(err) != investigation.KindValidationFailed {
		t.Fatalf("expected validation_failed, got %s", investigation.KindOf(err))
	}
	if !strings.Contains(err.Error(), "did you mean Acme?") {
		t.Fatalf("expected suggestion in error, got %q", err)
	}
	if len(search.queries) != 0 {
		t.Fatalf("expected zero searches after validation abort, got %d", len(search.queries))
	}
}

func TestRunProceedsOnErrorTaggedValidation(t *testing.T) {
	analyzer := &stubAnalyzer{validation: investigation.Analysis{
		"error": true,
		"raw":   "I could not answer in JSON",
	}}
	orch := investigation.New(&stubSearch{}, analyzer)

	agg, err := orch.Run(context.Background(), "Acme", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agg.Findings.Len() != 4 {
		t.Fatalf("expected 4 findings, got %d", agg.Findings.Len())
	}
	if !agg.Validation.IsErrorTagged() {
		t.Fatal("expected error-tagged validation to be preserved on the aggregate")
	}
}

func TestRunDefaultsCategory(t *testing.T) {
	orch := investigation.New(&stubSearch{}, &stubAnalyzer{})
	agg, err := orch.Run(context.Background(), "Acme", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agg.Category != investigation.DefaultCategory {
		t.Fatalf("expected default category, got %q", agg.Category)
	}
}

func TestRunFullPipeline(t *testing.T) {
	search := &stubSearch{hits: map[string][]investigation.SearchHit{
		"founder": {
			{Title: "Founder profile", Link: "https://www.linkedin.com/in/jane-acme", Snippet: "Jane"},
			{Title: "Press", Link: "https://press.example.com/acme", Snippet: "coverage"},
		},
	}}
	analyzer := &stubAnalyzer{}
	scraper := &stubScraper{enrichment: &investigation.Enrichment{Markdown: "# About"}}
	profiles := &stubProfiles{}

	var steps []int
	orch := investigation.New(search, analyzer,
		investigation.WithScraper(scraper),
		investigation.WithProfileClient(profiles),
		investigation.WithProgress(func(step int, message string) {
			steps = append(steps, step)
		}),
	)

	agg, err := orch.Run(context.Background(), "Acme", "widgets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(search.queries) != 4 {
		t.Fatalf("expected 4 searches, got %d", len(search.queries))
	}
	keys := agg.Findings.Keys()
	want := []string{
		investigation.StageCompanyName,
		investigation.StageFounders,
		investigation.StageImports,
		investigation.StageSourcing,
		investigation.FindingsKeyTeam,
	}
	if len(keys) != len(want) {
		t.Fatalf("expected keys %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected keys %v, got %v", want, keys)
		}
	}
	if agg.Synthesis == nil {
		t.Fatal("expected non-nil synthesis")
	}
	if analyzer.synthCalls != 1 || analyzer.teamCalls != 1 || analyzer.interpretCalls != 4 {
		t.Fatalf("unexpected analyzer call counts: %+v", analyzer)
	}
	if len(profiles.ids) != 1 || profiles.ids[0] != "jane-acme" {
		t.Fatalf("expected one profile lookup for jane-acme, got %v", profiles.ids)
	}
	if agg.FinishedAt.Before(agg.StartedAt) {
		t.Fatal("finish timestamp precedes start")
	}

	wantSteps := []int{1, 2, 3, 4, 5, 6, 7}
	if len(steps) != len(wantSteps) {
		t.Fatalf("expected progress steps %v, got %v", wantSteps, steps)
	}
	for i := range wantSteps {
		if steps[i] != wantSteps[i] {
			t.Fatalf("expected progress steps %v, got %v", wantSteps, steps)
		}
	}
}

func TestRunWithoutOptionalCollaborators(t *testing.T) {
	search := &stubSearch{hits: map[string][]investigation.SearchHit{
		"founder": {{Title: "Founder", Link: "https://www.linkedin.com/in/jane-acme"}},
	}}
	analyzer := &stubAnalyzer{}
	orch := investigation.New(search, analyzer)

	agg, err := orch.Run(context.Background(), "Acme", "widgets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agg.Findings.Len() != 4 {
		t.Fatalf("expected 4 findings without profile client, got %d", agg.Findings.Len())
	}
	if _, ok := agg.Findings.Get(investigation.FindingsKeyTeam); ok {
		t.Fatal("team findings must be absent without a profile client")
	}
	if agg.Synthesis == nil {
		t.Fatal("expected non-nil synthesis")
	}
}

func TestRunNilEnrichmentDoesNotAbort(t *testing.T) {
	scraper := &stubScraper{enrichment: nil}
	orch := investigation.New(&stubSearch{}, &stubAnalyzer{}, investigation.WithScraper(scraper))

	agg, err := orch.Run(context.Background(), "Acme", "widgets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agg.Findings.Len() != 4 {
		t.Fatalf("expected 4 findings, got %d", agg.Findings.Len())
	}
	for _, key := range agg.Findings.Keys() {
		result, _ := agg.Findings.Get(key)
		if result.Enrichment != nil {
			t.Fatalf("expected nil enrichment on %s", key)
		}
	}
	if len(scraper.urls) != 4 {
		t.Fatalf("expected 4 scrape attempts, got %d", len(scraper.urls))
	}
}

func TestRunStageFailureCarriesStage(t *testing.T) {
	search := &stubSearch{
		err:   &investigation.Error{Kind: investigation.KindInvalidCredential, Op: "search", StatusCode: 403},
		errOn: "founder",
	}
	analyzer := &stubAnalyzer{}
	orch := investigation.New(search, analyzer)

	_, err := orch.Run(context.Background(), "Acme", "widgets")
	if err == nil {
		t.Fatal("expected stage failure")
	}
	if investigation.KindOf(err) != investigation.KindInvalidCredential {
		t.Fatalf("expected invalid_credential, got %s", investigation.KindOf(err))
	}
	if !strings.Contains(err.Error(), "stage="+investigation.StageFounders) {
		t.Fatalf("expected stage attribution, got %q", err)
	}
	// Stage one succeeded, stage two failed; no later stage ran and only the
	// first finding was ever accumulated.
	if len(search.queries) != 2 {
		t.Fatalf("expected run to stop at stage two, got %d searches", len(search.queries))
	}
	if analyzer.interpretCalls != 1 {
		t.Fatalf("expected exactly one interpreted stage, got %d", analyzer.interpretCalls)
	}
	if analyzer.synthCalls != 0 {
		t.Fatal("synthesis must not run after an aborting failure")
	}
}

func TestProfileDedupeAndCap(t *testing.T) {
	dup := investigation.SearchHit{Link: "https://www.linkedin.com/in/jane-acme"}
	search := &stubSearch{hits: map[string][]investigation.SearchHit{
		"official": {
			dup,
			{Link: "https://linkedin.com/in/bob-acme"},
		},
		"founder": {
			dup,
			{Link: "https://www.linkedin.com/in/carol-acme"},
			{Link: "https://www.linkedin.com/in/dan-acme"},
		},
	}}
	profiles := &stubProfiles{}
	orch := investigation.New(search, &stubAnalyzer{}, investigation.WithProfileClient(profiles))

	_, err := orch.Run(context.Background(), "Acme", "widgets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"jane-acme", "bob-acme", "carol-acme"}
	if len(profiles.ids) != len(want) {
		t.Fatalf("expected lookups %v, got %v", want, profiles.ids)
	}
	for i := range want {
		if profiles.ids[i] != want[i] {
			t.Fatalf("expected first-seen order %v, got %v", want, profiles.ids)
		}
	}
}

func TestProfileFailuresAreSkipped(t *testing.T) {
	search := &stubSearch{hits: map[string][]investigation.SearchHit{
		"founder": {{Link: "https://www.linkedin.com/in/jane-acme"}},
	}}
	profiles := &stubProfiles{err: &investigation.Error{Kind: investigation.KindNotFound, Op: "profile", StatusCode: 404}}
	analyzer := &stubAnalyzer{}
	orch := investigation.New(search, analyzer, investigation.WithProfileClient(profiles))

	agg, err := orch.Run(context.Background(), "Acme", "widgets")
	if err != nil {
		t.Fatalf("profile lookup failure must not abort the run: %v", err)
	}
	if _, ok := agg.Findings.Get(investigation.FindingsKeyTeam); ok {
		t.Fatal("team findings must be absent when every lookup failed")
	}
	if analyzer.teamCalls != 0 {
		t.Fatalf("expected no team analysis, got %d calls", analyzer.teamCalls)
	}
}
