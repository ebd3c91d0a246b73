package investigation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// maxStageHits caps how many search hits are handed to the analyzer per
	// stage. The raw hit list on the stage result is not capped.
	maxStageHits = 5

	// maxProfileLookups caps the profile fan-out per run.
	maxProfileLookups = 3

	// totalSteps is the number of progress steps reported for a full run.
	totalSteps = 7
)

// ProgressFunc receives (step 1..7, human text) at each stage boundary.
type ProgressFunc func(step int, message string)

// Orchestrator drives one investigation run: a fixed ordered stage sequence
// with strictly sequential remote calls. Stages never run concurrently;
// later prompts lean on the shared brand/category context and the progress
// contract is defined only for a linear step model.
type Orchestrator struct {
	search   SearchClient
	analyzer Analyzer
	scraper  Scraper
	profiles ProfileClient

	limiter    *rate.Limiter
	onProgress ProgressFunc
	log        *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithScraper enables optional content enrichment. Leave unset when no
// enrichment credential is available.
func WithScraper(s Scraper) Option {
	return func(o *Orchestrator) { o.scraper = s }
}

// WithProfileClient enables the optional profile fan-out. Leave unset when
// no profile credential is available.
func WithProfileClient(p ProfileClient) Option {
	return func(o *Orchestrator) { o.profiles = p }
}

// WithProfileRate paces sequential profile lookups at rps requests per
// second. Zero or negative disables pacing.
func WithProfileRate(rps float64) Option {
	return func(o *Orchestrator) {
		if rps > 0 {
			o.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithProgress installs the progress hook.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Orchestrator) { o.onProgress = fn }
}

// WithLogger installs a structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// New builds an orchestrator around the two required collaborators.
func New(search SearchClient, analyzer Analyzer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		search:   search,
		analyzer: analyzer,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) progress(step int, message string) {
	if o.onProgress != nil {
		o.onProgress(step, message)
	}
	o.log.Info("investigation progress",
		zap.Int("step", step),
		zap.Int("of", totalSteps),
		zap.String("message", message),
	)
}

// Run executes one investigation and returns the completed aggregate. Any
// required-collaborator failure aborts the run; no partial aggregate is ever
// returned. Optional-collaborator failures degrade the report instead.
func (o *Orchestrator) Run(ctx context.Context, brand, category string) (*Aggregate, error) {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return nil, &Error{Kind: KindValidationFailed, Op: "run", Message: "brand name is required"}
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}

	agg := &Aggregate{
		Brand:     brand,
		Category:  category,
		Findings:  NewFindings(),
		StartedAt: time.Now(),
	}

	o.progress(1, fmt.Sprintf("Validating %q", brand))
	validation, err := o.analyzer.ValidateInputs(ctx, brand, category)
	if err != nil {
		return nil, err
	}
	agg.Validation = validation
	// Abort only on an explicit false: an error-tagged validation object has
	// no validity flag at all and the run proceeds degraded.
	if valid, ok := validation["isValid"].(bool); ok && !valid {
		return nil, &Error{
			Kind:    KindValidationFailed,
			Op:      "validate",
			Message: validation.String("suggestion"),
		}
	}

	agg.Stages = DeriveStages(brand, category)
	for i, stage := range agg.Stages {
		o.progress(i+2, fmt.Sprintf("Investigating %s", strings.ToLower(stage.Title)))
		result, err := o.runStage(ctx, stage)
		if err != nil {
			return nil, withStage(err, stage.ID)
		}
		agg.Findings.Put(stage.ID, result)
	}

	if o.profiles != nil {
		o.progress(6, "Looking up team profiles")
		if err := o.runProfileLookups(ctx, agg); err != nil {
			return nil, err
		}
	}

	o.progress(7, "Synthesizing final report")
	synthesis, err := o.analyzer.Synthesize(ctx, agg)
	if err != nil {
		return nil, err
	}
	agg.Synthesis = synthesis
	agg.FinishedAt = time.Now()
	return agg, nil
}

func (o *Orchestrator) runStage(ctx context.Context, stage StageDescriptor) (StageResult, error) {
	hits, err := o.search.Search(ctx, stage.Query)
	if err != nil {
		return StageResult{}, err
	}

	var enrichment *Enrichment
	if o.scraper != nil && len(hits) > 0 && Scrapeable(hits[0].Link) {
		enrichment = o.scraper.Safe(ctx, hits[0].Link)
		if enrichment == nil {
			o.log.Warn("enrichment unavailable, continuing without it",
				zap.String("stage", stage.ID),
				zap.String("url", hits[0].Link),
			)
		}
	}

	capped := hits
	if len(capped) > maxStageHits {
		capped = capped[:maxStageHits]
	}
	analysis, err := o.analyzer.InterpretStage(ctx, stage, capped, enrichment)
	if err != nil {
		return StageResult{}, err
	}

	return StageResult{
		Stage:      stage.ID,
		Hits:       hits,
		Enrichment: enrichment,
		Analysis:   analysis,
	}, nil
}

// runProfileLookups scans all stage hits for profile URLs, dedupes them in
// first-seen order, caps the fan-out and fetches each surviving identifier
// sequentially. Lookup failures are logged and skipped.
func (o *Orchestrator) runProfileLookups(ctx context.Context, agg *Aggregate) error {
	identifiers := collectProfileIdentifiers(agg.Findings)
	if len(identifiers) == 0 {
		return nil
	}

	var records []ProfileRecord
	for _, id := range identifiers {
		if o.limiter != nil {
			if err := o.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		record, err := o.profiles.Fetch(ctx, id)
		if err != nil {
			o.log.Warn("profile lookup skipped",
				zap.String("identifier", id),
				zap.Error(err),
			)
			continue
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return nil
	}

	agg.Profiles = records
	analysis, err := o.analyzer.AnalyzeProfiles(ctx, agg.Brand, records)
	if err != nil {
		return err
	}
	agg.Findings.Put(FindingsKeyTeam, StageResult{Stage: FindingsKeyTeam, Analysis: analysis})
	return nil
}

func collectProfileIdentifiers(findings *Findings) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, key := range findings.Keys() {
		result, ok := findings.Get(key)
		if !ok {
			continue
		}
		for _, hit := range result.Hits {
			id, ok := ProfileIdentifier(hit.Link)
			if !ok {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
			if len(out) == maxProfileLookups {
				return out
			}
		}
	}
	return out
}
