// Package analysis implements the language-analysis collaborator on top of
// the Gemini API. Four logical operations funnel through one generate
// primitive; responses are free text from which one JSON object is
// extracted best-effort.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/brandprobe/brandprobe/internal/investigation"
	"github.com/brandprobe/brandprobe/pkg/redact"
)

const defaultModel = "gemini-2.0-flash"

// Config configures the analysis client.
type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the API base URL. Useful for proxies/testing.
	BaseURL string
}

// Client calls the generative-language API.
type Client struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

// New constructs an analysis client.
func New(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("analysis api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}

	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(cfg.BaseURL)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &Client{client: client, model: model, log: log}, nil
}

// generate sends one prompt and extracts one JSON object from the response.
// A response with no extractable JSON yields the designated error-tagged
// object carrying the raw text, not an error: downstream code treats missing
// fields as empty, never as a crash.
func (c *Client) generate(ctx context.Context, op, prompt string) (investigation.Analysis, error) {
	resp, err := c.client.Models.GenerateContent(
		ctx,
		c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{CandidateCount: 1},
	)
	if err != nil {
		return nil, classifyErr(op, err)
	}

	raw := resp.Text()
	obj, err := ExtractJSON(raw)
	if err != nil {
		c.log.Warn("analysis response had no parseable JSON, degrading",
			zap.String("op", op),
			zap.Int("response_len", len(raw)),
		)
		return investigation.Analysis{"error": true, "raw": raw}, nil
	}
	return investigation.Analysis(obj), nil
}

// ValidateInputs asks the model whether the inputs identify an investigable
// brand.
func (c *Client) ValidateInputs(ctx context.Context, brand, category string) (investigation.Analysis, error) {
	return c.generate(ctx, "validate", validatePrompt(brand, category))
}

// InterpretStage analyzes one stage's search hits and optional enrichment.
func (c *Client) InterpretStage(ctx context.Context, stage investigation.StageDescriptor, hits []investigation.SearchHit, enrichment *investigation.Enrichment) (investigation.Analysis, error) {
	return c.generate(ctx, "interpret", interpretStagePrompt(stage, hits, enrichment))
}

// AnalyzeProfiles analyzes the retrieved team profiles as a set.
func (c *Client) AnalyzeProfiles(ctx context.Context, brand string, profiles []investigation.ProfileRecord) (investigation.Analysis, error) {
	return c.generate(ctx, "team", analyzeProfilesPrompt(brand, profiles))
}

// Synthesize produces the final synthesis record over all findings.
func (c *Client) Synthesize(ctx context.Context, agg *investigation.Aggregate) (investigation.Analysis, error) {
	return c.generate(ctx, "synthesize", synthesizePrompt(agg))
}

func classifyErr(op string, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		kind := investigation.KindRequestFailed
		if apiErr.Code == 401 || apiErr.Code == 403 {
			kind = investigation.KindInvalidCredential
		}
		return &investigation.Error{
			Kind:       kind,
			Op:         op,
			StatusCode: apiErr.Code,
			Message:    redact.Secrets(apiErr.Message),
		}
	}
	return &investigation.Error{
		Kind:    investigation.KindRequestFailed,
		Op:      op,
		Message: redact.Secrets(err.Error()),
	}
}
