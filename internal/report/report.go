// Package report renders a completed investigation aggregate for humans.
// It is the presentation boundary: it only reads the aggregate, never
// mutates it.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/brandprobe/brandprobe/internal/investigation"
)

// Section is one rendered stage of the report.
type Section struct {
	Title       string
	Summary     string
	KeyFacts    []string
	Sources     []string
	Enriched    bool
	Degraded    bool
	RawFallback string
}

// View is the renderable shape of an aggregate. Sections appear in stage
// order; optional sections are present but marked unavailable rather than
// omitted.
type View struct {
	Brand    string
	Category string
	Duration string

	Sections []Section

	TeamAvailable bool
	TeamSummary   string
	People        []string

	Verdict           string
	Overview          string
	LikelyOrigin      string
	RedFlags          []string
	Confidence        string
	SynthesisDegraded bool
}

// BuildView flattens an aggregate into the renderable view.
func BuildView(agg *investigation.Aggregate) View {
	v := View{
		Brand:    agg.Brand,
		Category: agg.Category,
		Duration: agg.FinishedAt.Sub(agg.StartedAt).Round(time.Second).String(),
	}

	for _, stage := range agg.Stages {
		result, ok := agg.Findings.Get(stage.ID)
		if !ok {
			continue
		}
		section := Section{
			Title:    stage.Title,
			Enriched: result.Enrichment != nil,
		}
		if result.Analysis.IsErrorTagged() {
			section.Degraded = true
			section.RawFallback = result.Analysis.String("raw")
		} else {
			section.Summary = result.Analysis.String("summary")
			section.KeyFacts = stringList(result.Analysis["keyFacts"])
		}
		for _, hit := range result.Hits {
			section.Sources = append(section.Sources, hit.Link)
		}
		v.Sections = append(v.Sections, section)
	}

	if team, ok := agg.Findings.Get(investigation.FindingsKeyTeam); ok && !team.Analysis.IsErrorTagged() {
		v.TeamAvailable = true
		v.TeamSummary = team.Analysis.String("teamSummary")
		if people, ok := team.Analysis["people"].([]any); ok {
			for _, p := range people {
				entry, ok := p.(map[string]any)
				if !ok {
					continue
				}
				name, _ := entry["name"].(string)
				role, _ := entry["role"].(string)
				line := strings.TrimSpace(name)
				if strings.TrimSpace(role) != "" {
					line += " (" + strings.TrimSpace(role) + ")"
				}
				v.People = append(v.People, line)
			}
		}
	}

	if agg.Synthesis.IsErrorTagged() {
		v.SynthesisDegraded = true
	} else {
		v.Verdict = agg.Synthesis.String("verdict")
		v.Overview = agg.Synthesis.String("overview")
		v.LikelyOrigin = agg.Synthesis.String("likelyOrigin")
		v.RedFlags = stringList(agg.Synthesis["redFlags"])
		v.Confidence = agg.Synthesis.String("confidence")
	}
	return v
}

func stringList(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

const textTmpl = `Brand Investigation: {{.Brand}} ({{.Category}})
{{- if .Duration}}
Completed in {{.Duration}}
{{- end}}

{{- range .Sections}}

== {{.Title}} ==
{{- if .Degraded}}
Analysis unavailable for this step (raw model output kept).
{{- else}}
{{.Summary}}
{{- range .KeyFacts}}
  * {{.}}
{{- end}}
{{- end}}
{{- if .Enriched}}
(top source was fetched in full)
{{- end}}
Sources:
{{- range .Sources}}
  - {{.}}
{{- else}}
  none
{{- end}}
{{- end}}

== Team ==
{{- if .TeamAvailable}}
{{.TeamSummary}}
{{- range .People}}
  * {{.}}
{{- end}}
{{- else}}
unavailable
{{- end}}

== Verdict ==
{{- if .SynthesisDegraded}}
unavailable
{{- else}}
{{.Verdict}}

{{.Overview}}

Likely origin: {{.LikelyOrigin}}
Confidence:    {{.Confidence}}
Red flags:
{{- range .RedFlags}}
  ! {{.}}
{{- else}}
  none
{{- end}}
{{- end}}
`

// WriteText writes the human-readable report.
func WriteText(w io.Writer, agg *investigation.Aggregate) error {
	t, err := template.New("textReport").Parse(textTmpl)
	if err != nil {
		return fmt.Errorf("parse report template: %w", err)
	}
	if err := t.Execute(w, BuildView(agg)); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// WriteJSON writes the report view as indented JSON.
func WriteJSON(w io.Writer, agg *investigation.Aggregate) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(BuildView(agg)); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
