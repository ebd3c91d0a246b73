package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/brandprobe/brandprobe/internal/investigation"
)

// enrichmentBudget caps how much scraped markdown is embedded in a stage
// prompt. Scraped pages routinely run to hundreds of kilobytes.
const enrichmentBudget = 3000

func validatePrompt(brand, category string) string {
	return strings.TrimSpace(fmt.Sprintf(`
You are the input validator for a consumer-brand investigation tool.

Brand name: %q
Product category: %q

Decide whether these inputs identify a real, investigable consumer brand.
Reject gibberish, profanity, and inputs that are clearly not brand names.

Return ONLY a single JSON object with these keys:
- isValid (boolean)
- normalizedBrand (string; cleaned-up brand name, or "" if invalid)
- suggestion (string; when invalid, one sentence telling the user what to fix)
`, brand, category))
}

func interpretStagePrompt(stage investigation.StageDescriptor, hits []investigation.SearchHit, enrichment *investigation.Enrichment) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are analyzing one step of a consumer-brand investigation.

Step: %s
Goal: %s

Search results, best first:
`, stage.Title, stage.Description)
	for i, hit := range hits {
		fmt.Fprintf(&b, "%d. %s\n   %s\n   %s\n", i+1, hit.Title, hit.Link, hit.Snippet)
	}
	if enrichment != nil && strings.TrimSpace(enrichment.Markdown) != "" {
		md := enrichment.Markdown
		if len(md) > enrichmentBudget {
			md = md[:enrichmentBudget]
		}
		fmt.Fprintf(&b, "\nFull content of the top result:\n%s\n", md)
	}
	b.WriteString(`
Return ONLY a single JSON object with these keys:
- summary (string; two or three sentences on what this step found)
- keyFacts (array of strings; concrete facts only, no speculation)
- entities (array of strings; companies, people and places mentioned)
- confidence (string; one of: low, medium, high)
`)
	return strings.TrimSpace(b.String())
}

func analyzeProfilesPrompt(brand string, profiles []investigation.ProfileRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are analyzing the team behind the brand %q.\n\nProfiles:\n", brand)
	for i, p := range profiles {
		fmt.Fprintf(&b, "%d. %s, %s (%s)\n   Currently %s at %s\n   %s\n",
			i+1, p.FullName, p.Headline, p.Location, p.CurrentTitle, p.CurrentCompany, p.Summary)
		for _, pos := range p.Positions {
			fmt.Fprintf(&b, "   Past: %s at %s (%s)\n", pos.Title, pos.Company, pos.Duration)
		}
		if len(p.Skills) > 0 {
			fmt.Fprintf(&b, "   Skills: %s\n", strings.Join(p.Skills, ", "))
		}
	}
	b.WriteString(`
Return ONLY a single JSON object with these keys:
- teamSummary (string; what this team's background says about the brand)
- people (array of {name, role, note} objects)
- confidence (string; one of: low, medium, high)
`)
	return strings.TrimSpace(b.String())
}

func synthesizePrompt(agg *investigation.Aggregate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are writing the final synthesis of an investigation into the brand %q (category: %s).\n\nFindings per step:\n", agg.Brand, agg.Category)
	for _, key := range agg.Findings.Keys() {
		result, ok := agg.Findings.Get(key)
		if !ok {
			continue
		}
		encoded, err := json.Marshal(result.Analysis)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", key, string(encoded))
	}
	b.WriteString(`
Return ONLY a single JSON object with these keys:
- verdict (string; one sentence: who really makes and sells this brand)
- overview (string; a short paragraph for a consumer)
- likelyOrigin (string; where the products most likely come from)
- redFlags (array of strings; empty when nothing stands out)
- confidence (string; one of: low, medium, high)
`)
	return strings.TrimSpace(b.String())
}
