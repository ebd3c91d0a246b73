package profile

import (
	"strings"

	"github.com/brandprobe/brandprobe/internal/investigation"
)

// Upstream profile payloads are not stable: the same logical field arrives
// under different names depending on API version and plan. Each canonical
// field carries an ordered alias list; the first alias present wins and a
// miss resolves to the Unknown sentinel.
var fieldAliases = map[string][]string{
	"fullName":       {"fullName", "full_name", "name"},
	"headline":       {"headline", "title", "occupation"},
	"location":       {"location", "locationName", "geoLocationName", "geo"},
	"summary":        {"summary", "about", "bio"},
	"currentCompany": {"currentCompany", "companyName", "company"},
	"currentTitle":   {"currentTitle", "jobTitle", "currentPosition"},
	"profileURL":     {"profileURL", "profile_url", "url", "publicProfileUrl"},
}

// Normalize maps a heterogeneous upstream payload into the canonical record.
// No field is ever left empty: missing data becomes the Unknown sentinel so
// downstream consumers never branch on presence.
func Normalize(raw map[string]any) investigation.ProfileRecord {
	rec := investigation.ProfileRecord{
		FullName:       stringField(raw, "fullName"),
		Headline:       stringField(raw, "headline"),
		Location:       stringField(raw, "location"),
		Summary:        stringField(raw, "summary"),
		CurrentCompany: stringField(raw, "currentCompany"),
		CurrentTitle:   stringField(raw, "currentTitle"),
		ProfileURL:     stringField(raw, "profileURL"),
	}

	// Some payloads only carry first/last name pairs.
	if rec.FullName == investigation.UnknownField {
		first, _ := raw["firstName"].(string)
		last, _ := raw["lastName"].(string)
		full := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
		if full != "" {
			rec.FullName = full
		}
	}

	rec.Positions = normalizePositions(raw)
	rec.Educations = normalizeEducations(raw)
	rec.Skills = normalizeSkills(raw)
	return rec
}

func stringField(raw map[string]any, canonical string) string {
	for _, alias := range fieldAliases[canonical] {
		if v, ok := raw[alias].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return investigation.UnknownField
}

func entryString(entry map[string]any, aliases ...string) string {
	for _, alias := range aliases {
		if v, ok := entry[alias].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return investigation.UnknownField
}

func entryList(raw map[string]any, aliases ...string) []map[string]any {
	for _, alias := range aliases {
		arr, ok := raw[alias].([]any)
		if !ok {
			continue
		}
		out := make([]map[string]any, 0, len(arr))
		for _, item := range arr {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func normalizePositions(raw map[string]any) []investigation.Position {
	entries := entryList(raw, "positions", "position", "experience", "experiences")
	out := make([]investigation.Position, 0, len(entries))
	for _, entry := range entries {
		out = append(out, investigation.Position{
			Title:    entryString(entry, "title", "jobTitle", "role"),
			Company:  entryString(entry, "companyName", "company", "organization"),
			Duration: entryString(entry, "duration", "dateRange", "period"),
		})
	}
	return out
}

func normalizeEducations(raw map[string]any) []investigation.Education {
	entries := entryList(raw, "educations", "education", "schools")
	out := make([]investigation.Education, 0, len(entries))
	for _, entry := range entries {
		out = append(out, investigation.Education{
			School: entryString(entry, "schoolName", "school", "institution"),
			Degree: entryString(entry, "degree", "degreeName"),
			Field:  entryString(entry, "fieldOfStudy", "field", "major"),
		})
	}
	return out
}

func normalizeSkills(raw map[string]any) []string {
	arr, ok := raw["skills"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		switch v := item.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				out = append(out, strings.TrimSpace(v))
			}
		case map[string]any:
			if name, ok := v["name"].(string); ok && strings.TrimSpace(name) != "" {
				out = append(out, strings.TrimSpace(name))
			}
		}
	}
	return out
}
