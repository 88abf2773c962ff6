package aiclient

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"storystudio/models"
)

var (
	articleRe = regexp.MustCompile(`(?s)## Image-Text Article\s*(.*?)\s*## Video Script`)
	scriptRe  = regexp.MustCompile(`(?s)## Video Script\s*(.*?)\s*## Titles & Tags`)
	titlesRe  = regexp.MustCompile(`(?s)## Titles & Tags\s*(.*)`)

	codeFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")
)

// parseContentSections splits a generated response into its three markdown
// sections. A section the response is missing becomes a placeholder so the
// caller still gets a usable package.
func parseContentSections(text string) models.GeneratedContent {
	return models.GeneratedContent{
		Article: matchSection(articleRe, text, "Could not parse article."),
		Script:  matchSection(scriptRe, text, "Could not parse script."),
		Titles:  matchSection(titlesRe, text, "Could not parse titles."),
	}
}

func matchSection(re *regexp.Regexp, text, fallback string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return fallback
	}
	return strings.TrimSpace(m[1])
}

func parseIdeas(text string) ([]string, error) {
	var payload struct {
		Ideas []string `json:"ideas"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &payload); err != nil {
		return nil, fmt.Errorf("could not parse topic ideas: %w", err)
	}
	return payload.Ideas, nil
}

// parseSeoAnalysis decodes an SEO report, normalizing the trend field to the
// Rising/Stable/Falling vocabulary even when the model answers with a casing
// variant or a synonym like "declining".
func parseSeoAnalysis(text string) (*models.SeoAnalysis, error) {
	var analysis models.SeoAnalysis
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &analysis); err != nil {
		return nil, fmt.Errorf("could not parse seo analysis: %w", err)
	}
	analysis.SearchVolumeTrend = normalizeTrend(analysis.SearchVolumeTrend)
	return &analysis, nil
}

func normalizeTrend(trend string) string {
	switch strings.ToLower(strings.TrimSpace(trend)) {
	case "rising", "growing", "increasing":
		return "Rising"
	case "falling", "declining", "decreasing":
		return "Falling"
	default:
		return "Stable"
	}
}

// stripCodeFence removes a surrounding markdown code fence, which JSON-mode
// responses sometimes carry anyway.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if m := codeFenceRe.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	return trimmed
}
