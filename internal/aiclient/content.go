package aiclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"storystudio/models"
)

// GenerateContent produces the article, video script and title package for a
// topic, in the requested style and language.
func (c *GeminiClient) GenerateContent(ctx context.Context, req ContentRequest) (*ContentResult, error) {
	model := c.client.GenerativeModel(textModel)

	prompt := buildContentPrompt(req)
	parts := []genai.Part{genai.Text(prompt)}
	if req.ImageB64 != "" {
		data, err := base64.StdEncoding.DecodeString(req.ImageB64)
		if err != nil {
			return nil, fmt.Errorf("invalid context image: %w", err)
		}
		mime := req.ImageMIME
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, genai.ImageData(strings.TrimPrefix(mime, "image/"), data))
	}

	res, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("content generation failed: %w", err)
	}

	text, err := extractText(res)
	if err != nil {
		return nil, err
	}

	return &ContentResult{
		Content: parseContentSections(text),
		Sources: extractSources(res),
	}, nil
}

// GenerateTopicIdeas returns topic suggestions seeded by an optional niche.
// A blank niche yields no suggestions and performs no remote call.
func (c *GeminiClient) GenerateTopicIdeas(ctx context.Context, niche string, language models.Language) ([]string, error) {
	niche = strings.TrimSpace(niche)
	if niche == "" {
		return nil, nil
	}

	model := c.client.GenerativeModel(textModel)
	model.GenerationConfig.ResponseMIMEType = "application/json"

	prompt := fmt.Sprintf(
		"Suggest 5 engaging content topics for the niche %q. Respond in %s. "+
			"Return only a JSON object of the form {\"ideas\": [\"...\"]}.",
		niche, language)

	res, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("topic idea generation failed: %w", err)
	}

	text, err := extractText(res)
	if err != nil {
		return nil, err
	}
	return parseIdeas(text)
}

// ConvertText converts between the two content forms: an article becomes a
// video script, or a script becomes an article-style summary. The result is
// a single block of text in the requested language.
func (c *GeminiClient) ConvertText(ctx context.Context, source string, format models.ConvertFormat, language models.Language) (string, error) {
	model := c.client.GenerativeModel(textModel)

	var prompt string
	switch format {
	case models.ConvertToScript:
		prompt = fmt.Sprintf(
			"Convert the following article into a concise and engaging video script. "+
				"Include suggestions for visuals where appropriate, like \"[Visual: ...]\". "+
				"The output script MUST be in %s.\n\nArticle:\n%s",
			language, source)
	case models.ConvertToSummary:
		prompt = fmt.Sprintf(
			"Summarize the following video script into a well-structured image-text article "+
				"suitable for a blog post. The output article MUST be in %s.\n\nScript:\n%s",
			language, source)
	default:
		return "", fmt.Errorf("unknown conversion format %q", format)
	}

	res, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("text conversion failed: %w", err)
	}

	return extractText(res)
}

// AnalyzeSeo estimates search difficulty and strategy for a topic.
func (c *GeminiClient) AnalyzeSeo(ctx context.Context, topic string, language models.Language) (*models.SeoAnalysis, error) {
	model := c.client.GenerativeModel(textModel)
	model.GenerationConfig.ResponseMIMEType = "application/json"

	prompt := fmt.Sprintf(
		"Act as an SEO analyst for the topic %q. Respond in %s with only a JSON object: "+
			"{\"keyword_difficulty\": <0-100>, \"search_volume_trend\": \"<Rising|Stable|Falling>\", "+
			"\"competitor_analysis\": \"...\", \"content_strategy\": \"...\"}.",
		topic, language)

	res, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("seo analysis failed: %w", err)
	}

	text, err := extractText(res)
	if err != nil {
		return nil, err
	}
	return parseSeoAnalysis(text)
}

func buildContentPrompt(req ContentRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a content package about %q in %s.\n", req.Topic, req.Language)
	if req.Style == models.StylePersonal && req.PersonalStyle != "" {
		fmt.Fprintf(&b, "Write it in this personal voice: %s\n", req.PersonalStyle)
	} else {
		fmt.Fprintf(&b, "Writing style: %s.\n", req.Style)
	}
	if req.Compliance != "" && req.Compliance != models.ComplianceStandard {
		fmt.Fprintf(&b, "The content must comply with %s advertising policies.\n", req.Compliance)
	}
	b.WriteString("Respond with exactly three markdown sections, in this order:\n")
	b.WriteString("## Image-Text Article\n## Video Script\n## Titles & Tags\n")
	b.WriteString("The video script must be split into short narration blocks separated by blank lines, " +
		"each optionally preceded by a line of the form [Visual: description of the shot].")
	return b.String()
}
