package aiclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"storystudio/models"
)

const (
	textModel  = "gemini-2.5-flash"
	imageModel = "gemini-2.5-flash-image"
	ttsModel   = "gemini-2.5-flash-preview-tts"
)

// ContentRequest carries everything the collaborator needs to produce the
// three-section content package for a topic.
type ContentRequest struct {
	Topic         string
	Style         models.Style
	PersonalStyle string
	Language      models.Language
	Compliance    models.ComplianceProfile
	ImageB64      string // optional context image, base64 JPEG
	ImageMIME     string
}

// ContentResult is the parsed collaborator response plus any web sources it
// cited.
type ContentResult struct {
	Content models.GeneratedContent  `json:"content"`
	Sources []models.GroundingSource `json:"sources"`
}

// GeminiClient talks to the generative backend. Text operations go through
// the genai SDK; image and speech modalities the SDK does not cover use the
// REST surface directly.
type GeminiClient struct {
	client     *genai.Client
	apiKey     string
	httpClient *http.Client
	log        *logrus.Logger
}

// NewGeminiClient creates and returns a new GeminiClient.
func NewGeminiClient(ctx context.Context, apiKey string, log *logrus.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("could not create genai client: %w", err)
	}

	return &GeminiClient{
		client:     client,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		log:        log,
	}, nil
}

// Close releases the underlying SDK connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func extractText(res *genai.GenerateContentResponse) (string, error) {
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("collaborator returned no content")
	}
	if textPart, ok := res.Candidates[0].Content.Parts[0].(genai.Text); ok {
		return string(textPart), nil
	}
	return "", fmt.Errorf("collaborator response did not contain text")
}

func extractSources(res *genai.GenerateContentResponse) []models.GroundingSource {
	var sources []models.GroundingSource
	if len(res.Candidates) == 0 || res.Candidates[0].CitationMetadata == nil {
		return sources
	}
	for _, cs := range res.Candidates[0].CitationMetadata.CitationSources {
		if cs == nil || cs.URI == nil || *cs.URI == "" {
			continue
		}
		sources = append(sources, models.GroundingSource{URI: *cs.URI})
	}
	return sources
}
