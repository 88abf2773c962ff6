package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"storystudio/models"
)

// The image and speech modalities are not covered by the genai SDK yet, so
// these operations call the REST surface directly.
const generativeLanguageURL = "https://generativelanguage.googleapis.com/v1beta/models"

type restPart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *restInlineData `json:"inlineData,omitempty"`
}

type restInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type restContent struct {
	Parts []restPart `json:"parts"`
}

type restGenerationConfig struct {
	ResponseModalities []string          `json:"responseModalities,omitempty"`
	SpeechConfig       *restSpeechConfig `json:"speechConfig,omitempty"`
}

type restSpeechConfig struct {
	VoiceConfig struct {
		PrebuiltVoiceConfig struct {
			VoiceName string `json:"voiceName"`
		} `json:"prebuiltVoiceConfig"`
	} `json:"voiceConfig"`
}

type restRequest struct {
	Contents         []restContent         `json:"contents"`
	GenerationConfig *restGenerationConfig `json:"generationConfig,omitempty"`
}

type restResponse struct {
	Candidates []struct {
		Content struct {
			Parts []restPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateSceneImage renders an illustration for one storyboard scene and
// returns it as base64 image data.
func (c *GeminiClient) GenerateSceneImage(ctx context.Context, scenePrompt string, ar models.AspectRatio) (string, error) {
	prompt := fmt.Sprintf(
		"A cinematic, photorealistic illustration for a video scene, %s aspect ratio, no text or captions: %s",
		ar, scenePrompt)
	return c.generateInline(ctx, imageModel, restRequest{
		Contents:         []restContent{{Parts: []restPart{{Text: prompt}}}},
		GenerationConfig: &restGenerationConfig{ResponseModalities: []string{"IMAGE"}},
	}, "image/")
}

// GenerateSceneAudio narrates one scene with the given prebuilt voice and
// returns base64 PCM audio.
func (c *GeminiClient) GenerateSceneAudio(ctx context.Context, text string, voice models.Voice) (string, error) {
	cfg := &restGenerationConfig{ResponseModalities: []string{"AUDIO"}, SpeechConfig: &restSpeechConfig{}}
	cfg.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName = string(voice)
	return c.generateInline(ctx, ttsModel, restRequest{
		Contents:         []restContent{{Parts: []restPart{{Text: text}}}},
		GenerationConfig: cfg,
	}, "audio/")
}

// GenerateImage produces a standalone studio image for a free-form prompt
// in the requested style.
func (c *GeminiClient) GenerateImage(ctx context.Context, prompt string, style models.ImageStyle, quality models.ImageQuality, ar models.AspectRatio) (string, error) {
	full := fmt.Sprintf("%s. Aspect ratio %s, %s quality.", prompt, ar, quality)
	if style != "" && style != models.ImageStyleNone {
		full = fmt.Sprintf("%s. Visual style: %s. Aspect ratio %s, %s quality.", prompt, style, ar, quality)
	}
	return c.generateInline(ctx, imageModel, restRequest{
		Contents:         []restContent{{Parts: []restPart{{Text: full}}}},
		GenerationConfig: &restGenerationConfig{ResponseModalities: []string{"IMAGE"}},
	}, "image/")
}

// SummarizeToInfographic condenses text into a single infographic image.
// Labels inside the infographic are rendered in the given language.
func (c *GeminiClient) SummarizeToInfographic(ctx context.Context, text string, language models.Language) (string, error) {
	prompt := fmt.Sprintf(
		"Create a clean, modern infographic image that visually summarizes the key points of this text. "+
			"All labels and headings inside the infographic MUST be in %s.\n\nText:\n%s",
		language, text)
	return c.generateInline(ctx, imageModel, restRequest{
		Contents:         []restContent{{Parts: []restPart{{Text: prompt}}}},
		GenerationConfig: &restGenerationConfig{ResponseModalities: []string{"IMAGE"}},
	}, "image/")
}

// generateInline posts a generateContent request and returns the base64 data
// of the first inline part whose MIME type matches the given prefix.
func (c *GeminiClient) generateInline(ctx context.Context, model string, reqBody restRequest, mimePrefix string) (string, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("could not marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", generativeLanguageURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("media generation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("could not read media response: %w", err)
	}

	var parsed restResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("could not parse media response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("media generation failed: %s", msg)
	}

	for _, cand := range parsed.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && strings.HasPrefix(part.InlineData.MIMEType, mimePrefix) {
				return part.InlineData.Data, nil
			}
		}
	}
	return "", fmt.Errorf("media response contained no %s data", strings.TrimSuffix(mimePrefix, "/"))
}
