package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storystudio/internal/aiclient"
	"storystudio/models"
	"storystudio/utils"
)

var validate = newValidator()

// newValidator registers the one enum whose values cannot be expressed as a
// oneof tag: the compliance profile names contain an apostrophe, which the
// tag parser treats as a quote.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("compliance", func(fl validator.FieldLevel) bool {
		switch models.ComplianceProfile(fl.Field().String()) {
		case models.ComplianceStandard, models.ComplianceCOPPA, models.ComplianceGDPR, models.ComplianceHealthcare:
			return true
		}
		return false
	})
	return v
}

// GenerateContentRequest defines the expected JSON structure for generating
// a content package.
type GenerateContentRequest struct {
	Topic         string                   `json:"topic" validate:"required"`
	Style         models.Style             `json:"style" validate:"required,oneof=Informational 'Personal Experience' Entertainment 'Professional / Business' 'Technical Deep Dive'"`
	PersonalStyle string                   `json:"personal_style"`
	Language      models.Language          `json:"language" validate:"omitempty,oneof=English Chinese"`
	Compliance    models.ComplianceProfile `json:"compliance" validate:"omitempty,compliance"`
	ImageB64      string                   `json:"image"`
	ImageMIME     string                   `json:"image_mime"`
}

func (r *GenerateContentRequest) toClientRequest() aiclient.ContentRequest {
	language := r.Language
	if language == "" {
		language = models.LanguageEnglish
	}
	return aiclient.ContentRequest{
		Topic:         r.Topic,
		Style:         r.Style,
		PersonalStyle: r.PersonalStyle,
		Language:      language,
		Compliance:    r.Compliance,
		ImageB64:      r.ImageB64,
		ImageMIME:     r.ImageMIME,
	}
}

// GenerateContent produces the article, script and titles package for a topic.
func (h *ApplicationHandler) GenerateContent(c *fiber.Ctx) error {
	payload := new(GenerateContentRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Validation failed: %v", utils.FormatValidationErrors(err)))
	}

	result, err := h.AIClient.GenerateContent(c.Context(), payload.toClientRequest())
	if err != nil {
		h.Logger.WithError(err).Error("Content generation failed")
		return utils.RespondWithError(c, fiber.StatusBadGateway, "Content generation failed")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, result)
}

// TopicIdeasRequest defines the expected JSON structure for topic suggestions.
type TopicIdeasRequest struct {
	Niche    string          `json:"niche"`
	Language models.Language `json:"language" validate:"omitempty,oneof=English Chinese"`
}

// GenerateTopicIdeas suggests topics for a niche. A blank niche yields an
// empty list without calling the backend.
func (h *ApplicationHandler) GenerateTopicIdeas(c *fiber.Ctx) error {
	payload := new(TopicIdeasRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Validation failed: %v", utils.FormatValidationErrors(err)))
	}
	language := payload.Language
	if language == "" {
		language = models.LanguageEnglish
	}

	ideas, err := h.AIClient.GenerateTopicIdeas(c.Context(), payload.Niche, language)
	if err != nil {
		h.Logger.WithError(err).Error("Topic idea generation failed")
		return utils.RespondWithError(c, fiber.StatusBadGateway, "Topic idea generation failed")
	}
	if ideas == nil {
		ideas = []string{}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"ideas": ideas})
}

// ConvertTextRequest defines the expected JSON structure for converting
// between the article and script forms.
type ConvertTextRequest struct {
	Text         string               `json:"text" validate:"required"`
	TargetFormat models.ConvertFormat `json:"target_format" validate:"required,oneof=script summary"`
	Language     models.Language      `json:"language" validate:"omitempty,oneof=English Chinese"`
}

// ConvertText converts an article into a video script, or a script into an
// article-style summary.
func (h *ApplicationHandler) ConvertText(c *fiber.Ctx) error {
	payload := new(ConvertTextRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Validation failed: %v", utils.FormatValidationErrors(err)))
	}
	language := payload.Language
	if language == "" {
		language = models.LanguageEnglish
	}

	converted, err := h.AIClient.ConvertText(c.Context(), payload.Text, payload.TargetFormat, language)
	if err != nil {
		h.Logger.WithError(err).Error("Text conversion failed")
		return utils.RespondWithError(c, fiber.StatusBadGateway, "Text conversion failed")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"target_format": payload.TargetFormat,
		"text":          converted,
	})
}

// SeoAnalysisRequest defines the expected JSON structure for an SEO report.
type SeoAnalysisRequest struct {
	Topic    string          `json:"topic" validate:"required"`
	Language models.Language `json:"language" validate:"omitempty,oneof=English Chinese"`
}

// AnalyzeSeo produces a keyword difficulty and strategy report for a topic.
func (h *ApplicationHandler) AnalyzeSeo(c *fiber.Ctx) error {
	payload := new(SeoAnalysisRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Validation failed: %v", utils.FormatValidationErrors(err)))
	}
	language := payload.Language
	if language == "" {
		language = models.LanguageEnglish
	}

	analysis, err := h.AIClient.AnalyzeSeo(c.Context(), payload.Topic, language)
	if err != nil {
		h.Logger.WithError(err).Error("SEO analysis failed")
		return utils.RespondWithError(c, fiber.StatusBadGateway, "SEO analysis failed")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, analysis)
}
