package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"storystudio/models"
	"storystudio/utils"
)

// GenerateImageRequest defines the expected JSON structure for an Image
// Studio render.
type GenerateImageRequest struct {
	Prompt      string              `json:"prompt" validate:"required"`
	Style       models.ImageStyle   `json:"style" validate:"omitempty,oneof='None (Default)' Photorealistic Cartoon Abstract 'Anime / Manga' 'Fantasy Art'"`
	AspectRatio models.AspectRatio  `json:"aspect_ratio" validate:"omitempty,oneof=16:9 9:16 1:1 4:3 3:4"`
	Quality     models.ImageQuality `json:"quality" validate:"omitempty,oneof=Standard HD"`
}

// GenerateImage renders a standalone image for a free-form prompt.
func (h *ApplicationHandler) GenerateImage(c *fiber.Ctx) error {
	payload := new(GenerateImageRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Validation failed: %v", utils.FormatValidationErrors(err)))
	}
	if payload.Style == "" {
		payload.Style = models.ImageStyleNone
	}
	if payload.AspectRatio == "" {
		payload.AspectRatio = models.AspectSixteenNine
	}
	if payload.Quality == "" {
		payload.Quality = models.ImageQualityStandard
	}

	image, err := h.AIClient.GenerateImage(c.Context(), payload.Prompt, payload.Style, payload.Quality, payload.AspectRatio)
	if err != nil {
		h.Logger.WithError(err).Error("Image generation failed")
		return utils.RespondWithError(c, fiber.StatusBadGateway, "Image generation failed")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"image": image})
}

// InfographicRequest defines the expected JSON structure for summarizing
// text into an infographic.
type InfographicRequest struct {
	Text     string          `json:"text" validate:"required"`
	Language models.Language `json:"language" validate:"omitempty,oneof=English Chinese"`
}

// SummarizeToInfographic condenses text into a single infographic image.
func (h *ApplicationHandler) SummarizeToInfographic(c *fiber.Ctx) error {
	payload := new(InfographicRequest)
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

	image, err := h.AIClient.SummarizeToInfographic(c.Context(), payload.Text, language)
	if err != nil {
		h.Logger.WithError(err).Error("Infographic generation failed")
		return utils.RespondWithError(c, fiber.StatusBadGateway, "Infographic generation failed")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"image": image})
}
