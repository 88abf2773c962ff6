package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"storystudio/internal/session"
	"storystudio/models"
	"storystudio/utils"
)

// CreateStoryboardRequest defines the expected JSON structure for turning a
// video script into a storyboard.
type CreateStoryboardRequest struct {
	Script      string             `json:"script" validate:"required"`
	AspectRatio models.AspectRatio `json:"aspect_ratio" validate:"omitempty,oneof=16:9 9:16 1:1 4:3 3:4"`
	Voice       models.Voice       `json:"voice" validate:"omitempty,oneof=Kore Puck Charon Fenrir Zephyr"`
}

type storyboardSummary struct {
	ID          string             `json:"id"`
	AspectRatio models.AspectRatio `json:"aspect_ratio"`
	SceneCount  int                `json:"scene_count"`
	CreatedAt   string             `json:"created_at"`
}

func summarize(s *session.Session) storyboardSummary {
	return storyboardSummary{
		ID:          s.ID,
		AspectRatio: s.AspectRatio,
		SceneCount:  len(s.Scenes),
		CreatedAt:   s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// CreateStoryboard generates scene assets for a script and opens a playback
// session for the result.
func (h *ApplicationHandler) CreateStoryboard(c *fiber.Ctx) error {
	payload := new(CreateStoryboardRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Validation failed: %v", utils.FormatValidationErrors(err)))
	}
	if payload.AspectRatio == "" {
		payload.AspectRatio = models.AspectSixteenNine
	}
	if payload.Voice == "" {
		payload.Voice = models.VoiceZephyr
	}

	generated := h.Generator.Generate(c.Context(), payload.Script, payload.AspectRatio, payload.Voice)
	if len(generated) == 0 {
		return utils.RespondWithError(c, fiber.StatusBadGateway, "No scenes could be generated from the script")
	}

	s := h.Sessions.Create(payload.AspectRatio, generated)
	return utils.RespondWithJSON(c, fiber.StatusCreated, fiber.Map{
		"storyboard": summarize(s),
		"scenes":     s.Scenes,
	})
}

// ListStoryboards returns summaries of all open storyboard sessions.
func (h *ApplicationHandler) ListStoryboards(c *fiber.Ctx) error {
	sessions := h.Sessions.List()
	summaries := make([]storyboardSummary, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, summarize(s))
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"storyboards": summaries})
}

// GetStoryboard returns one storyboard with its full scene payload.
func (h *ApplicationHandler) GetStoryboard(c *fiber.Ctx) error {
	s, err := h.Sessions.Get(c.Params("storyboardId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Storyboard not found")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"storyboard": summarize(s),
		"scenes":     s.Scenes,
	})
}

// DeleteStoryboard tears a storyboard session down, stopping playback and
// discarding its audio cache.
func (h *ApplicationHandler) DeleteStoryboard(c *fiber.Ctx) error {
	id := c.Params("storyboardId")
	if err := h.Sessions.Delete(id); err != nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Storyboard not found")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"deleted": id})
}
