package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"storystudio/utils"
)

// PlaySceneRequest defines the expected JSON structure for starting scene
// playback.
type PlaySceneRequest struct {
	Scene *int `json:"scene" validate:"required"`
}

// PlayScene starts narration playback for a single scene, stopping whatever
// was playing before.
func (h *ApplicationHandler) PlayScene(c *fiber.Ctx) error {
	s, err := h.Sessions.Get(c.Params("storyboardId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Storyboard not found")
	}

	payload := new(PlaySceneRequest)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	if payload.Scene == nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Field 'scene' is required")
	}

	if err := s.Player.Play(*payload.Scene); err != nil {
		h.Logger.WithError(err).WithField("storyboard", s.ID).Warn("Scene playback failed")
		return utils.RespondWithError(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, s.Player.State())
}

// TogglePlayAll starts sequential playback of every scene from the first,
// or stops it if sequential playback is already running.
func (h *ApplicationHandler) TogglePlayAll(c *fiber.Ctx) error {
	s, err := h.Sessions.Get(c.Params("storyboardId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Storyboard not found")
	}

	if err := s.Player.ToggleAll(); err != nil {
		h.Logger.WithError(err).WithField("storyboard", s.ID).Warn("Play-all failed")
		return utils.RespondWithError(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, s.Player.State())
}

// StopPlayback stops whatever is playing. Stopping an idle player is a
// no-op.
func (h *ApplicationHandler) StopPlayback(c *fiber.Ctx) error {
	s, err := h.Sessions.Get(c.Params("storyboardId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Storyboard not found")
	}

	s.Player.Stop()
	return utils.RespondWithJSON(c, fiber.StatusOK, s.Player.State())
}

// PlaybackState reports which scene is playing, if any.
func (h *ApplicationHandler) PlaybackState(c *fiber.Ctx) error {
	s, err := h.Sessions.Get(c.Params("storyboardId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Storyboard not found")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, s.Player.State())
}
