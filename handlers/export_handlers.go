package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"storystudio/internal/jobs"
	"storystudio/internal/worker"
	"storystudio/models"
	"storystudio/utils"
)

// StartExportRequest defines the expected JSON structure for submitting an
// export. Options only apply to video exports.
type StartExportRequest struct {
	Options models.VideoExportOptions `json:"options"`
}

// StartExport queues an export job for a storyboard. Only one export per
// storyboard runs at a time.
func (h *ApplicationHandler) StartExport(c *fiber.Ctx) error {
	s, err := h.Sessions.Get(c.Params("storyboardId"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Storyboard not found")
	}

	kind := c.Params("kind")
	payload := new(StartExportRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(payload); err != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		}
		if err := validate.Struct(&payload.Options); err != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Validation failed: %v", utils.FormatValidationErrors(err)))
		}
	}

	var job worker.Job
	switch kind {
	case "zip":
		job = &jobs.ZipExportJob{StoryboardID: s.ID, Scenes: s.Scenes}
	case "pdf":
		job = &jobs.PdfExportJob{StoryboardID: s.ID, Scenes: s.Scenes}
	case "video":
		job = &jobs.VideoExportJob{
			StoryboardID: s.ID,
			Scenes:       s.Scenes,
			Cache:        s.Cache,
			Aspect:       s.AspectRatio,
			Options:      payload.Options,
			FFmpegPath:   h.Config.FFmpegPath,
			WorkDir:      h.Config.WorkDir,
			Log:          h.Logger,
		}
	default:
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Unknown export format, expected zip, pdf or video")
	}

	if err := h.Exports.Submit(job); err != nil {
		if errors.Is(err, worker.ErrBusy) {
			return utils.RespondWithError(c, fiber.StatusConflict, err.Error())
		}
		h.Logger.WithError(err).Error("Export submission failed")
		return utils.RespondWithError(c, fiber.StatusServiceUnavailable, err.Error())
	}

	return utils.RespondWithJSON(c, fiber.StatusAccepted, fiber.Map{
		"storyboard": s.ID,
		"kind":       kind,
		"status":     worker.StatusRunning,
	})
}

// ExportStatus reports the progress of the latest export of one format.
func (h *ApplicationHandler) ExportStatus(c *fiber.Ctx) error {
	id := c.Params("storyboardId")
	kind := c.Params("kind")

	state, ok := h.Exports.Status(id, kind)
	if !ok {
		return utils.RespondWithError(c, fiber.StatusNotFound, "No export found for this storyboard and format")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, state)
}

// DownloadExport streams the finished artifact of a completed export.
func (h *ApplicationHandler) DownloadExport(c *fiber.Ctx) error {
	id := c.Params("storyboardId")
	kind := c.Params("kind")

	state, ok := h.Exports.Status(id, kind)
	if !ok {
		return utils.RespondWithError(c, fiber.StatusNotFound, "No export found for this storyboard and format")
	}
	if state.Status != worker.StatusDone || state.Artifact == nil {
		return utils.RespondWithError(c, fiber.StatusConflict, fmt.Sprintf("Export is %s, not ready for download", state.Status))
	}

	c.Set(fiber.HeaderContentType, state.Artifact.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", state.Artifact.Filename))
	return c.Status(fiber.StatusOK).Send(state.Artifact.Data)
}
