package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"storystudio/internal/audio"
	"storystudio/internal/compositor"
	"storystudio/internal/export"
	"storystudio/internal/render"
	"storystudio/internal/worker"
	"storystudio/models"
)

// ZipExportJob packages a storyboard's script and scene images into a zip
// archive.
type ZipExportJob struct {
	StoryboardID string
	Scenes       []models.Scene
}

func (j *ZipExportJob) ID() string   { return j.StoryboardID }
func (j *ZipExportJob) Kind() string { return "zip" }

func (j *ZipExportJob) Execute(ctx context.Context, progress func(done, total int)) (*worker.Artifact, error) {
	progress(0, 1)
	data, err := export.BuildZip(j.Scenes)
	if err != nil {
		return nil, err
	}
	progress(1, 1)
	return &worker.Artifact{Filename: "storyboard.zip", ContentType: "application/zip", Data: data}, nil
}

// PdfExportJob lays a storyboard out as a printable PDF document.
type PdfExportJob struct {
	StoryboardID string
	Scenes       []models.Scene
}

func (j *PdfExportJob) ID() string   { return j.StoryboardID }
func (j *PdfExportJob) Kind() string { return "pdf" }

func (j *PdfExportJob) Execute(ctx context.Context, progress func(done, total int)) (*worker.Artifact, error) {
	progress(0, 1)
	data, err := export.BuildPDF(j.Scenes)
	if err != nil {
		return nil, err
	}
	progress(1, 1)
	return &worker.Artifact{Filename: "storyboard.pdf", ContentType: "application/pdf", Data: data}, nil
}

// VideoExportJob composites a storyboard into a webm video via ffmpeg.
type VideoExportJob struct {
	StoryboardID string
	Scenes       []models.Scene
	Cache        *audio.Cache
	Aspect       models.AspectRatio
	Options      models.VideoExportOptions
	FFmpegPath   string
	WorkDir      string
	Log          *logrus.Logger
}

func (j *VideoExportJob) ID() string   { return j.StoryboardID }
func (j *VideoExportJob) Kind() string { return "video" }

func (j *VideoExportJob) Execute(ctx context.Context, progress func(done, total int)) (*worker.Artifact, error) {
	width, height := j.Aspect.CanvasSize()
	renderer, err := render.NewRenderer(width, height)
	if err != nil {
		return nil, err
	}

	comp := &compositor.Compositor{
		Renderer:   renderer,
		Muxer:      &compositor.FFmpegMuxer{Path: j.FFmpegPath},
		FPS:        compositor.DefaultFPS,
		WorkDir:    j.WorkDir,
		Log:        j.Log,
		OnProgress: progress,
	}

	outPath := filepath.Join(j.WorkDir, fmt.Sprintf("storyboard-%s.webm", j.StoryboardID))
	defer os.Remove(outPath)

	if err := comp.Export(ctx, j.Scenes, j.Cache, j.Options, outPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("could not read exported video: %w", err)
	}

	if dur, err := compositor.ProbeDuration(outPath); err == nil {
		j.Log.WithFields(logrus.Fields{
			"storyboard": j.StoryboardID,
			"duration":   dur.Seconds(),
			"bytes":      len(data),
		}).Info("Video export complete")
	}

	return &worker.Artifact{Filename: "storyboard.webm", ContentType: "video/webm", Data: data}, nil
}
