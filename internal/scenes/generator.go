package scenes

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"storystudio/models"
)

// AssetClient produces the image and narration assets for one scene.
type AssetClient interface {
	GenerateSceneImage(ctx context.Context, scenePrompt string, ar models.AspectRatio) (string, error)
	GenerateSceneAudio(ctx context.Context, text string, voice models.Voice) (string, error)
}

// Generator turns a video script into a fully-assembled storyboard by
// generating an image and narration audio for every scene.
type Generator struct {
	Client      AssetClient
	Concurrency int
	Log         *logrus.Logger
}

// NewGenerator creates a Generator with the given concurrency cap.
func NewGenerator(client AssetClient, concurrency int, log *logrus.Logger) *Generator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Generator{Client: client, Concurrency: concurrency, Log: log}
}

// Generate parses the script and builds one scene per segment. At most
// Concurrency scenes are generated at a time. A scene whose assets fail is
// logged and dropped; the surviving scenes keep their script order.
func (g *Generator) Generate(ctx context.Context, script string, ar models.AspectRatio, voice models.Voice) []models.Scene {
	segments := ParseScript(script)
	if len(segments) == 0 {
		return nil
	}

	results := make([]*models.Scene, len(segments))

	indexes := make(chan int)
	go func() {
		defer close(indexes)
		for i := range segments {
			select {
			case indexes <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	workers := g.Concurrency
	if workers > len(segments) {
		workers = len(segments)
	}

	grp := new(errgroup.Group)
	for w := 0; w < workers; w++ {
		grp.Go(func() error {
			for i := range indexes {
				results[i] = g.buildScene(ctx, segments[i], ar, voice, i)
			}
			return nil
		})
	}
	grp.Wait()

	scenes := make([]models.Scene, 0, len(segments))
	for _, s := range results {
		if s != nil {
			scenes = append(scenes, *s)
		}
	}
	return scenes
}

func (g *Generator) buildScene(ctx context.Context, seg Segment, ar models.AspectRatio, voice models.Voice, index int) *models.Scene {
	prompt := seg.Visual
	if prompt == "" {
		prompt = seg.Text
	}

	image, err := g.Client.GenerateSceneImage(ctx, prompt, ar)
	if err != nil {
		g.Log.WithError(err).WithField("scene", index).Warn("Scene image generation failed, skipping scene")
		return nil
	}

	audio, err := g.Client.GenerateSceneAudio(ctx, seg.Text, voice)
	if err != nil {
		g.Log.WithError(err).WithField("scene", index).Warn("Scene audio generation failed, skipping scene")
		return nil
	}

	return &models.Scene{NarrationText: seg.Text, ImageB64: image, AudioB64: audio}
}
