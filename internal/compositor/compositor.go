package compositor

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // scene images are JPEG by contract, but tolerate PNG
	"io"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"storystudio/internal/audio"
	"storystudio/internal/render"
	"storystudio/models"
)

// ErrExportSetup marks a failure acquiring the encode pipeline before any
// frame was produced.
var ErrExportSetup = errors.New("video export setup failed")

// DefaultFPS is the video track frame rate.
const DefaultFPS = 30

// Compositor produces the storyboard video: one rendered frame per scene,
// held for exactly that scene's narration duration, over the stitched
// narration track.
type Compositor struct {
	Renderer *render.Renderer
	Muxer    Muxer
	FPS      int
	WorkDir  string
	Log      *logrus.Logger

	// OnProgress receives (scenes written, total scenes) while the export
	// runs.
	OnProgress func(done, total int)
}

// Export runs the full pipeline and writes the video to outPath. Any
// failure aborts the whole export and removes the partial output; no
// truncated file is ever surfaced.
func (c *Compositor) Export(ctx context.Context, scenes []models.Scene, cache *audio.Cache, opts models.VideoExportOptions, outPath string) error {
	if len(scenes) == 0 {
		return fmt.Errorf("%w: storyboard has no scenes", ErrExportSetup)
	}

	fps := c.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}

	images, err := c.preloadImages(ctx, scenes)
	if err != nil {
		return err
	}

	payloads := make([]string, len(scenes))
	for i, s := range scenes {
		payloads[i] = s.AudioB64
	}
	timeline, err := audio.Stitch(cache, payloads)
	if err != nil {
		return err
	}

	wavFile, err := os.CreateTemp(c.WorkDir, "storyboard-audio-*.wav")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExportSetup, err)
	}
	wavPath := wavFile.Name()
	wavFile.Close()
	defer os.Remove(wavPath)

	if err := audio.WriteWAV(wavPath, timeline); err != nil {
		return fmt.Errorf("%w: %v", ErrExportSetup, err)
	}

	sink, err := c.Muxer.Start(ctx, wavPath, outPath, fps)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExportSetup, err)
	}

	if err := c.writeFrames(ctx, sink, images, scenes, timeline.Durations, opts, fps); err != nil {
		sink.Close()
		c.Muxer.Wait()
		os.Remove(outPath)
		return err
	}

	if err := sink.Close(); err != nil {
		os.Remove(outPath)
		return fmt.Errorf("close frame sink: %w", err)
	}
	if err := c.Muxer.Wait(); err != nil {
		os.Remove(outPath)
		return err
	}

	c.Log.WithFields(logrus.Fields{
		"scenes":   len(scenes),
		"duration": timeline.TotalDuration(),
		"output":   outPath,
	}).Info("Video export complete")
	return nil
}

// writeFrames renders each scene once and repeats its JPEG for the frame
// count the plan assigns it.
func (c *Compositor) writeFrames(ctx context.Context, sink io.Writer, images []image.Image, scenes []models.Scene, durations []float64, opts models.VideoExportOptions, fps int) error {
	theme := render.ThemeByName(opts.Theme)
	plan := FramePlan(durations, fps)
	total := len(scenes)

	for k := range scenes {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("video export aborted: %w", err)
		}

		subtitle := ""
		if opts.AddSubtitles {
			subtitle = scenes[k].NarrationText
		}
		frame := c.Renderer.Render(images[k], theme, subtitle)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: 90}); err != nil {
			return fmt.Errorf("%w: encode frame for scene %d: %v", render.ErrRender, k+1, err)
		}

		for n := 0; n < plan[k]; n++ {
			if _, err := sink.Write(buf.Bytes()); err != nil {
				return fmt.Errorf("write frames for scene %d: %w", k+1, err)
			}
		}

		if c.OnProgress != nil {
			c.OnProgress(k+1, total)
		}
	}
	return nil
}

// preloadImages decodes every scene image up front, in parallel, so a broken
// image aborts the export before any encoding starts.
func (c *Compositor) preloadImages(ctx context.Context, scenes []models.Scene) ([]image.Image, error) {
	images := make([]image.Image, len(scenes))
	g, ctx := errgroup.WithContext(ctx)
	for i := range scenes {
		g.Go(func() error {
			raw, err := base64.StdEncoding.DecodeString(scenes[i].ImageB64)
			if err != nil {
				return fmt.Errorf("%w: scene %d image: %v", render.ErrRender, i+1, err)
			}
			img, _, err := image.Decode(bytes.NewReader(raw))
			if err != nil {
				return fmt.Errorf("%w: scene %d image: %v", render.ErrRender, i+1, err)
			}
			images[i] = img
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// FramePlan maps per-scene durations to per-scene frame counts at the given
// frame rate. Counts come from cumulative timeline deadlines rather than
// per-scene rounding, so rounding error never accumulates across scenes.
// Every scene gets at least one frame.
func FramePlan(durations []float64, fps int) []int {
	counts := make([]int, len(durations))
	cum := 0.0
	prev := 0
	for i, d := range durations {
		cum += d
		end := int(math.Round(cum * float64(fps)))
		if end < prev+1 {
			end = prev + 1
		}
		counts[i] = end - prev
		prev = end
	}
	return counts
}
