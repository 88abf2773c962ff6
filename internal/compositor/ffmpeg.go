package compositor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"time"
)

// Muxer turns a stream of JPEG frames plus a WAV narration file into the
// final video container.
type Muxer interface {
	// Start launches the encode and returns the sink frames are written to.
	Start(ctx context.Context, audioPath, outPath string, fps int) (io.WriteCloser, error)
	// Wait blocks until the encode finishes after the sink is closed.
	Wait() error
}

// FFmpegMuxer drives an external ffmpeg process: frames are piped on stdin
// (image2pipe) and muxed with the narration WAV into VP9/Opus WebM.
type FFmpegMuxer struct {
	Path string // ffmpeg binary, e.g. "ffmpeg"

	cmd    *exec.Cmd
	stderr bytes.Buffer
}

func (m *FFmpegMuxer) Start(ctx context.Context, audioPath, outPath string, fps int) (io.WriteCloser, error) {
	rate := strconv.Itoa(fps)
	cmd := exec.CommandContext(ctx, m.Path,
		"-y",
		"-f", "image2pipe",
		"-framerate", rate,
		"-i", "-",
		"-i", audioPath,
		"-c:v", "libvpx-vp9",
		"-b:v", "2M",
		"-pix_fmt", "yuv420p",
		"-c:a", "libopus",
		"-b:a", "96k",
		"-r", rate,
		outPath,
	)
	cmd.Stderr = &m.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdin: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed to start: %w", err)
	}
	m.cmd = cmd
	return stdin, nil
}

func (m *FFmpegMuxer) Wait() error {
	if err := m.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg failed: %v\nStderr: %s", err, m.stderr.String())
	}
	return nil
}

// ffprobeOutput captures the single field we need from ffprobe JSON.
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ProbeDuration uses ffprobe to read the duration of a finished export, for
// logging and sanity checks.
func ProbeDuration(filePath string) (time.Duration, error) {
	cmd := exec.Command("ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		filePath,
	)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %v\nStderr: %s", err, stderr.String())
	}

	var probed ffprobeOutput
	if err := json.Unmarshal(out.Bytes(), &probed); err != nil {
		return 0, fmt.Errorf("error unmarshalling ffprobe output: %v\nOutput: %s", err, out.String())
	}
	if probed.Format.Duration == "" {
		return 0, fmt.Errorf("could not retrieve duration from ffprobe output\nOutput: %s", out.String())
	}

	seconds, err := strconv.ParseFloat(probed.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing duration string '%s': %v", probed.Format.Duration, err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}
