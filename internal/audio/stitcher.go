package audio

import (
	"errors"
	"fmt"
)

// ErrStitch marks a timeline assembly failure. Stitching is all-or-nothing:
// dropping one scene's audio would silently desynchronize every later frame
// from its narration.
var ErrStitch = errors.New("audio stitch failed")

// Timeline is the full narration track: every scene's samples concatenated
// in order, plus the per-scene durations the compositor uses to hold each
// frame on screen.
type Timeline struct {
	Samples   []float32
	Durations []float64
}

// TotalDuration returns the stitched length in seconds.
func (t *Timeline) TotalDuration() float64 {
	return float64(len(t.Samples)) / SampleRate
}

// Stitch decodes every payload through the cache and concatenates the
// results at cumulative offsets. Any scene failing to decode fails the whole
// stitch with ErrStitch.
func Stitch(cache *Cache, payloads []string) (*Timeline, error) {
	buffers := make([]*Buffer, len(payloads))
	total := 0
	for i, payload := range payloads {
		buf, err := cache.Decode(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: scene %d: %v", ErrStitch, i+1, err)
		}
		buffers[i] = buf
		total += len(buf.Samples)
	}

	timeline := &Timeline{
		Samples:   make([]float32, 0, total),
		Durations: make([]float64, len(buffers)),
	}
	for i, buf := range buffers {
		timeline.Samples = append(timeline.Samples, buf.Samples...)
		timeline.Durations[i] = buf.Duration()
	}
	return timeline, nil
}
