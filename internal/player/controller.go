package player

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"storystudio/internal/audio"
)

// State is a snapshot of the controller for UI consumption.
type State struct {
	ActiveScene int  `json:"active_scene"` // -1 when idle
	PlayingAll  bool `json:"playing_all"`
}

// Controller sequences per-scene narration playback for one storyboard.
// At most one source is ever active: starting any playback stops the
// previous source first.
type Controller struct {
	device   Device
	cache    *audio.Cache
	payloads []string
	log      *logrus.Logger

	// OnSceneStart, when set, is invoked (outside the lock) every time a
	// scene starts, so the UI can scroll the scene into focus.
	OnSceneStart func(scene int)

	mu         sync.Mutex
	current    Source
	active     int
	playingAll bool
	generation int
}

func NewController(device Device, cache *audio.Cache, payloads []string, log *logrus.Logger) *Controller {
	return &Controller{
		device:   device,
		cache:    cache,
		payloads: payloads,
		log:      log,
		active:   -1,
	}
}

// Play starts single-scene playback of scene i, stopping anything already
// playing. Clicking a scene always leaves play-all mode.
func (c *Controller) Play(i int) error {
	return c.play(i, false)
}

// ToggleAll starts play-all mode at scene 0, or stops it if already running.
func (c *Controller) ToggleAll() error {
	c.mu.Lock()
	all := c.playingAll
	c.mu.Unlock()
	if all {
		c.Stop()
		return nil
	}
	if len(c.payloads) == 0 {
		return nil
	}
	return c.play(0, true)
}

// Stop halts playback and returns to idle. Idempotent: calling it while
// already idle, or after the source finished naturally, is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.stopLocked()
	c.mu.Unlock()
}

// State returns the current playback snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{ActiveScene: c.active, PlayingAll: c.playingAll}
}

// SceneCount reports how many scenes the controller sequences.
func (c *Controller) SceneCount() int {
	return len(c.payloads)
}

func (c *Controller) play(i int, all bool) error {
	c.mu.Lock()

	if i < 0 || i >= len(c.payloads) {
		c.mu.Unlock()
		return fmt.Errorf("scene index %d out of range", i)
	}

	c.stopLocked()

	buf, err := c.cache.Decode(c.payloads[i])
	if err != nil {
		c.mu.Unlock()
		c.log.WithError(err).Warnf("Skipping unplayable audio for scene %d", i+1)
		return err
	}

	src, err := c.device.Play(buf.Samples)
	if err != nil {
		c.mu.Unlock()
		c.log.WithError(err).Errorf("Audio device rejected scene %d", i+1)
		return err
	}

	c.current = src
	c.active = i
	c.playingAll = all
	gen := c.generation
	onStart := c.OnSceneStart
	c.mu.Unlock()

	if onStart != nil {
		onStart(i)
	}

	go c.watch(src, i, gen)
	return nil
}

// watch waits for natural end of scene i and either auto-advances (play-all)
// or returns to idle. A stale generation means the scene was stopped or
// replaced and the sequence no longer belongs to this watcher.
func (c *Controller) watch(src Source, i int, gen int) {
	<-src.Done()

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	advance := c.playingAll && i+1 < len(c.payloads)
	c.stopLocked()
	c.mu.Unlock()

	if !advance {
		return
	}
	// A decode failure mid-sequence stops cleanly at the failed scene.
	if err := c.play(i+1, true); err != nil {
		c.log.WithError(err).Warn("Play-all stopped early")
	}
}

// stopLocked halts the current source, if any, and resets to idle. Bumping
// the generation invalidates any watcher still waiting on an old source.
func (c *Controller) stopLocked() {
	if c.current != nil {
		c.current.Stop()
		c.current = nil
	}
	c.active = -1
	c.playingAll = false
	c.generation++
}
