package player

import (
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storystudio/internal/audio"
)

// fakeDevice hands out sources whose completion the test drives by hand.
type fakeDevice struct {
	mu      sync.Mutex
	sources []*fakeSource
}

func (d *fakeDevice) Play(samples []float32) (Source, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	src := &fakeSource{done: make(chan struct{})}
	d.sources = append(d.sources, src)
	return src, nil
}

func (d *fakeDevice) Close() error { return nil }

func (d *fakeDevice) source(i int) *fakeSource {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sources[i]
}

func (d *fakeDevice) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sources)
}

type fakeSource struct {
	mu      sync.Mutex
	done    chan struct{}
	stopped int
}

func (s *fakeSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped++
}

func (s *fakeSource) Done() <-chan struct{} { return s.done }

func (s *fakeSource) stopCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// finish simulates the clip ending naturally.
func (s *fakeSource) finish() { close(s.done) }

func validPayload() string {
	return base64.StdEncoding.EncodeToString(make([]byte, 480)) // 240 samples
}

func newTestController(d Device, payloads ...string) *Controller {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewController(d, audio.NewCache(), payloads, log)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never met")
}

func TestPlayStopsPriorSource(t *testing.T) {
	device := &fakeDevice{}
	c := newTestController(device, validPayload(), validPayload())

	require.NoError(t, c.Play(0))
	require.NoError(t, c.Play(1))

	// Scene 0's source was stopped before scene 1 became audible.
	assert.Equal(t, 1, device.source(0).stopCount())
	assert.Equal(t, 0, device.source(1).stopCount())
	assert.Equal(t, State{ActiveScene: 1, PlayingAll: false}, c.State())
}

func TestNaturalEndReturnsToIdle(t *testing.T) {
	device := &fakeDevice{}
	c := newTestController(device, validPayload())

	require.NoError(t, c.Play(0))
	device.source(0).finish()

	waitFor(t, func() bool { return c.State().ActiveScene == -1 })
	assert.Equal(t, 1, device.count()) // no auto-advance in single-scene mode
}

func TestStopIsIdempotent(t *testing.T) {
	device := &fakeDevice{}
	c := newTestController(device, validPayload())

	require.NoError(t, c.Play(0))
	c.Stop()
	c.Stop() // second stop while idle must not panic

	assert.Equal(t, State{ActiveScene: -1, PlayingAll: false}, c.State())

	// Stop after a natural end is equally safe.
	require.NoError(t, c.Play(0))
	device.source(1).finish()
	waitFor(t, func() bool { return c.State().ActiveScene == -1 })
	c.Stop()
}

func TestToggleAllAdvancesThenIdles(t *testing.T) {
	device := &fakeDevice{}
	c := newTestController(device, validPayload(), validPayload(), validPayload())

	require.NoError(t, c.ToggleAll())
	assert.Equal(t, State{ActiveScene: 0, PlayingAll: true}, c.State())

	device.source(0).finish()
	waitFor(t, func() bool { return c.State().ActiveScene == 1 })
	assert.True(t, c.State().PlayingAll)

	device.source(1).finish()
	waitFor(t, func() bool { return c.State().ActiveScene == 2 })

	device.source(2).finish()
	waitFor(t, func() bool { return c.State().ActiveScene == -1 })
	assert.False(t, c.State().PlayingAll)
}

func TestToggleAllWhilePlayingAllStops(t *testing.T) {
	device := &fakeDevice{}
	c := newTestController(device, validPayload(), validPayload())

	require.NoError(t, c.ToggleAll())
	require.NoError(t, c.ToggleAll())

	assert.Equal(t, State{ActiveScene: -1, PlayingAll: false}, c.State())
	assert.Equal(t, 1, device.source(0).stopCount())
}

func TestAutoAdvanceDecodeFailureStopsCleanly(t *testing.T) {
	device := &fakeDevice{}
	bad := base64.StdEncoding.EncodeToString([]byte{0x01}) // truncated sample
	c := newTestController(device, validPayload(), bad, validPayload())

	require.NoError(t, c.ToggleAll())
	device.source(0).finish()

	// Scene 1 cannot decode; the controller must land in idle, not wedge.
	waitFor(t, func() bool {
		s := c.State()
		return s.ActiveScene == -1 && !s.PlayingAll
	})
	assert.Equal(t, 1, device.count())
}

func TestPlayOutOfRange(t *testing.T) {
	device := &fakeDevice{}
	c := newTestController(device, validPayload())

	require.Error(t, c.Play(-1))
	require.Error(t, c.Play(1))
}

func TestOnSceneStartFires(t *testing.T) {
	device := &fakeDevice{}
	c := newTestController(device, validPayload(), validPayload())

	var mu sync.Mutex
	var started []int
	c.OnSceneStart = func(i int) {
		mu.Lock()
		started = append(started, i)
		mu.Unlock()
	}

	require.NoError(t, c.ToggleAll())
	device.source(0).finish()
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(started) == 2
	})

	mu.Lock()
	assert.Equal(t, []int{0, 1}, started)
	mu.Unlock()
}
