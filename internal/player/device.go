package player

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"storystudio/internal/audio"
)

// Source is one in-flight narration clip on the output device.
type Source interface {
	// Stop halts playback. Safe to call any number of times, including after
	// the clip already finished naturally.
	Stop()
	// Done is closed when the clip ends naturally. It never fires for a
	// stopped source.
	Done() <-chan struct{}
}

// Device is the audio output resource. It is acquired once at startup,
// injected into every playback controller, and released on teardown.
type Device interface {
	Play(samples []float32) (Source, error)
	Close() error
}

// OtoDevice plays clips through the system audio device via oto.
type OtoDevice struct {
	ctx *oto.Context
}

// NewOtoDevice acquires the process-wide audio context and blocks until the
// device is ready.
func NewOtoDevice() (*OtoDevice, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   audio.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("acquire audio device: %w", err)
	}
	<-ready
	return &OtoDevice{ctx: ctx}, nil
}

func (d *OtoDevice) Play(samples []float32) (Source, error) {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		v := int(s * 32768.0)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		pcm[2*i] = byte(uint16(v))
		pcm[2*i+1] = byte(uint16(v) >> 8)
	}

	p := d.ctx.NewPlayer(bytes.NewReader(pcm))
	src := &otoSource{player: p, done: make(chan struct{})}
	p.Play()
	go src.watch()
	return src, nil
}

// Close releases the output device. The oto context itself is process-wide,
// so release suspends it rather than destroying it.
func (d *OtoDevice) Close() error {
	return d.ctx.Suspend()
}

type otoSource struct {
	player  *oto.Player
	done    chan struct{}
	mu      sync.Mutex
	stopped bool
}

func (s *otoSource) watch() {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}
		if !s.player.IsPlaying() {
			s.player.Close()
			close(s.done)
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
	}
}

func (s *otoSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	s.player.Close()
}

func (s *otoSource) Done() <-chan struct{} {
	return s.done
}

// SilentDevice plays nothing but honors clip durations in real time, so the
// controller behaves identically on hosts without an audio device.
type SilentDevice struct{}

func NewSilentDevice() *SilentDevice { return &SilentDevice{} }

func (d *SilentDevice) Play(samples []float32) (Source, error) {
	duration := time.Duration(float64(len(samples)) / audio.SampleRate * float64(time.Second))
	src := &silentSource{done: make(chan struct{})}
	src.timer = time.AfterFunc(duration, src.finish)
	return src, nil
}

func (d *SilentDevice) Close() error { return nil }

type silentSource struct {
	timer   *time.Timer
	done    chan struct{}
	mu      sync.Mutex
	stopped bool
	ended   bool
}

func (s *silentSource) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.ended {
		return
	}
	s.ended = true
	close(s.done)
}

func (s *silentSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.ended {
		s.stopped = true
		return
	}
	s.stopped = true
	s.timer.Stop()
}

func (s *silentSource) Done() <-chan struct{} {
	return s.done
}
