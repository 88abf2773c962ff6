package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storystudio/internal/audio"
	"storystudio/internal/player"
	"storystudio/models"
)

// ErrNotFound is returned when no storyboard exists for an id.
var ErrNotFound = errors.New("storyboard not found")

// Session is one open storyboard: its scenes, its decoded-audio cache and
// its playback controller. The cache and controller live exactly as long as
// the session does.
type Session struct {
	ID          string
	AspectRatio models.AspectRatio
	Scenes      []models.Scene
	Cache       *audio.Cache
	Player      *player.Controller
	CreatedAt   time.Time
}

// Close tears the session down: playback stops and the audio cache is
// emptied.
func (s *Session) Close() {
	s.Player.Stop()
	s.Cache.Clear()
}

// Manager owns all open storyboard sessions. The audio device is created
// once at startup and shared across sessions.
type Manager struct {
	device player.Device
	log    *logrus.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates and returns a new Manager.
func NewManager(device player.Device, log *logrus.Logger) *Manager {
	return &Manager{
		device:   device,
		log:      log,
		sessions: make(map[string]*Session),
	}
}

// Create opens a session for a freshly generated storyboard and wires its
// playback controller to the scene audio.
func (m *Manager) Create(ar models.AspectRatio, scenes []models.Scene) *Session {
	cache := audio.NewCache()
	payloads := make([]string, len(scenes))
	for i, scene := range scenes {
		payloads[i] = scene.AudioB64
	}

	s := &Session{
		ID:          uuid.New().String(),
		AspectRatio: ar,
		Scenes:      scenes,
		Cache:       cache,
		Player:      player.NewController(m.device, cache, payloads, m.log),
		CreatedAt:   time.Now(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.WithFields(logrus.Fields{"storyboard": s.ID, "scenes": len(scenes)}).Info("Storyboard session created")
	return s
}

// Get returns the session for an id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete closes and removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	s.Close()
	m.log.WithField("storyboard", id).Info("Storyboard session closed")
	return nil
}

// List returns all open sessions in no particular order.
func (m *Manager) List() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// CloseAll tears down every open session, used at shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
