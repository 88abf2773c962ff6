package audio

import "sync"

// Cache memoizes decoded narration clips keyed by their raw base64 encoding.
// Decoding is idempotent, so the cache only exists to avoid redundant CPU
// work when a scene is replayed or reused across playback and export. It is
// scoped to one storyboard session and cleared at teardown.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Buffer
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Buffer)}
}

// Decode returns the cached Buffer for the payload, decoding on first use.
// Decode failures are not cached.
func (c *Cache) Decode(b64 string) (*Buffer, error) {
	c.mu.Lock()
	if buf, ok := c.entries[b64]; ok {
		c.mu.Unlock()
		return buf, nil
	}
	c.mu.Unlock()

	buf, err := Decode(b64)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[b64] = buf
	c.mu.Unlock()
	return buf, nil
}

// Len reports the number of cached clips.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every cached clip. Called when the owning session ends.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Buffer)
}
