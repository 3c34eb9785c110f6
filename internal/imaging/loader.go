package imaging

import (
	"sync"
)

// BufferCache keeps decoded photos keyed by path so repeated filter runs on
// the same asset skip the decode.
//
// BufferCache is safe for concurrent use. Load hands out clones, so callers
// may process the returned buffer freely without disturbing the cached copy.
type BufferCache struct {
	mu      sync.RWMutex
	buffers map[string]*Buffer
}

// NewBufferCache creates an empty cache.
func NewBufferCache() *BufferCache {
	return &BufferCache{
		buffers: make(map[string]*Buffer),
	}
}

// Load returns a copy of the buffer decoded from path, decoding it on first use.
//
// The path string is the key: a relative and an absolute path to the same
// file occupy separate entries.
func (c *BufferCache) Load(path string) (*Buffer, error) {
	c.mu.RLock()
	if buf, ok := c.buffers[path]; ok {
		c.mu.RUnlock()
		return buf.Clone(), nil
	}
	c.mu.RUnlock()

	buf, err := FromFile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.buffers[path] = buf
	c.mu.Unlock()

	return buf.Clone(), nil
}

// Len reports how many buffers are cached.
func (c *BufferCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.buffers)
}

// Clear drops every cached buffer.
func (c *BufferCache) Clear() {
	c.mu.Lock()
	c.buffers = make(map[string]*Buffer)
	c.mu.Unlock()
}

// Evict drops the buffer cached for path, if any. The asset store calls this
// after deleting a photo.
func (c *BufferCache) Evict(path string) {
	c.mu.Lock()
	delete(c.buffers, path)
	c.mu.Unlock()
}
