package audio

import "sync"

type soundKey struct {
	sound   SoundType
	variant int
}

// soundCache stores pre-rendered unity-gain float buffers
type soundCache struct {
	mu    sync.RWMutex
	store map[soundKey]floatBuffer
}

func newSoundCache() *soundCache {
	return &soundCache{store: make(map[soundKey]floatBuffer)}
}

// get returns the cached buffer, rendering it on first use
// Unknown sounds and render failures yield nil
func (c *soundCache) get(st SoundType, variant int) floatBuffer {
	if st < 0 || st >= soundTypeCount {
		return nil
	}
	v := variant % variants(st)
	if v < 0 {
		v += variants(st)
	}
	key := soundKey{st, v}

	c.mu.RLock()
	buf, ok := c.store[key]
	c.mu.RUnlock()
	if ok {
		return buf
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if buf, ok := c.store[key]; ok {
		return buf
	}

	buf, err := synthesize(key.sound, key.variant)
	if err != nil {
		return nil
	}
	c.store[key] = buf
	return buf
}

// preload renders every variant so the mixer never synthesizes mid-tick
func (c *soundCache) preload() {
	for st := SoundType(0); st < soundTypeCount; st++ {
		for v := 0; v < variants(st); v++ {
			c.get(st, v)
		}
	}
}
