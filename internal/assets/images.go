// Package assets loads the page's external resources: the logo image and
// whatever must be ready before the ticker starts.
package assets

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

type probeResult struct {
	img image.Image
	err error
}

// ImageCache decodes images once per path. Failures are cached too, so a
// missing logo is only looked for once.
type ImageCache struct {
	mu      sync.Mutex
	entries map[string]probeResult
}

func NewImageCache() *ImageCache {
	return &ImageCache{entries: make(map[string]probeResult)}
}

// Probe returns the decoded image at path.
func (c *ImageCache) Probe(path string) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.entries[path]; ok {
		return r.img, r.err
	}
	img, err := c.decode(path)
	c.entries[path] = probeResult{img: img, err: err}
	return img, err
}

func (c *ImageCache) decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}

// Cached reports whether path has been probed.
func (c *ImageCache) Cached(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[path]
	return ok
}
