package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
)

var (
	// ErrNotFound is returned when an input file does not exist.
	ErrNotFound = errors.New("input file not found")

	// ErrUnsupportedFormat is returned for file extensions the analyzer cannot read.
	ErrUnsupportedFormat = errors.New("unsupported input format")
)

// rasterFormats maps supported raster extensions to format names.
var rasterFormats = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".tif":  "tiff",
	".tiff": "tiff",
	".bmp":  "bmp",
}

// FormatOf returns the raster format name for path based on its extension,
// or "" when the extension is not a supported raster format.
func FormatOf(path string) string {
	return rasterFormats[strings.ToLower(filepath.Ext(path))]
}

// IsRaster reports whether path has a supported raster extension.
func IsRaster(path string) bool {
	return FormatOf(path) != ""
}

// CheckInput verifies that path exists and is a regular file.
func CheckInput(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("failed to stat input: %w", err)
	}
	if st.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrUnsupportedFormat, path)
	}
	return nil
}

// ImageCache provides thread-safe caching of decoded floor-plan pages.
//
// The cache stores decoded image.Image objects keyed by their file path. The
// MCP server keeps one cache for its lifetime so repeated tool calls on the
// same drawing decode it once.
//
// ImageCache is safe for concurrent use by multiple goroutines.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// # Errors
//
//   - ErrNotFound if the file does not exist
//   - ErrUnsupportedFormat if the extension is not PNG, JPEG, GIF, TIFF or BMP
//   - a wrapped decode error if the file is not a valid image
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Load decodes a raster image without caching.
func Load(path string) (image.Image, error) {
	if err := CheckInput(path); err != nil {
		return nil, err
	}
	if !IsRaster(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// ImageInfo contains metadata about a floor-plan page file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format derived from the extension: "png", "jpeg", "gif",
	// "tiff" or "bmp".
	Format string `json:"format"`

	// Grayscale is true when the decoded image has a gray color model.
	Grayscale bool `json:"grayscale"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and reports its metadata.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	grayscale := false
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		grayscale = true
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        FormatOf(path),
		Grayscale:     grayscale,
		FileSizeBytes: stat.Size(),
	}, nil
}
