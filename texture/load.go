package texture

import (
	"fmt"
	"image"
	"os"

	// Registered decoders for bitmap font sources.
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadImage decodes a PNG, BMP, TIFF or WebP file into a memory texture.
func LoadImage(path string) (*Memory, error) {
	// #nosec G304 -- image path is provided by the user
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: failed to open image: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture: failed to decode %s: %w", path, err)
	}
	return NewMemoryFromImage(img), nil
}
