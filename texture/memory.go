package texture

import (
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	xdraw "golang.org/x/image/draw"
)

// Memory is a CPU texture backed by an *image.NRGBA.
//
// Memory is NOT safe for concurrent use.
type Memory struct {
	img *image.NRGBA
}

// NewMemory returns an unallocated memory texture.
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryFromImage returns a memory texture holding a copy of img.
func NewMemoryFromImage(img image.Image) *Memory {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(dst, image.Point{}, img, b, xdraw.Src, nil)
	return &Memory{img: dst}
}

// Allocate implements Texture.
func (m *Memory) Allocate(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	m.img = image.NewNRGBA(image.Rect(0, 0, width, height))
	return nil
}

// Resize implements Texture. Growing keeps existing pixels at the same
// coordinates; shrinking is rejected.
func (m *Memory) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if m.img == nil {
		return m.Allocate(width, height)
	}
	old := m.img.Bounds()
	if width < old.Dx() || height < old.Dy() {
		return fmt.Errorf("%w: %dx%d -> %dx%d", ErrShrink, old.Dx(), old.Dy(), width, height)
	}
	if width == old.Dx() && height == old.Dy() {
		return nil
	}
	grown := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.Copy(grown, image.Point{}, m.img, old, xdraw.Src, nil)
	m.img = grown
	return nil
}

// Blit implements Texture. Pixels falling outside the texture are clipped.
func (m *Memory) Blit(src image.Image, x, y int) error {
	if m.img == nil {
		return ErrNotAllocated
	}
	if src == nil {
		return nil
	}
	xdraw.Copy(m.img, image.Pt(x, y), src, src.Bounds(), xdraw.Src, nil)
	return nil
}

// Size implements Texture.
func (m *Memory) Size() (width, height int) {
	if m.img == nil {
		return 0, 0
	}
	b := m.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the backing image, nil before allocation.
// The image is shared, not copied.
func (m *Memory) Image() *image.NRGBA {
	return m.img
}

// Upload pushes the pixels to dst, which must implement
// gpucontext.TextureUpdater. When dst also reports its size as a
// gpucontext.Texture, the size must match the descriptor of m.
func (m *Memory) Upload(dst any) error {
	if m.img == nil {
		return ErrNotAllocated
	}
	updater, ok := dst.(gpucontext.TextureUpdater)
	if !ok {
		return ErrNoUpdater
	}
	d := DescriptorFor(m)
	if gt, ok := dst.(gpucontext.Texture); ok && !d.Fits(gt) {
		return fmt.Errorf("%w: target is %dx%d, atlas is %dx%d",
			ErrSizeMismatch, gt.Width(), gt.Height(), d.Width, d.Height)
	}
	if err := updater.UpdateData(m.img.Pix[:d.ByteSize()]); err != nil {
		return fmt.Errorf("texture: upload failed: %w", err)
	}
	return nil
}

// Create makes a GPU texture holding the pixels of m, sized from its
// descriptor.
func (m *Memory) Create(creator gpucontext.TextureCreator) (gpucontext.Texture, error) {
	if m.img == nil {
		return nil, ErrNotAllocated
	}
	d := DescriptorFor(m)
	tex, err := creator.NewTextureFromRGBA(int(d.Width), int(d.Height), m.img.Pix[:d.ByteSize()])
	if err != nil {
		return nil, fmt.Errorf("texture: create failed: %w", err)
	}
	return tex, nil
}
