// Package texture provides the atlas texture collaborator.
//
// The atlas never owns its texture: a rendering subsystem creates it, the
// packer allocates and grows it through the Texture interface while building
// the atlas, and the texture outlives the font. Memory is a CPU-side
// implementation that can push its pixels to a GPU texture once packing is
// done.
package texture

import (
	"errors"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Sentinel errors for texture operations.
var (
	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("texture: invalid dimensions")

	// ErrNotAllocated is returned when blitting into a texture without storage.
	ErrNotAllocated = errors.New("texture: not allocated")

	// ErrShrink is returned when Resize would drop existing pixels.
	ErrShrink = errors.New("texture: resize cannot shrink")

	// ErrNoUpdater is returned by Upload when the target cannot receive pixels.
	ErrNoUpdater = errors.New("texture: target does not implement gpucontext.TextureUpdater")

	// ErrSizeMismatch is returned by Upload when the target texture has a
	// different size than the atlas.
	ErrSizeMismatch = errors.New("texture: target size mismatch")
)

// Texture is the atlas surface the packer writes glyph cells into.
type Texture interface {
	// Allocate (re)creates storage of the given size. Previous content is lost.
	Allocate(width, height int) error

	// Resize changes the storage size, keeping the pixels already written.
	Resize(width, height int) error

	// Blit copies src so that its bounds' top-left lands at (x, y).
	Blit(src image.Image, x, y int) error

	// Size returns the current dimensions, (0, 0) before allocation.
	Size() (width, height int)
}

// Descriptor describes the GPU texture an atlas should be uploaded to.
type Descriptor struct {
	Width  uint32
	Height uint32
	Format gputypes.TextureFormat
	Usage  gputypes.TextureUsage
}

// DefaultUsage is the usage of atlas textures: sampled in shaders and
// written by uploads.
const DefaultUsage = gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding

// BytesPerPixel returns the texel size of d.Format. Atlas textures are
// always RGBA8; other formats report 0.
func (d Descriptor) BytesPerPixel() int {
	switch d.Format {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb:
		return 4
	default:
		return 0
	}
}

// ByteSize returns the size of a tightly packed upload for d.
func (d Descriptor) ByteSize() int {
	return int(d.Width) * int(d.Height) * d.BytesPerPixel()
}

// Fits reports whether t has the dimensions of d.
func (d Descriptor) Fits(t gpucontext.Texture) bool {
	return t.Width() == int(d.Width) && t.Height() == int(d.Height)
}

// DescriptorFor returns the descriptor matching t's current size.
func DescriptorFor(t Texture) Descriptor {
	w, h := t.Size()
	return Descriptor{
		Width:  uint32(w), //nolint:gosec // sizes are validated positive on allocation
		Height: uint32(h), //nolint:gosec // sizes are validated positive on allocation
		Format: gputypes.TextureFormatRGBA8Unorm,
		Usage:  DefaultUsage,
	}
}
