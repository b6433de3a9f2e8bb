package render

import (
	"image"
	"image/png"
	"io"
)

// Surface is the single drawing target. Only the pipeline writes to it.
type Surface struct {
	img *image.RGBA
}

func NewSurface(size int) *Surface {
	s := &Surface{}
	s.EnsureSize(size)
	return s
}

// EnsureSize reallocates the pixels only when the size actually changes.
// It reports whether a reallocation happened.
func (s *Surface) EnsureSize(size int) bool {
	if size <= 0 {
		size = 1
	}
	if s.img != nil && s.img.Rect.Dx() == size && s.img.Rect.Dy() == size {
		return false
	}
	s.img = image.NewRGBA(image.Rect(0, 0, size, size))
	return true
}

func (s *Surface) Size() int { return s.img.Rect.Dx() }

// Pixels returns the live pixel buffer.
func (s *Surface) Pixels() *image.RGBA { return s.img }

// Snapshot returns a copy of the current pixels.
func (s *Surface) Snapshot() *image.RGBA {
	out := image.NewRGBA(s.img.Rect)
	copy(out.Pix, s.img.Pix)
	return out
}

// EncodePNG writes the surface as a lossless PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	return enc.Encode(w, s.img)
}
