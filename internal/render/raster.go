package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/rook-computer/ringpfp/internal/variant"
)

// pathFunc adds a path to dc, in coordinates local to the mask origin.
type pathFunc func(dc *gg.Context, ox, oy float64)

// coverage rasterizes a path into an anti-aliased alpha mask covering r.
func coverage(r image.Rectangle, rule gg.FillRule, build pathFunc) (*image.Alpha, error) {
	mask := image.NewAlpha(r)
	if r.Empty() {
		return mask, nil
	}
	dc := gg.NewContext(r.Dx(), r.Dy())
	defer dc.Close()
	dc.SetFillRule(rule)
	dc.SetFillBrush(gg.Solid(gg.White))
	build(dc, float64(r.Min.X), float64(r.Min.Y))
	if err := dc.Fill(); err != nil {
		return nil, err
	}
	rgba, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, errUnexpectedImage
	}
	for y := 0; y < r.Dy(); y++ {
		src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+r.Dx()*4]
		dst := mask.Pix[y*mask.Stride : y*mask.Stride+r.Dx()]
		for x := range dst {
			dst[x] = src[x*4+3]
		}
	}
	return mask, nil
}

func circlePath(cx, cy, radius float64) pathFunc {
	return func(dc *gg.Context, ox, oy float64) {
		dc.DrawCircle(cx-ox, cy-oy, radius)
	}
}

func annulusPath(cx, cy, inner, outer float64) pathFunc {
	return func(dc *gg.Context, ox, oy float64) {
		dc.DrawCircle(cx-ox, cy-oy, outer)
		dc.NewSubPath()
		dc.DrawCircle(cx-ox, cy-oy, inner)
	}
}

// circleBounds is the pixel rectangle enclosing a circle, clipped to clip.
func circleBounds(cx, cy, radius float64, clip image.Rectangle) image.Rectangle {
	r := image.Rect(
		int(math.Floor(cx-radius))-1,
		int(math.Floor(cy-radius))-1,
		int(math.Ceil(cx+radius))+1,
		int(math.Ceil(cy+radius))+1,
	)
	return r.Intersect(clip)
}

// shade evaluates a brush at pixel centers over r.
func shade(r image.Rectangle, brush gg.Brush) *image.NRGBA {
	img := image.NewNRGBA(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			c := brush.ColorAt(float64(x)+0.5, float64(y)+0.5)
			img.Pix[i+0] = unit8(c.R)
			img.Pix[i+1] = unit8(c.G)
			img.Pix[i+2] = unit8(c.B)
			img.Pix[i+3] = unit8(c.A)
			i += 4
		}
	}
	return img
}

func unit8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// ggColor converts a non-premultiplied variant color for gg brushes.
func ggColor(c variant.Color) gg.RGBA {
	return gg.RGBA2(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
}

// fillBrush composites brush over dst inside r, optionally restricted by mask.
func fillBrush(dst *image.RGBA, r image.Rectangle, brush gg.Brush, mask *image.Alpha) {
	r = r.Intersect(dst.Rect)
	if r.Empty() {
		return
	}
	var src image.Image
	sp := r.Min
	if solid, ok := brush.(gg.SolidBrush); ok {
		src = image.NewUniform(solid.Color.Color())
		sp = image.Point{}
	} else {
		src = shade(r, brush)
	}
	if mask == nil {
		draw.Draw(dst, r, src, sp, draw.Over)
		return
	}
	draw.DrawMask(dst, r, src, sp, mask, r.Min, draw.Over)
}

// blurred renders a blurred copy of src (which must start at the origin).
func blurred(src *image.RGBA, radius float64) *image.RGBA {
	if radius <= 0 {
		return src
	}
	return blur.Gaussian(src, radius)
}

// placeImage draws src into dst through the affine map s2d.
func placeImage(dst *image.RGBA, s2d f64.Aff3, src image.Image, interp xdraw.Interpolator) {
	interp.Transform(dst, s2d, src, src.Bounds(), xdraw.Over, nil)
}

// rotatedPlacement maps src onto a size×size square centered at (x, y) and
// rotated by rotation radians.
func rotatedPlacement(src image.Rectangle, size, x, y, rotation float64) f64.Aff3 {
	kx := size / float64(src.Dx())
	ky := size / float64(src.Dy())
	cos, sin := math.Cos(rotation), math.Sin(rotation)
	lx := -kx*float64(src.Min.X) - size/2
	ly := -ky*float64(src.Min.Y) - size/2
	return f64.Aff3{
		cos * kx, -sin * ky, x + cos*lx - sin*ly,
		sin * kx, cos * ky, y + sin*lx + cos*ly,
	}
}

// boxPlacement maps src onto the axis-aligned box (x, y, w, h).
func boxPlacement(src image.Rectangle, x, y, w, h float64) f64.Aff3 {
	kx := w / float64(src.Dx())
	ky := h / float64(src.Dy())
	return f64.Aff3{
		kx, 0, x - kx*float64(src.Min.X),
		0, ky, y - ky*float64(src.Min.Y),
	}
}

// scaled resamples src to a w×h image at the origin.
func scaled(src image.Image, w, h int) *image.RGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Rect, src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// opacityMask is a uniform mask for drawing at a fixed opacity.
func opacityMask(opacity float64) image.Image {
	return image.NewUniform(color.Alpha{A: unit8(opacity)})
}
