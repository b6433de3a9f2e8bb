package render

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/rook-computer/ringpfp/internal/geometry"
	"github.com/rook-computer/ringpfp/internal/state"
	"github.com/rook-computer/ringpfp/internal/variant"
)

var errUnexpectedImage = errors.New("render: unexpected context image type")

// shadowPad is how many blur radii the shadow buffer extends past the disk.
// The Gaussian kernel reaches exactly one radius.
const shadowPad = 1

// Logger receives component-tagged log lines.
type Logger interface {
	Infof(component, format string, args ...interface{})
	Errorf(component, format string, args ...interface{})
}

// Pipeline draws one frame from a state snapshot. A Pipeline is not safe for
// concurrent use; callers serialize Render calls around the surface.
type Pipeline struct {
	Variant variant.Variant
	Logger  Logger
	Debug bool

	stamp cachedImage
	mark  cachedImage
}

// cachedImage keeps one resampled copy of a source image at a given size.
type cachedImage struct {
	src  *state.Image
	size int
	img  *image.RGBA
}

func (c *cachedImage) get(src *state.Image, size int) *image.RGBA {
	if c.img == nil || c.src != src || c.size != size {
		c.src = src
		c.size = size
		c.img = scaled(src.Image, size, size)
	}
	return c.img
}

func NewPipeline(v variant.Variant) *Pipeline {
	return &Pipeline{Variant: v}
}

// Render resizes the surface to the canvas size and draws, in order: clear,
// background, placeholder (when no avatar and then stops), shadow, border,
// avatar, stamp ring and watermark.
func (p *Pipeline) Render(s *Surface, st state.State) error {
	params := st.Params
	if err := params.Validate(); err != nil {
		return err
	}
	if s.EnsureSize(params.CanvasSize) {
		p.debugf("surface resized to %d", params.CanvasSize)
	}
	dst := s.Pixels()
	clear(dst.Pix)

	l := geometry.NewLayout(params.CanvasSize, float64(params.BorderThickness), float64(params.RingOffset),
		params.LogoFraction(), params.WatermarkFraction())

	if !params.TransparentBackground {
		p.drawBackground(dst, l)
	}

	if !st.HasAvatar() {
		return p.wrap("placeholder", p.drawPlaceholder(dst, l))
	}

	if params.ShadowStrength > 0 {
		if err := p.drawShadow(dst, l, float64(params.ShadowStrength)); err != nil {
			return p.wrap("shadow", err)
		}
	}
	if l.Border > 0 {
		if err := p.drawBorder(dst, l); err != nil {
			return p.wrap("border", err)
		}
	}
	if err := p.drawAvatar(dst, l, st.Avatar); err != nil {
		return p.wrap("avatar", err)
	}
	if st.Stamp == nil || st.Stamp.Image == nil {
		return nil
	}
	p.drawStamps(dst, l, st.Stamp, params.RingCount, params.AlignTangent)
	if p.Variant.Watermark && params.AddWatermark {
		p.drawWatermark(dst, l, st.Stamp, float64(params.WatermarkY))
	}
	return nil
}

func (p *Pipeline) wrap(stage string, err error) error {
	if err == nil {
		return nil
	}
	if p.Logger != nil {
		p.Logger.Errorf("render", "%s stage failed: %v", stage, err)
	}
	return fmt.Errorf("render %s: %w", stage, err)
}

func (p *Pipeline) debugf(format string, args ...interface{}) {
	if p.Debug && p.Logger != nil {
		p.Logger.Infof("render", format, args...)
	}
}

func (p *Pipeline) drawBackground(dst *image.RGBA, l geometry.Layout) {
	bg := p.Variant.Background
	if bg.Kind == variant.BackgroundDarkGradient {
		fillBrush(dst, dst.Rect, gg.Solid(ggColor(bg.Base)), nil)
	}
	grad := gg.NewLinearGradientBrush(0, 0, l.Size, l.Size).
		AddColorStop(0, ggColor(bg.From)).
		AddColorStop(1, ggColor(bg.To))
	fillBrush(dst, dst.Rect, grad, nil)
}

func (p *Pipeline) drawPlaceholder(dst *image.RGBA, l geometry.Layout) error {
	r := l.PlaceholderRadius()
	bounds := circleBounds(l.CenterX, l.CenterY, r, dst.Rect)
	mask, err := coverage(bounds, gg.FillRuleNonZero, circlePath(l.CenterX, l.CenterY, r))
	if err != nil {
		return err
	}
	ph := p.Variant.Placeholder
	grad := gg.NewLinearGradientBrush(l.CenterX-r, l.CenterY-r, l.CenterX+r, l.CenterY+r).
		AddColorStop(0, ggColor(ph.From)).
		AddColorStop(1, ggColor(ph.To))
	fillBrush(dst, bounds, grad, mask)
	return nil
}

// drawShadow paints a blurred disk offset downwards, then the ring-sized
// disk on top of it in the shadow fill color.
func (p *Pipeline) drawShadow(dst *image.RGBA, l geometry.Layout, strength float64) error {
	sh := p.Variant.Shadow
	radius := strength * sh.BlurFactor / 2
	offY := strength * sh.OffsetFactor
	pad := math.Ceil(radius*shadowPad) + 1

	cy := l.CenterY + offY
	area := image.Rect(
		int(math.Floor(l.CenterX-l.RingRadius-pad)),
		int(math.Floor(cy-l.RingRadius-pad)),
		int(math.Ceil(l.CenterX+l.RingRadius+pad)),
		int(math.Ceil(cy+l.RingRadius+pad)),
	)
	// blur cannot carry anything further than pad onto the canvas
	area = area.Intersect(dst.Rect.Inset(-int(pad)))
	if area.Empty() {
		return nil
	}
	local := image.Rect(0, 0, area.Dx(), area.Dy())
	lx := l.CenterX - float64(area.Min.X)
	ly := cy - float64(area.Min.Y)
	mask, err := coverage(local, gg.FillRuleNonZero, circlePath(lx, ly, l.RingRadius))
	if err != nil {
		return err
	}
	buf := image.NewRGBA(local)
	fillBrush(buf, local, gg.Solid(ggColor(sh.Color)), mask)
	soft := blurred(buf, radius)
	sb := soft.Bounds()
	xdraw.Draw(dst, sb.Sub(sb.Min).Add(area.Min), soft, sb.Min, xdraw.Over)

	disk := circleBounds(l.CenterX, l.CenterY, l.RingRadius, dst.Rect)
	diskMask, err := coverage(disk, gg.FillRuleNonZero, circlePath(l.CenterX, l.CenterY, l.RingRadius))
	if err != nil {
		return err
	}
	fillBrush(dst, disk, gg.Solid(ggColor(sh.Fill)), diskMask)
	return nil
}

func (p *Pipeline) drawBorder(dst *image.RGBA, l geometry.Layout) error {
	bounds := circleBounds(l.CenterX, l.CenterY, l.RingRadius, dst.Rect)
	mask, err := coverage(bounds, gg.FillRuleEvenOdd, annulusPath(l.CenterX, l.CenterY, l.BaseRadius, l.RingRadius))
	if err != nil {
		return err
	}
	fillBrush(dst, bounds, p.borderBrush(l), mask)
	return nil
}

func (p *Pipeline) borderBrush(l geometry.Layout) gg.Brush {
	b := p.Variant.Border
	opacity := b.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = 1
	}
	if b.Kind == variant.BorderSolid {
		c := ggColor(b.Solid)
		c.A *= opacity
		return gg.Solid(c)
	}
	sweep := gg.NewSweepGradientBrush(l.CenterX, l.CenterY, b.StartAngle)
	for _, stop := range b.Stops {
		c := ggColor(stop.Color)
		c.A *= opacity
		sweep.AddColorStop(stop.Offset, c)
	}
	return sweep
}

// drawAvatar cover-fits the avatar into the base disk and clips it there.
func (p *Pipeline) drawAvatar(dst *image.RGBA, l geometry.Layout, avatar *state.Image) error {
	bounds := circleBounds(l.CenterX, l.CenterY, l.BaseRadius, dst.Rect)
	if bounds.Empty() {
		return nil
	}
	mask, err := coverage(bounds, gg.FillRuleNonZero, circlePath(l.CenterX, l.CenterY, l.BaseRadius))
	if err != nil {
		return err
	}
	box := l.AvatarBox(avatar.Aspect())
	src := avatar.Image
	tmp := image.NewRGBA(bounds)
	placeImage(tmp, boxPlacement(src.Bounds(), box.OffsetX, box.OffsetY, box.Width, box.Height), src, xdraw.CatmullRom)
	xdraw.DrawMask(dst, bounds, tmp, bounds.Min, mask, bounds.Min, xdraw.Over)
	return nil
}

func (p *Pipeline) drawStamps(dst *image.RGBA, l geometry.Layout, stamp *state.Image, count int, alignTangent bool) {
	if count <= 0 || l.StampSize <= 0 {
		return
	}
	src := p.stamp.get(stamp, int(math.Ceil(l.StampSize)))
	for _, pl := range geometry.RingPositions(count, l.RingLayoutRadius, l.CenterX, l.CenterY, alignTangent) {
		placeImage(dst, rotatedPlacement(src.Rect, l.StampSize, pl.X, pl.Y, pl.Rotation), src, xdraw.BiLinear)
	}
}

func (p *Pipeline) drawWatermark(dst *image.RGBA, l geometry.Layout, stamp *state.Image, offsetY float64) {
	if l.WatermarkSize <= 0 {
		return
	}
	src := p.mark.get(stamp, int(math.Ceil(l.WatermarkSize)))
	x, y := l.WatermarkOrigin(offsetY)
	xdraw.BiLinear.Transform(dst, boxPlacement(src.Rect, x, y, l.WatermarkSize, l.WatermarkSize), src, src.Rect, xdraw.Over,
		&xdraw.Options{SrcMask: opacityMask(variant.WatermarkOpacity)})
}
