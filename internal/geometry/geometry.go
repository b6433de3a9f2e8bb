package geometry

import "math"

// BaseRadiusRatio is the avatar disk radius relative to the canvas size.
const BaseRadiusRatio = 0.37

// PlaceholderRadiusRatio is the empty-state disk radius relative to the canvas size.
const PlaceholderRadiusRatio = 0.35

// Watermark anchoring inside the avatar disk.
const (
	watermarkMinMargin    = 8.0
	watermarkBorderFactor = 0.4
)

// Box is an axis-aligned rectangle in canvas pixels.
type Box struct {
	Width   float64
	Height  float64
	OffsetX float64
	OffsetY float64
}

// Placement is one stamp slot on the ring.
type Placement struct {
	X        float64
	Y        float64
	Angle    float64
	Rotation float64
}

// CoverFit scales an image of the given aspect ratio (width/height) so it fully
// covers a square of side diameter. The offsets center the box on that square,
// so they are zero or negative.
func CoverFit(aspect, diameter float64) Box {
	if !(aspect > 0) || math.IsInf(aspect, 0) {
		aspect = 1
	}
	var box Box
	if aspect > 1 {
		box.Height = diameter
		box.Width = box.Height * aspect
	} else {
		box.Width = diameter
		box.Height = box.Width / aspect
	}
	box.OffsetX = (diameter - box.Width) / 2
	box.OffsetY = (diameter - box.Height) / 2
	return box
}

// RingPositions lays count slots evenly around a circle, starting at angle 0
// (the positive x axis) and advancing clockwise in screen coordinates.
// A count of zero or less yields an empty slice.
func RingPositions(count int, radius, centerX, centerY float64, alignTangent bool) []Placement {
	if count <= 0 {
		return []Placement{}
	}
	step := 2 * math.Pi / float64(count)
	out := make([]Placement, count)
	for i := range out {
		angle := float64(i) * step
		rotation := 0.0
		if alignTangent {
			rotation = angle + math.Pi/2
		}
		out[i] = Placement{
			X:        centerX + radius*math.Cos(angle),
			Y:        centerY + radius*math.Sin(angle),
			Angle:    angle,
			Rotation: rotation,
		}
	}
	return out
}

// EffectiveBorder clamps a border thickness to zero.
func EffectiveBorder(thickness float64) float64 {
	return math.Max(0, thickness)
}

// Layout holds the derived sizes for one canvas.
type Layout struct {
	Size             float64
	CenterX          float64
	CenterY          float64
	BaseRadius       float64
	RingRadius       float64
	RingLayoutRadius float64
	StampSize        float64
	WatermarkSize    float64
	Border           float64
}

// NewLayout derives the canvas layout. logoScale and watermarkScale are fractions.
func NewLayout(canvasSize int, borderThickness, ringOffset, logoScale, watermarkScale float64) Layout {
	size := float64(canvasSize)
	base := size * BaseRadiusRatio
	border := EffectiveBorder(borderThickness)
	return Layout{
		Size:             size,
		CenterX:          size / 2,
		CenterY:          size / 2,
		BaseRadius:       base,
		RingRadius:       base + border,
		RingLayoutRadius: base + ringOffset,
		StampSize:        base * logoScale,
		WatermarkSize:    base * watermarkScale,
		Border:           border,
	}
}

// AvatarBox returns the cover-fit box for an image, in canvas coordinates.
func (l Layout) AvatarBox(aspect float64) Box {
	diameter := l.BaseRadius * 2
	box := CoverFit(aspect, diameter)
	box.OffsetX += l.CenterX - l.BaseRadius
	box.OffsetY += l.CenterY - l.BaseRadius
	return box
}

// PlaceholderRadius is the radius of the empty-state disk.
func (l Layout) PlaceholderRadius() float64 {
	return l.Size * PlaceholderRadiusRatio
}

// WatermarkOrigin returns the top-left corner of the watermark: horizontally
// centered, bottom-anchored inside the avatar disk and shifted by offsetY.
func (l Layout) WatermarkOrigin(offsetY float64) (x, y float64) {
	margin := math.Max(watermarkMinMargin, l.Border*watermarkBorderFactor)
	x = l.CenterX - l.WatermarkSize/2
	y = l.CenterY + l.BaseRadius - l.WatermarkSize - margin + offsetY
	return x, y
}
