package state

import "fmt"

// Params is the flat render parameter set. Percent fields are stored the way
// the controls present them; use the Fraction helpers for geometry.
type Params struct {
	RingCount             int  `json:"ringCount" toml:"ring_count" yaml:"ring_count"`
	LogoScale             int  `json:"logoScale" toml:"logo_scale" yaml:"logo_scale"`
	RingOffset            int  `json:"ringOffset" toml:"ring_offset" yaml:"ring_offset"`
	AlignTangent          bool `json:"alignTangent" toml:"align_tangent" yaml:"align_tangent"`
	BorderThickness       int  `json:"borderThickness" toml:"border_thickness" yaml:"border_thickness"`
	ShadowStrength        int  `json:"shadowStrength" toml:"shadow_strength" yaml:"shadow_strength"`
	TransparentBackground bool `json:"transparentBackground" toml:"transparent_background" yaml:"transparent_background"`
	CanvasSize            int  `json:"canvasSize" toml:"canvas_size" yaml:"canvas_size"`

	// Watermark fields are only honored by variants that support a watermark.
	AddWatermark   bool `json:"addWatermark" toml:"add_watermark" yaml:"add_watermark"`
	WatermarkScale int  `json:"watermarkScale" toml:"watermark_scale" yaml:"watermark_scale"`
	WatermarkY     int  `json:"watermarkY" toml:"watermark_y" yaml:"watermark_y"`
}

// Parameter ceilings. Together they bound every buffer the pipeline sizes
// from a Params value.
const (
	// MaxCanvasSize bounds the surface allocation.
	MaxCanvasSize = 8192
	// MaxScale caps the percent fields LogoScale and WatermarkScale.
	MaxScale = 100
	// MaxRingCount caps the stamps drawn per frame.
	MaxRingCount = 360
	// MaxShadowStrength keeps the blur kernel and its padding small.
	MaxShadowStrength = 100
)

// LogoFraction returns LogoScale as a fraction.
func (p Params) LogoFraction() float64 { return float64(p.LogoScale) / 100 }

// WatermarkFraction returns WatermarkScale as a fraction.
func (p Params) WatermarkFraction() float64 { return float64(p.WatermarkScale) / 100 }

// ValidationError reports a parameter outside its accepted range.
type ValidationError struct {
	Field string
	Value int
	Want  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %d: must be %s", e.Field, e.Value, e.Want)
}

// Validate checks the ranges the geometry relies on. BorderThickness may be
// negative; it is treated as zero when laying out the ring. The signed pixel
// offsets (BorderThickness, RingOffset, WatermarkY) are limited to
// ±CanvasSize.
func (p Params) Validate() error {
	if p.CanvasSize <= 0 || p.CanvasSize > MaxCanvasSize {
		return &ValidationError{Field: "canvasSize", Value: p.CanvasSize, Want: fmt.Sprintf("in 1..%d", MaxCanvasSize)}
	}
	ranges := []struct {
		field    string
		value    int
		min, max int
	}{
		{"ringCount", p.RingCount, 0, MaxRingCount},
		{"logoScale", p.LogoScale, 0, MaxScale},
		{"ringOffset", p.RingOffset, -p.CanvasSize, p.CanvasSize},
		{"borderThickness", p.BorderThickness, -p.CanvasSize, p.CanvasSize},
		{"shadowStrength", p.ShadowStrength, 0, MaxShadowStrength},
		{"watermarkScale", p.WatermarkScale, 0, MaxScale},
		{"watermarkY", p.WatermarkY, -p.CanvasSize, p.CanvasSize},
	}
	for _, r := range ranges {
		if r.value < r.min || r.value > r.max {
			return &ValidationError{Field: r.field, Value: r.value, Want: fmt.Sprintf("in %d..%d", r.min, r.max)}
		}
	}
	return nil
}
