package state

// ParamsPatch is a partial Params: nil fields leave the current value alone.
// It is the shape of params files and of PATCH request bodies.
type ParamsPatch struct {
	RingCount             *int  `json:"ringCount,omitempty" toml:"ring_count,omitempty" yaml:"ring_count,omitempty"`
	LogoScale             *int  `json:"logoScale,omitempty" toml:"logo_scale,omitempty" yaml:"logo_scale,omitempty"`
	RingOffset            *int  `json:"ringOffset,omitempty" toml:"ring_offset,omitempty" yaml:"ring_offset,omitempty"`
	AlignTangent          *bool `json:"alignTangent,omitempty" toml:"align_tangent,omitempty" yaml:"align_tangent,omitempty"`
	BorderThickness       *int  `json:"borderThickness,omitempty" toml:"border_thickness,omitempty" yaml:"border_thickness,omitempty"`
	ShadowStrength        *int  `json:"shadowStrength,omitempty" toml:"shadow_strength,omitempty" yaml:"shadow_strength,omitempty"`
	TransparentBackground *bool `json:"transparentBackground,omitempty" toml:"transparent_background,omitempty" yaml:"transparent_background,omitempty"`
	CanvasSize            *int  `json:"canvasSize,omitempty" toml:"canvas_size,omitempty" yaml:"canvas_size,omitempty"`
	AddWatermark          *bool `json:"addWatermark,omitempty" toml:"add_watermark,omitempty" yaml:"add_watermark,omitempty"`
	WatermarkScale        *int  `json:"watermarkScale,omitempty" toml:"watermark_scale,omitempty" yaml:"watermark_scale,omitempty"`
	WatermarkY            *int  `json:"watermarkY,omitempty" toml:"watermark_y,omitempty" yaml:"watermark_y,omitempty"`
}

// Apply copies every set field onto p.
func (pp ParamsPatch) Apply(p *Params) {
	setInt(&p.RingCount, pp.RingCount)
	setInt(&p.LogoScale, pp.LogoScale)
	setInt(&p.RingOffset, pp.RingOffset)
	setBool(&p.AlignTangent, pp.AlignTangent)
	setInt(&p.BorderThickness, pp.BorderThickness)
	setInt(&p.ShadowStrength, pp.ShadowStrength)
	setBool(&p.TransparentBackground, pp.TransparentBackground)
	setInt(&p.CanvasSize, pp.CanvasSize)
	setBool(&p.AddWatermark, pp.AddWatermark)
	setInt(&p.WatermarkScale, pp.WatermarkScale)
	setInt(&p.WatermarkY, pp.WatermarkY)
}

// Empty reports whether the patch sets nothing.
func (pp ParamsPatch) Empty() bool {
	return pp == ParamsPatch{}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
