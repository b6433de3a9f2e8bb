package variant

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/rook-computer/ringpfp/internal/state"
)

type BackgroundKind string

const (
	// BackgroundDarkGradient fills a dark base, then overlays a diagonal gradient.
	BackgroundDarkGradient BackgroundKind = "dark-gradient"
	// BackgroundLightGradient fills a diagonal gradient between two light stops.
	BackgroundLightGradient BackgroundKind = "light-gradient"
)

type BorderKind string

const (
	BorderConic BorderKind = "conic"
	BorderSolid BorderKind = "solid"
)

// Stop is one gradient stop, Offset in 0..1.
type Stop struct {
	Offset float64 `toml:"offset"`
	Color  Color   `toml:"color"`
}

type Background struct {
	Kind BackgroundKind `toml:"kind"`
	Base Color          `toml:"base"`
	From Color          `toml:"from"`
	To   Color          `toml:"to"`
}

// Placeholder is the empty-state disk, filled with a diagonal gradient.
type Placeholder struct {
	From Color `toml:"from"`
	To   Color `toml:"to"`
}

// Shadow draws a blurred disk in Color offset by ShadowStrength*OffsetFactor,
// then the disk itself in Fill.
type Shadow struct {
	Color        Color   `toml:"color"`
	Fill         Color   `toml:"fill"`
	BlurFactor   float64 `toml:"blur_factor"`
	OffsetFactor float64 `toml:"offset_factor"`
}

type Border struct {
	Kind BorderKind `toml:"kind"`
	// StartAngle rotates the conic gradient, in radians.
	StartAngle float64 `toml:"start_angle"`
	Stops      []Stop  `toml:"stops"`
	Solid      Color   `toml:"solid"`
	Opacity    float64 `toml:"opacity"`
}

// Variant is a named presentation preset. The pipeline reads its tokens; it
// never switches on Name.
type Variant struct {
	Name        string       `toml:"name"`
	Watermark   bool         `toml:"watermark"`
	Background  Background   `toml:"background"`
	Placeholder Placeholder  `toml:"placeholder"`
	Shadow      Shadow       `toml:"shadow"`
	Border      Border       `toml:"border"`
	Defaults    state.Params `toml:"defaults"`
}

// WatermarkOpacity is the fixed opacity of the watermark stamp.
const WatermarkOpacity = 0.96

// ThemeA is the dark preset: gradient background, conic white border and a
// watermark stamp inside the avatar.
func ThemeA() Variant {
	return Variant{
		Name:      "sentient",
		Watermark: true,
		Background: Background{
			Kind: BackgroundDarkGradient,
			Base: RGBA(0x0b, 0x0b, 0x0c, 1),
			From: White(0.08),
			To:   White(0),
		},
		Placeholder: Placeholder{From: White(0.08), To: White(0.02)},
		Shadow: Shadow{
			Color:        RGBA(0, 0, 0, 0.65),
			Fill:         RGBA(0, 0, 0, 0.35),
			BlurFactor:   2.2,
			OffsetFactor: 0.3,
		},
		Border: Border{
			Kind:       BorderConic,
			StartAngle: math.Pi * 0.6,
			Stops: []Stop{
				{Offset: 0, Color: White(0.9)},
				{Offset: 0.25, Color: White(0.3)},
				{Offset: 0.5, Color: White(0.8)},
				{Offset: 0.75, Color: White(0.25)},
				{Offset: 1, Color: White(0.9)},
			},
		},
		Defaults: state.Params{
			RingCount:       36,
			LogoScale:       16,
			RingOffset:      10,
			AlignTangent:    true,
			BorderThickness: 18,
			ShadowStrength:  14,
			CanvasSize:      1024,
			AddWatermark:    true,
			WatermarkScale:  18,
			WatermarkY:      10,
		},
	}
}

// ThemeB is the light pastel preset: solid border, no watermark.
func ThemeB() Variant {
	return Variant{
		Name: "pastel",
		Background: Background{
			Kind: BackgroundLightGradient,
			From: RGBA(0xfd, 0xfb, 0xff, 0.98),
			To:   RGBA(0xf1, 0xec, 0xfa, 0.95),
		},
		Placeholder: Placeholder{From: RGBA(0xc9, 0xb8, 0xf0, 0.35), To: RGBA(0xc9, 0xb8, 0xf0, 0.15)},
		Shadow: Shadow{
			Color:        RGBA(0x5a, 0x46, 0x82, 0.35),
			Fill:         RGBA(0x5a, 0x46, 0x82, 0.18),
			BlurFactor:   2.0,
			OffsetFactor: 0.2,
		},
		Border: Border{
			Kind:    BorderSolid,
			Solid:   RGBA(0xc9, 0xb8, 0xf0, 1),
			Opacity: 0.95,
		},
		Defaults: state.Params{
			RingCount:       36,
			LogoScale:       16,
			RingOffset:      10,
			AlignTangent:    true,
			BorderThickness: 18,
			ShadowStrength:  14,
			CanvasSize:      1024,
		},
	}
}

var presets = map[string]func() Variant{
	"sentient": ThemeA,
	"a":        ThemeA,
	"pastel":   ThemeB,
	"b":        ThemeB,
}

// Names lists the canonical preset names.
func Names() []string {
	names := []string{ThemeA().Name, ThemeB().Name}
	sort.Strings(names)
	return names
}

// Lookup resolves a preset by name, case-insensitively.
func Lookup(name string) (Variant, error) {
	fn, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Variant{}, fmt.Errorf("unknown variant %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return fn(), nil
}

// ResetParams returns the default vector, with watermark fields cleared when
// the variant has no watermark.
func (v Variant) ResetParams() state.Params {
	p := v.Defaults
	if !v.Watermark {
		p.AddWatermark = false
		p.WatermarkScale = 0
		p.WatermarkY = 0
	}
	return p
}

// LoadFile reads a TOML override. The file may set "base" to start from a
// preset; every other key overrides that preset.
func LoadFile(path string) (Variant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Variant{}, err
	}
	return Parse(data)
}

// Parse decodes a TOML variant description.
func Parse(data []byte) (Variant, error) {
	var head struct {
		Base string `toml:"base"`
	}
	if err := toml.Unmarshal(data, &head); err != nil {
		return Variant{}, fmt.Errorf("parse variant: %w", err)
	}
	baseName := head.Base
	if baseName == "" {
		baseName = ThemeA().Name
	}
	v, err := Lookup(baseName)
	if err != nil {
		return Variant{}, err
	}
	if err := toml.Unmarshal(data, &v); err != nil {
		return Variant{}, fmt.Errorf("parse variant: %w", err)
	}
	if err := v.validate(); err != nil {
		return Variant{}, err
	}
	return v, nil
}

func (v Variant) validate() error {
	switch v.Background.Kind {
	case BackgroundDarkGradient, BackgroundLightGradient:
	default:
		return fmt.Errorf("variant %s: unknown background kind %q", v.Name, v.Background.Kind)
	}
	switch v.Border.Kind {
	case BorderConic:
		if len(v.Border.Stops) == 0 {
			return fmt.Errorf("variant %s: conic border needs stops", v.Name)
		}
	case BorderSolid:
	default:
		return fmt.Errorf("variant %s: unknown border kind %q", v.Name, v.Border.Kind)
	}
	return v.ResetParams().Validate()
}
