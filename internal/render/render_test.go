package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/ringpfp/internal/geometry"
	"github.com/rook-computer/ringpfp/internal/state"
	"github.com/rook-computer/ringpfp/internal/variant"
)

const testSize = 256

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func solid(w, h int, c color.Color) *state.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return state.NewImage(img)
}

func testParams(v variant.Variant, mutate func(*state.Params)) state.Params {
	p := v.ResetParams()
	p.CanvasSize = testSize
	if mutate != nil {
		mutate(&p)
	}
	return p
}

func render(t *testing.T, v variant.Variant, st state.State) *image.RGBA {
	t.Helper()
	s := NewSurface(1)
	require.NoError(t, NewPipeline(v).Render(s, st))
	return s.Snapshot()
}

func assertRed(t *testing.T, c color.RGBA) {
	t.Helper()
	assert.GreaterOrEqual(t, c.R, uint8(250), "%v", c)
	assert.GreaterOrEqual(t, c.A, uint8(250), "%v", c)
	assert.LessOrEqual(t, c.B, uint8(5), "%v", c)
}

// bare strips every optional layer so individual stages can be checked alone.
func bare(p *state.Params) {
	p.TransparentBackground = true
	p.ShadowStrength = 0
	p.BorderThickness = 0
	p.RingCount = 0
	p.AddWatermark = false
}

func TestRenderResizesSurface(t *testing.T) {
	s := NewSurface(10)
	p := NewPipeline(variant.ThemeA())
	require.NoError(t, p.Render(s, state.State{Params: testParams(variant.ThemeA(), nil)}))
	assert.Equal(t, testSize, s.Size())
	assert.Equal(t, testSize, s.Pixels().Rect.Dx())
	assert.False(t, s.EnsureSize(testSize))
	assert.True(t, s.EnsureSize(testSize/2))
}

type lines []string

func (l *lines) Infof(component, format string, args ...interface{}) {
	*l = append(*l, component+": "+fmt.Sprintf(format, args...))
}

func (l *lines) Errorf(component, format string, args ...interface{}) {
	*l = append(*l, component+" error: "+fmt.Sprintf(format, args...))
}

func TestDebugLogsResize(t *testing.T) {
	var log lines
	p := NewPipeline(variant.ThemeA())
	p.Logger = &log
	p.Debug = true
	require.NoError(t, p.Render(NewSurface(10), state.State{Params: testParams(variant.ThemeA(), nil)}))
	assert.Contains(t, log, fmt.Sprintf("render: surface resized to %d", testSize))

	log = nil
	p.Debug = false
	require.NoError(t, p.Render(NewSurface(10), state.State{Params: testParams(variant.ThemeA(), nil)}))
	assert.Empty(t, log)
}

func TestRenderRejectsInvalidParams(t *testing.T) {
	s := NewSurface(4)
	err := NewPipeline(variant.ThemeA()).Render(s, state.State{Params: state.Params{CanvasSize: 0}})
	var verr *state.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRenderIsIdempotent(t *testing.T) {
	v := variant.ThemeA()
	st := state.State{
		Params: testParams(v, nil),
		Avatar: solid(40, 30, red),
		Stamp:  solid(8, 8, blue),
	}
	s := NewSurface(1)
	p := NewPipeline(v)
	require.NoError(t, p.Render(s, st))
	first := s.Snapshot()
	require.NoError(t, p.Render(s, st))
	assert.Equal(t, first.Pix, s.Pixels().Pix)
}

func TestPlaceholderIgnoresRingParams(t *testing.T) {
	v := variant.ThemeA()
	a := render(t, v, state.State{Params: testParams(v, nil), Stamp: solid(4, 4, blue)})
	b := render(t, v, state.State{Params: testParams(v, func(p *state.Params) {
		p.RingCount = 3
		p.BorderThickness = 60
		p.ShadowStrength = 40
		p.AddWatermark = false
	}), Stamp: solid(4, 4, blue)})
	assert.Equal(t, a.Pix, b.Pix)
}

func TestPlaceholderIsBrighterThanBackground(t *testing.T) {
	v := variant.ThemeA()
	img := render(t, v, state.State{Params: testParams(v, nil)})
	center := img.RGBAAt(testSize/2, testSize/2)
	// same position along the background gradient, outside the disk
	outside := img.RGBAAt(testSize*9/10, testSize/10)
	assert.Greater(t, center.R, outside.R)
	assert.Equal(t, uint8(255), outside.A)
}

func TestTransparentPlaceholderCorners(t *testing.T) {
	v := variant.ThemeA()
	img := render(t, v, state.State{Params: testParams(v, bare)})
	assert.Equal(t, uint8(0), img.RGBAAt(0, 0).A)
	assert.NotZero(t, img.RGBAAt(testSize/2, testSize/2).A)
}

func TestAvatarFillsDisk(t *testing.T) {
	v := variant.ThemeA()
	img := render(t, v, state.State{Params: testParams(v, bare), Avatar: solid(64, 32, red)})
	assertRed(t, img.RGBAAt(testSize/2, testSize/2))
	// wide avatar is clipped to the disk
	assert.Equal(t, uint8(0), img.RGBAAt(4, testSize/2).A)
	assert.Equal(t, uint8(0), img.RGBAAt(0, 0).A)
}

func TestBorderBand(t *testing.T) {
	v := variant.ThemeB()
	avatar := solid(16, 16, red)
	// ring band centre on the vertical axis: base 94.72 + 9
	sampleY := testSize/2 + 104

	with := render(t, v, state.State{Params: testParams(v, func(p *state.Params) {
		bare(p)
		p.BorderThickness = 18
	}), Avatar: avatar})
	assert.Greater(t, with.RGBAAt(testSize/2, sampleY).A, uint8(200))

	zero := render(t, v, state.State{Params: testParams(v, bare), Avatar: avatar})
	assert.Equal(t, uint8(0), zero.RGBAAt(testSize/2, sampleY).A)

	negative := render(t, v, state.State{Params: testParams(v, func(p *state.Params) {
		bare(p)
		p.BorderThickness = -12
	}), Avatar: avatar})
	assert.Equal(t, zero.Pix, negative.Pix)
}

func TestConicBorderVaries(t *testing.T) {
	v := variant.ThemeA()
	img := render(t, v, state.State{Params: testParams(v, func(p *state.Params) {
		bare(p)
		p.BorderThickness = 18
	}), Avatar: solid(8, 8, red)})
	right := img.RGBAAt(testSize/2+104, testSize/2)
	bottom := img.RGBAAt(testSize/2, testSize/2+104)
	left := img.RGBAAt(testSize/2-104, testSize/2)
	assert.NotZero(t, right.A)
	assert.NotEqual(t, right.A, bottom.A)
	assert.NotEqual(t, bottom.A, left.A)
}

func TestShadowBelowRing(t *testing.T) {
	v := variant.ThemeA()
	avatar := solid(8, 8, red)
	sampleY := testSize/2 + 101

	with := render(t, v, state.State{Params: testParams(v, func(p *state.Params) {
		bare(p)
		p.ShadowStrength = 14
	}), Avatar: avatar})
	assert.NotZero(t, with.RGBAAt(testSize/2, sampleY).A)

	without := render(t, v, state.State{Params: testParams(v, bare), Avatar: avatar})
	assert.Zero(t, without.RGBAAt(testSize/2, sampleY).A)
}

func TestStampRing(t *testing.T) {
	v := variant.ThemeA()
	avatar := solid(8, 8, red)
	stamp := solid(10, 10, blue)
	// first slot sits on the positive x axis at base 94.72 + offset 10
	sampleX := testSize/2 + 105

	ring := render(t, v, state.State{Params: testParams(v, func(p *state.Params) {
		bare(p)
		p.RingCount = 4
		p.AlignTangent = false
	}), Avatar: avatar, Stamp: stamp})
	got := ring.RGBAAt(sampleX, testSize/2)
	assert.Greater(t, got.B, uint8(200))
	assert.Less(t, got.R, uint8(40))

	empty := render(t, v, state.State{Params: testParams(v, bare), Avatar: avatar, Stamp: stamp})
	assert.Zero(t, empty.RGBAAt(sampleX, testSize/2).A)
}

func TestStampRingTangentAlignedStaysOnSlot(t *testing.T) {
	v := variant.ThemeA()
	img := render(t, v, state.State{Params: testParams(v, func(p *state.Params) {
		bare(p)
		p.RingCount = 4
	}), Avatar: solid(8, 8, red), Stamp: solid(10, 10, blue)})
	for _, pt := range []image.Point{
		{testSize/2 + 105, testSize / 2},
		{testSize / 2, testSize/2 + 105},
		{testSize/2 - 105, testSize / 2},
		{testSize / 2, testSize/2 - 105},
	} {
		assert.Greater(t, img.RGBAAt(pt.X, pt.Y).B, uint8(200), "slot at %v", pt)
	}
}

func TestWatermark(t *testing.T) {
	avatar := solid(8, 8, red)
	stamp := solid(10, 10, blue)
	// watermark centre: y = 128 + 94.72 - 17.05 - 8 + 10 + 8.5
	sample := image.Point{X: testSize / 2, Y: 216}
	withMark := func(p *state.Params) {
		bare(p)
		p.BorderThickness = 18
		p.AddWatermark = true
		p.WatermarkScale = 18
		p.WatermarkY = 10
	}

	a := variant.ThemeA()
	img := render(t, a, state.State{Params: testParams(a, withMark), Avatar: avatar, Stamp: stamp})
	got := img.RGBAAt(sample.X, sample.Y)
	assert.Greater(t, got.B, got.R)

	off := render(t, a, state.State{Params: testParams(a, bare), Avatar: avatar, Stamp: stamp})
	assertRed(t, off.RGBAAt(sample.X, sample.Y))

	// variants without a watermark never draw one
	b := variant.ThemeB()
	img = render(t, b, state.State{Params: testParams(b, withMark), Avatar: avatar, Stamp: stamp})
	assertRed(t, img.RGBAAt(sample.X, sample.Y))
}

func TestNoStampSkipsRing(t *testing.T) {
	v := variant.ThemeA()
	img := render(t, v, state.State{Params: testParams(v, func(p *state.Params) {
		bare(p)
		p.RingCount = 12
	}), Avatar: solid(8, 8, red)})
	assert.Zero(t, img.RGBAAt(testSize/2+105, testSize/2).A)
}

func TestEncodePNG(t *testing.T) {
	v := variant.ThemeB()
	s := NewSurface(1)
	require.NoError(t, NewPipeline(v).Render(s, state.State{Params: testParams(v, nil), Avatar: solid(8, 8, red)}))

	var buf bytes.Buffer
	require.NoError(t, s.EncodePNG(&buf))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, testSize, testSize), decoded.Bounds())

	path := filepath.Join(t.TempDir(), ExportFileName)
	require.NoError(t, s.WriteFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

// polar reads the pixel at radius r along angle (radians) from (cx, cy).
func polar(img *image.RGBA, cx, cy, angle, r float64) color.RGBA {
	return img.RGBAAt(int(math.Round(cx+r*math.Cos(angle))), int(math.Round(cy+r*math.Sin(angle))))
}

func TestFullSizeRingComposition(t *testing.T) {
	v := variant.ThemeA()
	p := v.ResetParams()
	require.Equal(t, 1024, p.CanvasSize)
	require.Equal(t, 36, p.RingCount)
	require.Equal(t, 18, p.BorderThickness)
	require.Equal(t, 14, p.ShadowStrength)

	img := render(t, v, state.State{Params: p, Avatar: solid(512, 512, red), Stamp: solid(16, 16, blue)})
	const c = 512.0
	base := 0.37 * 1024 // avatar disk radius, diameter ≈758
	outer := base + 18  // annulus outer radius, diameter ≈794

	// Rays halfway between two stamp slots see the disk and the ring bare.
	step := 2 * math.Pi / 36
	for _, angle := range []float64{step / 2, math.Pi + step/2} {
		assertRed(t, polar(img, c, c, angle, base-5))
		band := polar(img, c, c, angle, base+9)
		assert.Greater(t, band.G, uint8(50), "ring band is light, not avatar red: %v", band)
		beyond := polar(img, c, c, angle, outer+5)
		assert.Less(t, beyond.G, uint8(45), "outside the ring is dark background: %v", beyond)
		assert.Greater(t, band.G, beyond.G)
	}

	slots := geometry.RingPositions(36, base+10, c, c, true)
	require.Len(t, slots, 36)
	for i, slot := range slots {
		at := img.RGBAAt(int(math.Round(slot.X)), int(math.Round(slot.Y)))
		assert.Greater(t, at.B, uint8(240), "stamp %d at slot centre: %v", i, at)
		assert.Less(t, at.R, uint8(15), "stamp %d at slot centre: %v", i, at)

		between := polar(img, c, c, slot.Angle+step/2, base+10)
		assert.Greater(t, between.R, uint8(50), "no stamp between slots %d and %d: %v", i, i+1, between)
	}
}

func TestRenderAtParameterCeilings(t *testing.T) {
	v := variant.ThemeA()
	p := testParams(v, func(p *state.Params) {
		p.CanvasSize = 128
		p.RingCount = state.MaxRingCount
		p.LogoScale = state.MaxScale
		p.WatermarkScale = state.MaxScale
		p.ShadowStrength = state.MaxShadowStrength
		p.BorderThickness = p.CanvasSize
		p.RingOffset = -p.CanvasSize
		p.WatermarkY = p.CanvasSize
	})
	require.NoError(t, p.Validate())
	img := render(t, v, state.State{Params: p, Avatar: solid(8, 8, red), Stamp: solid(8, 8, blue)})
	assert.Equal(t, image.Rect(0, 0, 128, 128), img.Rect)
}
