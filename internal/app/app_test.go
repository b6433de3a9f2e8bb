package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/ringpfp/internal/imageio"
	"github.com/rook-computer/ringpfp/internal/render"
	"github.com/rook-computer/ringpfp/internal/schedule"
	"github.com/rook-computer/ringpfp/internal/state"
	"github.com/rook-computer/ringpfp/internal/variant"
)

const smallCanvas = 128

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestApp(t *testing.T, v variant.Variant) (*App, *schedule.FrameQueue) {
	t.Helper()
	frames := &schedule.FrameQueue{}
	a, err := New(v, frames, nil)
	require.NoError(t, err)
	require.NoError(t, a.UpdateParams(func(p *state.Params) { p.CanvasSize = smallCanvas }))
	frames.RunFrame()
	return a, frames
}

func TestNewUsesVariantDefaults(t *testing.T) {
	a, err := New(variant.ThemeB(), &schedule.FrameQueue{}, nil)
	require.NoError(t, err)
	assert.Equal(t, variant.ThemeB().ResetParams(), a.Params())
	assert.Equal(t, "pastel", a.Variant().Name)
	assert.False(t, a.Store.Snapshot().HasAvatar())
	assert.NotNil(t, a.Store.ActiveStamp())
}

func TestLoadAvatarSchedulesOneFrame(t *testing.T) {
	a, frames := newTestApp(t, variant.ThemeA())
	require.NoError(t, a.LoadAvatar(bytes.NewReader(pngBytes(t, 20, 10, color.NRGBA{R: 255, A: 255}))))
	assert.Equal(t, 1, frames.Queued())
	assert.True(t, a.Store.Snapshot().HasAvatar())

	before := a.Seq()
	frames.RunFrame()
	assert.Equal(t, before+1, a.Seq())
	c := a.Frame().RGBAAt(smallCanvas/2, smallCanvas/2)
	assert.Greater(t, c.R, uint8(240))
}

func TestLoadAvatarFailureLeavesStateAlone(t *testing.T) {
	a, frames := newTestApp(t, variant.ThemeA())
	err := a.LoadAvatar(strings.NewReader("not an image"))
	assert.ErrorIs(t, err, imageio.ErrImageDecode)
	assert.False(t, a.Store.Snapshot().HasAvatar())
	assert.Equal(t, 0, frames.Queued())
	assert.False(t, a.Scheduler.Pending())

	err = a.LoadCustomStamp(strings.NewReader(""))
	assert.ErrorIs(t, err, imageio.ErrImageDecode)
	assert.False(t, a.UsingCustomStamp())
	assert.Equal(t, 0, frames.Queued())
}

func TestParamChangesCoalesce(t *testing.T) {
	a, frames := newTestApp(t, variant.ThemeA())
	var mu sync.Mutex
	var seen []uint64
	cancel := a.OnRender(func(seq uint64) {
		mu.Lock()
		seen = append(seen, seq)
		mu.Unlock()
	})
	defer cancel()

	for i := 1; i <= 20; i++ {
		n := i
		require.NoError(t, a.UpdateParams(func(p *state.Params) { p.RingCount = n }))
	}
	assert.Equal(t, 1, frames.Queued())
	frames.RunFrame()
	assert.Len(t, seen, 1)
	assert.Equal(t, 20, a.Params().RingCount)
}

func TestInvalidParamsRejected(t *testing.T) {
	a, frames := newTestApp(t, variant.ThemeA())
	err := a.SetParams(state.Params{CanvasSize: -3})
	var verr *state.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, smallCanvas, a.Params().CanvasSize)
	assert.Equal(t, 0, frames.Queued())
}

func TestApplyPatch(t *testing.T) {
	a, frames := newTestApp(t, variant.ThemeA())
	count := 5
	require.NoError(t, a.ApplyPatch(state.ParamsPatch{RingCount: &count}))
	assert.Equal(t, 5, a.Params().RingCount)
	assert.Equal(t, 1, frames.Queued())
}

func TestCustomStampToggle(t *testing.T) {
	a, frames := newTestApp(t, variant.ThemeA())
	def := a.Store.ActiveStamp()
	require.NoError(t, a.LoadCustomStamp(bytes.NewReader(pngBytes(t, 8, 8, color.NRGBA{B: 255, A: 255}))))
	assert.True(t, a.UsingCustomStamp())
	assert.NotSame(t, def, a.Store.ActiveStamp())

	a.UseCustomStamp(false)
	assert.Same(t, def, a.Store.ActiveStamp())
	assert.Equal(t, 1, frames.Queued())
}

func TestResetRendersSynchronously(t *testing.T) {
	a, frames := newTestApp(t, variant.ThemeA())
	require.NoError(t, a.LoadAvatar(bytes.NewReader(pngBytes(t, 8, 8, color.NRGBA{G: 255, A: 255}))))
	require.NoError(t, a.LoadCustomStamp(bytes.NewReader(pngBytes(t, 8, 8, color.NRGBA{B: 255, A: 255}))))
	frames.RunFrame()

	before := a.Seq()
	a.Reset()
	assert.Equal(t, before+1, a.Seq())
	assert.Equal(t, variant.ThemeA().ResetParams(), a.Params())
	assert.True(t, a.Store.Snapshot().HasAvatar())
	assert.False(t, a.UsingCustomStamp())
	assert.Equal(t, 1024, a.Frame().Rect.Dx())
}

func TestResetMatchesFreshApp(t *testing.T) {
	for _, v := range []variant.Variant{variant.ThemeA(), variant.ThemeB()} {
		t.Run(v.Name, func(t *testing.T) {
			a, frames := newTestApp(t, v)
			require.NoError(t, a.LoadCustomStamp(bytes.NewReader(pngBytes(t, 8, 8, color.NRGBA{B: 255, A: 255}))))
			require.NoError(t, a.UpdateParams(func(p *state.Params) {
				p.RingCount = 5
				p.LogoScale = 40
				p.RingOffset = -20
				p.AlignTangent = false
				p.BorderThickness = 3
				p.ShadowStrength = 0
				p.TransparentBackground = true
				p.AddWatermark = !p.AddWatermark
			}))
			frames.RunFrame()

			a.Reset()

			fresh, err := New(v, &schedule.FrameQueue{}, nil)
			require.NoError(t, err)
			fresh.Scheduler.ForceRender()

			assert.Equal(t, fresh.Params(), a.Params())
			got, want := a.Frame(), fresh.Frame()
			require.Equal(t, want.Rect, got.Rect)
			assert.True(t, bytes.Equal(want.Pix, got.Pix), "reset surface differs from a fresh app")
		})
	}
}

func TestExport(t *testing.T) {
	a, _ := newTestApp(t, variant.ThemeB())
	var buf bytes.Buffer
	require.NoError(t, a.Export(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, smallCanvas, smallCanvas), img.Bounds())

	path := filepath.Join(t.TempDir(), render.ExportFileName)
	require.NoError(t, a.ExportFile(path))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOnRenderCancel(t *testing.T) {
	a, _ := newTestApp(t, variant.ThemeA())
	calls := 0
	cancel := a.OnRender(func(uint64) { calls++ })
	a.Scheduler.ForceRender()
	cancel()
	a.Scheduler.ForceRender()
	assert.Equal(t, 1, calls)
}

func TestStartRunsTickerUntilExit(t *testing.T) {
	a, err := New(variant.ThemeA(), schedule.NewTickerDriver(120), nil)
	require.NoError(t, err)
	require.NoError(t, a.UpdateParams(func(p *state.Params) { p.CanvasSize = 64 }))
	a.OnRender(func(uint64) { a.Exit(nil) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.Start(ctx))
	assert.GreaterOrEqual(t, a.Seq(), uint64(1))
}

func TestStartReturnsOnCancel(t *testing.T) {
	a, _ := newTestApp(t, variant.ThemeA())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, a.Start(ctx))
}
