package app

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/ringpfp/internal/buttons"
	"github.com/rook-computer/ringpfp/internal/state"
	"github.com/rook-computer/ringpfp/internal/variant"
)

func TestHandleButtonAdjustsParams(t *testing.T) {
	a, frames := newTestApp(t, variant.ThemeA())
	start := a.Params()

	require.NoError(t, a.HandleButton(buttons.RingMore))
	require.NoError(t, a.HandleButton(buttons.ScaleDown))
	require.NoError(t, a.HandleButton(buttons.ToggleTangent))
	require.NoError(t, a.HandleButton(buttons.OffsetDown))

	p := a.Params()
	assert.Equal(t, start.RingCount+1, p.RingCount)
	assert.Equal(t, start.LogoScale-1, p.LogoScale)
	assert.Equal(t, !start.AlignTangent, p.AlignTangent)
	assert.Equal(t, start.RingOffset-1, p.RingOffset)
	assert.Equal(t, 1, frames.Queued(), "presses coalesce into one frame")
}

func TestHandleButtonClampsAtZero(t *testing.T) {
	a, _ := newTestApp(t, variant.ThemeA())
	for i := 0; i < 100; i++ {
		require.NoError(t, a.HandleButton(buttons.ShadowDown))
		require.NoError(t, a.HandleButton(buttons.RingLess))
	}
	assert.Equal(t, 0, a.Params().ShadowStrength)
	assert.Equal(t, 0, a.Params().RingCount)
}

func TestHandleButtonStampAndReset(t *testing.T) {
	a, _ := newTestApp(t, variant.ThemeA())
	require.NoError(t, a.LoadCustomStamp(bytes.NewReader(pngBytes(t, 4, 4, color.NRGBA{R: 255, A: 255}))))
	assert.True(t, a.UsingCustomStamp())

	require.NoError(t, a.HandleButton(buttons.ToggleStamp))
	assert.False(t, a.UsingCustomStamp())

	require.NoError(t, a.HandleButton(buttons.RingMore))
	require.NoError(t, a.HandleButton(buttons.Reset))
	assert.Equal(t, variant.ThemeA().ResetParams(), a.Params())
}

func TestHandleButtonExport(t *testing.T) {
	a, _ := newTestApp(t, variant.ThemeB())
	a.ExportPath = filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, a.HandleButton(buttons.Export))
	_, err := os.Stat(a.ExportPath)
	assert.NoError(t, err)
}

func TestRunButtonsExit(t *testing.T) {
	a, _ := newTestApp(t, variant.ThemeA())
	q := buttons.NewQueue(4)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, a.RunButtons(ctx, q))
	q.Press(buttons.Exit)
	assert.NoError(t, a.Start(ctx))
	assert.NoError(t, ctx.Err(), "exit arrived before the timeout")
}

func TestHandleButtonStopsAtCeilings(t *testing.T) {
	a, _ := newTestApp(t, variant.ThemeA())
	for i := 0; i < state.MaxRingCount+10; i++ {
		require.NoError(t, a.HandleButton(buttons.ScaleUp))
		require.NoError(t, a.HandleButton(buttons.ShadowUp))
		require.NoError(t, a.HandleButton(buttons.RingMore))
		require.NoError(t, a.HandleButton(buttons.BorderUp))
		require.NoError(t, a.HandleButton(buttons.OffsetDown))
	}
	p := a.Params()
	assert.Equal(t, state.MaxScale, p.LogoScale)
	assert.Equal(t, state.MaxShadowStrength, p.ShadowStrength)
	assert.Equal(t, state.MaxRingCount, p.RingCount)
	assert.Equal(t, smallCanvas, p.BorderThickness)
	assert.Equal(t, -smallCanvas, p.RingOffset)
	assert.NoError(t, p.Validate())
}
