package main

import (
	"fmt"
	"image/color"
	"io/fs"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/rook-computer/ringpfp/internal/app"
	"github.com/rook-computer/ringpfp/internal/buttons"
	"github.com/rook-computer/ringpfp/internal/schedule"
)

const (
	windowSize    = 720
	statusTimeout = 3 * time.Second
)

var backdrop = color.RGBA{R: 0x20, G: 0x20, B: 0x24, A: 0xff}

// keyBindings maps window keys to compositor events.
var keyBindings = []struct {
	key   ebiten.Key
	event buttons.Event
}{
	{ebiten.KeyArrowUp, buttons.RingMore},
	{ebiten.KeyArrowDown, buttons.RingLess},
	{ebiten.KeyArrowRight, buttons.ScaleUp},
	{ebiten.KeyArrowLeft, buttons.ScaleDown},
	{ebiten.KeyPageUp, buttons.OffsetUp},
	{ebiten.KeyPageDown, buttons.OffsetDown},
	{ebiten.KeyBracketRight, buttons.BorderUp},
	{ebiten.KeyBracketLeft, buttons.BorderDown},
	{ebiten.KeyEqual, buttons.ShadowUp},
	{ebiten.KeyMinus, buttons.ShadowDown},
	{ebiten.KeyT, buttons.ToggleTangent},
	{ebiten.KeyB, buttons.ToggleBackground},
	{ebiten.KeyW, buttons.ToggleWatermark},
	{ebiten.KeyC, buttons.ToggleStamp},
	{ebiten.KeyR, buttons.Reset},
	{ebiten.KeyS, buttons.Export},
}

const helpText = "arrows ring/scale  pgup/pgdn offset  [ ] border  - = shadow\n" +
	"T tangent  B background  W watermark  C stamp  R reset  S export\n" +
	"drop an image for the avatar (shift+drop for the stamp)  esc quit"

type game struct {
	app    *app.App
	frames *schedule.FrameQueue
	done   <-chan struct{}

	view *ebiten.Image
	seq  uint64

	status      string
	statusUntil time.Time
}

func newGame(a *app.App, frames *schedule.FrameQueue, done <-chan struct{}) *game {
	return &game{app: a, frames: frames, done: done}
}

func (g *game) Update() error {
	select {
	case <-g.done:
		return ebiten.Termination
	default:
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	for _, b := range keyBindings {
		if !inpututil.IsKeyJustPressed(b.key) {
			continue
		}
		if err := g.app.HandleButton(b.event); err != nil {
			g.setStatus(fmt.Sprintf("%s: %v", b.event, err))
		} else if b.event == buttons.Export {
			g.setStatus("wrote " + g.app.ExportPath)
		}
	}

	if dropped := ebiten.DroppedFiles(); dropped != nil {
		shift := ebiten.IsKeyPressed(ebiten.KeyShift)
		if err := g.loadDropped(dropped, shift); err != nil {
			g.setStatus(err.Error())
		}
	}

	g.frames.RunFrame()
	return nil
}

// loadDropped loads the first dropped file as the avatar, or as the custom
// stamp when asStamp is set.
func (g *game) loadDropped(files fs.FS, asStamp bool) error {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		f, err := files.Open(e.Name())
		if err != nil {
			return err
		}
		defer f.Close()
		if asStamp {
			err = g.app.LoadCustomStamp(f)
		} else {
			err = g.app.LoadAvatar(f)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", e.Name(), err)
		}
		g.setStatus("loaded " + e.Name())
		return nil
	}
	return nil
}

func (g *game) setStatus(msg string) {
	g.status = msg
	g.statusUntil = time.Now().Add(statusTimeout)
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(backdrop)

	if seq := g.app.Seq(); seq != g.seq || g.view == nil {
		frame := g.app.Frame()
		w, h := frame.Rect.Dx(), frame.Rect.Dy()
		if g.view == nil || g.view.Bounds().Dx() != w || g.view.Bounds().Dy() != h {
			if g.view != nil {
				g.view.Deallocate()
			}
			g.view = ebiten.NewImage(w, h)
		}
		g.view.WritePixels(frame.Pix)
		g.seq = seq
	}

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	vw, vh := g.view.Bounds().Dx(), g.view.Bounds().Dy()
	scale := min(float64(sw)/float64(vw), float64(sh)/float64(vh))
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate((float64(sw)-float64(vw)*scale)/2, (float64(sh)-float64(vh)*scale)/2)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.view, &op)

	p := g.app.Params()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("frame %d  ring %d  scale %d%%  offset %d  border %d  shadow %d",
		g.seq, p.RingCount, p.LogoScale, p.RingOffset, p.BorderThickness, p.ShadowStrength), 4, 4)
	ebitenutil.DebugPrintAt(screen, helpText, 4, sh-52)
	if g.status != "" && time.Now().Before(g.statusUntil) {
		ebitenutil.DebugPrintAt(screen, g.status, 4, 22)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
