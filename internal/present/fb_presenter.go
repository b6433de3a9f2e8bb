package present

import (
	"context"
	"image"
	"image/color"
	"sync"
	"sync/atomic"

	fb "github.com/gonutz/framebuffer"
)

// Logger receives component-tagged log lines.
type Logger interface {
	Infof(component, format string, args ...interface{})
	Errorf(component, format string, args ...interface{})
}

// FBPresenter shows the latest rendered frame on the Linux framebuffer using
// an offscreen logical canvas.
type FBPresenter struct {
	// Device is the framebuffer device path, /dev/fb0 when empty.
	Device string
	// URL, when set, is shown as a QR code so a phone can open the web UI.
	URL    string
	Title  string
	Logger Logger
	Debug bool

	mu       sync.Mutex
	fbDev    *fb.Device
	canvas   *image.RGBA
	composer *Composer
	qr       image.Image
	running  atomic.Bool
}

func NewFBPresenter(title, url string) *FBPresenter {
	return &FBPresenter{Title: title, URL: url}
}

func (p *FBPresenter) Start(ctx context.Context) error {
	path := p.Device
	if path == "" {
		path = "/dev/fb0"
	}
	dev, err := fb.Open(path)
	if err != nil {
		return err
	}
	p.fbDev = dev
	if p.Logger != nil {
		bounds := dev.Bounds()
		p.Logger.Infof("fb", "framebuffer open, bounds=%dx%d", bounds.Dx(), bounds.Dy())
	}

	p.canvas = image.NewRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight))
	composer, err := NewComposer()
	if err != nil {
		dev.Close()
		return err
	}
	p.composer = composer

	if qr, qerr := URLCode(p.URL, qrCodeSizePx); qerr != nil {
		if p.Logger != nil {
			p.Logger.Errorf("fb", "qr code for %q failed: %v", p.URL, qerr)
		}
	} else {
		p.qr = qr
	}

	p.running.Store(true)
	return nil
}

func (p *FBPresenter) Stop() error {
	p.running.Store(false)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fbDev != nil {
		p.fbDev.Close()
		p.fbDev = nil
	}
	return nil
}

// Present composes frame with the info panel and blits it.
func (p *FBPresenter) Present(frame image.Image, lines ...string) {
	if !p.running.Load() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fbDev == nil {
		return
	}
	panel := Panel{Title: p.Title, Lines: lines, QRCode: p.qr}
	if err := p.composer.Compose(p.canvas, frame, panel); err != nil && p.Logger != nil {
		p.Logger.Errorf("fb", "compose failed: %v", err)
	}
	blitToFB(p.fbDev, p.canvas)
	if p.Debug && p.Logger != nil {
		p.Logger.Infof("fb", "presented frame %v", frame.Bounds().Size())
	}
}

// Helper: blit canvas to framebuffer via nearest-neighbor scaling.
func blitToFB(dev *fb.Device, canvas *image.RGBA) {
	bounds := dev.Bounds()
	fbWidth := bounds.Dx()
	fbHeight := bounds.Dy()
	cw, ch := canvas.Rect.Dx(), canvas.Rect.Dy()
	for y := 0; y < fbHeight; y++ {
		sy := (y * ch) / fbHeight
		for x := 0; x < fbWidth; x++ {
			sx := (x * cw) / fbWidth
			pixel := canvas.RGBAAt(sx, sy)
			dev.Set(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{R: pixel.R, G: pixel.G, B: pixel.B, A: 0xFF})
		}
	}
}
