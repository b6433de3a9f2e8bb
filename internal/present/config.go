package present

import "image/color"

// Presenter colors and logical canvas.
var (
	Foreground = color.RGBA{R: 0xEE, G: 0xEE, B: 0xF2, A: 0xFF}
	Muted      = color.RGBA{R: 0x8A, G: 0x8A, B: 0x94, A: 0xFF}
	Background = color.RGBA{R: 0x0B, G: 0x0B, B: 0x0C, A: 0xFF}

	// Logical canvas size; scaled to framebuffer.
	CanvasWidth  = 1280
	CanvasHeight = 720
)

const (
	framePadding  = 32
	panelPadding  = 40
	titleSizePt   = 40
	detailSizePt  = 22
	qrCodeSizePx  = 240
	lineSpacingPx = 16
)
