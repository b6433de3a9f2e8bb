package present

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/rook-computer/ringpfp/internal/render/layout"
)

// Panel is the text and code shown next to the frame.
type Panel struct {
	Title  string
	Lines  []string
	QRCode image.Image
}

// Composer lays a rendered frame and its info panel out on the canvas.
type Composer struct {
	font *truetype.Font
}

func NewComposer() (*Composer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return &Composer{font: f}, nil
}

// Compose draws into canvas: the frame fitted into the left square and the
// panel in the remaining space.
func (c *Composer) Compose(canvas *image.RGBA, frame image.Image, panel Panel) error {
	bounds := canvas.Bounds()
	draw.Draw(canvas, bounds, image.NewUniform(Background), image.Point{}, draw.Src)

	left, right := layout.SplitVertical(bounds, bounds.Dy())
	if frame != nil {
		dst := layout.CenterSquare(layout.Inset(left, framePadding))
		xdraw.ApproxBiLinear.Scale(canvas, dst, frame, frame.Bounds(), xdraw.Over, nil)
	}

	area := layout.Inset(right, panelPadding)
	y := area.Min.Y
	var err error
	if panel.Title != "" {
		if y, err = c.drawLine(canvas, area, y, panel.Title, titleSizePt, Foreground); err != nil {
			return err
		}
	}
	for _, line := range panel.Lines {
		if y, err = c.drawLine(canvas, area, y, line, detailSizePt, Muted); err != nil {
			return err
		}
	}
	if panel.QRCode != nil {
		_, bottom := layout.SplitHorizontal(area, y-area.Min.Y+lineSpacingPx)
		qb := panel.QRCode.Bounds()
		dst := layout.AnchorTopLeft(bottom, qb.Dx(), qb.Dy())
		draw.Draw(canvas, dst, panel.QRCode, qb.Min, draw.Src)
	}
	return nil
}

// drawLine renders one line of text with its top at y and returns the y of
// the next line.
func (c *Composer) drawLine(dst *image.RGBA, area image.Rectangle, y int, text string, sizePt float64, col color.Color) (int, error) {
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(c.font)
	ctx.SetFontSize(sizePt)
	ctx.SetHinting(font.HintingFull)
	ctx.SetClip(area)
	ctx.SetDst(dst)
	ctx.SetSrc(image.NewUniform(col))

	ascent := int(sizePt * 0.8)
	baseline := y + ascent
	if _, err := ctx.DrawString(text, freetype.Pt(area.Min.X, baseline)); err != nil {
		return y, err
	}
	return y + int(sizePt) + lineSpacingPx, nil
}
