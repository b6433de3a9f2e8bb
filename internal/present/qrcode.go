package present

import (
	"image"

	"github.com/skip2/go-qrcode"
)

// URLCode renders url as a QR code in the panel palette. An empty url yields
// no image and no error; a non-positive size uses qrCodeSizePx.
func URLCode(url string, sizePx int) (image.Image, error) {
	if url == "" {
		return nil, nil
	}
	code, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	// light modules on the dark panel
	code.BackgroundColor, code.ForegroundColor = Foreground, Background
	if sizePx <= 0 {
		sizePx = qrCodeSizePx
	}
	return code.Image(sizePx), nil
}
