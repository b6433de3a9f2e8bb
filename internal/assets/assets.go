package assets

//go:generate go run gen_stamp.go

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"image/png"
	"io/fs"

	"github.com/rook-computer/ringpfp/internal/state"
)

//go:embed stamp.png
var StampPNG []byte

//go:embed web
var webFS embed.FS

// WebUI is an embedded filesystem rooted at internal/assets/web.
var WebUI fs.FS

// ErrAssetLoad marks a bundled asset that could not be decoded.
var ErrAssetLoad = errors.New("asset load failed")

func init() {
	// Embed paths include the leading directory; strip it for serving at '/'.
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	WebUI = sub
}

// DefaultStamp decodes the bundled stamp image.
func DefaultStamp() (*state.Image, error) {
	return decodeStamp(StampPNG)
}

func decodeStamp(data []byte) (*state.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: default stamp: %v", ErrAssetLoad, err)
	}
	return state.NewImage(img), nil
}
