// Package imageio decodes user-supplied images into store values.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/h2non/filetype"
	"github.com/mitchellh/go-homedir"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/rook-computer/ringpfp/internal/state"
)

// ErrImageDecode marks any failure to turn bytes into an image.
var ErrImageDecode = errors.New("image decode failed")

// MaxBytes caps how much of a reader Decode will consume.
const MaxBytes = 64 << 20

// MaxPixels caps the decoded width*height, checked from the header before any
// pixel data is allocated.
const MaxPixels = 64 << 20

// sniffLen is how many leading bytes filetype needs to classify a file.
const sniffLen = 262

var supported = map[string]bool{
	"png":  true,
	"jpg":  true,
	"gif":  true,
	"webp": true,
	"bmp":  true,
	"tif":  true,
}

// Decode reads an image from r. Unsupported or corrupt data returns an error
// wrapping ErrImageDecode.
func Decode(r io.Reader) (*state.Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read: %w", ErrImageDecode, err)
	}
	return DecodeBytes(data)
}

func DecodeBytes(data []byte) (*state.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrImageDecode)
	}
	if len(data) > MaxBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrImageDecode, MaxBytes)
	}
	kind, err := Sniff(data)
	if err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageDecode, kind, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %s has no pixels", ErrImageDecode, kind)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %s is %dx%d, over %d pixels", ErrImageDecode, kind, cfg.Width, cfg.Height, MaxPixels)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageDecode, kind, err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: %s has no pixels", ErrImageDecode, kind)
	}
	return state.NewImage(img), nil
}

// Sniff reports the image format of data, by extension name.
func Sniff(data []byte) (string, error) {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return "", fmt.Errorf("%w: unrecognized format", ErrImageDecode)
	}
	if !supported[kind.Extension] {
		return "", fmt.Errorf("%w: unsupported format %s", ErrImageDecode, kind.MIME.Value)
	}
	return kind.Extension, nil
}

// DecodeFile decodes the image at path; a leading ~ expands to the home directory.
func DecodeFile(path string) (*state.Image, error) {
	full, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	defer f.Close()
	return Decode(f)
}
