package web

import (
	"image"
	"io"
	"net/http"

	"github.com/rook-computer/ringpfp/internal/state"
	"github.com/rook-computer/ringpfp/internal/variant"
)

// Compositor is the set of operations the API exposes. *app.App implements it.
type Compositor interface {
	Params() state.Params
	SetParams(p state.Params) error
	ApplyPatch(patch state.ParamsPatch) error
	LoadAvatar(r io.Reader) error
	LoadCustomStamp(r io.Reader) error
	UseCustomStamp(enabled bool)
	UsingCustomStamp() bool
	Reset()
	Export(w io.Writer) error
	Frame() *image.RGBA
	Variant() variant.Variant
	OnRender(fn func(seq uint64)) (cancel func())
}

// logger matches the component-tagged logger used across the app.
type logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type APIV1Config struct {
	Compositor Compositor
	Logger     logger
}

// RegisterAPIV1 registers the public API routes under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, cfg APIV1Config) {
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1Router(cfg)))
}

// RegisterUI serves either embedded UI assets or a directory.
func RegisterUI(mux *http.ServeMux, staticDir string) {
	mux.Handle("/", StaticUIHandler(staticDir))
}

// NewDefaultMux builds the standard mux used by both binaries:
// - /api/v1/* for the API
// - / for the web UI
func NewDefaultMux(staticDir string, cfg APIV1Config) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterAPIV1(mux, cfg)
	RegisterUI(mux, staticDir)
	return mux
}
