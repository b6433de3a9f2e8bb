package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/rook-computer/ringpfp/internal/imageio"
	"github.com/rook-computer/ringpfp/internal/render"
	"github.com/rook-computer/ringpfp/internal/state"
	"github.com/rook-computer/ringpfp/internal/variant"
)

// maxJSONBody caps params and toggle request bodies.
const maxJSONBody = 64 << 10

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type customStampRequest struct {
	Enabled *bool `json:"enabled"`
}

type variantResponse struct {
	Name        string   `json:"name"`
	Watermark   bool     `json:"watermark"`
	CustomStamp bool     `json:"customStamp"`
	Presets     []string `json:"presets"`
}

func apiV1Router(cfg APIV1Config) http.Handler {
	c := cfg.Compositor
	mux := http.NewServeMux()
	if c == nil {
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			writeAPIError(w, http.StatusNotImplemented, "not_implemented", "compositor not configured")
		})
		return mux
	}
	mux.HandleFunc("/params", func(w http.ResponseWriter, r *http.Request) { handleParams(w, r, c) })
	mux.HandleFunc("/avatar", func(w http.ResponseWriter, r *http.Request) { handleUpload(w, r, cfg, "avatar", c.LoadAvatar) })
	mux.HandleFunc("/stamp", func(w http.ResponseWriter, r *http.Request) { handleUpload(w, r, cfg, "stamp", c.LoadCustomStamp) })
	mux.HandleFunc("/stamp/custom", func(w http.ResponseWriter, r *http.Request) { handleCustomStamp(w, r, c) })
	mux.HandleFunc("/reset", func(w http.ResponseWriter, r *http.Request) { handleReset(w, r, c) })
	mux.HandleFunc("/export", func(w http.ResponseWriter, r *http.Request) { handleExport(w, r, cfg) })
	mux.HandleFunc("/frame.png", func(w http.ResponseWriter, r *http.Request) { handleFrame(w, r, c) })
	mux.HandleFunc("/variant", func(w http.ResponseWriter, r *http.Request) { handleVariant(w, r, c) })
	mux.Handle("/events", newEventsHandler(c, cfg.Logger))
	return mux
}

func handleParams(w http.ResponseWriter, r *http.Request, c Compositor) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, c.Params())
	case http.MethodPut:
		// Full replacement starts from the current values so omitted keys
		// keep them rather than collapsing to zero.
		next := c.Params()
		if err := decodeJSON(w, r, &next); err != nil {
			writeAPIError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		if err := c.SetParams(next); err != nil {
			writeParamsError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c.Params())
	case http.MethodPatch:
		var patch state.ParamsPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeAPIError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		if err := c.ApplyPatch(patch); err != nil {
			writeParamsError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c.Params())
	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func handleUpload(w http.ResponseWriter, r *http.Request, cfg APIV1Config, what string, load func(io.Reader) error) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	body := http.MaxBytesReader(w, r.Body, imageio.MaxBytes)
	if err := load(body); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeAPIError(w, http.StatusRequestEntityTooLarge, "too_large", err.Error())
		case errors.Is(err, imageio.ErrImageDecode):
			writeAPIError(w, http.StatusUnprocessableEntity, "image_decode_failed", err.Error())
		default:
			writeAPIError(w, http.StatusInternalServerError, what+"_failed", err.Error())
		}
		return
	}
	if cfg.Logger != nil {
		cfg.Logger.Infof("web", "%s uploaded from %s", what, r.RemoteAddr)
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func handleCustomStamp(w http.ResponseWriter, r *http.Request, c Compositor) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	var req customStampRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.Enabled == nil {
		writeAPIError(w, http.StatusBadRequest, "bad_request", "enabled is required")
		return
	}
	c.UseCustomStamp(*req.Enabled)
	writeJSON(w, http.StatusOK, map[string]bool{"customStamp": c.UsingCustomStamp()})
}

func handleReset(w http.ResponseWriter, r *http.Request, c Compositor) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	c.Reset()
	writeJSON(w, http.StatusOK, c.Params())
}

func handleExport(w http.ResponseWriter, r *http.Request, cfg APIV1Config) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	var buf bytes.Buffer
	if err := cfg.Compositor.Export(&buf); err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Errorf("web", "export failed: %v", err)
		}
		writeAPIError(w, http.StatusInternalServerError, "export_failed", err.Error())
		return
	}
	setDownloadHeaders(w, render.ExportFileName, "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func handleFrame(w http.ResponseWriter, r *http.Request, c Compositor) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.Frame()); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func handleVariant(w http.ResponseWriter, r *http.Request, c Compositor) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	v := c.Variant()
	writeJSON(w, http.StatusOK, variantResponse{
		Name:        v.Name,
		Watermark:   v.Watermark,
		CustomStamp: c.UsingCustomStamp(),
		Presets:     variant.Names(),
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeParamsError(w http.ResponseWriter, err error) {
	var verr *state.ValidationError
	if errors.As(err, &verr) {
		writeAPIError(w, http.StatusBadRequest, "invalid_params", verr.Error())
		return
	}
	writeAPIError(w, http.StatusInternalServerError, "params_failed", err.Error())
}

func setDownloadHeaders(w http.ResponseWriter, filename, contentType string) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	cd := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	w.Header().Set("Content-Disposition", cd)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
