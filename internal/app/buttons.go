package app

import (
	"context"

	"github.com/rook-computer/ringpfp/internal/buttons"
	"github.com/rook-computer/ringpfp/internal/state"
)

// ButtonStep is how far one press moves a numeric parameter. Presses stop at
// the ranges Params.Validate accepts.
const ButtonStep = 1

var adjustments = map[buttons.Event]func(*state.Params){
	buttons.RingMore:         func(p *state.Params) { p.RingCount = min(state.MaxRingCount, p.RingCount+ButtonStep) },
	buttons.RingLess:         func(p *state.Params) { p.RingCount = max(0, p.RingCount-ButtonStep) },
	buttons.ScaleUp:          func(p *state.Params) { p.LogoScale = min(state.MaxScale, p.LogoScale+ButtonStep) },
	buttons.ScaleDown:        func(p *state.Params) { p.LogoScale = max(0, p.LogoScale-ButtonStep) },
	buttons.OffsetUp:         func(p *state.Params) { p.RingOffset = min(p.CanvasSize, p.RingOffset+ButtonStep) },
	buttons.OffsetDown:       func(p *state.Params) { p.RingOffset = max(-p.CanvasSize, p.RingOffset-ButtonStep) },
	buttons.BorderUp:         func(p *state.Params) { p.BorderThickness = min(p.CanvasSize, p.BorderThickness+ButtonStep) },
	buttons.BorderDown:       func(p *state.Params) { p.BorderThickness = max(0, p.BorderThickness-ButtonStep) },
	buttons.ShadowUp:         func(p *state.Params) { p.ShadowStrength = min(state.MaxShadowStrength, p.ShadowStrength+ButtonStep) },
	buttons.ShadowDown:       func(p *state.Params) { p.ShadowStrength = max(0, p.ShadowStrength-ButtonStep) },
	buttons.ToggleTangent:    func(p *state.Params) { p.AlignTangent = !p.AlignTangent },
	buttons.ToggleBackground: func(p *state.Params) { p.TransparentBackground = !p.TransparentBackground },
	buttons.ToggleWatermark:  func(p *state.Params) { p.AddWatermark = !p.AddWatermark },
}

// HandleButton applies one input event. Export writes to ExportPath.
func (app *App) HandleButton(e buttons.Event) error {
	if fn, ok := adjustments[e]; ok {
		return app.UpdateParams(fn)
	}
	switch e {
	case buttons.ToggleStamp:
		app.UseCustomStamp(!app.UsingCustomStamp())
	case buttons.Reset:
		app.Reset()
	case buttons.Export:
		return app.ExportFile(app.ExportPath)
	case buttons.Exit:
		app.Exit(nil)
	default:
		app.Logger.Infof("buttons", "ignoring event %q", e)
	}
	return nil
}

// RunButtons starts b and handles its events until ctx is done or the
// event channel closes.
func (app *App) RunButtons(ctx context.Context, b buttons.Buttons) error {
	if err := b.Start(ctx); err != nil {
		return err
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-b.Events():
				if !ok {
					return
				}
				if err := app.HandleButton(e); err != nil {
					app.Logger.Errorf("buttons", "%s: %v", e, err)
				}
			}
		}
	}()
	return nil
}
