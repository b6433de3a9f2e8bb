package app

import (
	"io"

	"github.com/rook-computer/ringpfp/internal/imageio"
	"github.com/rook-computer/ringpfp/internal/state"
)

// LoadAvatar decodes r and makes it the avatar. On failure the store is left
// untouched and no frame is scheduled.
func (app *App) LoadAvatar(r io.Reader) error {
	img, err := imageio.Decode(r)
	if err != nil {
		app.Logger.Errorf("avatar", "load failed: %v", err)
		return err
	}
	app.Store.SetAvatar(img)
	app.Logger.Infof("avatar", "loaded %dx%d", img.Width, img.Height)
	app.Scheduler.Schedule()
	return nil
}

// LoadAvatarFile is LoadAvatar for a path.
func (app *App) LoadAvatarFile(path string) error {
	img, err := imageio.DecodeFile(path)
	if err != nil {
		app.Logger.Errorf("avatar", "load %s failed: %v", path, err)
		return err
	}
	app.Store.SetAvatar(img)
	app.Scheduler.Schedule()
	return nil
}

// LoadCustomStamp decodes r and activates it as the ring stamp.
func (app *App) LoadCustomStamp(r io.Reader) error {
	img, err := imageio.Decode(r)
	if err != nil {
		app.Logger.Errorf("stamp", "load failed: %v", err)
		return err
	}
	app.Store.SetCustomStamp(img)
	app.Logger.Infof("stamp", "custom stamp %dx%d", img.Width, img.Height)
	app.Scheduler.Schedule()
	return nil
}

// LoadCustomStampFile is LoadCustomStamp for a path.
func (app *App) LoadCustomStampFile(path string) error {
	img, err := imageio.DecodeFile(path)
	if err != nil {
		app.Logger.Errorf("stamp", "load %s failed: %v", path, err)
		return err
	}
	app.Store.SetCustomStamp(img)
	app.Scheduler.Schedule()
	return nil
}

// UseCustomStamp switches between the custom and the default stamp.
func (app *App) UseCustomStamp(enabled bool) {
	app.Store.UseCustomStamp(enabled)
	app.Scheduler.Schedule()
}

func (app *App) UsingCustomStamp() bool { return app.Store.UsingCustomStamp() }

func (app *App) Params() state.Params { return app.Store.Params() }

// UpdateParams applies fn to the parameters and schedules a frame. Invalid
// results are rejected and leave the store unchanged.
func (app *App) UpdateParams(fn func(*state.Params)) error {
	if err := app.Store.Update(fn); err != nil {
		return err
	}
	app.Scheduler.Schedule()
	return nil
}

// SetParams replaces the whole parameter set.
func (app *App) SetParams(p state.Params) error {
	return app.UpdateParams(func(cur *state.Params) { *cur = p })
}

// ApplyPatch sets the fields present in patch.
func (app *App) ApplyPatch(patch state.ParamsPatch) error {
	return app.UpdateParams(patch.Apply)
}

// Reset restores the variant defaults and the default stamp, keeps the
// avatar and renders immediately.
func (app *App) Reset() {
	app.Store.Reset(app.variant.ResetParams())
	app.Logger.Infof("app", "reset to %s defaults", app.variant.Name)
	app.Scheduler.ForceRender()
}
