package app

import (
	"fmt"

	"github.com/rook-computer/ringpfp/internal/config"
)

// LoadInputs applies the startup params file, avatar and custom stamp, in
// that order. Empty paths are skipped.
func (app *App) LoadInputs(avatar, stamp, paramsFile string) error {
	if paramsFile != "" {
		patch, err := config.LoadParamsFile(paramsFile)
		if err != nil {
			return fmt.Errorf("params file: %w", err)
		}
		if err := app.ApplyPatch(patch); err != nil {
			return fmt.Errorf("params file %s: %w", paramsFile, err)
		}
	}
	if avatar != "" {
		if err := app.LoadAvatarFile(avatar); err != nil {
			return fmt.Errorf("avatar: %w", err)
		}
	}
	if stamp != "" {
		if err := app.LoadCustomStampFile(stamp); err != nil {
			return fmt.Errorf("stamp: %w", err)
		}
	}
	return nil
}
