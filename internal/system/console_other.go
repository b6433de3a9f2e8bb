//go:build !linux

package system

import "errors"

var errNoConsole = errors.New("console graphics mode is only supported on linux")

func EnterGraphics(l Logger) error {
	logResult(l, errNoConsole, "", "KD_GRAPHICS failed")
	return errNoConsole
}

func LeaveGraphics(l Logger) error { return nil }
