//go:build !linux

package system

import "context"

// WatchKeys is a no-op outside linux; the preview window handles keys itself.
func WatchKeys(ctx context.Context, logger Logger, handlers map[uint16]func()) {
	if logger != nil {
		logger.Infof("input", "evdev key watching is only supported on linux")
	}
}
