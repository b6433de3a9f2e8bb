//go:build linux

package system

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// KD console modes from linux/kd.h
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A // KDSETMODE ioctl
)

// consolePaths are tried in order: the active VT, then tty0.
var consolePaths = []string{"/dev/tty", "/dev/tty0"}

// EnterGraphics switches the active console to graphics mode and hides the
// cursor so the framebuffer is not drawn over.
func EnterGraphics(l Logger) error {
	err := setConsoleMode(kdGraphics)
	logResult(l, err, "KD_GRAPHICS set", "KD_GRAPHICS failed")
	cerr := writeVT("\x1b[?25l")
	logResult(l, cerr, "cursor hidden", "hide cursor failed")
	if err != nil {
		return err
	}
	return cerr
}

// LeaveGraphics restores text mode and the cursor.
func LeaveGraphics(l Logger) error {
	cerr := writeVT("\x1b[?25h")
	logResult(l, cerr, "cursor shown", "show cursor failed")
	err := setConsoleMode(kdText)
	logResult(l, err, "KD_TEXT set", "KD_TEXT failed")
	if err != nil {
		return err
	}
	return cerr
}

func setConsoleMode(mode int) error {
	var lastErr error
	for _, p := range consolePaths {
		fd, err := unix.Open(p, unix.O_RDONLY, 0)
		if err != nil {
			lastErr = fmt.Errorf("open %s: %w", p, err)
			continue
		}
		err = unix.IoctlSetInt(fd, kdSetMode, mode)
		unix.Close(fd)
		if err != nil {
			lastErr = fmt.Errorf("KDSETMODE %d on %s: %w", mode, p, err)
			continue
		}
		return nil
	}
	return lastErr
}

func writeVT(s string) error {
	var lastErr error
	for _, p := range consolePaths {
		f, err := os.OpenFile(p, os.O_WRONLY, 0)
		if err != nil {
			lastErr = err
			continue
		}
		_, err = f.WriteString(s)
		f.Close()
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("write VT failed: %w", lastErr)
}
