package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rook-computer/ringpfp/internal/state"
)

// settle is how long Watch waits after the last event before reloading, so a
// burst of writes from one save produces one reload.
const settle = 50 * time.Millisecond

// Watch calls fn with the freshly parsed params file each time it changes
// until ctx is done. The parent directory is watched so editors that replace
// the file on save are followed.
func Watch(ctx context.Context, path string, fn func(state.ParamsPatch, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		timer := time.NewTimer(settle)
		timer.Stop()
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					timer.Reset(settle)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				fn(state.ParamsPatch{}, err)
			case <-timer.C:
				fn(LoadParamsFile(abs))
			}
		}
	}()
	return nil
}
