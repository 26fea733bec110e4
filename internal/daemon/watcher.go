package daemon

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// directedDebounce coalesces the burst of write events JS8Call produces
// while appending to DIRECTED.TXT.
const directedDebounce = 2 * time.Second

func (d *Daemon) startDirectedWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory: JS8Call may replace the file on rotation.
	if err := watcher.Add(filepath.Dir(d.config.DirectedPath)); err != nil {
		_ = watcher.Close()
		return err
	}
	d.watcher = watcher

	d.wg.Add(1)
	go d.directedWatchLoop(ctx)
	return nil
}

func (d *Daemon) directedWatchLoop(ctx context.Context) {
	defer d.wg.Done()
	defer d.watcher.Close()

	target := filepath.Base(d.config.DirectedPath)
	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stopCh:
			return
		case event, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			if !strings.EqualFold(filepath.Base(event.Name), target) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(directedDebounce)
				timerCh = timer.C
			} else {
				timer.Reset(directedDebounce)
			}
		case <-timerCh:
			timer = nil
			timerCh = nil
			d.ingestDirected(ctx)
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.debugf("directed watcher: %v", err)
		}
	}
}
