package tzdb

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ngrash/go-tzcal/internal/logx"
)

// Live holds the current DB and swaps in a freshly loaded one on Reload.
// Readers never block and never observe a partially built table.
//
// Live is not a zone.Table. Resolve zones against a snapshot from DB, so a
// resolved zone keeps the table it was resolved in across reloads.
type Live struct {
	cur  atomic.Pointer[DB]
	load func() (*DB, error)
	opts options
}

// NewLive loads the first table with load and returns a Live serving it.
func NewLive(load func() (*DB, error), opts ...Option) (*Live, error) {
	l := &Live{load: load, opts: newOptions(opts)}
	db, err := load()
	if err != nil {
		return nil, err
	}
	l.cur.Store(db)
	return l, nil
}

// DB returns the table currently served.
func (l *Live) DB() *DB { return l.cur.Load() }

// Reload loads a new table and publishes it. On error the current table is
// kept.
func (l *Live) Reload() error {
	start := time.Now()
	db, err := l.load()
	if err != nil {
		l.opts.log.Warn("zone table reload failed", logx.Err(err))
		return err
	}
	l.cur.Store(db)
	l.opts.log.Info("zone table reloaded",
		logx.Int("zones", db.Len()),
		logx.String("version", db.Version()),
		logx.Duration("took", time.Since(start)),
	)
	return nil
}

// Watch reloads the table whenever files below dir change, until ctx is
// done. Bursts of events are coalesced. Directories created after Watch
// starts are added to the watch list.
func (l *Live) Watch(ctx context.Context, dir string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := addTree(w, dir); err != nil {
		return err
	}
	l.opts.log.Debug("zoneinfo watcher started", logx.String("dir", dir))

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	debounce := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(l.opts.debounce, func() {
			if ctx.Err() != nil {
				return
			}
			_ = l.Reload()
		})
	}
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = addTree(w, ev.Name)
				}
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				l.opts.log.Debug("zoneinfo change detected", logx.String("file", ev.Name))
				debounce()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			l.opts.log.Warn("zoneinfo watch error", logx.Err(err), logx.String("dir", dir))
		}
	}
}

// addTree watches root and every directory below it. fsnotify is not
// recursive.
func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := w.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}
