package assets

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"ecss/css"
)

// Reload is delivered whenever a watched stylesheet changes on disk. Old is
// the identity of the sheet being replaced; Sheet is the freshly parsed
// replacement.
type Reload struct {
	Path  string
	Old   *css.Stylesheet
	Sheet *css.Stylesheet
}

// Watcher re-parses watched stylesheets when they change and publishes the
// replacements on its channel. Consumers are expected to swap the new sheet
// in wholesale; there is no partial update.
type Watcher struct {
	log    *zap.Logger
	loader *Loader
	fsw    *fsnotify.Watcher
	events chan Reload

	mu      sync.Mutex
	watched map[string]*css.Stylesheet
}

func NewWatcher(loader *Loader, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		log:     log.Named("watcher"),
		loader:  loader,
		fsw:     fsw,
		events:  make(chan Reload, 8),
		watched: make(map[string]*css.Stylesheet),
	}
	go w.run()
	return w, nil
}

// Watch starts tracking a loaded sheet's file. The sheet is what reload
// events will report as replaced first; subsequent reloads chain off the
// latest replacement automatically.
func (w *Watcher) Watch(path string, sheet *css.Stylesheet) error {
	full := w.loader.abs(path)
	if err := w.fsw.Add(full); err != nil {
		return err
	}
	w.mu.Lock()
	w.watched[filepath.Clean(full)] = sheet
	w.mu.Unlock()
	return nil
}

// Events delivers sheet replacements. The channel closes when the watcher
// is closed.
func (w *Watcher) Events() <-chan Reload {
	return w.events
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) run() {
	defer close(w.events)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload(ev.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("stylesheet watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload(name string) {
	key := filepath.Clean(name)
	w.mu.Lock()
	old, ok := w.watched[key]
	w.mu.Unlock()
	if !ok {
		return
	}
	sheet, err := w.loader.Load(name)
	if err != nil {
		// Editors often truncate before writing; keep the old sheet and
		// wait for the next event.
		w.log.Warn("stylesheet reload failed", zap.String("path", name), zap.Error(err))
		return
	}
	w.mu.Lock()
	w.watched[key] = sheet
	w.mu.Unlock()
	w.log.Info("stylesheet reloaded",
		zap.String("path", name),
		zap.Int("rules", len(sheet.Rules)))
	w.events <- Reload{Path: name, Old: old, Sheet: sheet}
}
