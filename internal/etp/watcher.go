package etp

import (
	"context"
	"path/filepath"
	"time"

	"github.com/Vovarama1992/ranto_vox/internal/metrics"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce: тишина после последнего события, после которой файл считается дописанным.
const DefaultDebounce = 500 * time.Millisecond

// Watcher перезагружает лексиконы при изменении их файлов.
// Серия событий по одному пути схлопывается в одну перезагрузку.
type Watcher struct {
	registry *Registry
	log      *zap.Logger
	byPath   map[string][]string
	watcher  *fsnotify.Watcher
	debounce time.Duration

	pending map[string]*time.Timer
	fire    chan string
	done    chan struct{}
}

func NewWatcher(registry *Registry, log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		registry: registry,
		log:      log,
		byPath:   make(map[string][]string),
		watcher:  fw,
		debounce: DefaultDebounce,
		pending:  make(map[string]*time.Timer),
		fire:     make(chan string),
		done:     make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, lang := range registry.Languages() {
		l, _ := registry.Lookup(lang)
		for _, src := range l.Sources {
			clean := filepath.Clean(src)
			w.byPath[clean] = append(w.byPath[clean], lang)
			dirs[filepath.Dir(clean)] = struct{}{}
		}
	}

	// следим за каталогами: редакторы часто сохраняют файл через rename
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// SetDebounceDuration задаётся до Run.
func (w *Watcher) SetDebounceDuration(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Run блокируется до отмены контекста.
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()
	defer close(w.done)
	defer func() {
		for _, t := range w.pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			path := filepath.Clean(event.Name)
			if _, ok := w.byPath[path]; !ok {
				continue
			}
			w.schedule(path)
		case path := <-w.fire:
			delete(w.pending, path)
			w.reload(path)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("[etp_watch] watcher error", zap.Error(err))
		}
	}
}

// schedule откладывает перезагрузку path до паузы в событиях.
func (w *Watcher) schedule(path string) {
	if t, ok := w.pending[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		select {
		case w.fire <- path:
		case <-w.done:
		}
	})
}

func (w *Watcher) reload(path string) {
	for _, lang := range w.byPath[path] {
		if err := w.registry.Reload(lang); err != nil {
			metrics.DefaultMetrics.LexiconReload.WithLabelValues(lang, "error").Inc()
			w.log.Error("[etp_watch] reload failed, keeping previous lexicon",
				zap.String("lang", lang), zap.String("path", path), zap.Error(err))
			continue
		}
		metrics.DefaultMetrics.LexiconReload.WithLabelValues(lang, "ok").Inc()
		w.log.Info("[etp_watch] lexicon reloaded", zap.String("lang", lang), zap.String("path", path))
	}
}
