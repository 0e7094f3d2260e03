package cliconfig

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Tuner receives the dynamic subset of configuration when the config file
// changes. *boxcar.Producer satisfies this interface.
type Tuner interface {
	Tune(flushDelay time.Duration, maxBatchMessages int)
}

// Watcher monitors the config file via fsnotify and re-applies the dynamic
// batching knobs (flush_delay, max_batch_messages) to a running producer.
// Static fields (endpoint, topic, stream identity) require a restart and
// are ignored on reload.
type Watcher struct {
	path   string
	tuner  Tuner
	logger zerolog.Logger

	mu       sync.Mutex
	debounce *time.Timer
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string, tuner Tuner, logger zerolog.Logger) *Watcher {
	return &Watcher{
		path:   path,
		tuner:  tuner,
		logger: logger,
	}
}

// Run watches the config file until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) {
	if w.path == "" {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Error().Err(err).Msg("config watcher: failed to create watcher")
		return
	}
	defer watcher.Close()

	// Watch the directory: editors replace files on save, which drops a
	// watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		w.logger.Error().Err(err).Str("path", w.path).Msg("config watcher: failed to watch")
		return
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.debounceReload(100 * time.Millisecond)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("config watcher: error")
		}
	}
}

func (w *Watcher) debounceReload(delay time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(delay, w.reload)
}

func (w *Watcher) reload() {
	fc, err := LoadFileConfig(w.path)
	if err != nil {
		w.logger.Error().Err(err).Str("path", w.path).Msg("config watcher: reload failed")
		return
	}

	flushDelay := time.Duration(0)
	if fc.FlushDelay != "" {
		d, err := time.ParseDuration(fc.FlushDelay)
		if err != nil {
			w.logger.Error().Err(err).Msg("config watcher: bad flush_delay")
			return
		}
		flushDelay = d
	}

	maxBatch := -1
	if fc.MaxBatchMessages > 0 {
		maxBatch = fc.MaxBatchMessages
	}

	w.tuner.Tune(flushDelay, maxBatch)
	w.logger.Info().
		Str("flush_delay", fc.FlushDelay).
		Int("max_batch_messages", fc.MaxBatchMessages).
		Msg("config watcher: applied dynamic settings")
}
