package watchlist

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"

	"github.com/skarkon/crowsnest/internal/metrics"
)

// Watch reloads the list whenever the watchlist file changes on disk.
// It blocks until ctx is cancelled; run it in its own goroutine.
//
// A reload that fails to parse keeps the previous snapshot active; a broken
// edit must not blank the hostile sets mid-flight.
//
// onReload callbacks fire after each successful reload.
func (l *List) Watch(ctx context.Context, path string, logger *slog.Logger, onReload ...func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if err := w.Add(path); err != nil {
		return err
	}
	logger.Info("watching watchlist file", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			f, err := parseFile(path)
			if err != nil {
				metrics.WatchlistReloads.WithLabelValues("error").Inc()
				logger.Warn("watchlist reload failed, keeping previous snapshot", "error", err)
				continue
			}
			l.Replace(f)
			metrics.WatchlistReloads.WithLabelValues("ok").Inc()
			logger.Info("watchlist reloaded",
				"hostile_corps", len(f.HostileCorps),
				"hostile_alliances", len(f.HostileAlliances),
			)
			for _, fn := range onReload {
				fn()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watchlist watcher error", "error", err)
		}
	}
}
