package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors the config file at path and invokes onChange with a freshly
// loaded Config whenever the file is rewritten. It blocks until ctx is
// cancelled.
//
// A rewrite that fails to load or validate is logged at error level and
// onChange is not called, so the pipeline keeps running on the previous
// configuration.
func Watch(ctx context.Context, log *slog.Logger, path string, onChange func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		return err
	}

	log.Info("watching config file", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			// Editors commonly save atomically (write to temp, rename over),
			// which surfaces as Create rather than Write.
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				log.Error("config reload failed, keeping previous config",
					"path", path, "err", err)
				continue
			}
			log.Info("config reloaded", "path", path)
			onChange(cfg)

			// An atomic save replaces the inode; re-arm the watch.
			_ = w.Add(path)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error("config watcher error", "err", err)
		}
	}
}
