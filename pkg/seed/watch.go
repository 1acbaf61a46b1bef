package seed

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/Akram012388/skillissue-world/pkg/logger"
	"github.com/Akram012388/skillissue-world/pkg/utils"
)

// DefaultDebounce is how long data files must be quiet before a reseed.
const DefaultDebounce = 500 * time.Millisecond

// Watch calls onChange whenever a supported data file under paths is
// created, written, renamed, or removed. Bursts of events are collapsed
// into one call after debounce. Watch blocks until ctx is done.
func Watch(ctx context.Context, paths []string, debounce time.Duration, onChange func(context.Context)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	dirs, err := watchDirs(paths)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		logger.G(ctx).WithField("directory", dir).Debug("adding directory to watcher")
		if err := watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	debouncer := utils.NewDebouncer(debounce, func() { onChange(ctx) })
	defer debouncer.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !Supported(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logger.G(ctx).WithField("file", event.Name).
				WithField("operation", event.Op.String()).
				Debug("data file change detected")
			debouncer.Trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.G(ctx).WithError(err).Error("error watching data files")
		case <-ctx.Done():
			return nil
		}
	}
}

// watchDirs returns the directories to watch: every directory below a
// directory argument, and the parent directory of a file argument.
func watchDirs(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string
	add := func(d string) {
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot watch %s", p)
		}
		if !info.IsDir() {
			add(filepath.Dir(p))
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && (d.Name() == ".git" || d.Name() == "node_modules") {
					return filepath.SkipDir
				}
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to walk %s", p)
		}
	}
	return dirs, nil
}
