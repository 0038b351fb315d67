package driver

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/go-git/go-billy/v5/util"
)

// Watch recompiles a source whenever it's written or created, until ctx is done. fsnotify
// watches the real file system, so the driver's file system must use os paths, like an
// osfs rooted at /.
func (d *Driver) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dirs, err := d.directories()
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		err = watcher.Add(dir)
		if err != nil {
			return err
		}
		d.logger.Debug().Str("dir", dir).Msg("watching")
	}
	d.logger.Info().Str("root", d.config.Root).Msg("watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			d.handleEvent(watcher, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			d.logger.Error().Err(err).Msg("watch error")
		}
	}
}

// directories lists the root and every directory below it. A file root is watched
// through its parent directory.
func (d *Driver) directories() ([]string, error) {
	info, err := d.fs.Stat(d.config.Root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{filepath.Dir(d.config.Root)}, nil
	}
	var dirs []string
	err = util.Walk(d.fs, d.config.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

type dirWatcher interface {
	Add(name string) error
}

// handleEvent recompiles the source an event is about. New directories are watched too.
// It returns whether a compilation happened.
func (d *Driver) handleEvent(watcher dirWatcher, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	info, err := d.fs.Stat(event.Name)
	if err != nil {
		// Already gone, like an editor's swap file.
		return false
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			err = watcher.Add(event.Name)
			if err != nil {
				d.logger.Error().Err(err).Str("dir", event.Name).Msg("can't watch directory")
			}
		}
		return false
	}
	if !d.isSource(event.Name) {
		return false
	}
	d.logger.Debug().Str("source", event.Name).Str("op", event.Op.String()).Msg("changed")
	_, err = d.CompileFile(event.Name)
	if err != nil {
		d.logger.Error().Err(err).Str("source", event.Name).Msg("compilation failed")
	}
	return true
}

func (d *Driver) isSource(path string) bool {
	info, err := d.fs.Stat(d.config.Root)
	if err == nil && !info.IsDir() {
		return path == d.config.Root
	}
	return d.matches(path)
}
