package config

import (
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the global configuration whenever the config file changes.
// It blocks until the stop channel is closed. Reload errors are logged and
// the previous configuration stays in effect.
func Watch(stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	cfg := Get()
	// Watch the directory: editors replace files, which drops the watch on
	// the file itself.
	if err := watcher.Add(filepath.Dir(cfg.ConfigFilePath())); err != nil {
		return err
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != ConfigFileName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := Reload(); err != nil {
				log.Printf("config: reload failed: %v", err)
				continue
			}
			log.Printf("config: reloaded from %s", cfg.ConfigFilePath())
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("config: watch error: %v", err)
		case <-stop:
			return nil
		}
	}
}
