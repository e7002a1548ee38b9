package main

import (
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long the inputs must stay unchanged before converting.
const settle = 250 * time.Millisecond

// watch calls convert after any of the inputs is written, until interrupted.
// Changes to output are ignored.
func watch(inputs []string, output string, convert func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	targets := map[string]bool{}
	dirs := map[string]bool{}
	for _, name := range inputs {
		name = filepath.Clean(name)
		targets[name] = true
		dirs[filepath.Dir(name)] = true
	}
	delete(targets, filepath.Clean(output))

	var mu sync.Mutex
	run := func() {
		mu.Lock()
		defer mu.Unlock()
		convert()
	}

	go func() {
		var timer *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if !targets[filepath.Clean(event.Name)] {
					continue
				}
				log.Printf("[watch] %s changed", event.Name)
				if timer == nil {
					timer = time.AfterFunc(settle, run)
				} else {
					timer.Reset(settle)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[watch] %v", err)
			}
		}
	}()

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}
	log.Printf("[watch] watching %d files; interrupt to stop", len(targets))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
	return nil
}
