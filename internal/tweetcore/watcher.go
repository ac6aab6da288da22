package tweetcore

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/woonki/tweetql/internal/tweet"
)

const debounceDelay = 100 * time.Millisecond

// WatchSeed reloads the user set whenever the seed file at path changes.
// Tweets are left alone: they are owned by the API once the process runs.
// onReload, if non-nil, is called after every successful reload.
func (c *Core) WatchSeed(path string, onReload func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.watching {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory so editors that replace the file by rename are seen.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return err
	}

	c.watching = true
	c.done = make(chan struct{})
	c.onReload = onReload

	go c.watchLoop(watcher, abs, c.done)

	return nil
}

// Unwatch stops watching the seed file.
func (c *Core) Unwatch() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.unwatchLocked()
}

func (c *Core) unwatchLocked() {
	if !c.watching {
		return
	}

	close(c.done)
	c.watching = false
	c.onReload = nil
}

func (c *Core) watchLoop(watcher *fsnotify.Watcher, path string, done <-chan struct{}) {
	defer watcher.Close()

	var debounceTimer *time.Timer

	for {
		select {
		case <-done:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				select {
				case <-done:
					return
				default:
				}
				c.reloadSeed(path)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			c.logger.Warn("seed watcher error", zap.Error(err))
		}
	}
}

// reloadSeed re-reads the seed file and replaces the user set.
// A seed that fails to load leaves the current users in place.
func (c *Core) reloadSeed(path string) {
	seed, err := tweet.LoadSeed(path)
	if err != nil {
		c.logger.Warn("reloading seed failed", zap.String("path", path), zap.Error(err))
		return
	}

	c.mu.Lock()
	c.setUsers(seed.Users)
	onReload := c.onReload
	c.mu.Unlock()

	c.logger.Info("seed users reloaded", zap.String("path", path), zap.Int("users", len(seed.Users)))

	if onReload != nil {
		onReload()
	}
}
