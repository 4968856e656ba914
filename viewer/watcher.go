package viewer

import (
	"errors"
	"path"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/ametista-engine/ametista/engine/core"
)

// ModelWatcher reloads models whose files change on disk. Each watched
// entry remembers the load configuration that produced it, so a reload is
// just a fresh dispatch through the same loader.
type ModelWatcher struct {
	loader   *ModelLoader
	onReload func(model *Model)

	mutex   sync.RWMutex
	watched map[string]LoadConfig

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewModelWatcher(loader *ModelLoader, onReload func(model *Model)) (*ModelWatcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	mw := &ModelWatcher{
		loader:   loader,
		onReload: onReload,
		watched:  make(map[string]LoadConfig),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}
	go mw.start()

	return mw, nil
}

// Watch starts watching the file behind the given load configuration. The
// path is derived the same way the loader derives it at dispatch time.
func (mw *ModelWatcher) Watch(config LoadConfig) error {
	if mw.isClosed {
		return errors.New("model watcher already closed")
	}
	if config.URL == "" {
		return errors.New("cannot watch a configuration without a url")
	}

	root := config.Root
	if root == "" {
		root = path.Dir(config.URL)
	}
	filePath := path.Join(root, path.Base(config.URL))

	mw.mutex.Lock()
	mw.watched[filePath] = config
	mw.mutex.Unlock()

	if err := mw.fsnotify.Add(filePath); err != nil {
		mw.mutex.Lock()
		delete(mw.watched, filePath)
		mw.mutex.Unlock()
		return err
	}

	core.LogDebug("watching '%s' for changes", filePath)
	return nil
}

func (mw *ModelWatcher) start() {
	for {
		select {
		case <-mw.done:
			return
		case event, ok := <-mw.fsnotify.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			mw.mutex.RLock()
			config, tracked := mw.watched[event.Name]
			mw.mutex.RUnlock()
			if !tracked {
				continue
			}
			core.LogInfo("'%s' changed on disk, reloading", event.Name)
			model := mw.loader.Load(config)
			if mw.onReload != nil {
				mw.onReload(model)
			}
		case err, ok := <-mw.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("model watcher: %v", err)
		}
	}
}

// Close stops the watcher. Watched entries are dropped; the loader itself
// is left untouched.
func (mw *ModelWatcher) Close() error {
	if mw.isClosed {
		return errors.New("model watcher already closed")
	}
	mw.isClosed = true
	close(mw.done)

	mw.mutex.Lock()
	mw.watched = make(map[string]LoadConfig)
	mw.mutex.Unlock()

	return mw.fsnotify.Close()
}
