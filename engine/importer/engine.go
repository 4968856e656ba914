package importer

import (
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/ametista-engine/ametista/engine/core"
	"github.com/ametista-engine/ametista/engine/scene"
)

const (
	defaultWorkerCount = 2
	defaultQueueSize   = 16
)

var (
	ErrNilFactory        = fmt.Errorf("plugin factory is nil")
	ErrDuplicatePlugin   = fmt.Errorf("plugin already registered")
	ErrNoPluginForFile   = fmt.Errorf("no plugin registered for file")
	ErrUnknownPluginName = fmt.Errorf("no plugin registered under that name")
	ErrEngineShutDown    = fmt.Errorf("importer engine has been shut down")
)

// Engine is the default Importer. Backend plugins register per file
// extension; imports execute on a small worker pool and report back through
// the callbacks supplied at dispatch time.
type Engine struct {
	mu          sync.Mutex
	byExtension map[string]Factory
	byName      map[string]Factory
	jobs        *jobQueue
	shutdown    bool
}

type EngineConfig struct {
	// Workers sets the worker pool size. Zero means the default.
	Workers int
	// QueueSize sets the pending-import queue capacity. Zero means the default.
	QueueSize int
}

func NewEngine(config EngineConfig) (*Engine, error) {
	workers := config.Workers
	if workers == 0 {
		workers = defaultWorkerCount
	}
	queueSize := config.QueueSize
	if queueSize == 0 {
		queueSize = defaultQueueSize
	}

	jq, err := newJobQueue(workers, queueSize)
	if err != nil {
		return nil, err
	}

	return &Engine{
		byExtension: make(map[string]Factory),
		byName:      make(map[string]Factory),
		jobs:        jq,
	}, nil
}

// RegisterPlugin makes a backend available for dispatch. The factory is
// probed once for the backend's name and extensions; registering a second
// backend for the same name or extension fails.
func (e *Engine) RegisterPlugin(factory Factory) error {
	if factory == nil {
		return ErrNilFactory
	}
	probe := factory()

	e.mu.Lock()
	defer e.mu.Unlock()

	name := probe.Name()
	if _, exists := e.byName[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, name)
	}
	for _, ext := range probe.Extensions() {
		if _, exists := e.byExtension[ext]; exists {
			return fmt.Errorf("%w: extension %s", ErrDuplicatePlugin, ext)
		}
	}

	e.byName[name] = factory
	for _, ext := range probe.Extensions() {
		e.byExtension[ext] = factory
	}
	core.LogDebug("import plugin '%s' registered for %v", name, probe.Extensions())
	return nil
}

// ImportMeshAsync resolves a plugin (by explicit name when given, else by
// file extension), schedules the import on the worker pool and returns the
// plugin instance synchronously.
func (e *Engine) ImportMeshAsync(target *scene.Scene, rootPath, fileName string, cb Callbacks, pluginName string) (Plugin, error) {
	// The lock spans the submit so a concurrent Shutdown cannot close the
	// queue between resolution and enqueue.
	e.mu.Lock()
	defer e.mu.Unlock()

	factory, err := e.resolveFactory(fileName, pluginName)
	if err != nil {
		return nil, err
	}

	plugin := factory()
	fullPath := path.Join(rootPath, fileName)

	e.jobs.submit(importJob{
		run: func() (*Result, error) {
			return plugin.Import(target, fullPath, func(event ProgressEvent) {
				if cb.OnProgress != nil {
					cb.OnProgress(event)
				}
			})
		},
		onComplete: func(result *Result) {
			if cb.OnSuccess != nil {
				cb.OnSuccess(result)
			}
		},
		onFail: func(err error) {
			if cb.OnError != nil {
				cb.OnError(err.Error(), err)
			}
		},
	})

	return plugin, nil
}

// resolveFactory expects e.mu to be held.
func (e *Engine) resolveFactory(fileName, pluginName string) (Factory, error) {
	if e.shutdown {
		return nil, ErrEngineShutDown
	}

	if pluginName != "" {
		factory, ok := e.byName[pluginName]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPluginName, pluginName)
		}
		return factory, nil
	}

	ext := strings.ToLower(path.Ext(fileName))
	factory, ok := e.byExtension[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoPluginForFile, fileName)
	}
	return factory, nil
}

// Shutdown drains the pending queue and waits for in-flight imports. The
// engine accepts no work afterwards.
func (e *Engine) Shutdown() error {
	e.mu.Lock()
	if e.shutdown {
		e.mu.Unlock()
		return ErrEngineShutDown
	}
	e.shutdown = true
	e.mu.Unlock()

	e.jobs.shutdown()
	return nil
}
