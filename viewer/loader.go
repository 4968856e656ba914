package viewer

import (
	"path"
	"sync"

	"github.com/ametista-engine/ametista/engine/core"
	"github.com/ametista-engine/ametista/engine/importer"
	"github.com/ametista-engine/ametista/engine/scene"
)

// MeshTag marks every mesh imported through the viewer so it can be told
// apart from anything else living in the same scene.
const MeshTag = "ametista.viewer.model"

// LoadConfig describes one load request. URL is required; Root overrides
// the base path otherwise derived from the URL; Plugin forces a specific
// import backend by name instead of resolving by file extension.
type LoadConfig struct {
	URL    string
	Root   string
	Plugin string
}

// ModelLoader validates load requests, hands them to the host engine
// importer and relays the import callbacks onto the returned model handle.
// It keeps the plugin instance of every dispatched load so the whole set
// can be canceled or disposed when the viewer shuts down.
type ModelLoader struct {
	engine importer.Importer
	target *scene.Scene

	mu sync.Mutex
	// loaders is indexed by load ID: the plugin for load n sits at index n.
	loaders  []importer.Plugin
	disposed bool
}

func NewModelLoader(engine importer.Importer, target *scene.Scene) *ModelLoader {
	return &ModelLoader{
		engine: engine,
		target: target,
	}
}

// Load dispatches one model load and returns its handle immediately. The
// handle's collections and state are populated later by the import
// callbacks; Load itself never fails to return a handle. Requests without a
// URL, requests on a disposed loader and requests no backend can serve are
// rejected synchronously: the handle comes back in the error state, nothing
// is dispatched and no error observer fires (none can be registered yet on
// a handle that is being created right here).
func (ml *ModelLoader) Load(config LoadConfig) *Model {
	model := newModel()

	if config.URL == "" {
		core.LogError("unable to load a model: no url provided")
		model.transitionTo(ModelStateError)
		return model
	}

	// The lock spans the dispatch so load IDs line up with registry slots
	// and a concurrent Dispose cannot slip between the two.
	ml.mu.Lock()
	defer ml.mu.Unlock()

	if ml.disposed {
		core.LogError("unable to load '%s': model loader already disposed", config.URL)
		model.transitionTo(ModelStateError)
		return model
	}

	root := config.Root
	if root == "" {
		root = path.Dir(config.URL)
	}
	fileName := path.Base(config.URL)

	// Assigned before dispatch so the callbacks below never observe a
	// half-initialized handle.
	model.LoadID = len(ml.loaders)

	clock := core.NewClock()
	clock.Start()

	callbacks := importer.Callbacks{
		OnSuccess: func(result *importer.Result) {
			for _, mesh := range result.Meshes {
				mesh.AddTag(MeshTag)
			}
			if !model.complete(result) {
				core.LogDebug("ignoring late success for load %d (state %s)", model.LoadID, model.State())
				return
			}
			model.initializeAnimations()
			clock.Update()
			core.MetricsLoadCompleted(clock.ElapsedMilliseconds())
			core.LogDebug("model %d ('%s') loaded in %.2fms", model.LoadID, config.URL, clock.ElapsedMilliseconds())
			model.OnLoaded.Notify(model)
		},
		OnProgress: func(event importer.ProgressEvent) {
			model.OnProgress.Notify(event)
		},
		OnError: func(message string, err error) {
			if !model.transitionTo(ModelStateError) {
				core.LogDebug("ignoring late error for load %d (state %s)", model.LoadID, model.State())
				return
			}
			core.MetricsLoadFailed()
			core.LogError("unable to load '%s': %s", config.URL, message)
			model.OnError.Notify(LoadError{Message: message, Exception: err})
		},
	}

	plugin, err := ml.engine.ImportMeshAsync(ml.target, root, fileName, callbacks, config.Plugin)
	if err != nil {
		core.LogError("unable to load '%s': %v", config.URL, err)
		model.LoadID = InvalidLoadID
		model.transitionTo(ModelStateError)
		return model
	}

	if configurer, ok := plugin.(importer.AnimationConfigurer); ok {
		configurer.SetAnimationAutoStart(false)
		configurer.OnAnimationGroupLoaded(model.addAnimationGroup)
	}

	model.Loader = plugin
	ml.loaders = append(ml.loaders, plugin)

	return model
}

// Cancel is a best-effort abort of an in-flight load. Only backends
// implementing importer.Cancelable support it; for any other backend this
// is a warn-and-return capability gap, not an error.
func (ml *ModelLoader) Cancel(model *Model) {
	if model == nil {
		return
	}

	plugin := model.Loader
	if plugin == nil {
		ml.mu.Lock()
		if model.LoadID >= 0 && model.LoadID < len(ml.loaders) {
			plugin = ml.loaders[model.LoadID]
		}
		ml.mu.Unlock()
	}
	if plugin == nil {
		core.LogWarn("no loader plugin associated with load %d, nothing to cancel", model.LoadID)
		return
	}

	cancelable, ok := plugin.(importer.Cancelable)
	if !ok {
		core.LogWarn("loader plugin '%s' does not support cancellation", plugin.Name())
		return
	}

	cancelable.Cancel()
	if model.transitionTo(ModelStateCanceled) {
		core.MetricsLoadCanceled()
		core.LogDebug("load %d canceled", model.LoadID)
	}
}

// Dispose releases every tracked plugin, aborting still-running imports on
// backends that support it, and permanently retires the loader. Further
// Load calls are rejected; a second Dispose is a warning no-op.
func (ml *ModelLoader) Dispose() {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	if ml.disposed {
		core.LogWarn("model loader already disposed")
		return
	}

	for _, plugin := range ml.loaders {
		if disposable, ok := plugin.(importer.Disposable); ok {
			disposable.Dispose()
		}
	}
	ml.loaders = nil
	ml.disposed = true
}
