package viewer

import (
	"path"

	"github.com/ametista-engine/ametista/engine/core"
	"github.com/ametista-engine/ametista/engine/importer"
	"github.com/ametista-engine/ametista/engine/importer/gltf"
	"github.com/ametista-engine/ametista/engine/importer/wavefront"
	"github.com/ametista-engine/ametista/engine/scene"
)

type Stage uint8

const (
	// Viewer is ready to dispatch loads.
	StageRunning Stage = iota
	// Viewer has been shut down and accepts no further work.
	StageShutDown
)

// Viewer wires the importer engine, the scene, the model loader and the
// optional file watcher into one unit with a single shutdown path.
type Viewer struct {
	currentStage Stage
	config       *Config
	engine       *importer.Engine
	scene        *scene.Scene
	loader       *ModelLoader
	watcher      *ModelWatcher
}

func New(config *Config) (*Viewer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logging.Level != "" {
		core.SetLogLevel(config.Logging.Level)
	}
	if err := core.MetricsInitialize(); err != nil {
		return nil, err
	}

	eng, err := importer.NewEngine(importer.EngineConfig{
		Workers:   config.Import.Workers,
		QueueSize: config.Import.QueueSize,
	})
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	if err := eng.RegisterPlugin(gltf.New); err != nil {
		return nil, err
	}
	if err := eng.RegisterPlugin(wavefront.New); err != nil {
		return nil, err
	}

	sc := scene.New("viewer")
	loader := NewModelLoader(eng, sc)

	v := &Viewer{
		currentStage: StageRunning,
		config:       config,
		engine:       eng,
		scene:        sc,
		loader:       loader,
	}

	if config.Viewer.WatchAssets {
		watcher, err := NewModelWatcher(loader, nil)
		if err != nil {
			core.LogError(err.Error())
			return nil, err
		}
		v.watcher = watcher
	}

	core.LogInfo("viewer initialized with base path '%s'", config.Viewer.AssetBasePath)
	return v, nil
}

// Load dispatches a load through the viewer, filling in the configured
// defaults: the default plugin when the request names none, and the asset
// base path when the URL has no directory of its own.
func (v *Viewer) Load(config LoadConfig) *Model {
	if config.Plugin == "" {
		config.Plugin = v.config.Viewer.DefaultPlugin
	}
	if config.Root == "" && path.Dir(config.URL) == "." {
		config.Root = v.config.Viewer.AssetBasePath
	}

	model := v.loader.Load(config)

	if v.watcher != nil && model.State() == ModelStatePending {
		if err := v.watcher.Watch(config); err != nil {
			core.LogWarn("unable to watch '%s': %v", config.URL, err)
		}
	}
	return model
}

func (v *Viewer) Scene() *scene.Scene {
	return v.scene
}

func (v *Viewer) Loader() *ModelLoader {
	return v.loader
}

// Shutdown disposes the loader, stops the watcher and drains the importer
// engine. Terminal, like the loader's own disposal.
func (v *Viewer) Shutdown() error {
	if v.currentStage == StageShutDown {
		core.LogWarn("viewer already shut down")
		return nil
	}
	v.currentStage = StageShutDown

	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			core.LogError(err.Error())
		}
	}
	v.loader.Dispose()
	if err := v.engine.Shutdown(); err != nil {
		return err
	}

	loaded, failed, canceled := core.MetricsLoads()
	core.LogInfo("viewer shut down (loaded=%d failed=%d canceled=%d, avg %.2fms)",
		loaded, failed, canceled, core.MetricsLoadTime())
	return nil
}
