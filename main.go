/*
Ametista is a small model viewer front end: it dispatches a model load
through the viewer package and reports progress and the outcome on the
terminal.
*/
package main

import (
	"errors"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ametista-engine/ametista/engine/core"
	"github.com/ametista-engine/ametista/engine/importer"
	"github.com/ametista-engine/ametista/engine/math"
	"github.com/ametista-engine/ametista/viewer"
)

func main() {
	configPath := flag.String("config", "viewer.toml", "path to the viewer configuration file")
	pluginName := flag.String("plugin", "", "force a specific import backend by name")
	flag.Parse()

	if flag.NArg() != 1 {
		core.LogFatal("usage: ametista [flags] <model-url>")
	}
	modelURL := flag.Arg(0)

	config, err := viewer.LoadConfigFile(*configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			core.LogWarn("%v, falling back to defaults", err)
		}
		config = viewer.DefaultConfig()
	}

	v, err := viewer.New(config)
	if err != nil {
		core.LogFatal(err.Error())
	}

	model := v.Load(viewer.LoadConfig{
		URL:    modelURL,
		Plugin: *pluginName,
	})
	if model.State() == viewer.ModelStateError {
		core.LogFatal("load of '%s' was rejected", modelURL)
	}

	done := make(chan struct{})
	var finishOnce sync.Once
	finish := func() {
		finishOnce.Do(func() { close(done) })
	}

	model.OnProgress.Add(func(event importer.ProgressEvent) error {
		if event.LengthComputable {
			core.LogDebug("loading '%s': %.1f%%", modelURL, math.Percent(event.Loaded, event.Total))
		}
		return nil
	})
	model.OnLoaded.Add(func(m *viewer.Model) error {
		core.LogInfo("'%s' loaded: %d meshes, %d skeletons, %d animation groups",
			modelURL, len(m.Meshes), len(m.Skeletons), len(m.AnimationGroups))
		finish()
		return nil
	})
	model.OnError.Add(func(loadErr viewer.LoadError) error {
		core.LogError("'%s' failed to load: %s", modelURL, loadErr.Message)
		finish()
		return nil
	})

	// The import may have finished before the observers above were added;
	// fall through instead of waiting forever.
	if model.State() != viewer.ModelStatePending {
		finish()
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	select {
	case <-sigCh:
		core.LogInfo("interrupted, canceling load of '%s'", modelURL)
		v.Loader().Cancel(model)
	case <-done:
	}

	if err := v.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
}
