package viewer_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ametista-engine/ametista/engine/importer"
	"github.com/ametista-engine/ametista/engine/scene"
	"github.com/ametista-engine/ametista/viewer"
)

// fakeImporter records dispatches and hands the registered callbacks back to
// the test, which plays the engine by firing them directly.
type fakeImporter struct {
	mu         sync.Mutex
	newPlugin  func() importer.Plugin
	err        error
	calls      int
	roots      []string
	files      []string
	pluginHint []string
	callbacks  []importer.Callbacks
}

func (f *fakeImporter) ImportMeshAsync(_ *scene.Scene, rootPath, fileName string, cb importer.Callbacks, pluginName string) (importer.Plugin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.calls++
	f.roots = append(f.roots, rootPath)
	f.files = append(f.files, fileName)
	f.pluginHint = append(f.pluginHint, pluginName)
	f.callbacks = append(f.callbacks, cb)
	if f.newPlugin != nil {
		return f.newPlugin(), nil
	}
	return &basicPlugin{name: "basic"}, nil
}

func (f *fakeImporter) lastCallbacks() importer.Callbacks {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callbacks[len(f.callbacks)-1]
}

type basicPlugin struct {
	name string
}

func (p *basicPlugin) Name() string         { return p.name }
func (p *basicPlugin) Extensions() []string { return nil }

func (p *basicPlugin) Import(*scene.Scene, string, func(importer.ProgressEvent)) (*importer.Result, error) {
	return &importer.Result{}, nil
}

type cancelPlugin struct {
	basicPlugin
	cancels  atomic.Int32
	disposes atomic.Int32
}

func (p *cancelPlugin) Cancel()  { p.cancels.Add(1) }
func (p *cancelPlugin) Dispose() { p.disposes.Add(1) }

type animPlugin struct {
	basicPlugin
	mu        sync.Mutex
	autoStart bool
	forward   func(group *scene.AnimationGroup)
}

func (p *animPlugin) SetAnimationAutoStart(autoStart bool) {
	p.mu.Lock()
	p.autoStart = autoStart
	p.mu.Unlock()
}

func (p *animPlugin) OnAnimationGroupLoaded(fn func(group *scene.AnimationGroup)) {
	p.mu.Lock()
	p.forward = fn
	p.mu.Unlock()
}

func newTestLoader(imp importer.Importer) *viewer.ModelLoader {
	return viewer.NewModelLoader(imp, scene.New("test"))
}

func TestLoadWithoutURL(t *testing.T) {
	imp := &fakeImporter{}
	loader := newTestLoader(imp)

	model := loader.Load(viewer.LoadConfig{})

	require.NotNil(t, model)
	assert.Equal(t, viewer.ModelStateError, model.State())
	assert.Equal(t, viewer.InvalidLoadID, model.LoadID)
	assert.Zero(t, imp.calls, "importer must never be invoked without a url")
}

func TestLoadDerivesBasePathFromURL(t *testing.T) {
	imp := &fakeImporter{}
	loader := newTestLoader(imp)

	loader.Load(viewer.LoadConfig{URL: "models/helmet/model.gltf"})
	loader.Load(viewer.LoadConfig{URL: "model.gltf"})
	loader.Load(viewer.LoadConfig{URL: "model.gltf", Root: "override"})

	assert.Equal(t, []string{"models/helmet", ".", "override"}, imp.roots)
	assert.Equal(t, []string{"model.gltf", "model.gltf", "model.gltf"}, imp.files)
}

func TestLoadForwardsPluginHint(t *testing.T) {
	imp := &fakeImporter{}
	loader := newTestLoader(imp)

	loader.Load(viewer.LoadConfig{URL: "model.gltf", Plugin: "gltf"})
	assert.Equal(t, []string{"gltf"}, imp.pluginHint)
}

func TestLoadSuccessTagsMeshesAndNotifiesExactlyOnce(t *testing.T) {
	imp := &fakeImporter{}
	loader := newTestLoader(imp)

	model := loader.Load(viewer.LoadConfig{URL: "model.gltf"})
	require.Equal(t, viewer.ModelStatePending, model.State())

	var notified atomic.Int32
	loadedCh := make(chan *viewer.Model, 2)
	model.OnLoaded.Add(func(m *viewer.Model) error {
		notified.Add(1)
		loadedCh <- m
		return nil
	})

	meshA := &scene.AbstractMesh{Name: "A"}
	meshB := &scene.AbstractMesh{Name: "B"}
	result := &importer.Result{Meshes: []*scene.AbstractMesh{meshA, meshB}}

	imp.lastCallbacks().OnSuccess(result)
	select {
	case m := <-loadedCh:
		assert.Same(t, model, m)
	case <-time.After(time.Second):
		t.Fatal("loaded observers never notified")
	}

	assert.Equal(t, viewer.ModelStateLoaded, model.State())
	require.Len(t, model.Meshes, 2)
	assert.True(t, meshA.HasTag(viewer.MeshTag))
	assert.True(t, meshB.HasTag(viewer.MeshTag))

	// A duplicate terminal callback must be ignored.
	imp.lastCallbacks().OnSuccess(result)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), notified.Load())
}

func TestLoadErrorNotifiesErrorObservers(t *testing.T) {
	imp := &fakeImporter{}
	loader := newTestLoader(imp)

	model := loader.Load(viewer.LoadConfig{URL: "model.gltf"})

	errCh := make(chan viewer.LoadError, 1)
	model.OnError.Add(func(e viewer.LoadError) error {
		errCh <- e
		return nil
	})

	cause := errors.New("unexpected end of file")
	imp.lastCallbacks().OnError("unexpected end of file", cause)

	select {
	case e := <-errCh:
		assert.Equal(t, "unexpected end of file", e.Message)
		assert.ErrorIs(t, e.Exception, cause)
	case <-time.After(time.Second):
		t.Fatal("error observers never notified")
	}
	assert.Equal(t, viewer.ModelStateError, model.State())
}

func TestLoadRelaysProgressEvents(t *testing.T) {
	imp := &fakeImporter{}
	loader := newTestLoader(imp)

	model := loader.Load(viewer.LoadConfig{URL: "model.gltf"})

	events := make(chan importer.ProgressEvent, 1)
	model.OnProgress.Add(func(e importer.ProgressEvent) error {
		events <- e
		return nil
	})

	imp.lastCallbacks().OnProgress(importer.ProgressEvent{LengthComputable: true, Loaded: 5, Total: 10})

	select {
	case e := <-events:
		assert.Equal(t, int64(5), e.Loaded)
		assert.Equal(t, int64(10), e.Total)
	case <-time.After(time.Second):
		t.Fatal("progress observers never notified")
	}
}

func TestLoadIdentifiersAreSequential(t *testing.T) {
	imp := &fakeImporter{}
	loader := newTestLoader(imp)

	first := loader.Load(viewer.LoadConfig{URL: "a.gltf"})
	rejected := loader.Load(viewer.LoadConfig{})
	second := loader.Load(viewer.LoadConfig{URL: "b.gltf"})
	third := loader.Load(viewer.LoadConfig{URL: "c.gltf"})

	assert.Equal(t, 0, first.LoadID)
	assert.Equal(t, viewer.InvalidLoadID, rejected.LoadID)
	assert.Equal(t, 1, second.LoadID)
	assert.Equal(t, 2, third.LoadID)
}

func TestCancelOnCancelCapableBackend(t *testing.T) {
	plugin := &cancelPlugin{basicPlugin: basicPlugin{name: "cancelable"}}
	imp := &fakeImporter{newPlugin: func() importer.Plugin { return plugin }}
	loader := newTestLoader(imp)

	model := loader.Load(viewer.LoadConfig{URL: "model.gltf"})
	loader.Cancel(model)

	assert.Equal(t, viewer.ModelStateCanceled, model.State())
	assert.Equal(t, int32(1), plugin.cancels.Load())
}

func TestCancelOnUnsupportedBackend(t *testing.T) {
	imp := &fakeImporter{}
	loader := newTestLoader(imp)

	model := loader.Load(viewer.LoadConfig{URL: "model.gltf"})
	loader.Cancel(model)

	// A capability gap, not an error: state is untouched.
	assert.Equal(t, viewer.ModelStatePending, model.State())
}

func TestCancelResolvesPluginFromRegistry(t *testing.T) {
	plugin := &cancelPlugin{basicPlugin: basicPlugin{name: "cancelable"}}
	imp := &fakeImporter{newPlugin: func() importer.Plugin { return plugin }}
	loader := newTestLoader(imp)

	model := loader.Load(viewer.LoadConfig{URL: "model.gltf"})
	model.Loader = nil

	loader.Cancel(model)
	assert.Equal(t, viewer.ModelStateCanceled, model.State())
	assert.Equal(t, int32(1), plugin.cancels.Load())
}

func TestCancelNilModel(t *testing.T) {
	loader := newTestLoader(&fakeImporter{})
	loader.Cancel(nil)
}

func TestLateSuccessAfterCancelIsIgnored(t *testing.T) {
	plugin := &cancelPlugin{basicPlugin: basicPlugin{name: "cancelable"}}
	imp := &fakeImporter{newPlugin: func() importer.Plugin { return plugin }}
	loader := newTestLoader(imp)

	model := loader.Load(viewer.LoadConfig{URL: "model.gltf"})
	loader.Cancel(model)

	var notified atomic.Int32
	model.OnLoaded.Add(func(*viewer.Model) error {
		notified.Add(1)
		return nil
	})

	imp.lastCallbacks().OnSuccess(&importer.Result{})
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, viewer.ModelStateCanceled, model.State())
	assert.Zero(t, notified.Load())
	assert.Empty(t, model.Meshes)
}

func TestDisposeReleasesTrackedPlugins(t *testing.T) {
	var plugins []*cancelPlugin
	imp := &fakeImporter{newPlugin: func() importer.Plugin {
		p := &cancelPlugin{basicPlugin: basicPlugin{name: "cancelable"}}
		plugins = append(plugins, p)
		return p
	}}
	loader := newTestLoader(imp)

	loader.Load(viewer.LoadConfig{URL: "a.gltf"})
	loader.Load(viewer.LoadConfig{URL: "b.gltf"})
	require.Len(t, plugins, 2)

	loader.Dispose()
	for _, p := range plugins {
		assert.Equal(t, int32(1), p.disposes.Load())
	}

	// A second disposal is a warning no-op.
	loader.Dispose()
	for _, p := range plugins {
		assert.Equal(t, int32(1), p.disposes.Load())
	}
}

func TestLoadAfterDisposeIsRejected(t *testing.T) {
	imp := &fakeImporter{}
	loader := newTestLoader(imp)

	loader.Dispose()
	model := loader.Load(viewer.LoadConfig{URL: "model.gltf"})

	assert.Equal(t, viewer.ModelStateError, model.State())
	assert.Zero(t, imp.calls)
}

func TestAnimationCapableBackendConfiguration(t *testing.T) {
	plugin := &animPlugin{basicPlugin: basicPlugin{name: "animated"}, autoStart: true}
	imp := &fakeImporter{newPlugin: func() importer.Plugin { return plugin }}
	loader := newTestLoader(imp)

	model := loader.Load(viewer.LoadConfig{URL: "model.gltf"})

	plugin.mu.Lock()
	autoStart := plugin.autoStart
	forward := plugin.forward
	plugin.mu.Unlock()

	assert.False(t, autoStart, "auto-start must be disabled on animation-capable backends")
	require.NotNil(t, forward, "animation group forwarding must be installed")

	group := &scene.AnimationGroup{Name: "walk"}
	forward(group)
	require.Len(t, model.AnimationGroups, 1)
	assert.Same(t, group, model.AnimationGroups[0])
}

func TestLoadDispatchFailure(t *testing.T) {
	imp := &fakeImporter{err: errors.New("no plugin for file")}
	loader := newTestLoader(imp)

	model := loader.Load(viewer.LoadConfig{URL: "model.xyz"})
	assert.Equal(t, viewer.ModelStateError, model.State())
	assert.Equal(t, viewer.InvalidLoadID, model.LoadID)
}
