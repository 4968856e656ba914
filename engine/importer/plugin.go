package importer

import "github.com/ametista-engine/ametista/engine/scene"

// Plugin is one backend-specific implementation of a mesh import. A fresh
// instance is created per import so per-load state (like an abort context)
// never leaks between loads.
type Plugin interface {
	// Name identifies the backend, e.g. "gltf".
	Name() string
	// Extensions lists the file extensions (lower case, with dot) this
	// backend handles.
	Extensions() []string
	// Import runs the actual import synchronously. It populates the target
	// scene, reports progress through onProgress and returns the produced
	// collections. Import is called at most once per plugin instance.
	Import(target *scene.Scene, path string, onProgress func(ProgressEvent)) (*Result, error)
}

// Cancelable is implemented by plugins that can abort an in-flight import.
// Callers query this capability instead of matching backend names.
type Cancelable interface {
	Plugin
	Cancel()
}

// Disposable is implemented by plugins that hold resources needing explicit
// release. Disposing an in-flight plugin aborts its import.
type Disposable interface {
	Plugin
	Dispose()
}

// AnimationConfigurer is implemented by plugins whose formats carry
// animations. It lets the caller take over animation start policy and
// observe animation groups as the backend discovers them.
type AnimationConfigurer interface {
	Plugin
	SetAnimationAutoStart(autoStart bool)
	OnAnimationGroupLoaded(fn func(group *scene.AnimationGroup))
}

// Factory builds a fresh plugin instance for one import.
type Factory func() Plugin
