package viewer

import (
	"sync"

	"github.com/ametista-engine/ametista/engine/core"
	"github.com/ametista-engine/ametista/engine/importer"
	"github.com/ametista-engine/ametista/engine/scene"
)

// ModelState is the lifecycle state of one load attempt.
type ModelState int

const (
	ModelStatePending ModelState = iota
	ModelStateLoaded
	ModelStateError
	ModelStateCanceled
)

func (s ModelState) String() string {
	switch s {
	case ModelStatePending:
		return "pending"
	case ModelStateLoaded:
		return "loaded"
	case ModelStateError:
		return "error"
	case ModelStateCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// InvalidLoadID marks a handle that was never dispatched (e.g. rejected
// during validation).
const InvalidLoadID = -1

// LoadError is the payload delivered to error observers.
type LoadError struct {
	Message   string
	Exception error
}

// Model is the caller-owned handle for one load attempt. The loader
// populates its collections and drives its state from the import callbacks;
// callers watch the three observables.
type Model struct {
	mu    sync.Mutex
	state ModelState

	// LoadID is assigned at dispatch time and never reused by the same
	// loader. It stays InvalidLoadID for handles rejected before dispatch.
	LoadID int
	// Loader is the plugin instance serving this load, nil before dispatch.
	Loader importer.Plugin

	Meshes          []*scene.AbstractMesh
	ParticleSystems []*scene.ParticleSystem
	Skeletons       []*scene.Skeleton
	AnimationGroups []*scene.AnimationGroup

	OnProgress *core.Observable[importer.ProgressEvent]
	OnLoaded   *core.Observable[*Model]
	OnError    *core.Observable[LoadError]
}

func newModel() *Model {
	return &Model{
		state:      ModelStatePending,
		LoadID:     InvalidLoadID,
		OnProgress: core.NewObservable[importer.ProgressEvent](),
		OnLoaded:   core.NewObservable[*Model](),
		OnError:    core.NewObservable[LoadError](),
	}
}

func (m *Model) State() ModelState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// transitionTo moves the handle out of the pending state. Terminal states
// have no exit: the transition is refused and false returned, which is how
// late import callbacks racing a cancellation get ignored.
func (m *Model) transitionTo(next ModelState) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != ModelStatePending {
		return false
	}
	if next == ModelStatePending {
		return false
	}
	m.state = next
	return true
}

// complete attaches the collections produced by a successful import and
// moves the handle to the loaded state in one step, so an observer that
// sees the loaded state always sees the collections too. Returns false
// when the handle already left the pending state.
func (m *Model) complete(result *importer.Result) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != ModelStatePending {
		return false
	}
	m.state = ModelStateLoaded
	m.Meshes = result.Meshes
	m.ParticleSystems = result.ParticleSystems
	m.Skeletons = result.Skeletons
	m.AnimationGroups = result.AnimationGroups
	return true
}

// addAnimationGroup receives groups forwarded by animation-aware backends
// while the import is still running.
func (m *Model) addAnimationGroup(group *scene.AnimationGroup) {
	m.mu.Lock()
	m.AnimationGroups = append(m.AnimationGroups, group)
	m.mu.Unlock()
}

// initializeAnimations starts every group marked for auto start. Called once
// from the success path, after the collections are attached.
func (m *Model) initializeAnimations() {
	m.mu.Lock()
	groups := make([]*scene.AnimationGroup, len(m.AnimationGroups))
	copy(groups, m.AnimationGroups)
	m.mu.Unlock()

	for _, g := range groups {
		if g.AutoStart && !g.IsPlaying() {
			g.Start()
		}
	}
}
