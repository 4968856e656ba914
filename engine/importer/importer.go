package importer

import "github.com/ametista-engine/ametista/engine/scene"

// ProgressEvent reports how far an import has advanced. Total is only
// meaningful when LengthComputable is true.
type ProgressEvent struct {
	LengthComputable bool
	Loaded           int64
	Total            int64
}

// Result carries everything a backend produced for one import. The success
// callback receives it once, after the backend has finished.
type Result struct {
	Meshes          []*scene.AbstractMesh
	ParticleSystems []*scene.ParticleSystem
	Skeletons       []*scene.Skeleton
	AnimationGroups []*scene.AnimationGroup
}

// Callbacks is the event relay contract of an asynchronous import. For a
// given import, zero or more OnProgress calls precede exactly one terminal
// call, either OnSuccess or OnError. All callbacks run on the importer's
// own goroutines.
type Callbacks struct {
	OnSuccess  func(result *Result)
	OnProgress func(event ProgressEvent)
	OnError    func(message string, err error)
}

// Importer is the host-engine mesh-import entry point. ImportMeshAsync
// resolves a plugin for the named file, schedules the import and returns the
// plugin handle synchronously; the callbacks fire later. A non-nil error
// means nothing was scheduled and no callback will ever fire.
type Importer interface {
	ImportMeshAsync(target *scene.Scene, rootPath, fileName string, cb Callbacks, pluginName string) (Plugin, error)
}
