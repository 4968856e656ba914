// Package wavefront implements the Wavefront OBJ import backend on top of
// the g3n engine's OBJ decoder. The backend has no abort support: OBJ files
// decode in a single pass that cannot be interrupted mid-parse.
package wavefront

import (
	"fmt"
	"os"

	"github.com/g3n/engine/loader/obj"

	"github.com/ametista-engine/ametista/engine/importer"
	"github.com/ametista-engine/ametista/engine/scene"
)

const PluginName = "wavefront.obj"

type Plugin struct{}

var _ importer.Plugin = (*Plugin)(nil)

func New() importer.Plugin {
	return &Plugin{}
}

func (p *Plugin) Name() string {
	return PluginName
}

func (p *Plugin) Extensions() []string {
	return []string{".obj"}
}

func (p *Plugin) Import(target *scene.Scene, filePath string, onProgress func(importer.ProgressEvent)) (*importer.Result, error) {
	var total int64
	if fi, err := os.Stat(filePath); err == nil {
		total = fi.Size()
	}

	dec, err := obj.Decode(filePath, "")
	if err != nil {
		return nil, fmt.Errorf("wavefront: decode %s: %w", filePath, err)
	}

	// The decoder reads the whole file before returning, so a single
	// full-length event is the finest progress this backend can report.
	if onProgress != nil {
		onProgress(importer.ProgressEvent{
			LengthComputable: total > 0,
			Loaded:           total,
			Total:            total,
		})
	}

	result := &importer.Result{}
	for i := range dec.Objects {
		o := &dec.Objects[i]
		mesh := &scene.AbstractMesh{
			Name:      o.Name,
			FaceCount: uint32(len(o.Faces)),
		}
		target.AddMesh(mesh)
		result.Meshes = append(result.Meshes, mesh)
	}

	return result, nil
}
