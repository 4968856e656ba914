// Package gltf implements the glTF 2.0 import backend. Parsing is delegated
// to github.com/qmuntal/gltf; this package only maps the decoded document
// onto scene records and wires progress and cancellation around the decode.
package gltf

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"sync"

	qgltf "github.com/qmuntal/gltf"

	"github.com/ametista-engine/ametista/engine/importer"
	"github.com/ametista-engine/ametista/engine/scene"
)

const PluginName = "gltf"

// Plugin is one glTF import. It is the only backend supporting abort: both
// Cancel and Dispose tear down the context the decode reads under.
type Plugin struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu                  sync.Mutex
	autoStartAnimations bool
	onAnimationGroup    func(group *scene.AnimationGroup)
}

var _ importer.Cancelable = (*Plugin)(nil)
var _ importer.Disposable = (*Plugin)(nil)
var _ importer.AnimationConfigurer = (*Plugin)(nil)

func New() importer.Plugin {
	ctx, cancel := context.WithCancel(context.Background())
	return &Plugin{
		ctx:                 ctx,
		cancel:              cancel,
		autoStartAnimations: true,
	}
}

func (p *Plugin) Name() string {
	return PluginName
}

func (p *Plugin) Extensions() []string {
	return []string{".gltf", ".glb"}
}

func (p *Plugin) SetAnimationAutoStart(autoStart bool) {
	p.mu.Lock()
	p.autoStartAnimations = autoStart
	p.mu.Unlock()
}

func (p *Plugin) OnAnimationGroupLoaded(fn func(group *scene.AnimationGroup)) {
	p.mu.Lock()
	p.onAnimationGroup = fn
	p.mu.Unlock()
}

// Cancel aborts an in-flight import. The decode fails with the context
// error on its next read.
func (p *Plugin) Cancel() {
	p.cancel()
}

// Dispose releases the plugin, aborting the import if still running.
func (p *Plugin) Dispose() {
	p.cancel()
}

func (p *Plugin) Import(target *scene.Scene, filePath string, onProgress func(importer.ProgressEvent)) (*importer.Result, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("gltf: open %s: %w", filePath, err)
	}
	defer f.Close()

	var total int64
	if fi, err := f.Stat(); err == nil {
		total = fi.Size()
	}

	reader := &progressReader{
		ctx:        p.ctx,
		r:          f,
		total:      total,
		onProgress: onProgress,
	}

	doc := new(qgltf.Document)
	if err := qgltf.NewDecoder(reader).Decode(doc); err != nil {
		if ctxErr := p.ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("gltf: import of %s aborted: %w", filePath, ctxErr)
		}
		return nil, fmt.Errorf("gltf: decode %s: %w", filePath, err)
	}

	return p.populate(target, doc, filePath), nil
}

func (p *Plugin) populate(target *scene.Scene, doc *qgltf.Document, filePath string) *importer.Result {
	base := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
	result := &importer.Result{}

	for i, m := range doc.Meshes {
		mesh := &scene.AbstractMesh{
			Name:      nameOrIndexed(m.Name, base, "mesh", i),
			FaceCount: uint32(len(m.Primitives)),
		}
		target.AddMesh(mesh)
		result.Meshes = append(result.Meshes, mesh)
	}

	for i, s := range doc.Skins {
		skeleton := &scene.Skeleton{
			Name:      nameOrIndexed(s.Name, base, "skeleton", i),
			BoneCount: len(s.Joints),
		}
		target.AddSkeleton(skeleton)
		result.Skeletons = append(result.Skeletons, skeleton)
	}

	p.mu.Lock()
	autoStart := p.autoStartAnimations
	onGroup := p.onAnimationGroup
	p.mu.Unlock()

	for i, a := range doc.Animations {
		group := &scene.AnimationGroup{
			Name:      nameOrIndexed(a.Name, base, "animation", i),
			AutoStart: autoStart,
		}
		if autoStart {
			group.Start()
		}
		target.AddAnimationGroup(group)
		result.AnimationGroups = append(result.AnimationGroups, group)
		if onGroup != nil {
			onGroup(group)
		}
	}

	return result
}

func nameOrIndexed(name, base, kind string, index int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s.%s.%d", base, kind, index)
}

// progressReader forwards reads from the underlying file while reporting
// byte-level progress and honoring cancellation between reads.
type progressReader struct {
	ctx        context.Context
	r          io.Reader
	loaded     int64
	total      int64
	onProgress func(importer.ProgressEvent)
}

func (pr *progressReader) Read(b []byte) (int, error) {
	if err := pr.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := pr.r.Read(b)
	if n > 0 {
		pr.loaded += int64(n)
		if pr.onProgress != nil {
			pr.onProgress(importer.ProgressEvent{
				LengthComputable: pr.total > 0,
				Loaded:           pr.loaded,
				Total:            pr.total,
			})
		}
	}
	return n, err
}
