package gltf_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ametista-engine/ametista/engine/importer"
	"github.com/ametista-engine/ametista/engine/importer/gltf"
	"github.com/ametista-engine/ametista/engine/scene"
)

const minimalDocument = `{
  "asset": {"version": "2.0"},
  "meshes": [{"name": "Cube", "primitives": [{"attributes": {}}]}],
  "skins": [{"name": "Rig", "joints": [0]}],
  "animations": [{"name": "Idle", "channels": [], "samplers": []}]
}`

func writeDocument(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.gltf")
	require.NoError(t, os.WriteFile(path, []byte(minimalDocument), 0o644))
	return path
}

func TestPluginIdentity(t *testing.T) {
	p := gltf.New()
	assert.Equal(t, gltf.PluginName, p.Name())
	assert.ElementsMatch(t, []string{".gltf", ".glb"}, p.Extensions())
}

func TestPluginCapabilities(t *testing.T) {
	p := gltf.New()
	_, cancelable := p.(importer.Cancelable)
	_, disposable := p.(importer.Disposable)
	_, animated := p.(importer.AnimationConfigurer)
	assert.True(t, cancelable)
	assert.True(t, disposable)
	assert.True(t, animated)
}

func TestImportPopulatesSceneRecords(t *testing.T) {
	path := writeDocument(t)
	target := scene.New("test")

	var progress []importer.ProgressEvent
	var mu sync.Mutex
	result, err := gltf.New().Import(target, path, func(e importer.ProgressEvent) {
		mu.Lock()
		progress = append(progress, e)
		mu.Unlock()
	})
	require.NoError(t, err)

	require.Len(t, result.Meshes, 1)
	assert.Equal(t, "Cube", result.Meshes[0].Name)
	require.Len(t, result.Skeletons, 1)
	assert.Equal(t, "Rig", result.Skeletons[0].Name)
	assert.Equal(t, 1, result.Skeletons[0].BoneCount)
	require.Len(t, result.AnimationGroups, 1)
	assert.Equal(t, "Idle", result.AnimationGroups[0].Name)

	assert.Len(t, target.Meshes(), 1)
	assert.Len(t, target.Skeletons(), 1)
	assert.Len(t, target.AnimationGroups(), 1)

	require.NotEmpty(t, progress)
	last := progress[len(progress)-1]
	assert.True(t, last.LengthComputable)
	assert.Equal(t, int64(len(minimalDocument)), last.Total)
}

func TestImportAutoStartsAnimationsByDefault(t *testing.T) {
	path := writeDocument(t)
	result, err := gltf.New().Import(scene.New("test"), path, nil)
	require.NoError(t, err)

	require.Len(t, result.AnimationGroups, 1)
	assert.True(t, result.AnimationGroups[0].AutoStart)
	assert.True(t, result.AnimationGroups[0].IsPlaying())
}

func TestImportHonorsDisabledAutoStart(t *testing.T) {
	path := writeDocument(t)
	p := gltf.New()

	configurer := p.(importer.AnimationConfigurer)
	configurer.SetAnimationAutoStart(false)

	var forwarded []*scene.AnimationGroup
	configurer.OnAnimationGroupLoaded(func(g *scene.AnimationGroup) {
		forwarded = append(forwarded, g)
	})

	result, err := p.Import(scene.New("test"), path, nil)
	require.NoError(t, err)

	require.Len(t, result.AnimationGroups, 1)
	assert.False(t, result.AnimationGroups[0].AutoStart)
	assert.False(t, result.AnimationGroups[0].IsPlaying())
	require.Len(t, forwarded, 1)
	assert.Same(t, result.AnimationGroups[0], forwarded[0])
}

func TestImportMissingFile(t *testing.T) {
	_, err := gltf.New().Import(scene.New("test"), filepath.Join(t.TempDir(), "absent.gltf"), nil)
	assert.Error(t, err)
}

func TestCancelAbortsImport(t *testing.T) {
	path := writeDocument(t)
	p := gltf.New()

	p.(importer.Cancelable).Cancel()

	_, err := p.Import(scene.New("test"), path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aborted")
}

func TestNamelessRecordsGetDerivedNames(t *testing.T) {
	document := `{
  "asset": {"version": "2.0"},
  "meshes": [{"primitives": [{"attributes": {}}]}]
}`
	path := filepath.Join(t.TempDir(), "helmet.gltf")
	require.NoError(t, os.WriteFile(path, []byte(document), 0o644))

	result, err := gltf.New().Import(scene.New("test"), path, nil)
	require.NoError(t, err)

	require.Len(t, result.Meshes, 1)
	assert.Equal(t, "helmet.mesh.0", result.Meshes[0].Name)
}
