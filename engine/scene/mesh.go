package scene

import "sync"

// AbstractMesh is the record an import backend produces for one mesh. Tags
// are free-form markers the owning application uses to recognize its own
// meshes among everything else in the scene.
type AbstractMesh struct {
	Name        string
	VertexCount uint32
	FaceCount   uint32

	mu   sync.Mutex
	tags map[string]struct{}
}

func (m *AbstractMesh) AddTag(tag string) {
	m.mu.Lock()
	if m.tags == nil {
		m.tags = make(map[string]struct{})
	}
	m.tags[tag] = struct{}{}
	m.mu.Unlock()
}

func (m *AbstractMesh) HasTag(tag string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tags[tag]
	return ok
}

func (m *AbstractMesh) Tags() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.tags))
	for t := range m.tags {
		out = append(out, t)
	}
	return out
}

// ParticleSystem is the record for one imported particle emitter.
type ParticleSystem struct {
	Name     string
	Capacity uint32
}

// Skeleton is the record for one imported skeleton.
type Skeleton struct {
	Name      string
	BoneCount int
}
