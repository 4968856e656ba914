package scene

import "sync"

// Scene is the target container an import populates. It holds plain records
// only; GPU upload and rendering live behind the host engine and are not
// part of this package.
type Scene struct {
	mu sync.Mutex

	Name string

	meshes          []*AbstractMesh
	particleSystems []*ParticleSystem
	skeletons       []*Skeleton
	animationGroups []*AnimationGroup
}

func New(name string) *Scene {
	return &Scene{Name: name}
}

func (s *Scene) AddMesh(m *AbstractMesh) {
	s.mu.Lock()
	s.meshes = append(s.meshes, m)
	s.mu.Unlock()
}

func (s *Scene) AddParticleSystem(ps *ParticleSystem) {
	s.mu.Lock()
	s.particleSystems = append(s.particleSystems, ps)
	s.mu.Unlock()
}

func (s *Scene) AddSkeleton(sk *Skeleton) {
	s.mu.Lock()
	s.skeletons = append(s.skeletons, sk)
	s.mu.Unlock()
}

func (s *Scene) AddAnimationGroup(g *AnimationGroup) {
	s.mu.Lock()
	s.animationGroups = append(s.animationGroups, g)
	s.mu.Unlock()
}

func (s *Scene) Meshes() []*AbstractMesh {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*AbstractMesh, len(s.meshes))
	copy(out, s.meshes)
	return out
}

func (s *Scene) ParticleSystems() []*ParticleSystem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*ParticleSystem, len(s.particleSystems))
	copy(out, s.particleSystems)
	return out
}

func (s *Scene) Skeletons() []*Skeleton {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Skeleton, len(s.skeletons))
	copy(out, s.skeletons)
	return out
}

func (s *Scene) AnimationGroups() []*AnimationGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*AnimationGroup, len(s.animationGroups))
	copy(out, s.animationGroups)
	return out
}
