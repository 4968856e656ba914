package scene

import "sync"

// AnimationGroup is the record for one imported animation clip. AutoStart
// controls whether the owning model starts the group as part of its
// animation initialization.
type AnimationGroup struct {
	Name      string
	AutoStart bool

	mu      sync.Mutex
	playing bool
}

func (g *AnimationGroup) Start() {
	g.mu.Lock()
	g.playing = true
	g.mu.Unlock()
}

func (g *AnimationGroup) Stop() {
	g.mu.Lock()
	g.playing = false
	g.mu.Unlock()
}

func (g *AnimationGroup) IsPlaying() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playing
}
