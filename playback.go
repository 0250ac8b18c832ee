package rivet

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// Playback owns one sprite's engine-native resources: the selected artboard,
// the live timeline and state machine instances, and the derived input
// table. It moves through a fixed lifecycle — document set, artboard loaded,
// instances loaded, torn down — and guarantees every native object it
// acquires is released exactly once.
type Playback struct {
	cache *DocumentCache
	debug bool

	// key is the cache key the document was loaded under, or "" for
	// byte-buffer loads, which the playback owns outright.
	key string
	doc Document

	artboard Artboard
	renderer Renderer

	// At most one live instance per name, in load order.
	animations []AnimationInstance
	machines   []StateMachineInstance

	inputs map[string]InputField

	// onStateChange receives the ordered list of state names that changed
	// during one machine's advance. The slice is reused across calls.
	onStateChange func(states []string)
	changed       []string
}

// NewPlayback creates an empty playback unit releasing keyed documents back
// through cache.
func NewPlayback(cache *DocumentCache, debug bool) *Playback {
	return &Playback{cache: cache, debug: debug}
}

// SetStateChangeCallback registers the handler invoked synchronously during
// Advance whenever a state machine reports changes.
func (p *Playback) SetStateChangeCallback(fn func(states []string)) {
	p.onStateChange = fn
}

// SetDocument adopts a loaded document. key is the cache key it was loaded
// under, or "" if the playback owns the parse (byte-buffer load).
func (p *Playback) SetDocument(doc Document, key string) {
	p.doc = doc
	p.key = key
}

// Document returns the adopted document, or nil before SetDocument.
func (p *Playback) Document() Document {
	return p.doc
}

// Artboard returns the live artboard, or nil.
func (p *Playback) Artboard() Artboard {
	return p.artboard
}

// SetRenderer adopts the rasterizer used by Render. Any previous renderer is
// released.
func (p *Playback) SetRenderer(r Renderer) {
	if p.renderer != nil {
		p.renderer.Release()
	}
	p.renderer = r
}

// LoadArtboard selects an artboard by name, or the document's default when
// name is empty. Any previously held artboard — together with every instance
// bound to it — is released first. Returns false (leaving no live artboard)
// when the name does not exist; callers must check.
func (p *Playback) LoadArtboard(name string) bool {
	if p.doc == nil {
		return false
	}
	p.releaseInstances()
	if p.artboard != nil {
		p.artboard.Release()
		p.artboard = nil
	}
	ab, ok := p.doc.Artboard(name)
	if !ok {
		if p.debug {
			log.Printf("rivet: artboard %q not found", name)
		}
		return false
	}
	p.artboard = ab
	return true
}

// LoadStateMachines instantiates state machines on the current artboard.
// With no names, the artboard's first machine (if any) becomes the sole
// active one. With names, exactly those are loaded; a name already live is
// replaced (unloaded, then re-instantiated). Unknown names load nothing.
// The input table is rebuilt unconditionally afterward.
func (p *Playback) LoadStateMachines(names ...string) {
	if p.artboard == nil {
		return
	}
	if len(names) == 0 {
		names = p.artboard.StateMachineNames()
		if len(names) > 1 {
			names = names[:1]
		}
	}
	for _, name := range names {
		p.UnloadStateMachine(name)
		m, ok := p.artboard.NewStateMachine(name)
		if !ok {
			if p.debug {
				log.Printf("rivet: state machine %q not found", name)
			}
			continue
		}
		p.machines = append(p.machines, m)
	}
	p.rebuildInputs()
}

// UnloadStateMachine releases the named machine instance and rebuilds the
// input table. No-op if the name is not live.
func (p *Playback) UnloadStateMachine(name string) {
	for i, m := range p.machines {
		if m.Name() == name {
			m.Release()
			p.machines = append(p.machines[:i], p.machines[i+1:]...)
			p.rebuildInputs()
			return
		}
	}
}

// PlayAnimations starts timeline animations on the current artboard. With no
// names and no state machine active, the artboard's first timeline plays;
// with a machine active the no-name call does nothing, since state machines
// take precedence for default playback. With names, exactly those start,
// replacing any live instance of the same name.
func (p *Playback) PlayAnimations(names ...string) {
	if p.artboard == nil {
		return
	}
	if len(names) == 0 {
		if len(p.machines) > 0 {
			return
		}
		names = p.artboard.AnimationNames()
		if len(names) > 1 {
			names = names[:1]
		}
	}
	for _, name := range names {
		p.StopAnimation(name)
		a, ok := p.artboard.NewAnimation(name)
		if !ok {
			if p.debug {
				log.Printf("rivet: animation %q not found", name)
			}
			continue
		}
		p.animations = append(p.animations, a)
	}
}

// StopAnimation releases the named timeline instance. No-op if not live.
func (p *Playback) StopAnimation(name string) {
	for i, a := range p.animations {
		if a.Name() == name {
			a.Release()
			p.animations = append(p.animations[:i], p.animations[i+1:]...)
			return
		}
	}
}

// ArtboardNames returns the document's artboard names in definition order.
// Read-only; empty before a document is set.
func (p *Playback) ArtboardNames() []string {
	if p.doc == nil {
		return nil
	}
	return p.doc.ArtboardNames()
}

// AnimationNames returns the current artboard's timeline animation names.
func (p *Playback) AnimationNames() []string {
	if p.artboard == nil {
		return nil
	}
	return p.artboard.AnimationNames()
}

// StateMachineNames returns the current artboard's state machine names.
func (p *Playback) StateMachineNames() []string {
	if p.artboard == nil {
		return nil
	}
	return p.artboard.StateMachineNames()
}

// PlayingAnimations returns the names of the live timeline instances in load
// order.
func (p *Playback) PlayingAnimations() []string {
	names := make([]string, len(p.animations))
	for i, a := range p.animations {
		names[i] = a.Name()
	}
	return names
}

// ActiveStateMachines returns the names of the live machine instances in
// load order.
func (p *Playback) ActiveStateMachines() []string {
	names := make([]string, len(p.machines))
	for i, m := range p.machines {
		names[i] = m.Name()
	}
	return names
}

// Input returns the named input field from the derived table.
func (p *Playback) Input(name string) (InputField, bool) {
	f, ok := p.inputs[name]
	return f, ok
}

// Advance steps the playback by dt seconds: every state machine first (state
// change callbacks fire here), then every timeline animation (advance and
// apply at full weight), then the artboard's own clock once.
func (p *Playback) Advance(dt float64) {
	for _, m := range p.machines {
		n := m.Advance(dt)
		if n > 0 && p.onStateChange != nil {
			p.changed = p.changed[:0]
			for i := 0; i < n; i++ {
				p.changed = append(p.changed, m.ChangedState(i))
			}
			p.onStateChange(p.changed)
		}
	}
	for _, a := range p.animations {
		a.Advance(dt)
		a.Apply(1)
	}
	if p.artboard != nil {
		p.artboard.Advance(dt)
	}
}

// Render rasterizes the current artboard into dst through the alignment
// transform. No-op without a renderer and artboard.
func (p *Playback) Render(dst *ebiten.Image, tf Transform) {
	if p.renderer == nil || p.artboard == nil {
		return
	}
	p.renderer.Draw(p.artboard, dst, tf)
}

// PointerDown forwards an artboard-space pointer press to every live
// machine.
func (p *Playback) PointerDown(x, y float64) {
	for _, m := range p.machines {
		m.PointerDown(x, y)
	}
}

// PointerMove forwards an artboard-space pointer move to every live machine.
func (p *Playback) PointerMove(x, y float64) {
	for _, m := range p.machines {
		m.PointerMove(x, y)
	}
}

// PointerUp forwards an artboard-space pointer release to every live
// machine.
func (p *Playback) PointerUp(x, y float64) {
	for _, m := range p.machines {
		m.PointerUp(x, y)
	}
}

// Teardown releases everything this playback acquired, in dependency order:
// machine instances, timeline instances, the artboard, then the document —
// through the cache for keyed loads, directly for byte-buffer loads (those
// were never cached, so the playback is the sole owner of the parse).
// Teardown is idempotent.
func (p *Playback) Teardown() {
	p.releaseInstances()
	if p.artboard != nil {
		p.artboard.Release()
		p.artboard = nil
	}
	if p.renderer != nil {
		p.renderer.Release()
		p.renderer = nil
	}
	if p.doc != nil {
		if p.key != "" {
			p.cache.Release(p.key)
		} else {
			p.doc.Release()
		}
		p.doc = nil
	}
}

// releaseInstances releases all machine and timeline instances and clears
// the input table.
func (p *Playback) releaseInstances() {
	for _, m := range p.machines {
		m.Release()
	}
	p.machines = p.machines[:0]
	for _, a := range p.animations {
		a.Release()
	}
	p.animations = p.animations[:0]
	p.inputs = nil
}

// rebuildInputs re-derives the whole input table from the live machines.
func (p *Playback) rebuildInputs() {
	p.inputs = buildInputTable(p.machines, p.debug)
}
