package rivet

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// Options configures a Sprite. Exactly one of Asset and Data must be set;
// every other field is optional.
type Options struct {
	// Asset is the source key (path, URL, or alias) resolved through the
	// runtime's resolver and shared through the document cache.
	Asset string

	// Data is a raw document buffer. Byte loads bypass the cache: the
	// sprite owns its own parse.
	Data []byte

	// Debug enables inspection rendering (artboard bounds) and verbose
	// logging for this sprite.
	Debug bool

	// Autoplay enables the sprite as soon as it is ready.
	Autoplay bool

	// Interactive enables pointer-event passthrough to state machines.
	Interactive bool

	// Artboard selects an artboard by name. Empty selects the document's
	// default artboard.
	Artboard string

	// Animations are timeline animations to start once loaded. Empty plays
	// the artboard's first timeline only if no state machine is active.
	Animations []string

	// StateMachines are state machines to load. Empty loads the artboard's
	// first machine, if it has any.
	StateMachines []string

	// Fit and Align control how the artboard maps into the output frame.
	Fit   Fit
	Align Alignment

	// MaxWidth and MaxHeight request output dimensions (zero for native).
	// Aspect ratio is always preserved; with both set, width wins.
	MaxWidth, MaxHeight float64

	// OnStateChange receives the ordered names of states that changed
	// during an advance. Invoked synchronously from the tick; the slice is
	// reused and must not be retained.
	OnStateChange func(states []string)

	// OnReady is invoked once the sprite has loaded, laid out, and
	// rendered its first frame. It receives the initialized engine handle.
	// Never invoked if loading fails.
	OnReady func(engine Engine)
}

// Sprite is the facade node type: a texture-backed animation instance meant
// to be composed into a host scene graph. The host displays Image in its
// own node type and feeds Runtime.Tick from its update loop; the
// sprite keeps its surface pixels, display dimensions, and playback state in
// sync every tick it is enabled.
//
// A sprite that fails to load stays inert: it renders nothing, schedules
// nothing, and is safe to Destroy.
type Sprite struct {
	runtime  *Runtime
	playback *Playback
	surface  *Surface

	key         string // cache key, "" for byte loads
	loadStarted bool
	ready       bool
	destroyed   bool

	enabled    bool
	registered bool // maintained by the scheduler

	debug       bool
	autoplay    bool
	interactive bool

	fit             Fit
	align           Alignment
	maxW, maxH      float64
	width, height   float64
	alignTf         Transform
	onReady         func(Engine)
	initialArtboard string
	initialAnims    []string
	initialMachines []string
}

// NewSprite creates a sprite and starts loading its document. The returned
// sprite is immediately usable; operations before readiness are no-ops.
func (rt *Runtime) NewSprite(opts Options) *Sprite {
	sp := &Sprite{
		runtime:         rt,
		playback:        NewPlayback(rt.cache, opts.Debug),
		key:             opts.Asset,
		debug:           opts.Debug,
		autoplay:        opts.Autoplay,
		interactive:     opts.Interactive,
		fit:             opts.Fit,
		align:           opts.Align,
		maxW:            opts.MaxWidth,
		maxH:            opts.MaxHeight,
		alignTf:         identityTransform,
		onReady:         opts.OnReady,
		initialArtboard: opts.Artboard,
		initialAnims:    opts.Animations,
		initialMachines: opts.StateMachines,
	}
	sp.playback.SetStateChangeCallback(opts.OnStateChange)

	switch {
	case opts.Asset != "":
		sp.loadStarted = true
		rt.cache.Load(opts.Asset, sp.onDocument)
	case len(opts.Data) > 0:
		sp.loadStarted = true
		rt.cache.LoadBytes(opts.Data, sp.onDocument)
	default:
		log.Printf("rivet: sprite created without an asset source")
	}
	return sp
}

// onDocument is the load continuation: it runs on the tick thread once the
// document is parsed (possibly synchronously during NewSprite).
func (sp *Sprite) onDocument(doc Document, err error) {
	if sp.destroyed {
		// Keyed loads were already released through the cache's pending
		// release path; a byte parse is ours to free.
		if err == nil && sp.key == "" {
			doc.Release()
		}
		return
	}
	if err != nil {
		log.Printf("rivet: sprite load failed: %v", err)
		return
	}

	sp.playback.SetDocument(doc, sp.key)
	if !sp.playback.LoadArtboard(sp.initialArtboard) {
		log.Printf("rivet: sprite has no artboard %q; staying inert", sp.initialArtboard)
		return
	}
	sp.playback.LoadStateMachines(sp.initialMachines...)
	sp.playback.PlayAnimations(sp.initialAnims...)

	engine, _ := sp.runtime.Engine() // already initialized: the load parsed through it
	sp.playback.SetRenderer(engine.NewRenderer(sp.debug))

	sp.relayout()
	sp.ready = true

	if sp.onReady != nil {
		sp.onReady(engine)
	}
	if sp.autoplay {
		sp.Enable()
	}
}

// Ready reports whether the sprite has loaded and rendered its first frame.
func (sp *Sprite) Ready() bool {
	return sp.ready
}

// Enable registers the sprite with the frame scheduler. No-op before
// readiness and after Destroy.
func (sp *Sprite) Enable() {
	if !sp.ready || sp.destroyed {
		return
	}
	sp.enabled = true
	sp.runtime.scheduler.Add(sp)
}

// Disable unregisters the sprite from the frame scheduler. Once Disable
// returns the sprite receives no further advance or render.
func (sp *Sprite) Disable() {
	sp.enabled = false
	sp.runtime.scheduler.Remove(sp)
}

// Enabled reports whether the sprite is being driven by the scheduler.
func (sp *Sprite) Enabled() bool {
	return sp.enabled && sp.registered
}

// Destroy disables the sprite and releases every native resource it holds:
// state machine instances, timeline instances, the artboard, the renderer,
// the document reference, and the output surface. Idempotent. A sprite
// whose load is still in flight releases its document reference when the
// load resolves.
func (sp *Sprite) Destroy() {
	if sp.destroyed {
		return
	}
	sp.Disable()
	sp.destroyed = true

	if sp.ready {
		sp.playback.Teardown()
	} else if sp.loadStarted && sp.key != "" {
		// Pending keyed load: drop our reference now; the cache evicts
		// once the parse completes.
		sp.runtime.cache.Release(sp.key)
	}
	if sp.surface != nil {
		sp.surface.Dispose()
		sp.surface = nil
	}
}

// --- Playback surface ---

// LoadArtboard switches to the named artboard (empty for the default),
// releasing the previous one and all its instances, then recomputes layout
// and renders one frame. Returns false if the name does not exist.
func (sp *Sprite) LoadArtboard(name string) bool {
	if !sp.ready {
		return false
	}
	if !sp.playback.LoadArtboard(name) {
		return false
	}
	sp.relayout()
	return true
}

// LoadStateMachines loads state machines by name (none for the artboard's
// first) and rebuilds the input table.
func (sp *Sprite) LoadStateMachines(names ...string) {
	if !sp.ready {
		return
	}
	sp.playback.LoadStateMachines(names...)
}

// UnloadStateMachine releases the named machine instance.
func (sp *Sprite) UnloadStateMachine(name string) {
	if !sp.ready {
		return
	}
	sp.playback.UnloadStateMachine(name)
}

// PlayAnimations starts timeline animations by name. With no names, the
// artboard's first timeline plays only if no state machine is active.
func (sp *Sprite) PlayAnimations(names ...string) {
	if !sp.ready {
		return
	}
	sp.playback.PlayAnimations(names...)
}

// StopAnimation releases the named timeline instance.
func (sp *Sprite) StopAnimation(name string) {
	if !sp.ready {
		return
	}
	sp.playback.StopAnimation(name)
}

// Artboards returns the document's artboard names.
func (sp *Sprite) Artboards() []string {
	return sp.playback.ArtboardNames()
}

// Animations returns the current artboard's timeline animation names.
func (sp *Sprite) Animations() []string {
	return sp.playback.AnimationNames()
}

// StateMachines returns the current artboard's state machine names.
func (sp *Sprite) StateMachines() []string {
	return sp.playback.StateMachineNames()
}

// --- Inputs ---

// InputValue returns the named input's current value: bool for booleans,
// float64 for numbers, nil for triggers and unknown names.
func (sp *Sprite) InputValue(name string) any {
	f, ok := sp.playback.Input(name)
	if !ok {
		return nil
	}
	return f.Value()
}

// SetInputBool sets the named boolean input. Unknown names and non-boolean
// inputs (including triggers) are silently ignored.
func (sp *Sprite) SetInputBool(name string, v bool) {
	if f, ok := sp.playback.Input(name); ok {
		f.SetBool(v)
	}
}

// SetInputNumber sets the named number input. Unknown names and non-number
// inputs (including triggers) are silently ignored.
func (sp *Sprite) SetInputNumber(name string, v float64) {
	if f, ok := sp.playback.Input(name); ok {
		f.SetNumber(v)
	}
}

// FireTrigger pulses the named trigger input. Unknown names and non-trigger
// inputs are silently ignored.
func (sp *Sprite) FireTrigger(name string) {
	if f, ok := sp.playback.Input(name); ok {
		f.Fire()
	}
}

// --- Sizing ---

// UpdateSize requests new output dimensions (zero for native), recomputes
// the layout and alignment transform, resizes the surface, and renders one
// frame immediately so no stale pixels are ever visible after a resize.
func (sp *Sprite) UpdateSize(maxWidth, maxHeight float64) {
	sp.maxW, sp.maxH = maxWidth, maxHeight
	if sp.ready {
		sp.relayout()
	}
}

// SetFit changes the fit mode and re-renders.
func (sp *Sprite) SetFit(fit Fit) {
	sp.fit = fit
	if sp.ready {
		sp.relayout()
	}
}

// SetAlign changes the alignment anchor and re-renders.
func (sp *Sprite) SetAlign(align Alignment) {
	sp.align = align
	if sp.ready {
		sp.relayout()
	}
}

// Width returns the current display width in pixels.
func (sp *Sprite) Width() float64 {
	return sp.width
}

// Height returns the current display height in pixels.
func (sp *Sprite) Height() float64 {
	return sp.height
}

// Image returns the output surface image, or nil before the first layout.
// The image pointer changes on resize; hosts should re-fetch it whenever
// Generation changes.
func (sp *Sprite) Image() *ebiten.Image {
	if sp.surface == nil {
		return nil
	}
	return sp.surface.Image()
}

// Generation returns the output surface's change counter. It increments on
// every render and resize, and is how hosts know a texture re-upload is due.
func (sp *Sprite) Generation() uint64 {
	if sp.surface == nil {
		return 0
	}
	return sp.surface.Generation()
}

// AlignmentTransform returns the current output-frame→artboard transform.
func (sp *Sprite) AlignmentTransform() Transform {
	return sp.alignTf
}

// relayout recomputes output dimensions from the artboard's native bounds
// and the requested maximums, resizes the surface to match, rebuilds the
// alignment transform, and forces one render.
func (sp *Sprite) relayout() {
	ab := sp.playback.Artboard()
	if ab == nil {
		return
	}
	bounds := ab.Bounds()
	w, h := computeSize(bounds, sp.maxW, sp.maxH)
	sp.width, sp.height = w, h

	if sp.surface == nil {
		sp.surface = NewSurface(int(w), int(h))
	} else {
		sp.surface.Resize(int(w), int(h))
	}
	frame := Rect{Width: float64(sp.surface.Width()), Height: float64(sp.surface.Height())}
	sp.alignTf = computeAlignment(sp.fit, sp.align, frame, bounds)
	sp.render()
}

// --- Pointer passthrough ---

// PointerDown maps a point in the sprite's local (output-frame) space into
// artboard space and forwards the press to every live state machine. No-op
// unless the sprite is interactive and ready.
func (sp *Sprite) PointerDown(x, y float64) {
	if !sp.interactive || !sp.ready {
		return
	}
	ax, ay := sp.alignTf.Invert(x, y)
	sp.playback.PointerDown(ax, ay)
}

// PointerMove maps and forwards a pointer move.
func (sp *Sprite) PointerMove(x, y float64) {
	if !sp.interactive || !sp.ready {
		return
	}
	ax, ay := sp.alignTf.Invert(x, y)
	sp.playback.PointerMove(ax, ay)
}

// PointerUp maps and forwards a pointer release.
func (sp *Sprite) PointerUp(x, y float64) {
	if !sp.interactive || !sp.ready {
		return
	}
	ax, ay := sp.alignTf.Invert(x, y)
	sp.playback.PointerUp(ax, ay)
}

// --- Scheduler hooks ---

// step advances and renders one tick. Called only by the scheduler.
func (sp *Sprite) step(dt float64) {
	if sp.playback.Artboard() == nil {
		return
	}
	sp.playback.Advance(dt)
	sp.render()
}

// render clears the surface, rasterizes the artboard through the alignment
// transform, and marks the texture updated for host re-upload.
func (sp *Sprite) render() {
	if sp.surface == nil {
		return
	}
	sp.surface.Clear()
	sp.playback.Render(sp.surface.Image(), sp.alignTf)
	sp.surface.markUpdated()
}
