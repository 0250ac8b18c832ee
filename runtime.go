package rivet

import "time"

// RuntimeConfig configures a Runtime. Engine is required; everything else
// has a usable zero value.
type RuntimeConfig struct {
	// Engine is the animation engine to bridge. Initialization is lazy:
	// nothing runs until the first sprite is created (or Engine() is
	// called).
	Engine Engine

	// Resolver turns sprite asset keys into bytes. Nil uses FileResolver
	// rooted at the working directory. Wrap slow resolvers in
	// NewAsyncResolver to keep fetches off the tick thread.
	Resolver AssetResolver

	// Now is the scheduler's wall clock. Nil uses time.Now.
	Now func() time.Time
}

// Runtime is the explicitly constructed context that owns the process-wide
// concerns of the bridge: the engine bootstrap, the document cache, and the
// frame scheduler. It is deliberately not a package-level singleton —
// several independent runtimes (separate engines, caches, clocks) can
// coexist in one process, which keeps the design testable in isolation.
//
// Typical host wiring:
//
//	rt := rivet.NewRuntime(rivet.RuntimeConfig{Engine: vex.New()})
//	sprite := rt.NewSprite(rivet.Options{Asset: "hero.vex", Autoplay: true})
//	// in ebiten's Update:
//	rt.Tick()
//	// in ebiten's Draw:
//	screen.DrawImage(sprite.Image(), op)
type Runtime struct {
	bootstrap *Bootstrap
	cache     *DocumentCache
	scheduler *Scheduler
	resolver  AssetResolver
	shutdown  bool
}

// NewRuntime creates a runtime around cfg.Engine. The engine is not
// initialized yet.
func NewRuntime(cfg RuntimeConfig) *Runtime {
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = FileResolver{}
	}
	bootstrap := NewBootstrap(cfg.Engine)
	return &Runtime{
		bootstrap: bootstrap,
		cache:     NewDocumentCache(bootstrap, resolver),
		scheduler: NewScheduler(cfg.Now),
		resolver:  resolver,
	}
}

// Engine returns the initialized engine handle, triggering lazy startup.
func (rt *Runtime) Engine() (Engine, error) {
	return rt.bootstrap.Handle()
}

// Cache returns the runtime's document cache.
func (rt *Runtime) Cache() *DocumentCache {
	return rt.cache
}

// Scheduler returns the runtime's frame scheduler.
func (rt *Runtime) Scheduler() *Scheduler {
	return rt.scheduler
}

// Tick is the per-frame driver: it pumps any asynchronous asset deliveries
// onto this thread, then advances and renders every enabled sprite. Call it
// once per host tick (ebiten Update).
func (rt *Runtime) Tick() {
	if rt.shutdown {
		return
	}
	if pump, ok := rt.resolver.(interface{ Pump() }); ok {
		pump.Pump()
	}
	rt.scheduler.Tick()
}

// Shutdown destroys every registered sprite and purges the document cache.
// Sprites created from this runtime but already disabled must be destroyed
// by their owners; Shutdown only reaches what the scheduler still knows.
// The runtime is unusable afterward.
func (rt *Runtime) Shutdown() {
	if rt.shutdown {
		return
	}
	rt.shutdown = true
	for _, sp := range append([]*Sprite(nil), rt.scheduler.sprites...) {
		sp.Destroy()
	}
	rt.cache.purge()
}
