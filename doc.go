// Package rivet bridges vector animation engines into retained-mode
// Ebitengine scene graphs.
//
// An animation engine owns its own document model — files, artboards,
// timeline animations, state machines, typed inputs — and its own
// rasterizer. The host scene graph owns composition, transforms, input
// dispatch, and texture display. Rivet is the orchestration layer between
// them: it keeps both object models and both lifetimes synchronized every
// frame, across many concurrent instances, without leaking native resources
// or showing stale frames.
//
// # Quick start
//
//	rt := rivet.NewRuntime(rivet.RuntimeConfig{Engine: vex.New()})
//	hero := rt.NewSprite(rivet.Options{
//		Asset:    "hero.vex",
//		Autoplay: true,
//	})
//
//	// In your ebiten.Game:
//	func (g *Game) Update() error { rt.Tick(); return nil }
//	func (g *Game) Draw(screen *ebiten.Image) {
//		if img := hero.Image(); img != nil {
//			screen.DrawImage(img, nil)
//		}
//	}
//
// Scene-graph hosts draw sprite.Image() from their own node types and
// forward node-local pointer events to Sprite.PointerDown/Move/Up.
//
// # Architecture
//
// A [Runtime] is an explicitly constructed context owning three shared
// concerns: the [Bootstrap] (lazy exactly-once engine startup), the
// [DocumentCache] (reference-counted documents deduplicated by source key),
// and the [Scheduler] (one tick callback driving every enabled sprite with a
// single shared time delta). Each [Sprite] owns a [Playback] unit — its
// artboard, live animation and state machine instances, and input table —
// plus a [Surface], the offscreen texture it renders into.
//
// Everything runs on the host's one event-processing thread. The only
// asynchronous boundary is document loading; see [AsyncResolver].
//
// # Resource lifetimes
//
// Engine-native objects are manual resources: no finalizer or garbage
// collector reclaims them. Every document, artboard, instance, and renderer
// acquired through rivet has a single release point, reached from
// Sprite.Destroy and the cache's refcounting. Destroying a sprite is always
// safe, even while its document load is still in flight.
//
// # Engines
//
// Any engine implementing the interfaces in engine.go can be bridged. The
// bundled [github.com/phanxgames/rivet/vex] package is a JSON-document
// vector animation engine rasterizing through ebiten; production engines
// wrap their native runtimes the same way.
package rivet
