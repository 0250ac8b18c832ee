package rivet

import "github.com/hajimehoshi/ebiten/v2"

// Engine is the animation engine contract. The engine owns its own document
// model and rasterizer; rivet only orchestrates lifetimes and playback around
// it. The [vex] subpackage provides a bundled implementation; any engine
// satisfying these interfaces can be bridged.
//
// Every object handed out through these interfaces is a native resource with
// a single explicit release point. Nothing here is reclaimed by the garbage
// collector — callers release exactly once, and rivet's Playback and
// DocumentCache enforce that discipline for everything they acquire.
type Engine interface {
	// Init performs one-time engine startup. Rivet calls it lazily through
	// a Bootstrap; engines may assume it runs at most once per instance.
	Init() error

	// Parse builds a Document from raw file bytes. The caller owns the
	// returned document and must Release it.
	Parse(data []byte) (Document, error)

	// NewRenderer creates a rasterizer for drawing artboards into host
	// surfaces. Debug renderers draw extra inspection detail (bounds).
	NewRenderer(debug bool) Renderer

	// FileExtensions returns the file extensions (with leading dot) of the
	// engine's document format, for asset-pipeline registration.
	FileExtensions() []string
}

// Document is an opaque parsed animation file.
type Document interface {
	// ArtboardNames returns the defined artboard names in document order.
	ArtboardNames() []string

	// Artboard instantiates the named artboard, or the document's default
	// artboard if name is empty. Returns false for an unknown name. Each
	// returned artboard is exclusively owned by the caller.
	Artboard(name string) (Artboard, bool)

	// Release frees the document's native resources. Must be called exactly
	// once, after every artboard created from it has been released.
	Release()
}

// Artboard is a named drawing surface inside a document, exclusively owned
// by one playback unit at a time.
type Artboard interface {
	Name() string

	// Bounds returns the artboard's native bounding box.
	Bounds() Rect

	// AnimationNames returns the defined timeline animation names in order.
	AnimationNames() []string

	// StateMachineNames returns the defined state machine names in order.
	StateMachineNames() []string

	// NewAnimation instantiates the named timeline animation, or the first
	// one if name is empty. Returns false if there is no match.
	NewAnimation(name string) (AnimationInstance, bool)

	// NewStateMachine instantiates the named state machine, or the first
	// one if name is empty. Returns false if there is no match.
	NewStateMachine(name string) (StateMachineInstance, bool)

	// Advance steps the artboard's own clock after instances have applied.
	Advance(dt float64)

	Release()
}

// AnimationInstance is a runtime cursor over a named timeline animation.
// Looping, ping-pong, and one-shot behavior live entirely inside the engine;
// rivet only advances and applies.
type AnimationInstance interface {
	Name() string

	// Advance moves the cursor by dt seconds.
	Advance(dt float64)

	// Apply writes the animation's current values to the artboard at the
	// given blend weight in [0, 1].
	Apply(weight float64)

	Release()
}

// StateMachineInstance is a live instance of a named interactive behavior
// graph, exposing typed inputs and reporting state changes per advance.
type StateMachineInstance interface {
	Name() string

	// Advance steps the machine by dt seconds and returns the number of
	// state changes that occurred during this step.
	Advance(dt float64) int

	// ChangedState returns the name of the i-th state change from the most
	// recent Advance, in occurrence order.
	ChangedState(i int) string

	// Inputs returns the machine's public inputs in definition order.
	Inputs() []Input

	// Pointer events in artboard-space coordinates.
	PointerDown(x, y float64)
	PointerMove(x, y float64)
	PointerUp(x, y float64)

	Release()
}

// Input is an engine-native typed input handle. Calls that do not match the
// input's type are engine-defined; use [InputField] for the checked variant
// the facade exposes.
type Input interface {
	Name() string
	Type() InputType

	Bool() bool
	SetBool(v bool)

	Number() float64
	SetNumber(v float64)

	// Fire pulses a trigger input.
	Fire()
}

// Renderer rasterizes artboards into ebiten images.
type Renderer interface {
	// Draw renders the artboard into dst, mapping artboard coordinates
	// through the alignment transform. The destination is not cleared.
	Draw(ab Artboard, dst *ebiten.Image, tf Transform)

	Release()
}
