package vex

import (
	"log"

	"github.com/phanxgames/rivet"
)

// artboard is a live artboard instance: a mutable copy of every shape's
// animatable properties over the immutable definition. Exactly one playback
// unit owns it at a time.
type artboard struct {
	doc *document
	def *artboardDef

	// shapes holds the current animatable property values, written by
	// animation Apply and read by the renderer.
	shapes []shapeProps

	elapsed  float64
	released bool
}

func newArtboard(doc *document, def *artboardDef) *artboard {
	shapes := make([]shapeProps, len(def.shapes))
	for i := range def.shapes {
		shapes[i] = def.shapes[i].base
	}
	return &artboard{doc: doc, def: def, shapes: shapes}
}

// Name returns the artboard's name.
func (a *artboard) Name() string {
	return a.def.name
}

// Bounds returns the native bounding box.
func (a *artboard) Bounds() rivet.Rect {
	return a.def.bounds
}

// AnimationNames returns the timeline names in definition order.
func (a *artboard) AnimationNames() []string {
	names := make([]string, len(a.def.animations))
	for i, ad := range a.def.animations {
		names[i] = ad.name
	}
	return names
}

// StateMachineNames returns the machine names in definition order.
func (a *artboard) StateMachineNames() []string {
	names := make([]string, len(a.def.machines))
	for i, md := range a.def.machines {
		names[i] = md.name
	}
	return names
}

// NewAnimation instantiates the named timeline, or the first for "".
func (a *artboard) NewAnimation(name string) (rivet.AnimationInstance, bool) {
	if a.released {
		return nil, false
	}
	if name == "" {
		if len(a.def.animations) == 0 {
			return nil, false
		}
		return newAnimation(a, a.def.animations[0]), true
	}
	for _, ad := range a.def.animations {
		if ad.name == name {
			return newAnimation(a, ad), true
		}
	}
	return nil, false
}

// NewStateMachine instantiates the named machine, or the first for "".
func (a *artboard) NewStateMachine(name string) (rivet.StateMachineInstance, bool) {
	if a.released {
		return nil, false
	}
	if name == "" {
		if len(a.def.machines) == 0 {
			return nil, false
		}
		return newMachine(a, a.def.machines[0]), true
	}
	for _, md := range a.def.machines {
		if md.name == name {
			return newMachine(a, md), true
		}
	}
	return nil, false
}

// Advance steps the artboard clock. Property values were already written by
// the instances' Apply calls this frame.
func (a *artboard) Advance(dt float64) {
	a.elapsed += dt
}

// Release frees the instance and returns it to the document's accounting.
func (a *artboard) Release() {
	if a.released {
		log.Printf("vex: artboard %q released twice", a.def.name)
		return
	}
	a.released = true
	a.doc.live--
	a.shapes = nil
}

// prop returns a pointer to the shape's current value for one property.
func (s *shapeProps) prop(p property) *float64 {
	switch p {
	case propX:
		return &s.x
	case propY:
		return &s.y
	case propWidth:
		return &s.width
	case propHeight:
		return &s.height
	case propRotation:
		return &s.rotation
	case propScaleX:
		return &s.scaleX
	case propScaleY:
		return &s.scaleY
	default:
		return &s.opacity
	}
}
