package rivet

// Vec2 is a 2D vector used for positions and sizes throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward. Artboard bounds use this type:
// X/Y are the native minimum corner and Width/Height the native extent.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Fit controls how an artboard's native bounds map into an output frame of a
// different size or aspect ratio.
type Fit uint8

const (
	FitContain   Fit = iota // uniform scale so the whole artboard fits inside the frame
	FitCover                // uniform scale so the artboard covers the whole frame
	FitFill                 // non-uniform scale to exactly fill the frame (may distort)
	FitWidth                // uniform scale matching the frame width
	FitHeight               // uniform scale matching the frame height
	FitNone                 // no scaling; native pixels
	FitScaleDown            // like FitContain, but never scales up
)

// Alignment anchors the fitted artboard within the output frame.
type Alignment uint8

const (
	AlignTopLeft Alignment = iota
	AlignTopCenter
	AlignTopRight
	AlignCenterLeft
	AlignCenter
	AlignCenterRight
	AlignBottomLeft
	AlignBottomCenter
	AlignBottomRight
)

// factors returns the horizontal and vertical anchor fractions in [0, 1].
func (a Alignment) factors() (ax, ay float64) {
	switch a {
	case AlignTopCenter, AlignCenter, AlignBottomCenter:
		ax = 0.5
	case AlignTopRight, AlignCenterRight, AlignBottomRight:
		ax = 1
	}
	switch a {
	case AlignCenterLeft, AlignCenter, AlignCenterRight:
		ay = 0.5
	case AlignBottomLeft, AlignBottomCenter, AlignBottomRight:
		ay = 1
	}
	return ax, ay
}

// InputType distinguishes the three kinds of state machine inputs.
type InputType uint8

const (
	InputBoolean InputType = iota // a latched on/off value
	InputTrigger                  // a momentary firing signal with no value
	InputNumber                   // a continuous numeric value
)

// Transform is the axis-aligned affine map from the sized output frame back
// to artboard-native coordinates: scale (XX, YY) plus translation (TX, TY).
// The sizing engine produces one per layout pass; the renderer uses it
// forward and pointer mapping uses it inverted.
type Transform struct {
	XX, YY, TX, TY float64
}

// identityTransform maps output coordinates straight through.
var identityTransform = Transform{XX: 1, YY: 1}

// Apply maps an artboard-space point into output-frame space.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.XX + t.TX, y*t.YY + t.TY
}

// Invert maps an output-frame point back into artboard space.
// Degenerate scales map to the untranslated point rather than infinity.
func (t Transform) Invert(x, y float64) (float64, float64) {
	ix, iy := x-t.TX, y-t.TY
	if t.XX != 0 {
		ix /= t.XX
	}
	if t.YY != 0 {
		iy /= t.YY
	}
	return ix, iy
}
