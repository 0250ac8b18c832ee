package rivet

import "github.com/hajimehoshi/ebiten/v2"

// Surface is the persistent offscreen canvas a sprite renders its artboard
// into. It is owned by the sprite, never recycled between frames, and sized
// to exactly match the last computed output dimensions. Hosts display it by
// drawing Image however they like and watch Generation to know
// when the pixels changed and a texture re-upload is due.
type Surface struct {
	image      *ebiten.Image
	w, h       int
	generation uint64
}

// NewSurface creates a surface of the given pixel size. Dimensions are
// clamped to at least 1x1 since ebiten images cannot be empty.
func NewSurface(w, h int) *Surface {
	w, h = clampDim(w), clampDim(h)
	return &Surface{
		image: ebiten.NewImage(w, h),
		w:     w,
		h:     h,
	}
}

// Image returns the underlying image for display or direct manipulation.
func (s *Surface) Image() *ebiten.Image {
	return s.image
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	return s.w
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	return s.h
}

// Generation returns a counter that increments every time the surface
// contents change (each render and each resize).
func (s *Surface) Generation() uint64 {
	return s.generation
}

// markUpdated bumps the generation after a render pass.
func (s *Surface) markUpdated() {
	s.generation++
}

// Clear fills the surface with transparent black.
func (s *Surface) Clear() {
	s.image.Clear()
}

// Resize deallocates the old image and creates a new one at the given
// dimensions. No-op when the size is unchanged. The new surface is blank, so
// callers re-render immediately to avoid showing a stale or empty frame.
func (s *Surface) Resize(w, h int) {
	w, h = clampDim(w), clampDim(h)
	if w == s.w && h == s.h {
		return
	}
	s.image.Deallocate()
	s.image = ebiten.NewImage(w, h)
	s.w = w
	s.h = h
	s.generation++
}

// Dispose deallocates the underlying image. The surface must not be used
// after Dispose.
func (s *Surface) Dispose() {
	if s.image != nil {
		s.image.Deallocate()
		s.image = nil
	}
}

func clampDim(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
