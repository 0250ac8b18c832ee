package vex

import (
	"image"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/rivet"
)

// whiteSub is the 1x1 white source for solid triangle fills. A 3x3 image is
// allocated and the center pixel used so linear filtering never bleeds the
// transparent border in.
var (
	whiteImage = ebiten.NewImage(3, 3)
	whiteSub   *ebiten.Image
)

func init() {
	whiteImage.Fill(color.White)
	whiteSub = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// renderer rasterizes artboards into ebiten images. Scratch buffers are
// reused across draws; a renderer serves one sprite at a time.
type renderer struct {
	debug    bool
	verts    []ebiten.Vertex
	inds     []uint16
	released bool
}

// Draw renders every shape of the artboard into dst through the alignment
// transform. Only artboards minted by this engine can be drawn.
func (r *renderer) Draw(ab rivet.Artboard, dst *ebiten.Image, tf rivet.Transform) {
	if r.released {
		return
	}
	a, ok := ab.(*artboard)
	if !ok {
		log.Printf("vex: renderer given a foreign artboard")
		return
	}
	for i := range a.def.shapes {
		r.drawShape(&a.def.shapes[i], &a.shapes[i], dst, tf)
	}
	if r.debug {
		b := a.def.bounds
		x0, y0 := tf.Apply(b.X, b.Y)
		x1, y1 := tf.Apply(b.X+b.Width, b.Y+b.Height)
		vector.StrokeRect(dst, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0),
			1, color.RGBA{R: 0xff, A: 0xff}, true)
	}
}

// Release frees the renderer.
func (r *renderer) Release() {
	if r.released {
		log.Printf("vex: renderer released twice")
		return
	}
	r.released = true
	r.verts = nil
	r.inds = nil
}

// drawShape builds the shape's local path, fills and strokes it.
func (r *renderer) drawShape(def *shapeDef, st *shapeProps, dst *ebiten.Image, tf rivet.Transform) {
	if st.opacity <= 0 {
		return
	}
	var p vector.Path
	var pivotX, pivotY float64
	switch def.kind {
	case shapeRect:
		appendRect(&p, st.width, st.height)
		pivotX, pivotY = st.x+st.width/2, st.y+st.height/2
	case shapeEllipse:
		appendEllipse(&p, st.width/2, st.height/2)
		pivotX, pivotY = st.x+st.width/2, st.y+st.height/2
	case shapePath:
		appendPoints(&p, def.points, def.closed)
		pivotX, pivotY = st.x, st.y
	}

	sin, cos := math.Sincos(st.rotation)
	shape := [6]float64{
		cos * st.scaleX, sin * st.scaleX,
		-sin * st.scaleY, cos * st.scaleY,
		pivotX, pivotY,
	}

	if def.hasFill {
		vs, is := p.AppendVerticesAndIndicesForFilling(r.verts[:0], r.inds[:0])
		r.verts, r.inds = vs, is
		r.submit(dst, vs, is, shape, tf, def.fill, st.opacity)
	}
	if def.hasStroke {
		// Stroke geometry is expanded in local space, so the width rides
		// through the shape and alignment scales like any other vertex.
		op := &vector.StrokeOptions{Width: float32(def.strokeWidth)}
		vs, is := p.AppendVerticesAndIndicesForStroke(r.verts[:0], r.inds[:0], op)
		r.verts, r.inds = vs, is
		r.submit(dst, vs, is, shape, tf, def.stroke, st.opacity)
	}
}

// submit maps vertices local→shape→artboard→output and draws them as solid
// colored triangles.
func (r *renderer) submit(dst *ebiten.Image, vs []ebiten.Vertex, is []uint16, shape [6]float64, tf rivet.Transform, c rgba, opacity float64) {
	alpha := float32(opacity)
	if alpha > 1 {
		alpha = 1
	}
	for i := range vs {
		lx, ly := float64(vs[i].DstX), float64(vs[i].DstY)
		ax := shape[0]*lx + shape[2]*ly + shape[4]
		ay := shape[1]*lx + shape[3]*ly + shape[5]
		ox, oy := tf.Apply(ax, ay)
		vs[i].DstX = float32(ox)
		vs[i].DstY = float32(oy)
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = c.r
		vs[i].ColorG = c.g
		vs[i].ColorB = c.b
		vs[i].ColorA = c.a * alpha
	}
	dst.DrawTriangles(vs, is, whiteSub, &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
		FillRule:  ebiten.FillRuleNonZero,
	})
}

// appendRect builds a width x height rectangle centered on the origin.
func appendRect(p *vector.Path, w, h float64) {
	hw, hh := float32(w/2), float32(h/2)
	p.MoveTo(-hw, -hh)
	p.LineTo(hw, -hh)
	p.LineTo(hw, hh)
	p.LineTo(-hw, hh)
	p.Close()
}

// kappa is the cubic bezier circle approximation constant.
const kappa = 0.5522847498307936

// appendEllipse builds an rx x ry ellipse centered on the origin from four
// cubic segments.
func appendEllipse(p *vector.Path, rx, ry float64) {
	x, y := float32(rx), float32(ry)
	kx, ky := float32(rx*kappa), float32(ry*kappa)
	p.MoveTo(x, 0)
	p.CubicTo(x, ky, kx, y, 0, y)
	p.CubicTo(-kx, y, -x, ky, -x, 0)
	p.CubicTo(-x, -ky, -kx, -y, 0, -y)
	p.CubicTo(kx, -y, x, -ky, x, 0)
	p.Close()
}

// appendPoints builds a polyline path from local points.
func appendPoints(p *vector.Path, pts [][2]float64, closed bool) {
	p.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	for _, pt := range pts[1:] {
		p.LineTo(float32(pt[0]), float32(pt[1]))
	}
	if closed {
		p.Close()
	}
}
