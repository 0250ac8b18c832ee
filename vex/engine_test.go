package vex

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/rivet"
)

func TestDocumentArtboardLookup(t *testing.T) {
	doc := parseTestDoc(t, `{"artboards": [
		{"name": "first", "width": 10, "height": 10},
		{"name": "second", "width": 20, "height": 20}]}`)
	defer doc.Release()

	ab, ok := doc.Artboard("")
	if !ok || ab.Name() != "first" {
		t.Fatalf("default artboard = %v, want first", ab)
	}
	ab.Release()

	if _, ok := doc.Artboard("ghost"); ok {
		t.Errorf("unknown artboard instantiated")
	}
}

func TestDocumentLiveAccounting(t *testing.T) {
	doc := parseTestDoc(t, minimalDoc)

	a, _ := doc.Artboard("")
	b, _ := doc.Artboard("")
	if doc.live != 2 {
		t.Fatalf("live = %d, want 2", doc.live)
	}
	a.Release()
	b.Release()
	if doc.live != 0 {
		t.Fatalf("live = %d after releases, want 0", doc.live)
	}
	doc.Release()
	if _, ok := doc.Artboard(""); ok {
		t.Errorf("released document minted an artboard")
	}
}

func TestArtboardInstancesIndependent(t *testing.T) {
	doc := parseTestDoc(t, minimalDoc)
	defer doc.Release()

	a, _ := doc.Artboard("")
	b, _ := doc.Artboard("")
	defer a.Release()
	defer b.Release()

	an, _ := a.NewAnimation("slide")
	defer an.Release()
	an.Advance(0.5)
	an.Apply(1)

	ax := a.(*artboard).shapes[0].x
	bx := b.(*artboard).shapes[0].x
	if ax == bx {
		t.Errorf("animating one instance moved the other (x = %g)", bx)
	}
}

func TestRendererDrawsAllShapeKinds(t *testing.T) {
	doc := parseTestDoc(t, `{"artboards": [{"name": "a", "width": 64, "height": 64,
		"shapes": [
			{"name": "r", "kind": "rect", "x": 8, "y": 8, "width": 16, "height": 16, "fill": "#ff0000"},
			{"name": "e", "kind": "ellipse", "x": 40, "y": 16, "width": 20, "height": 12, "fill": "#00ff00", "stroke": "#000000", "strokeWidth": 2},
			{"name": "p", "kind": "path", "x": 16, "y": 40, "points": [[0, 0], [16, 0], [8, 12]], "closed": true, "fill": "#0000ff80"},
			{"name": "hidden", "kind": "rect", "x": 0, "y": 0, "width": 64, "height": 64, "opacity": -1, "fill": "#ffffff"}
		]}]}`)
	defer doc.Release()

	ab, _ := doc.Artboard("")
	defer ab.Release()

	e := New()
	r := e.NewRenderer(true)
	defer r.Release()

	dst := ebiten.NewImage(64, 64)
	defer dst.Deallocate()
	r.Draw(ab, dst, rivet.Transform{XX: 1, YY: 1})

	// Drawing through a scaling transform reuses the scratch buffers.
	r.Draw(ab, dst, rivet.Transform{XX: 0.5, YY: 0.5, TX: 4, TY: 4})
}

func TestRendererIgnoresForeignArtboard(t *testing.T) {
	e := New()
	r := e.NewRenderer(false)
	defer r.Release()

	dst := ebiten.NewImage(8, 8)
	defer dst.Deallocate()
	r.Draw(nil, dst, rivet.Transform{XX: 1, YY: 1}) // must not panic
}

// TestBridgeEndToEnd runs the vex engine through the full rivet stack: byte
// load, default artboard, machine-driven playback, scheduler ticks.
func TestBridgeEndToEnd(t *testing.T) {
	now := time.Unix(0, 0)
	rt := rivet.NewRuntime(rivet.RuntimeConfig{
		Engine: New(),
		Now:    func() time.Time { return now },
	})
	defer rt.Shutdown()

	var states []string
	sp := rt.NewSprite(rivet.Options{
		Data:     []byte(machineDoc),
		Autoplay: true,
		MaxWidth: 50,
		OnStateChange: func(changed []string) {
			states = append(states, changed...)
		},
	})
	if !sp.Ready() {
		t.Fatalf("sprite not ready")
	}
	if got := sp.StateMachines(); len(got) != 1 || got[0] != "controls" {
		t.Fatalf("machines = %v, want [controls]", got)
	}
	if sp.Width() != 50 || sp.Height() != 50 {
		t.Errorf("size = (%g, %g), want (50, 50)", sp.Width(), sp.Height())
	}

	gen := sp.Generation()
	rt.Tick()
	now = now.Add(16 * time.Millisecond)
	rt.Tick()
	if sp.Generation() <= gen {
		t.Errorf("surface generation did not advance over ticks")
	}

	sp.SetInputBool("go", true)
	now = now.Add(16 * time.Millisecond)
	rt.Tick()
	if len(states) != 1 || states[0] != "Run" {
		t.Fatalf("state changes = %v, want [Run]", states)
	}

	sp.Destroy()
	if sp.Enabled() {
		t.Errorf("destroyed sprite still enabled")
	}
}
