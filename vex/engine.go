package vex

import (
	"fmt"
	"log"

	"github.com/phanxgames/rivet"
	"github.com/tanema/gween/ease"
)

// Engine is the bundled vector animation engine: JSON documents, keyframe
// timelines with gween easing, condition-driven state machines, and an
// ebiten rasterizer. It implements the rivet engine contract and doubles as
// the reference implementation for bridging native engines.
type Engine struct {
	inited  bool
	easings map[string]ease.TweenFunc
}

// New creates an uninitialized engine. Rivet's bootstrap calls Init lazily.
func New() *Engine {
	return &Engine{}
}

// Init builds the easing registry. Called at most once per engine.
func (e *Engine) Init() error {
	e.inited = true
	e.easings = map[string]ease.TweenFunc{
		"":               ease.Linear,
		"linear":         ease.Linear,
		"in-quad":        ease.InQuad,
		"out-quad":       ease.OutQuad,
		"in-out-quad":    ease.InOutQuad,
		"in-cubic":       ease.InCubic,
		"out-cubic":      ease.OutCubic,
		"in-out-cubic":   ease.InOutCubic,
		"in-quart":       ease.InQuart,
		"out-quart":      ease.OutQuart,
		"in-out-quart":   ease.InOutQuart,
		"in-sine":        ease.InSine,
		"out-sine":       ease.OutSine,
		"in-out-sine":    ease.InOutSine,
		"in-expo":        ease.InExpo,
		"out-expo":       ease.OutExpo,
		"in-out-expo":    ease.InOutExpo,
		"in-back":        ease.InBack,
		"out-back":       ease.OutBack,
		"in-out-back":    ease.InOutBack,
		"in-elastic":     ease.InElastic,
		"out-elastic":    ease.OutElastic,
		"in-out-elastic": ease.InOutElastic,
		"in-bounce":      ease.InBounce,
		"out-bounce":     ease.OutBounce,
		"in-out-bounce":  ease.InOutBounce,
	}
	return nil
}

// Parse builds a document from .vex JSON bytes.
func (e *Engine) Parse(data []byte) (rivet.Document, error) {
	if !e.inited {
		return nil, fmt.Errorf("vex: engine not initialized")
	}
	artboards, err := parseDocument(data, e.easings)
	if err != nil {
		return nil, err
	}
	doc := &document{artboards: artboards, byName: make(map[string]*artboardDef, len(artboards))}
	for _, ab := range artboards {
		doc.byName[ab.name] = ab
	}
	return doc, nil
}

// NewRenderer creates a rasterizer. Debug renderers stroke artboard bounds.
func (e *Engine) NewRenderer(debug bool) rivet.Renderer {
	return &renderer{debug: debug}
}

// FileExtensions returns the document format's file extensions.
func (e *Engine) FileExtensions() []string {
	return []string{".vex"}
}

// document is a parsed .vex file. Artboard definitions are immutable; every
// Artboard call mints an independent runtime instance.
type document struct {
	artboards []*artboardDef
	byName    map[string]*artboardDef
	live      int // outstanding artboard instances, for leak detection
	released  bool
}

// ArtboardNames returns the artboard names in document order.
func (d *document) ArtboardNames() []string {
	names := make([]string, len(d.artboards))
	for i, ab := range d.artboards {
		names[i] = ab.name
	}
	return names
}

// Artboard instantiates the named artboard, or the first one for "".
func (d *document) Artboard(name string) (rivet.Artboard, bool) {
	if d.released {
		log.Printf("vex: Artboard on released document")
		return nil, false
	}
	var def *artboardDef
	if name == "" {
		def = d.artboards[0]
	} else {
		var ok bool
		def, ok = d.byName[name]
		if !ok {
			return nil, false
		}
	}
	d.live++
	return newArtboard(d, def), true
}

// Release frees the document. Outstanding artboards are a caller bug and are
// logged rather than hidden.
func (d *document) Release() {
	if d.released {
		log.Printf("vex: document released twice")
		return
	}
	if d.live > 0 {
		log.Printf("vex: document released with %d live artboards", d.live)
	}
	d.released = true
	d.artboards = nil
	d.byName = nil
}
