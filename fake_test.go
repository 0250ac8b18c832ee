package rivet

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scripted engine fakes for deterministic bridge tests. The bundled vex
// engine covers integration; these fakes make lifetime and ordering
// observable.

// events is a shared ordered log fakes append to.
type events struct {
	log []string
}

func (e *events) add(s string) {
	e.log = append(e.log, s)
}

type fakeEngine struct {
	ev         *events
	initCalls  int
	initErr    error
	parseCalls int
	parseErr   error
	artboards  []string // artboard names of every parsed document
	anims      []string
	machines   []string
	inputs     []*fakeInput // attached to every machine instance
	bounds     Rect
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		ev:        &events{},
		artboards: []string{"main"},
		anims:     []string{"idle", "run"},
		machines:  []string{"controls"},
		bounds:    Rect{Width: 100, Height: 50},
	}
}

func (e *fakeEngine) Init() error {
	e.initCalls++
	return e.initErr
}

func (e *fakeEngine) Parse(data []byte) (Document, error) {
	e.parseCalls++
	if e.parseErr != nil {
		return nil, e.parseErr
	}
	return &fakeDocument{eng: e}, nil
}

func (e *fakeEngine) NewRenderer(debug bool) Renderer {
	return &fakeRenderer{eng: e}
}

func (e *fakeEngine) FileExtensions() []string {
	return []string{".fake"}
}

type fakeDocument struct {
	eng      *fakeEngine
	released int
}

func (d *fakeDocument) ArtboardNames() []string {
	return d.eng.artboards
}

func (d *fakeDocument) Artboard(name string) (Artboard, bool) {
	if name == "" {
		name = d.eng.artboards[0]
	}
	for _, n := range d.eng.artboards {
		if n == name {
			return &fakeArtboard{doc: d, name: n}, true
		}
	}
	return nil, false
}

func (d *fakeDocument) Release() {
	d.released++
	d.eng.ev.add("release doc")
}

type fakeArtboard struct {
	doc      *fakeDocument
	name     string
	advances []float64
	released int
}

func (a *fakeArtboard) Name() string { return a.name }

func (a *fakeArtboard) Bounds() Rect { return a.doc.eng.bounds }

func (a *fakeArtboard) AnimationNames() []string { return a.doc.eng.anims }

func (a *fakeArtboard) StateMachineNames() []string { return a.doc.eng.machines }

func (a *fakeArtboard) NewAnimation(name string) (AnimationInstance, bool) {
	if name == "" {
		if len(a.doc.eng.anims) == 0 {
			return nil, false
		}
		name = a.doc.eng.anims[0]
	}
	for _, n := range a.doc.eng.anims {
		if n == name {
			return &fakeAnim{ab: a, name: n}, true
		}
	}
	return nil, false
}

func (a *fakeArtboard) NewStateMachine(name string) (StateMachineInstance, bool) {
	if name == "" {
		if len(a.doc.eng.machines) == 0 {
			return nil, false
		}
		name = a.doc.eng.machines[0]
	}
	for _, n := range a.doc.eng.machines {
		if n == name {
			return &fakeMachine{ab: a, name: n, inputs: a.doc.eng.inputs}, true
		}
	}
	return nil, false
}

func (a *fakeArtboard) Advance(dt float64) {
	a.advances = append(a.advances, dt)
	a.doc.eng.ev.add("advance artboard")
}

func (a *fakeArtboard) Release() {
	a.released++
	a.doc.eng.ev.add("release artboard " + a.name)
}

type fakeAnim struct {
	ab       *fakeArtboard
	name     string
	advances []float64
	applies  []float64
	released int
}

func (f *fakeAnim) Name() string { return f.name }

func (f *fakeAnim) Advance(dt float64) {
	f.advances = append(f.advances, dt)
	f.ab.doc.eng.ev.add("advance anim " + f.name)
}

func (f *fakeAnim) Apply(weight float64) {
	f.applies = append(f.applies, weight)
}

func (f *fakeAnim) Release() {
	f.released++
	f.ab.doc.eng.ev.add("release anim " + f.name)
}

type fakeMachine struct {
	ab       *fakeArtboard
	name     string
	inputs   []*fakeInput
	queued   [][]string // state changes reported per advance
	advances []float64
	pointer  []string
	released int
}

func (m *fakeMachine) Name() string { return m.name }

func (m *fakeMachine) Advance(dt float64) int {
	m.advances = append(m.advances, dt)
	m.ab.doc.eng.ev.add("advance machine " + m.name)
	if len(m.queued) == 0 {
		return 0
	}
	n := len(m.queued[0])
	return n
}

func (m *fakeMachine) ChangedState(i int) string {
	return m.queued[0][i]
}

func (m *fakeMachine) Inputs() []Input {
	ins := make([]Input, len(m.inputs))
	for i, in := range m.inputs {
		ins[i] = in
	}
	return ins
}

func (m *fakeMachine) PointerDown(x, y float64) { m.pointer = append(m.pointer, "down") }
func (m *fakeMachine) PointerMove(x, y float64) { m.pointer = append(m.pointer, "move") }
func (m *fakeMachine) PointerUp(x, y float64)   { m.pointer = append(m.pointer, "up") }

func (m *fakeMachine) Release() {
	m.released++
	m.ab.doc.eng.ev.add("release machine " + m.name)
}

type fakeInput struct {
	name  string
	typ   InputType
	b     bool
	n     float64
	fired int
}

func (in *fakeInput) Name() string    { return in.name }
func (in *fakeInput) Type() InputType { return in.typ }
func (in *fakeInput) Bool() bool      { return in.b }
func (in *fakeInput) SetBool(v bool)  { in.b = v }
func (in *fakeInput) Number() float64 { return in.n }

func (in *fakeInput) SetNumber(v float64) { in.n = v }
func (in *fakeInput) Fire()               { in.fired++ }

type fakeRenderer struct {
	eng      *fakeEngine
	draws    int
	lastTf   Transform
	released int
}

func (r *fakeRenderer) Draw(ab Artboard, dst *ebiten.Image, tf Transform) {
	r.draws++
	r.lastTf = tf
	r.eng.ev.add("render")
}

func (r *fakeRenderer) Release() {
	r.released++
	r.eng.ev.add("release renderer")
}

// manualResolver holds deliveries until the test releases them, modeling an
// in-flight fetch.
type manualResolver struct {
	pending map[string][]func(data []byte, err error)
	order   []string
}

func newManualResolver() *manualResolver {
	return &manualResolver{pending: map[string][]func([]byte, error){}}
}

func (r *manualResolver) Resolve(key string, deliver func(data []byte, err error)) {
	r.pending[key] = append(r.pending[key], deliver)
	r.order = append(r.order, key)
}

func (r *manualResolver) complete(key string, data []byte, err error) {
	for _, deliver := range r.pending[key] {
		deliver(data, err)
	}
	delete(r.pending, key)
}

// bytesResolver delivers canned bytes synchronously.
type bytesResolver map[string][]byte

func (r bytesResolver) Resolve(key string, deliver func(data []byte, err error)) {
	data, ok := r[key]
	if !ok {
		deliver(nil, errorString("no such asset: "+key))
		return
	}
	deliver(data, nil)
}
