package vex

import (
	"log"

	"github.com/phanxgames/rivet"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Reserved input names the pointer passthrough drives, when a machine
// declares them: "pointerX"/"pointerY" (numbers, artboard coords), "pressed"
// and "hover" (booleans), "press" and "release" (triggers, fired on
// down/up inside the artboard bounds).
const (
	inputPointerX = "pointerX"
	inputPointerY = "pointerY"
	inputPressed  = "pressed"
	inputHover    = "hover"
	inputPress    = "press"
	inputRelease  = "release"
)

// machineInput is a live typed input value. Calls that do not match the
// declared type are ignored.
type machineInput struct {
	def   *inputDef
	b     bool
	n     float64
	fired bool
}

func (in *machineInput) Name() string          { return in.def.name }
func (in *machineInput) Type() rivet.InputType { return in.def.typ }

func (in *machineInput) Bool() bool {
	return in.b
}

func (in *machineInput) SetBool(v bool) {
	if in.def.typ == rivet.InputBoolean {
		in.b = v
	}
}

func (in *machineInput) Number() float64 {
	return in.n
}

func (in *machineInput) SetNumber(v float64) {
	if in.def.typ == rivet.InputNumber {
		in.n = v
	}
}

func (in *machineInput) Fire() {
	if in.def.typ == rivet.InputTrigger {
		in.fired = true
	}
}

// maxChainedTransitions bounds how many states one advance may pass through,
// so cyclic unconditional transitions cannot spin forever.
const maxChainedTransitions = 8

// machine is a live state machine instance bound to one artboard. It owns
// the timeline instances of its current (and, while blending, previous)
// state.
type machine struct {
	ab  *artboard
	def *machineDef

	inputs  []*machineInput
	exposed []rivet.Input

	current  *stateDef
	anim     *animation // current state's timeline, nil for none
	prevAnim *animation // outgoing timeline while blending
	blend    *gween.Tween

	changed  []string
	released bool
}

func newMachine(ab *artboard, def *machineDef) *machine {
	m := &machine{ab: ab, def: def, current: def.initial}
	m.inputs = make([]*machineInput, len(def.inputs))
	m.exposed = make([]rivet.Input, len(def.inputs))
	for i := range def.inputs {
		in := &machineInput{
			def: &def.inputs[i],
			b:   def.inputs[i].boolValue,
			n:   def.inputs[i].numberValue,
		}
		m.inputs[i] = in
		m.exposed[i] = in
	}
	if def.initial.animation != nil {
		m.anim = newAnimation(ab, def.initial.animation)
	}
	return m
}

// Name returns the machine's name.
func (m *machine) Name() string {
	return m.def.name
}

// Inputs returns the machine's inputs in definition order.
func (m *machine) Inputs() []rivet.Input {
	return m.exposed
}

// Advance evaluates transitions (consuming triggers), blends and advances
// the active timelines, and returns the number of state changes this step.
func (m *machine) Advance(dt float64) int {
	if m.released {
		return 0
	}
	m.changed = m.changed[:0]

	for hop := 0; hop < maxChainedTransitions; hop++ {
		tr := m.matchTransition()
		if tr == nil {
			break
		}
		m.enterState(tr)
	}
	// Triggers last one evaluation pass.
	for _, in := range m.inputs {
		in.fired = false
	}

	weight := 1.0
	if m.blend != nil {
		v, finished := m.blend.Update(float32(dt))
		weight = float64(v)
		if finished {
			m.blend = nil
			if m.prevAnim != nil {
				m.prevAnim.Release()
				m.prevAnim = nil
			}
		}
	}
	if m.prevAnim != nil {
		m.prevAnim.Advance(dt)
		m.prevAnim.Apply(1)
	}
	if m.anim != nil {
		m.anim.Advance(dt)
		m.anim.Apply(weight)
	}
	return len(m.changed)
}

// ChangedState returns the i-th state entered during the last Advance.
func (m *machine) ChangedState(i int) string {
	return m.changed[i]
}

// matchTransition returns the first transition out of the current state
// whose condition holds, or nil.
func (m *machine) matchTransition() *transitionDef {
	for i := range m.def.transitions {
		tr := &m.def.transitions[i]
		if tr.from != nil && tr.from != m.current {
			continue
		}
		if tr.to == m.current {
			continue
		}
		if m.conditionHolds(tr) {
			return tr
		}
	}
	return nil
}

func (m *machine) conditionHolds(tr *transitionDef) bool {
	if tr.input < 0 {
		return true
	}
	in := m.inputs[tr.input]
	switch tr.op {
	case opFired:
		return in.fired
	case opEq:
		if in.def.typ == rivet.InputBoolean {
			return in.b == tr.boolRef
		}
		return in.n == tr.numberRef
	case opNe:
		if in.def.typ == rivet.InputBoolean {
			return in.b != tr.boolRef
		}
		return in.n != tr.numberRef
	case opLt:
		return in.n < tr.numberRef
	case opLe:
		return in.n <= tr.numberRef
	case opGt:
		return in.n > tr.numberRef
	default:
		return in.n >= tr.numberRef
	}
}

// enterState records the change and swaps timelines, starting a crossfade
// when the transition declares a blend duration.
func (m *machine) enterState(tr *transitionDef) {
	// Consume the trigger that fired this transition so one pulse cannot
	// drive two hops.
	if tr.op == opFired && tr.input >= 0 {
		m.inputs[tr.input].fired = false
	}

	m.current = tr.to
	m.changed = append(m.changed, tr.to.name)

	if m.prevAnim != nil {
		m.prevAnim.Release()
	}
	m.prevAnim = nil
	outgoing := m.anim
	m.anim = nil
	if tr.to.animation != nil {
		m.anim = newAnimation(m.ab, tr.to.animation)
	}

	if tr.blend > 0 && outgoing != nil && m.anim != nil {
		m.prevAnim = outgoing
		m.blend = gween.New(0, 1, float32(tr.blend), ease.Linear)
		return
	}
	if outgoing != nil {
		outgoing.Release()
	}
	m.blend = nil
}

// Pointer passthrough: drives the reserved inputs a machine declares. Press
// and release triggers only fire inside the artboard's native bounds.
func (m *machine) PointerDown(x, y float64) {
	m.setPointer(x, y)
	inside := m.ab.def.bounds.Contains(x, y)
	if in := m.input(inputPressed); in != nil {
		in.SetBool(inside)
	}
	if inside {
		if in := m.input(inputPress); in != nil {
			in.Fire()
		}
	}
}

func (m *machine) PointerMove(x, y float64) {
	m.setPointer(x, y)
	if in := m.input(inputHover); in != nil {
		in.SetBool(m.ab.def.bounds.Contains(x, y))
	}
}

func (m *machine) PointerUp(x, y float64) {
	m.setPointer(x, y)
	if in := m.input(inputPressed); in != nil {
		in.SetBool(false)
	}
	if m.ab.def.bounds.Contains(x, y) {
		if in := m.input(inputRelease); in != nil {
			in.Fire()
		}
	}
}

func (m *machine) setPointer(x, y float64) {
	if in := m.input(inputPointerX); in != nil {
		in.SetNumber(x)
	}
	if in := m.input(inputPointerY); in != nil {
		in.SetNumber(y)
	}
}

func (m *machine) input(name string) *machineInput {
	for _, in := range m.inputs {
		if in.def.name == name {
			return in
		}
	}
	return nil
}

// Release frees the machine and the timelines it owns.
func (m *machine) Release() {
	if m.released {
		log.Printf("vex: state machine %q released twice", m.def.name)
		return
	}
	m.released = true
	if m.anim != nil {
		m.anim.Release()
		m.anim = nil
	}
	if m.prevAnim != nil {
		m.prevAnim.Release()
		m.prevAnim = nil
	}
}
