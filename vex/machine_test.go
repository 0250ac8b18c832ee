package vex

import (
	"math"
	"testing"

	"github.com/phanxgames/rivet"
)

const machineDoc = `{
	"artboards": [{
		"name": "main", "width": 100, "height": 100,
		"shapes": [{"name": "box", "width": 10, "height": 10}],
		"animations": [
			{"name": "idle", "duration": 1,
				"channels": [{"shape": "box", "property": "x", "keys": [{"t": 0, "v": 0}, {"t": 1, "v": 0}]}]},
			{"name": "run", "duration": 1,
				"channels": [{"shape": "box", "property": "x", "keys": [{"t": 0, "v": 100}, {"t": 1, "v": 100}]}]}
		],
		"machines": [{
			"name": "controls",
			"inputs": [
				{"name": "go", "type": "boolean"},
				{"name": "speed", "type": "number", "value": 1},
				{"name": "jump", "type": "trigger"}
			],
			"states": [
				{"name": "Idle", "animation": "idle"},
				{"name": "Run", "animation": "run"},
				{"name": "Sprint", "animation": "run"}
			],
			"transitions": [
				{"from": "Idle", "to": "Run", "input": "go", "op": "==", "value": true},
				{"from": "Run", "to": "Idle", "input": "go", "op": "==", "value": false},
				{"from": "Run", "to": "Sprint", "input": "speed", "op": ">", "value": 5},
				{"from": "Sprint", "to": "Idle", "input": "jump", "op": "fired"}
			]
		}]
	}]
}`

func testMachine(t *testing.T, src string) (*document, *artboard, *machine) {
	t.Helper()
	doc, ab := testArtboard(t, src)
	sm, ok := ab.NewStateMachine("")
	if !ok {
		t.Fatalf("no default state machine")
	}
	return doc, ab, sm.(*machine)
}

func machineInputByName(t *testing.T, m *machine, name string) rivet.Input {
	t.Helper()
	for _, in := range m.Inputs() {
		if in.Name() == name {
			return in
		}
	}
	t.Fatalf("input %q not found", name)
	return nil
}

func TestMachineInputDefaults(t *testing.T) {
	doc, ab, m := testMachine(t, machineDoc)
	defer doc.Release()
	defer ab.Release()
	defer m.Release()

	if got := machineInputByName(t, m, "go"); got.Type() != rivet.InputBoolean || got.Bool() {
		t.Errorf("go: type %v value %v, want boolean false", got.Type(), got.Bool())
	}
	if got := machineInputByName(t, m, "speed"); got.Type() != rivet.InputNumber || got.Number() != 1 {
		t.Errorf("speed: type %v value %v, want number 1", got.Type(), got.Number())
	}
	if got := machineInputByName(t, m, "jump"); got.Type() != rivet.InputTrigger {
		t.Errorf("jump: type %v, want trigger", got.Type())
	}
}

func TestMachineBooleanTransition(t *testing.T) {
	doc, ab, m := testMachine(t, machineDoc)
	defer doc.Release()
	defer ab.Release()
	defer m.Release()

	if n := m.Advance(0.016); n != 0 {
		t.Fatalf("%d changes with no inputs set, want 0", n)
	}
	if m.current.name != "Idle" {
		t.Fatalf("initial state = %q", m.current.name)
	}

	machineInputByName(t, m, "go").SetBool(true)
	n := m.Advance(0.016)
	if n != 1 || m.ChangedState(0) != "Run" {
		t.Fatalf("changes = %d (%v), want 1 change to Run", n, m.changed)
	}

	// The run timeline drives the shape now.
	if got := ab.shapes[0].x; math.Abs(got-100) > tol {
		t.Errorf("x = %g in Run, want 100", got)
	}

	machineInputByName(t, m, "go").SetBool(false)
	if n := m.Advance(0.016); n != 1 || m.ChangedState(0) != "Idle" {
		t.Errorf("did not return to Idle: %v", m.changed)
	}
}

func TestMachineNumberTransition(t *testing.T) {
	doc, ab, m := testMachine(t, machineDoc)
	defer doc.Release()
	defer ab.Release()
	defer m.Release()

	machineInputByName(t, m, "go").SetBool(true)
	m.Advance(0.016) // Idle -> Run
	machineInputByName(t, m, "speed").SetNumber(6)
	if n := m.Advance(0.016); n != 1 || m.current.name != "Sprint" {
		t.Errorf("state = %q after speed > 5, want Sprint", m.current.name)
	}
}

func TestMachineTriggerConsumedOnce(t *testing.T) {
	doc, ab, m := testMachine(t, machineDoc)
	defer doc.Release()
	defer ab.Release()
	defer m.Release()

	machineInputByName(t, m, "go").SetBool(true)
	m.Advance(0.016)
	machineInputByName(t, m, "speed").SetNumber(6)
	m.Advance(0.016) // now in Sprint; go is still true

	machineInputByName(t, m, "speed").SetNumber(1)
	machineInputByName(t, m, "jump").Fire()
	n := m.Advance(0.016)
	// The trigger sends Sprint -> Idle; go=true immediately chains to Run.
	// The consumed trigger must not fire a second transition itself.
	if n != 2 || m.ChangedState(0) != "Idle" || m.ChangedState(1) != "Run" {
		t.Fatalf("changes = %v, want [Idle Run]", m.changed)
	}

	// A stale trigger does not linger into the next advance.
	machineInputByName(t, m, "go").SetBool(false)
	m.Advance(0.016) // Run -> Idle
	if m.current.name != "Idle" {
		t.Fatalf("state = %q, want Idle", m.current.name)
	}
}

func TestMachineChainBounded(t *testing.T) {
	// Two states with mutual unconditional transitions would ping forever;
	// one advance must stop at the hop limit.
	doc, ab, m := testMachine(t, `{"artboards": [{"name": "a", "width": 10, "height": 10,
		"machines": [{"name": "m",
			"states": [{"name": "A"}, {"name": "B"}],
			"transitions": [
				{"from": "A", "to": "B"},
				{"from": "B", "to": "A"}
			]}]}]}`)
	defer doc.Release()
	defer ab.Release()
	defer m.Release()

	if n := m.Advance(0.016); n != maxChainedTransitions {
		t.Errorf("changes = %d, want hop limit %d", n, maxChainedTransitions)
	}
}

func TestMachineBlendCrossfades(t *testing.T) {
	src := `{"artboards": [{"name": "a", "width": 10, "height": 10,
		"shapes": [{"name": "s"}],
		"animations": [
			{"name": "zero", "duration": 1, "channels": [{"shape": "s", "property": "x", "keys": [{"t": 0, "v": 0}, {"t": 1, "v": 0}]}]},
			{"name": "ten", "duration": 1, "channels": [{"shape": "s", "property": "x", "keys": [{"t": 0, "v": 10}, {"t": 1, "v": 10}]}]}
		],
		"machines": [{"name": "m",
			"inputs": [{"name": "go", "type": "boolean"}],
			"states": [{"name": "A", "animation": "zero"}, {"name": "B", "animation": "ten"}],
			"transitions": [{"from": "A", "to": "B", "input": "go", "op": "==", "value": true, "duration": 1}]}]}]}`
	doc, ab, m := testMachine(t, src)
	defer doc.Release()
	defer ab.Release()
	defer m.Release()

	machineInputByName(t, m, "go").SetBool(true)
	m.Advance(0.5) // halfway through the 1s crossfade
	if m.blend == nil {
		t.Fatalf("no active blend after a blended transition")
	}
	got := ab.shapes[0].x
	if got <= 0 || got >= 10 {
		t.Fatalf("x = %g mid-blend, want strictly between 0 and 10", got)
	}

	m.Advance(1) // past the crossfade
	if m.blend != nil || m.prevAnim != nil {
		t.Errorf("blend state not cleaned up")
	}
	if got := ab.shapes[0].x; math.Abs(got-10) > tol {
		t.Errorf("x = %g after blend, want 10", got)
	}
}

const pointerDoc = `{"artboards": [{"name": "a", "width": 100, "height": 100,
	"machines": [{"name": "m",
		"inputs": [
			{"name": "pointerX", "type": "number"},
			{"name": "pointerY", "type": "number"},
			{"name": "pressed", "type": "boolean"},
			{"name": "hover", "type": "boolean"},
			{"name": "press", "type": "trigger"}
		],
		"states": [{"name": "Idle"}, {"name": "Pressed"}],
		"transitions": [{"from": "Idle", "to": "Pressed", "input": "press", "op": "fired"}]}]}]}`

func TestMachinePointerReservedInputs(t *testing.T) {
	doc, ab, m := testMachine(t, pointerDoc)
	defer doc.Release()
	defer ab.Release()
	defer m.Release()

	m.PointerMove(40, 60)
	if got := machineInputByName(t, m, "pointerX").Number(); got != 40 {
		t.Errorf("pointerX = %g, want 40", got)
	}
	if !machineInputByName(t, m, "hover").Bool() {
		t.Errorf("hover not set inside bounds")
	}
	m.PointerMove(120, 60)
	if machineInputByName(t, m, "hover").Bool() {
		t.Errorf("hover still set outside bounds")
	}

	m.PointerDown(50, 50)
	if !machineInputByName(t, m, "pressed").Bool() {
		t.Errorf("pressed not set")
	}
	if n := m.Advance(0.016); n != 1 || m.current.name != "Pressed" {
		t.Errorf("press trigger did not drive the transition: state %q", m.current.name)
	}

	m.PointerUp(50, 50)
	if machineInputByName(t, m, "pressed").Bool() {
		t.Errorf("pressed still set after up")
	}
}

func TestMachinePointerOutsideBoundsNoTrigger(t *testing.T) {
	doc, ab, m := testMachine(t, pointerDoc)
	defer doc.Release()
	defer ab.Release()
	defer m.Release()

	m.PointerDown(150, 150)
	if machineInputByName(t, m, "pressed").Bool() {
		t.Errorf("pressed set for an outside press")
	}
	if n := m.Advance(0.016); n != 0 {
		t.Errorf("outside press changed state")
	}
}

func TestMachineWrongTypedSetsIgnored(t *testing.T) {
	doc, ab, m := testMachine(t, machineDoc)
	defer doc.Release()
	defer ab.Release()
	defer m.Release()

	machineInputByName(t, m, "jump").SetBool(true)
	machineInputByName(t, m, "go").SetNumber(3)
	machineInputByName(t, m, "speed").Fire()
	if machineInputByName(t, m, "go").Bool() {
		t.Errorf("SetNumber flipped a boolean")
	}
	if n := m.Advance(0.016); n != 0 {
		t.Errorf("mismatched input writes caused transitions")
	}
}
