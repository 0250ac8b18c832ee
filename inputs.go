package rivet

import "log"

// InputField is a type-checked handle to one state machine input. It is a
// tagged three-case variant: exactly one of the boolean, trigger, or number
// surfaces is live, and operations against the wrong case are silently
// ignored. Mistyped input access is common during exploratory configuration
// and is never an error.
//
// The zero InputField is inert: all getters return zero values and all
// setters are no-ops.
type InputField struct {
	kind InputType
	src  Input
}

// newInputField wraps an engine input, capturing its type tag once.
func newInputField(src Input) InputField {
	return InputField{kind: src.Type(), src: src}
}

// Name returns the input's name, or "" for the zero field.
func (f InputField) Name() string {
	if f.src == nil {
		return ""
	}
	return f.src.Name()
}

// Type returns the input's type tag.
func (f InputField) Type() InputType {
	return f.kind
}

// Bool returns the value of a boolean input, or false for any other case.
func (f InputField) Bool() bool {
	if f.src == nil || f.kind != InputBoolean {
		return false
	}
	return f.src.Bool()
}

// SetBool sets a boolean input. No-op for triggers, numbers, and the zero
// field.
func (f InputField) SetBool(v bool) {
	if f.src == nil || f.kind != InputBoolean {
		return
	}
	f.src.SetBool(v)
}

// Number returns the value of a number input, or 0 for any other case.
func (f InputField) Number() float64 {
	if f.src == nil || f.kind != InputNumber {
		return 0
	}
	return f.src.Number()
}

// SetNumber sets a number input. No-op for triggers, booleans, and the zero
// field.
func (f InputField) SetNumber(v float64) {
	if f.src == nil || f.kind != InputNumber {
		return
	}
	f.src.SetNumber(v)
}

// Fire pulses a trigger input. No-op for booleans, numbers, and the zero
// field.
func (f InputField) Fire() {
	if f.src == nil || f.kind != InputTrigger {
		return
	}
	f.src.Fire()
}

// Value returns the input's current value: bool for booleans, float64 for
// numbers, nil for triggers and the zero field.
func (f InputField) Value() any {
	switch {
	case f.src == nil:
		return nil
	case f.kind == InputBoolean:
		return f.src.Bool()
	case f.kind == InputNumber:
		return f.src.Number()
	}
	return nil
}

// buildInputTable indexes every input of the given machines by name. Names
// are not guaranteed unique across machines; the last machine's input wins,
// which is logged under debug since it usually surprises.
func buildInputTable(machines []StateMachineInstance, debug bool) map[string]InputField {
	table := make(map[string]InputField)
	for _, m := range machines {
		for _, in := range m.Inputs() {
			name := in.Name()
			if debug {
				if prev, ok := table[name]; ok && prev.src != in {
					log.Printf("rivet: input %q defined by multiple state machines; using %q's", name, m.Name())
				}
			}
			table[name] = newInputField(in)
		}
	}
	return table
}
