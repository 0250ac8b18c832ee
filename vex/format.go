package vex

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/phanxgames/rivet"
	"github.com/tanema/gween/ease"
)

// Document format: a .vex file is a JSON document declaring artboards, each
// with vector shapes, keyframe timeline animations over shape properties,
// and state machines with typed inputs.

type documentSpec struct {
	Artboards []artboardSpec `json:"artboards"`
}

type artboardSpec struct {
	Name       string          `json:"name"`
	X          float64         `json:"x"`
	Y          float64         `json:"y"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Shapes     []shapeSpec     `json:"shapes"`
	Animations []animationSpec `json:"animations"`
	Machines   []machineSpec   `json:"machines"`
}

type shapeSpec struct {
	Name     string  `json:"name"`
	Kind     string  `json:"kind"` // "rect", "ellipse", "path"
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	// Zero scale and opacity default to 1.
	ScaleX      float64      `json:"scaleX"`
	ScaleY      float64      `json:"scaleY"`
	Opacity     float64      `json:"opacity"`
	Fill        string       `json:"fill"`
	Stroke      string       `json:"stroke"`
	StrokeWidth float64      `json:"strokeWidth"`
	Points      [][2]float64 `json:"points"` // path kind only, local coords
	Closed      bool         `json:"closed"`
}

type animationSpec struct {
	Name     string        `json:"name"`
	Duration float64       `json:"duration"` // seconds
	Mode     string        `json:"mode"`     // "loop" (default), "pingpong", "oneshot"
	Channels []channelSpec `json:"channels"`
}

type channelSpec struct {
	Shape    string    `json:"shape"`
	Property string    `json:"property"`
	Keys     []keySpec `json:"keys"`
}

type keySpec struct {
	T float64 `json:"t"`
	V float64 `json:"v"`
	// Ease names the easing of the segment leaving this key; "" is linear.
	Ease string `json:"ease"`
}

type machineSpec struct {
	Name        string           `json:"name"`
	Initial     string           `json:"initial"` // default: first state
	Inputs      []inputSpec      `json:"inputs"`
	States      []stateSpec      `json:"states"`
	Transitions []transitionSpec `json:"transitions"`
}

type inputSpec struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"` // "boolean", "trigger", "number"
	Value any     `json:"value"`
}

type stateSpec struct {
	Name      string `json:"name"`
	Animation string `json:"animation"` // timeline active in this state, "" for none
}

type transitionSpec struct {
	From     string  `json:"from"` // "" or "*" matches any state
	To       string  `json:"to"`
	Input    string  `json:"input"`
	Op       string  `json:"op"` // "==", "!=", "<", "<=", ">", ">=", "fired"
	Value    any     `json:"value"`
	Duration float64 `json:"duration"` // blend seconds
}

// --- Compiled definitions (immutable after parse) ---

type shapeKind uint8

const (
	shapeRect shapeKind = iota
	shapeEllipse
	shapePath
)

// shapeProps is the animatable property set of one shape.
type shapeProps struct {
	x, y          float64
	width, height float64
	rotation      float64
	scaleX        float64
	scaleY        float64
	opacity       float64
}

type shapeDef struct {
	name        string
	kind        shapeKind
	base        shapeProps
	fill        rgba
	hasFill     bool
	stroke      rgba
	hasStroke   bool
	strokeWidth float64
	points      [][2]float64
	closed      bool
}

type segment struct {
	t0, t1 float64
	v0, v1 float64
	fn     ease.TweenFunc
}

type channelDef struct {
	shape    int // index into artboardDef.shapes
	property property
	segments []segment
	first    float64 // value before the first key
	last     float64 // value after the last key
	start    float64 // first key time
	end      float64 // last key time
}

type playMode uint8

const (
	modeLoop playMode = iota
	modePingPong
	modeOneShot
)

type animationDef struct {
	name     string
	duration float64
	mode     playMode
	channels []channelDef
}

type inputDef struct {
	name        string
	typ         rivet.InputType
	boolValue   bool
	numberValue float64
}

type stateDef struct {
	name      string
	animation *animationDef // nil for none
}

type condOp uint8

const (
	opEq condOp = iota
	opNe
	opLt
	opLe
	opGt
	opGe
	opFired
)

type transitionDef struct {
	from      *stateDef // nil matches any
	to        *stateDef
	input     int // index into machineDef.inputs, -1 for unconditional
	op        condOp
	boolRef   bool
	numberRef float64
	blend     float64
}

type machineDef struct {
	name        string
	initial     *stateDef
	inputs      []inputDef
	states      []*stateDef
	transitions []transitionDef
}

type artboardDef struct {
	name       string
	bounds     rivet.Rect
	shapes     []shapeDef
	animations []*animationDef
	machines   []*machineDef
}

// property identifies one animatable shape property.
type property uint8

const (
	propX property = iota
	propY
	propWidth
	propHeight
	propRotation
	propScaleX
	propScaleY
	propOpacity
)

var propertyNames = map[string]property{
	"x":        propX,
	"y":        propY,
	"width":    propWidth,
	"height":   propHeight,
	"rotation": propRotation,
	"scaleX":   propScaleX,
	"scaleY":   propScaleY,
	"opacity":  propOpacity,
}

// rgba is a straight-alpha color with components in [0, 1].
type rgba struct {
	r, g, b, a float32
}

// parseColor parses "#rgb", "#rrggbb", or "#rrggbbaa".
func parseColor(s string) (rgba, error) {
	if len(s) == 0 || s[0] != '#' {
		return rgba{}, fmt.Errorf("vex: color %q: want #rrggbb", s)
	}
	hex := s[1:]
	var r, g, b, a uint8 = 0, 0, 0, 0xff
	var err error
	switch len(hex) {
	case 3:
		_, err = fmt.Sscanf(hex, "%1x%1x%1x", &r, &g, &b)
		r, g, b = r*0x11, g*0x11, b*0x11
	case 6:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	case 8:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x%02x", &r, &g, &b, &a)
	default:
		return rgba{}, fmt.Errorf("vex: color %q: bad length", s)
	}
	if err != nil {
		return rgba{}, fmt.Errorf("vex: color %q: %w", s, err)
	}
	return rgba{
		r: float32(r) / 255,
		g: float32(g) / 255,
		b: float32(b) / 255,
		a: float32(a) / 255,
	}, nil
}

// compile validates a parsed spec and builds the immutable definitions.
func compile(spec documentSpec, easings map[string]ease.TweenFunc) ([]*artboardDef, error) {
	if len(spec.Artboards) == 0 {
		return nil, fmt.Errorf("vex: document has no artboards")
	}
	defs := make([]*artboardDef, 0, len(spec.Artboards))
	seen := make(map[string]bool)
	for _, as := range spec.Artboards {
		if as.Name == "" {
			return nil, fmt.Errorf("vex: artboard without a name")
		}
		if seen[as.Name] {
			return nil, fmt.Errorf("vex: duplicate artboard %q", as.Name)
		}
		seen[as.Name] = true
		def, err := compileArtboard(as, easings)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func compileArtboard(as artboardSpec, easings map[string]ease.TweenFunc) (*artboardDef, error) {
	if as.Width <= 0 || as.Height <= 0 {
		return nil, fmt.Errorf("vex: artboard %q: non-positive bounds", as.Name)
	}
	def := &artboardDef{
		name:   as.Name,
		bounds: rivet.Rect{X: as.X, Y: as.Y, Width: as.Width, Height: as.Height},
	}

	shapeIndex := make(map[string]int, len(as.Shapes))
	for i, ss := range as.Shapes {
		sd, err := compileShape(as.Name, ss)
		if err != nil {
			return nil, err
		}
		if ss.Name != "" {
			if _, dup := shapeIndex[ss.Name]; dup {
				return nil, fmt.Errorf("vex: artboard %q: duplicate shape %q", as.Name, ss.Name)
			}
			shapeIndex[ss.Name] = i
		}
		def.shapes = append(def.shapes, sd)
	}

	animIndex := make(map[string]*animationDef, len(as.Animations))
	for _, ans := range as.Animations {
		ad, err := compileAnimation(as.Name, ans, shapeIndex, easings)
		if err != nil {
			return nil, err
		}
		if _, dup := animIndex[ad.name]; dup {
			return nil, fmt.Errorf("vex: artboard %q: duplicate animation %q", as.Name, ad.name)
		}
		animIndex[ad.name] = ad
		def.animations = append(def.animations, ad)
	}

	for _, ms := range as.Machines {
		md, err := compileMachine(as.Name, ms, animIndex)
		if err != nil {
			return nil, err
		}
		def.machines = append(def.machines, md)
	}
	return def, nil
}

func compileShape(artboard string, ss shapeSpec) (shapeDef, error) {
	sd := shapeDef{
		name: ss.Name,
		base: shapeProps{
			x: ss.X, y: ss.Y,
			width: ss.Width, height: ss.Height,
			rotation: ss.Rotation,
			scaleX:   defaultOne(ss.ScaleX),
			scaleY:   defaultOne(ss.ScaleY),
			opacity:  defaultOne(ss.Opacity),
		},
		strokeWidth: ss.StrokeWidth,
		points:      ss.Points,
		closed:      ss.Closed,
	}
	switch ss.Kind {
	case "rect", "":
		sd.kind = shapeRect
	case "ellipse":
		sd.kind = shapeEllipse
	case "path":
		sd.kind = shapePath
		if len(ss.Points) < 2 {
			return sd, fmt.Errorf("vex: artboard %q: path shape %q needs at least 2 points", artboard, ss.Name)
		}
	default:
		return sd, fmt.Errorf("vex: artboard %q: unknown shape kind %q", artboard, ss.Kind)
	}
	if ss.Fill != "" {
		c, err := parseColor(ss.Fill)
		if err != nil {
			return sd, fmt.Errorf("vex: artboard %q shape %q: %w", artboard, ss.Name, err)
		}
		sd.fill, sd.hasFill = c, true
	}
	if ss.Stroke != "" {
		c, err := parseColor(ss.Stroke)
		if err != nil {
			return sd, fmt.Errorf("vex: artboard %q shape %q: %w", artboard, ss.Name, err)
		}
		sd.stroke, sd.hasStroke = c, true
		if sd.strokeWidth <= 0 {
			sd.strokeWidth = 1
		}
	}
	return sd, nil
}

func compileAnimation(artboard string, ans animationSpec, shapes map[string]int, easings map[string]ease.TweenFunc) (*animationDef, error) {
	if ans.Name == "" {
		return nil, fmt.Errorf("vex: artboard %q: animation without a name", artboard)
	}
	if ans.Duration <= 0 {
		return nil, fmt.Errorf("vex: animation %q: non-positive duration", ans.Name)
	}
	ad := &animationDef{name: ans.Name, duration: ans.Duration}
	switch ans.Mode {
	case "loop", "":
		ad.mode = modeLoop
	case "pingpong":
		ad.mode = modePingPong
	case "oneshot":
		ad.mode = modeOneShot
	default:
		return nil, fmt.Errorf("vex: animation %q: unknown mode %q", ans.Name, ans.Mode)
	}
	for _, cs := range ans.Channels {
		cd, err := compileChannel(ans.Name, cs, shapes, easings)
		if err != nil {
			return nil, err
		}
		ad.channels = append(ad.channels, cd)
	}
	return ad, nil
}

func compileChannel(anim string, cs channelSpec, shapes map[string]int, easings map[string]ease.TweenFunc) (channelDef, error) {
	var cd channelDef
	idx, ok := shapes[cs.Shape]
	if !ok {
		return cd, fmt.Errorf("vex: animation %q: channel targets unknown shape %q", anim, cs.Shape)
	}
	prop, ok := propertyNames[cs.Property]
	if !ok {
		return cd, fmt.Errorf("vex: animation %q: unknown property %q", anim, cs.Property)
	}
	if len(cs.Keys) == 0 {
		return cd, fmt.Errorf("vex: animation %q: channel %s.%s has no keys", anim, cs.Shape, cs.Property)
	}
	keys := append([]keySpec(nil), cs.Keys...)
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].T < keys[j].T })

	cd.shape = idx
	cd.property = prop
	cd.first = keys[0].V
	cd.last = keys[len(keys)-1].V
	cd.start = keys[0].T
	cd.end = keys[len(keys)-1].T
	for i := 0; i+1 < len(keys); i++ {
		fn, ok := easings[keys[i].Ease]
		if !ok {
			return cd, fmt.Errorf("vex: animation %q: unknown easing %q", anim, keys[i].Ease)
		}
		cd.segments = append(cd.segments, segment{
			t0: keys[i].T, t1: keys[i+1].T,
			v0: keys[i].V, v1: keys[i+1].V,
			fn: fn,
		})
	}
	return cd, nil
}

func compileMachine(artboard string, ms machineSpec, anims map[string]*animationDef) (*machineDef, error) {
	if ms.Name == "" {
		return nil, fmt.Errorf("vex: artboard %q: state machine without a name", artboard)
	}
	if len(ms.States) == 0 {
		return nil, fmt.Errorf("vex: state machine %q: no states", ms.Name)
	}
	md := &machineDef{name: ms.Name}

	inputIndex := make(map[string]int, len(ms.Inputs))
	for _, is := range ms.Inputs {
		id := inputDef{name: is.Name}
		switch is.Type {
		case "boolean":
			id.typ = rivet.InputBoolean
			if b, ok := is.Value.(bool); ok {
				id.boolValue = b
			}
		case "trigger":
			id.typ = rivet.InputTrigger
		case "number":
			id.typ = rivet.InputNumber
			if n, ok := is.Value.(float64); ok {
				id.numberValue = n
			}
		default:
			return nil, fmt.Errorf("vex: state machine %q: input %q has unknown type %q", ms.Name, is.Name, is.Type)
		}
		if _, dup := inputIndex[is.Name]; dup {
			return nil, fmt.Errorf("vex: state machine %q: duplicate input %q", ms.Name, is.Name)
		}
		inputIndex[is.Name] = len(md.inputs)
		md.inputs = append(md.inputs, id)
	}

	stateIndex := make(map[string]*stateDef, len(ms.States))
	for _, st := range ms.States {
		sd := &stateDef{name: st.Name}
		if st.Animation != "" {
			ad, ok := anims[st.Animation]
			if !ok {
				return nil, fmt.Errorf("vex: state machine %q: state %q references unknown animation %q", ms.Name, st.Name, st.Animation)
			}
			sd.animation = ad
		}
		if _, dup := stateIndex[st.Name]; dup {
			return nil, fmt.Errorf("vex: state machine %q: duplicate state %q", ms.Name, st.Name)
		}
		stateIndex[st.Name] = sd
		md.states = append(md.states, sd)
	}

	md.initial = md.states[0]
	if ms.Initial != "" {
		sd, ok := stateIndex[ms.Initial]
		if !ok {
			return nil, fmt.Errorf("vex: state machine %q: unknown initial state %q", ms.Name, ms.Initial)
		}
		md.initial = sd
	}

	for _, ts := range ms.Transitions {
		td := transitionDef{input: -1, blend: ts.Duration}
		if ts.From != "" && ts.From != "*" {
			sd, ok := stateIndex[ts.From]
			if !ok {
				return nil, fmt.Errorf("vex: state machine %q: transition from unknown state %q", ms.Name, ts.From)
			}
			td.from = sd
		}
		to, ok := stateIndex[ts.To]
		if !ok {
			return nil, fmt.Errorf("vex: state machine %q: transition to unknown state %q", ms.Name, ts.To)
		}
		td.to = to

		if ts.Input != "" {
			idx, ok := inputIndex[ts.Input]
			if !ok {
				return nil, fmt.Errorf("vex: state machine %q: transition on unknown input %q", ms.Name, ts.Input)
			}
			td.input = idx
			switch ts.Op {
			case "==":
				td.op = opEq
			case "!=":
				td.op = opNe
			case "<":
				td.op = opLt
			case "<=":
				td.op = opLe
			case ">":
				td.op = opGt
			case ">=":
				td.op = opGe
			case "fired":
				td.op = opFired
				if md.inputs[idx].typ != rivet.InputTrigger {
					return nil, fmt.Errorf("vex: state machine %q: 'fired' condition on non-trigger input %q", ms.Name, ts.Input)
				}
			default:
				return nil, fmt.Errorf("vex: state machine %q: unknown condition op %q", ms.Name, ts.Op)
			}
			switch v := ts.Value.(type) {
			case bool:
				td.boolRef = v
			case float64:
				td.numberRef = v
			case nil:
				// "fired" conditions and boolean "== true" shorthand.
				td.boolRef = true
			default:
				return nil, fmt.Errorf("vex: state machine %q: condition value %v has unsupported type", ms.Name, ts.Value)
			}
		}
		md.transitions = append(md.transitions, td)
	}
	return md, nil
}

func defaultOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// parseDocument unmarshals and compiles a .vex JSON document.
func parseDocument(data []byte, easings map[string]ease.TweenFunc) ([]*artboardDef, error) {
	var spec documentSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("vex: parse document: %w", err)
	}
	return compile(spec, easings)
}
