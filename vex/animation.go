package vex

import "log"

// animation is a live timeline instance: a time cursor over an immutable
// animation definition, bound to one artboard.
type animation struct {
	ab  *artboard
	def *animationDef

	time     float64
	forward  bool // ping-pong direction
	done     bool // one-shot completion
	released bool
}

func newAnimation(ab *artboard, def *animationDef) *animation {
	return &animation{ab: ab, def: def, forward: true}
}

// Name returns the timeline's name.
func (an *animation) Name() string {
	return an.def.name
}

// Advance moves the cursor by dt seconds under the definition's play mode.
func (an *animation) Advance(dt float64) {
	if an.released || an.done {
		return
	}
	dur := an.def.duration
	switch an.def.mode {
	case modeOneShot:
		an.time += dt
		if an.time >= dur {
			an.time = dur
			an.done = true
		}
	case modeLoop:
		an.time += dt
		for an.time >= dur {
			an.time -= dur
		}
	case modePingPong:
		if an.forward {
			an.time += dt
			for an.time > dur {
				an.time = 2*dur - an.time
				an.forward = false
			}
		} else {
			an.time -= dt
			for an.time < 0 {
				an.time = -an.time
				an.forward = true
			}
		}
	}
}

// Done reports one-shot completion. Loops and ping-pongs never finish.
func (an *animation) Done() bool {
	return an.done
}

// Apply samples every channel at the current cursor and writes the values
// into the artboard's shape state at the given blend weight.
func (an *animation) Apply(weight float64) {
	if an.released {
		return
	}
	if weight <= 0 {
		return
	}
	if weight > 1 {
		weight = 1
	}
	for i := range an.def.channels {
		ch := &an.def.channels[i]
		v := sampleChannel(ch, an.time)
		dst := an.ab.shapes[ch.shape].prop(ch.property)
		if weight >= 1 {
			*dst = v
		} else {
			*dst += (v - *dst) * weight
		}
	}
}

// Release frees the instance.
func (an *animation) Release() {
	if an.released {
		log.Printf("vex: animation %q released twice", an.def.name)
		return
	}
	an.released = true
}

// sampleChannel evaluates a channel at time t. Before the first key the
// first value holds; after the last key the last value holds; between keys
// the segment's easing interpolates.
func sampleChannel(ch *channelDef, t float64) float64 {
	if t <= ch.start {
		return ch.first
	}
	if t >= ch.end {
		return ch.last
	}
	for i := range ch.segments {
		seg := &ch.segments[i]
		if t <= seg.t1 {
			span := seg.t1 - seg.t0
			if span <= 0 {
				return seg.v1
			}
			return float64(seg.fn(
				float32(t-seg.t0),
				float32(seg.v0),
				float32(seg.v1-seg.v0),
				float32(span),
			))
		}
	}
	return ch.last
}
