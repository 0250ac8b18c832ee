// Package vex is the bundled vector animation engine for rivet.
//
// A .vex file is a JSON document declaring artboards. Each artboard has
// vector shapes (rectangles, ellipses, polyline paths) with animatable
// properties, keyframe timeline animations over those properties with gween
// easing curves, and state machines: typed inputs (boolean, trigger,
// number), states bound to timelines, and condition-driven transitions with
// optional crossfade blending.
//
// Vex implements the engine contract from the rivet root package and
// rasterizes through ebiten's vector package, so it runs anywhere ebiten
// does, with no cgo. It is both a usable engine for simple motion graphics
// and the reference for wrapping native engines behind the same interfaces.
//
// # Pointer conventions
//
// Machines opt into pointer data by declaring reserved input names:
// "pointerX" and "pointerY" (numbers, artboard coordinates), "pressed" and
// "hover" (booleans), "press" and "release" (triggers fired inside the
// artboard bounds).
//
// # A minimal document
//
//	{
//	  "artboards": [{
//	    "name": "pulse", "width": 100, "height": 100,
//	    "shapes": [
//	      {"name": "dot", "kind": "ellipse",
//	       "x": 30, "y": 30, "width": 40, "height": 40, "fill": "#4db2ff"}
//	    ],
//	    "animations": [{
//	      "name": "beat", "duration": 1, "mode": "pingpong",
//	      "channels": [{
//	        "shape": "dot", "property": "scaleX",
//	        "keys": [{"t": 0, "v": 1, "ease": "in-out-quad"}, {"t": 1, "v": 1.5}]
//	      }]
//	    }]
//	  }]
//	}
package vex
