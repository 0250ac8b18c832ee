package rivet

// Sizing and alignment: reconciling the artboard's native coordinate space
// with the host node's display size. computeSize picks the output pixel
// dimensions; computeAlignment produces the affine map used forward by the
// rasterizer and inverted by pointer passthrough.

// computeSize derives output dimensions from the artboard's native bounds
// and the requested maximum width/height (zero means unset).
//
//   - neither set: the native dimensions.
//   - width set: height follows from the native aspect ratio.
//   - height set: width follows from the native aspect ratio.
//   - both set: width is authoritative and height is re-derived.
//
// Aspect ratio is always preserved; distortion is only available through
// FitFill, which the rasterizer applies inside the frame. Degenerate native
// bounds fall back to the requested (or native) dimensions unscaled.
func computeSize(bounds Rect, maxWidth, maxHeight float64) (w, h float64) {
	w, h = bounds.Width, bounds.Height
	if w <= 0 || h <= 0 {
		if maxWidth > 0 {
			w = maxWidth
		}
		if maxHeight > 0 {
			h = maxHeight
		}
		return w, h
	}
	switch {
	case maxWidth > 0:
		return maxWidth, maxWidth * h / w
	case maxHeight > 0:
		return maxHeight * w / h, maxHeight
	}
	return w, h
}

// computeAlignment builds the transform mapping content (artboard-native
// bounds) into frame (the sized output rectangle) under the given fit mode,
// anchored by the alignment.
func computeAlignment(fit Fit, align Alignment, frame, content Rect) Transform {
	if content.Width <= 0 || content.Height <= 0 {
		return identityTransform
	}

	scaleX := frame.Width / content.Width
	scaleY := frame.Height / content.Height

	switch fit {
	case FitContain:
		s := min(scaleX, scaleY)
		scaleX, scaleY = s, s
	case FitCover:
		s := max(scaleX, scaleY)
		scaleX, scaleY = s, s
	case FitFill:
		// Keep the independent axis scales.
	case FitWidth:
		scaleY = scaleX
	case FitHeight:
		scaleX = scaleY
	case FitNone:
		scaleX, scaleY = 1, 1
	case FitScaleDown:
		s := min(scaleX, scaleY, 1)
		scaleX, scaleY = s, s
	}

	ax, ay := align.factors()
	return Transform{
		XX: scaleX,
		YY: scaleY,
		TX: frame.X + (frame.Width-content.Width*scaleX)*ax - content.X*scaleX,
		TY: frame.Y + (frame.Height-content.Height*scaleY)*ay - content.Y*scaleY,
	}
}
