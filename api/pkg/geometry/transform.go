package geometry

// Transform is one of the eight wl_output transforms: the four 90-degree
// rotations, each with or without a preceding Y-flip.
type Transform int

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// flipped reports whether t includes the Y-flip.
func (t Transform) flipped() bool {
	switch t {
	case TransformFlipped, TransformFlipped90, TransformFlipped180, TransformFlipped270:
		return true
	default:
		return false
	}
}

// degrees returns the rotation component of t, ignoring any flip.
func (t Transform) degrees() int {
	switch t {
	case TransformNormal, TransformFlipped:
		return 0
	case Transform90, TransformFlipped90:
		return 90
	case Transform180, TransformFlipped180:
		return 180
	case Transform270, TransformFlipped270:
		return 270
	default:
		return 0
	}
}

func fromFlippedDegrees(flipped bool, degrees int) Transform {
	switch degrees % 360 {
	case 0:
		if flipped {
			return TransformFlipped
		}
		return TransformNormal
	case 90:
		if flipped {
			return TransformFlipped90
		}
		return Transform90
	case 180:
		if flipped {
			return TransformFlipped180
		}
		return Transform180
	case 270:
		if flipped {
			return TransformFlipped270
		}
		return Transform270
	default:
		return TransformNormal
	}
}

// Add composes two transforms: rotations add modulo 360, flips XOR.
func (t Transform) Add(o Transform) Transform {
	flipped := t.flipped() != o.flipped()
	degrees := (t.degrees() + o.degrees()) % 360
	return fromFlippedDegrees(flipped, degrees)
}

// Invert maps 90<->270 and leaves every other transform unchanged: the
// flipped variants are reflections and therefore their own inverses.
func (t Transform) Invert() Transform {
	switch t {
	case Transform90:
		return Transform270
	case Transform270:
		return Transform90
	default:
		return t
	}
}

// TransformSize returns the size after applying t: a 90/270 rotation (with
// or without flip) swaps width and height.
func TransformSize[N Number](t Transform, s Size[Buffer, N]) Size[Buffer, N] {
	switch t {
	case Transform90, Transform270, TransformFlipped90, TransformFlipped270:
		return Size[Buffer, N]{W: s.H, H: s.W}
	default:
		return s
	}
}

// TransformPointIn transforms point inside an area of the given size by
// applying t. area is in the same (pre-transform) space as point.
func TransformPointIn[S Space, N Number](t Transform, p Point[S, N], area Size[S, N]) Point[S, N] {
	switch t {
	case TransformNormal:
		return p
	case Transform90:
		return Point[S, N]{X: area.H - p.Y, Y: p.X}
	case Transform180:
		return Point[S, N]{X: area.W - p.X, Y: area.H - p.Y}
	case Transform270:
		return Point[S, N]{X: p.Y, Y: area.W - p.X}
	case TransformFlipped:
		return Point[S, N]{X: area.W - p.X, Y: p.Y}
	case TransformFlipped90:
		return Point[S, N]{X: p.Y, Y: p.X}
	case TransformFlipped180:
		return Point[S, N]{X: p.X, Y: area.H - p.Y}
	case TransformFlipped270:
		return Point[S, N]{X: area.H - p.Y, Y: area.W - p.X}
	default:
		return p
	}
}

// TransformRectIn transforms rect inside an area of the given size by
// applying t, mirroring Transform::transform_rect_in.
func TransformRectIn[S Space, N Number](t Transform, rect Rectangle[S, N], area Size[S, N]) Rectangle[S, N] {
	size := rect.Size
	switch t {
	case Transform90, Transform270, TransformFlipped90, TransformFlipped270:
		size = Size[S, N]{W: rect.Size.H, H: rect.Size.W}
	}

	var loc Point[S, N]
	switch t {
	case TransformNormal:
		loc = rect.Origin
	case Transform90:
		loc = Point[S, N]{X: area.H - rect.Origin.Y - rect.Size.H, Y: rect.Origin.X}
	case Transform180:
		loc = Point[S, N]{
			X: area.W - rect.Origin.X - rect.Size.W,
			Y: area.H - rect.Origin.Y - rect.Size.H,
		}
	case Transform270:
		loc = Point[S, N]{X: rect.Origin.Y, Y: area.W - rect.Origin.X - rect.Size.W}
	case TransformFlipped:
		loc = Point[S, N]{X: area.W - rect.Origin.X - rect.Size.W, Y: rect.Origin.Y}
	case TransformFlipped90:
		loc = Point[S, N]{
			X: area.H - rect.Origin.Y - rect.Size.H,
			Y: area.W - rect.Origin.X - rect.Size.W,
		}
	case TransformFlipped180:
		loc = Point[S, N]{X: rect.Origin.X, Y: area.H - rect.Origin.Y - rect.Size.H}
	case TransformFlipped270:
		loc = Point[S, N]{X: rect.Origin.Y, Y: rect.Origin.X}
	default:
		loc = rect.Origin
	}

	return Rectangle[S, N]{Origin: loc, Size: size}
}

// Scale is either an integer scale, a fractional scale, or a split scale
// (integer advertised to v1 wl_output clients, fractional used internally).
type Scale struct {
	Integer    int32
	Fractional float64
	Split      bool
}

// IntegerScale constructs a whole-number Scale.
func IntegerScale(n int32) Scale {
	return Scale{Integer: n, Fractional: float64(n)}
}

// FractionalScale constructs a Scale whose advertised integer part is the
// ceiling of f, matching wp_fractional_scale's "integer fallback" contract.
func FractionalScale(f float64) Scale {
	n := int32(f)
	if float64(n) < f {
		n++
	}
	return Scale{Integer: n, Fractional: f, Split: true}
}
