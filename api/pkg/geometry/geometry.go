// Package geometry provides phantom-tagged coordinate primitives: points,
// sizes and rectangles that carry their coordinate space (Logical, Physical,
// Buffer, Raw) at the type level so values from different spaces cannot be
// mixed without an explicit conversion.
package geometry

// Space tags a geometry value with the coordinate space it lives in. The
// tag types carry no data; they only exist to be used as the Space type
// parameter below.
type Space interface {
	Logical | Physical | Buffer | Raw
}

// Logical is the compositor-side scalable coordinate space.
type Logical struct{}

// Physical is the device-pixel coordinate space.
type Physical struct{}

// Buffer is the client-submitted pixel content space, pre-transform.
type Buffer struct{}

// Raw is the input-device native unit space.
type Raw struct{}

// Number is the set of numeric types a geometry value may be expressed in.
type Number interface {
	~int32 | ~int64 | ~uint32 | ~float64
}

// Point is a 2D coordinate of numeric type N in coordinate space S.
type Point[S Space, N Number] struct {
	X, Y N
}

// Size is a width/height pair of numeric type N in coordinate space S.
type Size[S Space, N Number] struct {
	W, H N
}

// Rectangle is an origin point plus a size, both in coordinate space S.
type Rectangle[S Space, N Number] struct {
	Origin Point[S, N]
	Size   Size[S, N]
}

func NewRectangle[S Space, N Number](origin Point[S, N], size Size[S, N]) Rectangle[S, N] {
	return Rectangle[S, N]{Origin: origin, Size: size}
}

// Add returns the componentwise sum of two points.
func (p Point[S, N]) Add(o Point[S, N]) Point[S, N] {
	return Point[S, N]{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns the componentwise difference of two points.
func (p Point[S, N]) Sub(o Point[S, N]) Point[S, N] {
	return Point[S, N]{X: p.X - o.X, Y: p.Y - o.Y}
}

// IsEmpty reports whether the size has zero or negative area.
func (s Size[S, N]) IsEmpty() bool {
	return s.W <= 0 || s.H <= 0
}

// Contains reports whether p lies within r (origin inclusive, far edge exclusive).
func (r Rectangle[S, N]) Contains(p Point[S, N]) bool {
	return p.X >= r.Origin.X && p.X < r.Origin.X+N(r.Size.W) &&
		p.Y >= r.Origin.Y && p.Y < r.Origin.Y+N(r.Size.H)
}

// X2 returns the rectangle's right edge coordinate.
func (r Rectangle[S, N]) X2() N { return r.Origin.X + N(r.Size.W) }

// Y2 returns the rectangle's bottom edge coordinate.
func (r Rectangle[S, N]) Y2() N { return r.Origin.Y + N(r.Size.H) }

// Intersection returns the overlapping region of r and o, and whether the
// two rectangles overlap at all.
func (r Rectangle[S, N]) Intersection(o Rectangle[S, N]) (Rectangle[S, N], bool) {
	x1 := max(r.Origin.X, o.Origin.X)
	y1 := max(r.Origin.Y, o.Origin.Y)
	x2 := min(r.X2(), o.X2())
	y2 := min(r.Y2(), o.Y2())
	if x2 <= x1 || y2 <= y1 {
		return Rectangle[S, N]{}, false
	}
	return Rectangle[S, N]{
		Origin: Point[S, N]{X: x1, Y: y1},
		Size:   Size[S, N]{W: N(x2 - x1), H: N(y2 - y1)},
	}, true
}

func max[N Number](a, b N) N {
	if a > b {
		return a
	}
	return b
}

func min[N Number](a, b N) N {
	if a < b {
		return a
	}
	return b
}

// ToPhysicalSize converts a Logical size to Physical coordinates at the
// given integer scale.
func ToPhysicalSize[N Number](s Size[Logical, N], scale N) Size[Physical, N] {
	return Size[Physical, N]{W: s.W * scale, H: s.H * scale}
}

// ToLogicalSize converts a Physical size back to Logical coordinates at the
// given integer scale. Round-trips exactly for integer scales per spec §8.
func ToLogicalSize[N Number](s Size[Physical, N], scale N) Size[Logical, N] {
	return Size[Logical, N]{W: s.W / scale, H: s.H / scale}
}

// ToPhysicalPoint converts a Logical point to Physical coordinates at the
// given integer scale.
func ToPhysicalPoint[N Number](p Point[Logical, N], scale N) Point[Physical, N] {
	return Point[Physical, N]{X: p.X * scale, Y: p.Y * scale}
}

// ToLogicalPoint converts a Physical point back to Logical coordinates at
// the given integer scale.
func ToLogicalPoint[N Number](p Point[Physical, N], scale N) Point[Logical, N] {
	return Point[Logical, N]{X: p.X / scale, Y: p.Y / scale}
}
