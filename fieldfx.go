package fieldfx

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Range is a general-purpose min/max range used by the spawn tables.
type Range struct {
	Min, Max float64
}

// Random returns a random float64 in [Min, Max].
func (r Range) Random() float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min)
}

// clamp limits v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// chance reports true with probability p.
func chance(p float64) bool {
	return rand.Float64() < p
}

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node with no visual output
	NodeTypeCanvas                    // renders a Canvas (the ambient field surface)
	NodeTypeParticle                  // one celebration visual node
)

// Shape selects the sprite a celebration particle is drawn with.
type Shape uint8

const (
	ShapeDot   Shape = iota // round disc
	ShapeShard              // angular diamond
)

// String returns the lowercase shape name used in scripts.
func (s Shape) String() string {
	switch s {
	case ShapeShard:
		return "shard"
	default:
		return "dot"
	}
}

// ParseShape converts a script/theme shape name into a Shape.
func ParseShape(name string) (Shape, bool) {
	switch name {
	case "dot", "round", "":
		return ShapeDot, true
	case "shard":
		return ShapeShard, true
	}
	return ShapeDot, false
}

// UnmarshalText lets shapes be written by name in YAML scripts and themes.
func (s *Shape) UnmarshalText(text []byte) error {
	v, ok := ParseShape(string(text))
	if !ok {
		return fmt.Errorf("unknown shape %q", text)
	}
	*s = v
	return nil
}

// Ptr returns a pointer to v, for filling Overrides.
func Ptr[T any](v T) *T {
	return &v
}
