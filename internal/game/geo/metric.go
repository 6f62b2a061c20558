package geo

import (
	"fmt"
	"math"
	"strings"
)

// Measurement is the movement metric of a distance field.
type Measurement int

const (
	// Manhattan moves in the four cardinal directions.
	Manhattan Measurement = iota
	// Chebyshev moves in eight directions at unit cost.
	Chebyshev
	// Euclidean moves in eight directions; diagonals cost sqrt(2).
	Euclidean
)

var measurementNames = map[Measurement]string{
	Manhattan: "manhattan",
	Chebyshev: "chebyshev",
	Euclidean: "euclidean",
}

func (m Measurement) String() string {
	if s, ok := measurementNames[m]; ok {
		return s
	}
	return fmt.Sprintf("measurement(%d)", int(m))
}

// ParseMeasurement maps a lower-case name to a Measurement.
func ParseMeasurement(s string) (Measurement, error) {
	for m, name := range measurementNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return Manhattan, fmt.Errorf("unknown measurement %q", s)
}

// Directions returns the step set the metric relaxes over.
func (m Measurement) Directions() []Direction {
	if m == Manhattan {
		return Cardinals[:]
	}
	return Outwards[:]
}

// StepCost returns the cost of a single step in direction d.
func (m Measurement) StepCost(d Direction) float64 {
	if m == Euclidean && d.Diagonal() {
		return math.Sqrt2
	}
	return 1.0
}

// Radius is the metric used by areas, ranges and light.
type Radius int

const (
	// Square measures Chebyshev distance.
	Square Radius = iota
	// Diamond measures Manhattan distance.
	Diamond
	// Circle measures Euclidean distance.
	Circle
)

var radiusNames = map[Radius]string{
	Square:  "square",
	Diamond: "diamond",
	Circle:  "circle",
}

func (r Radius) String() string {
	if s, ok := radiusNames[r]; ok {
		return s
	}
	return fmt.Sprintf("radius(%d)", int(r))
}

// ParseRadius maps a lower-case name to a Radius.
func ParseRadius(s string) (Radius, error) {
	for r, name := range radiusNames {
		if strings.EqualFold(s, name) {
			return r, nil
		}
	}
	return Square, fmt.Errorf("unknown radius %q", s)
}

// Delta returns the length of the offset (dx, dy).
func (r Radius) Delta(dx, dy float64) float64 {
	dx, dy = math.Abs(dx), math.Abs(dy)
	switch r {
	case Diamond:
		return dx + dy
	case Circle:
		return math.Sqrt(dx*dx + dy*dy)
	default:
		return math.Max(dx, dy)
	}
}

// Distance returns the distance between (x0,y0) and (x1,y1).
func (r Radius) Distance(x0, y0, x1, y1 int) float64 {
	return r.Delta(float64(x1-x0), float64(y1-y0))
}

// Between returns the distance between two points.
func (r Radius) Between(a, b Point) float64 {
	return r.Distance(a.X, a.Y, b.X, b.Y)
}

// InRange reports whether b lies within [minRange, maxRange] of a.
func (r Radius) InRange(a, b Point, minRange, maxRange float64) bool {
	d := r.Between(a, b)
	return d >= minRange && d <= maxRange
}

// Volume2D returns the cell area covered by a radius-r shape.
func (r Radius) Volume2D(radius float64) float64 {
	switch r {
	case Diamond:
		return 2*radius*radius + 2*radius + 1
	case Circle:
		return math.Pi*radius*radius + 1
	default:
		side := 2*radius + 1
		return side * side
	}
}

// Measurement returns the movement metric matching this radius.
func (r Radius) Measurement() Measurement {
	switch r {
	case Diamond:
		return Manhattan
	case Circle:
		return Euclidean
	default:
		return Chebyshev
	}
}

// AimLimit restricts where a shape may be aimed relative to its user.
type AimLimit int

const (
	Free AimLimit = iota
	Orthogonal
	Diagonal
	EightWay
)

var limitNames = map[AimLimit]string{
	Free:       "free",
	Orthogonal: "orthogonal",
	Diagonal:   "diagonal",
	EightWay:   "eight_way",
}

func (l AimLimit) String() string {
	if s, ok := limitNames[l]; ok {
		return s
	}
	return fmt.Sprintf("limit(%d)", int(l))
}

// ParseAimLimit maps a lower-case name to an AimLimit. Empty means Free.
func ParseAimLimit(s string) (AimLimit, error) {
	if s == "" {
		return Free, nil
	}
	for l, name := range limitNames {
		if strings.EqualFold(s, name) {
			return l, nil
		}
	}
	return Free, fmt.Errorf("unknown aim limit %q", s)
}

// Allows reports whether target lies on a line the limit permits from origin.
func (l AimLimit) Allows(origin, target Point) bool {
	dx, dy := abs(target.X-origin.X), abs(target.Y-origin.Y)
	switch l {
	case Orthogonal:
		return dx == 0 || dy == 0
	case Diagonal:
		return dx == dy
	case EightWay:
		return dx == 0 || dy == 0 || dx == dy
	default:
		return true
	}
}

// Reach bounds where a shape may be placed relative to its user.
type Reach struct {
	MinDistance int
	MaxDistance int
	Metric      Radius
	Limit       AimLimit
}

// DefaultReach is the reach of a shape nobody configured: exactly one cell away.
func DefaultReach() Reach {
	return Reach{MinDistance: 1, MaxDistance: 1, Metric: Square, Limit: Free}
}

// Allows checks both the aim limit and the distance band.
func (r Reach) Allows(origin, target Point) bool {
	return r.Limit.Allows(origin, target) &&
		r.Metric.InRange(origin, target, float64(r.MinDistance), float64(r.MaxDistance))
}
