package geo

import "math"

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Step returns the neighbour of p in direction d.
func (p Point) Step(d Direction) Point {
	return Point{X: p.X + d.DX, Y: p.Y + d.DY}
}

// Within reports whether p lies inside a width x height grid.
func (p Point) Within(width, height int) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < width && p.Y < height
}

// Angle returns the direction from p to q in radians, normalized to [0, 2π).
func (p Point) Angle(q Point) float64 {
	a := math.Atan2(float64(q.Y-p.Y), float64(q.X-p.X))
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Less orders points column-major (x, then y), the order grids are scanned in.
func (p Point) Less(q Point) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
