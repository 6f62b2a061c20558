package geo

import "math"

// LineIterator steps through grid cells along a Bresenham line from start to end.
type LineIterator struct {
	currentX, currentY int
	targetX, targetY   int
	deltaX, deltaY     int
	stepX, stepY       int
	err                int
	xDominant          bool
	started            bool
}

// NewLineIterator creates a Bresenham line iterator from (sx,sy) to (ex,ey).
func NewLineIterator(sx, sy, ex, ey int) *LineIterator {
	it := &LineIterator{
		currentX: sx, currentY: sy,
		targetX: ex, targetY: ey,
		deltaX: abs(ex - sx), deltaY: abs(ey - sy),
		stepX: 1, stepY: 1,
	}
	if ex < sx {
		it.stepX = -1
	}
	if ey < sy {
		it.stepY = -1
	}

	it.xDominant = it.deltaX >= it.deltaY
	if it.xDominant {
		it.err = it.deltaX / 2
	} else {
		it.err = it.deltaY / 2
	}
	return it
}

// Next advances the iterator to the next cell.
// The first call yields the start cell; returns false once the target was yielded.
func (it *LineIterator) Next() bool {
	if !it.started {
		it.started = true
		return true
	}
	if it.currentX == it.targetX && it.currentY == it.targetY {
		return false
	}

	if it.xDominant {
		it.currentX += it.stepX
		it.err += it.deltaY
		if it.err >= it.deltaX {
			it.currentY += it.stepY
			it.err -= it.deltaX
		}
	} else {
		it.currentY += it.stepY
		it.err += it.deltaX
		if it.err >= it.deltaY {
			it.currentX += it.stepX
			it.err -= it.deltaY
		}
	}
	return true
}

// X returns current X position.
func (it *LineIterator) X() int { return it.currentX }

// Y returns current Y position.
func (it *LineIterator) Y() int { return it.currentY }

// Point returns the current cell.
func (it *LineIterator) Point() Point { return Point{X: it.currentX, Y: it.currentY} }

// Line returns every cell of the Bresenham line from a to b, both ends included.
func Line(a, b Point) []Point {
	it := NewLineIterator(a.X, a.Y, b.X, b.Y)
	pts := make([]Point, 0, max(abs(b.X-a.X), abs(b.Y-a.Y))+1)
	for it.Next() {
		pts = append(pts, it.Point())
	}
	return pts
}

// DefaultThickness is the coverage threshold shapes use for their widened lines.
const DefaultThickness = 0.4

// ThickLine traces an antialiased line from a to b and keeps every cell whose
// coverage is at least threshold. A threshold of 0 keeps any touched cell.
// Cells are ordered from a toward b.
func ThickLine(a, b Point, threshold float64) []Point {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	steps := max(abs(b.X-a.X), abs(b.Y-a.Y))
	if steps == 0 {
		return []Point{a}
	}

	xMajor := math.Abs(dx) >= math.Abs(dy)
	pts := make([]Point, 0, steps*2+1)
	seen := make(map[Point]struct{}, steps*2+1)
	add := func(p Point) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		pts = append(pts, p)
	}

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		var major int
		var minor float64
		if xMajor {
			major = a.X + int(math.Round(dx*t))
			minor = float64(a.Y) + dy*t
		} else {
			major = a.Y + int(math.Round(dy*t))
			minor = float64(a.X) + dx*t
		}

		low := math.Floor(minor)
		frac := minor - low
		cover := [2]float64{1 - frac, frac}
		cells := [2]int{int(low), int(low) + 1}
		// The dominant cell is always kept so the line stays connected.
		primary := 0
		if frac > 0.5 {
			primary = 1
		}
		for k := range cells {
			if k != primary && (cover[k] <= 0 || cover[k] < threshold) {
				continue
			}
			if xMajor {
				add(Point{X: major, Y: cells[k]})
			} else {
				add(Point{X: cells[k], Y: major})
			}
		}
	}
	return pts
}
