package aoe

import (
	"github.com/udisondev/gridai/internal/game/dijkstra"
	"github.com/udisondev/gridai/internal/game/geo"
)

// Line covers a thickened line from its origin to an explicit end, widened by radius.
type Line struct {
	base
	end    geo.Point
	radius int
	metric geo.Radius
	seed   uint64
}

// NewLine creates a line from start to end.
func NewLine(start, end geo.Point, radius int) *Line {
	l := &Line{base: newBase(), end: end, radius: max(radius, 0), metric: geo.Square}
	l.SetOrigin(start)
	return l
}

func (l *Line) Kind() Kind { return KindLine }

// End is the far end of the line. Shift moves it.
func (l *Line) End() geo.Point { return l.end }

func (l *Line) Radius() int { return l.radius }

func (l *Line) Metric() geo.Radius { return l.metric }

// SetMetric sets the movement used to widen the line and to filter targets.
func (l *Line) SetMetric(m geo.Radius) { l.metric = m }

// Reseed sets the seed of the engine that widens the line.
func (l *Line) Reseed(seed uint64) { l.seed = seed }

// Shift moves the end of the line to aim.
func (l *Line) Shift(aim geo.Point) {
	if l.canAim(aim) {
		l.end = aim
	}
}

func (l *Line) MayContainTarget(targets []geo.Point) bool {
	if !l.hasOrigin {
		return false
	}
	for _, t := range targets {
		if nearLine(l.metric, l.origin, l.end, t, l.radius) {
			return true
		}
	}
	return false
}

func (l *Line) FindArea() map[geo.Point]float64 {
	return l.footprint(l.end)
}

func (l *Line) footprint(target geo.Point) map[geo.Point]float64 {
	if l.m == nil || !l.hasOrigin {
		return map[geo.Point]float64{}
	}
	return widen(l.m, l.trace(l.origin, target), l.radius, l.metric, l.seed)
}

func (l *Line) spread() float64 { return float64(l.radius) }

func (l *Line) degenerate() bool { return false }

// widen marks cells at full intensity and, for a positive radius, every cell
// within radius steps of them under the metric's movement rules.
func widen(m geo.Map, cells []geo.Point, radius int, metric geo.Radius, seed uint64) map[geo.Point]float64 {
	area := make(map[geo.Point]float64, len(cells))
	if radius <= 0 || len(cells) == 0 {
		for _, p := range cells {
			area[p] = 1
		}
		return area
	}

	e, err := dijkstra.NewFromMap(m, dijkstra.WithMeasurement(metric.Measurement()), dijkstra.WithSeed(seed))
	if err != nil {
		return area
	}
	for _, p := range cells {
		e.SetGoal(p)
	}
	grid := e.PartialScan(radius, nil)
	for x := range grid {
		for y, v := range grid[x] {
			if v < geo.Floor {
				area[geo.Pt(x, y)] = 1
			}
		}
	}
	return area
}
