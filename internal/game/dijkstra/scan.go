package dijkstra

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/udisondev/gridai/internal/game/geo"
)

// seedCeiling bounds the values a scan may start from.
const seedCeiling = 999000.0

func pointSet(pts []geo.Point) mapset.Set[geo.Point] {
	s := mapset.New[geo.Point]()
	for _, p := range pts {
		s.Put(p)
	}
	return s
}

// Scan relaxes costs outward from the current goals until every reachable cell is
// assigned. Obstructed cells are never entered. Floor cells left unreached become
// geo.Dark. Returns a copy of the gradient, or nil before initialization.
func (e *Engine) Scan(obstructions []geo.Point) [][]float64 {
	if !e.initialized {
		return nil
	}
	return e.scan(pointSet(obstructions), 1, -1)
}

// PartialScan is Scan stopped after limit layers.
func (e *Engine) PartialScan(limit int, obstructions []geo.Point) [][]float64 {
	if !e.initialized {
		return nil
	}
	return e.scan(pointSet(obstructions), 1, max(limit, 0))
}

// ScanSized is Scan for a creature occupying a size x size block whose top-left
// corner is the cell being scored. A cell is only assigned when the whole block fits.
func (e *Engine) ScanSized(obstructions []geo.Point, size int) [][]float64 {
	if !e.initialized {
		return nil
	}
	return e.scan(pointSet(obstructions), max(size, 1), -1)
}

// scan runs the layered relaxation. A negative limit means unbounded.
func (e *Engine) scan(blocked mapset.Set[geo.Point], size, limit int) [][]float64 {
	w, h := e.width, e.height
	idx := func(p geo.Point) int { return p.X*h + p.Y }
	closed := make([]bool, w*h)

	blocked.Each(func(p geo.Point) {
		if !e.contains(p) {
			return
		}
		closed[idx(p)] = true
		for x := 0; x < size; x++ {
			for y := 0; y < size; y++ {
				q := geo.Pt(p.X-x, p.Y-y)
				if (x == 0 && y == 0) || !e.contains(q) {
					continue
				}
				if e.gradient[q.X][q.Y] <= geo.Floor {
					closed[idx(q)] = true
				}
			}
		}
	})
	for p, v := range e.goals {
		closed[idx(p)] = false
		e.gradient[p.X][p.Y] = v
	}

	for x := range w {
		for y := range h {
			p := geo.Pt(x, y)
			if _, goal := e.goals[p]; goal || e.gradient[x][y] <= geo.Floor {
				continue
			}
			closed[idx(p)] = true
			for i := 0; i < size; i++ {
				for j := 0; j < size; j++ {
					q := geo.Pt(x-i, y-j)
					if !e.contains(q) || closed[idx(q)] || e.gradient[q.X][q.Y] > geo.Floor {
						continue
					}
					if _, goal := e.goals[q]; !goal {
						closed[idx(q)] = true
					}
				}
			}
		}
	}

	fits := func(p geo.Point) bool {
		for i := 0; i < size; i++ {
			for j := 0; j < size; j++ {
				q := geo.Pt(p.X+i, p.Y+j)
				if !e.contains(q) || (closed[idx(q)] && q != p) {
					return false
				}
			}
		}
		return !closed[idx(p)]
	}

	lowest := seedCeiling
	var open []geo.Point
	for y := range h {
		for x := range w {
			p := geo.Pt(x, y)
			if !fits(p) {
				continue
			}
			switch g := e.gradient[x][y]; {
			case g < lowest:
				lowest = g
				open = append(open[:0], p)
			case g == lowest:
				open = append(open, p)
			}
		}
	}

	inOpen := make([]bool, w*h)
	inFresh := make([]bool, w*h)
	for _, p := range open {
		inOpen[idx(p)] = true
	}
	e.mappedCount = len(e.goals)

	dirs := e.measurement.Directions()
	var fresh []geo.Point
	for layer := 0; len(open) > 0 && (limit < 0 || layer < limit); layer++ {
		for _, cell := range open {
			base := e.gradient[cell.X][cell.Y]
			for _, d := range dirs {
				adj := cell.Step(d)
				if !e.contains(adj) {
					continue
				}
				j := idx(adj)
				if closed[j] || inOpen[j] {
					continue
				}
				if cost := base + e.measurement.StepCost(d); cost < e.gradient[adj.X][adj.Y] {
					e.gradient[adj.X][adj.Y] = cost
					if !inFresh[j] {
						inFresh[j] = true
						fresh = append(fresh, adj)
						e.mappedCount++
					}
				}
			}
		}
		for _, p := range open {
			i := idx(p)
			closed[i] = true
			inOpen[i] = false
		}
		for _, p := range fresh {
			i := idx(p)
			inFresh[i] = false
			inOpen[i] = true
		}
		open, fresh = fresh, open[:0]
	}

	for x := range w {
		for y := range h {
			if e.gradient[x][y] == geo.Floor {
				e.gradient[x][y] = geo.Dark
			}
		}
	}
	return geo.CloneGrid(e.gradient)
}
