package dijkstra

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/udisondev/gridai/internal/game/geo"
)

// LineOfSight decides whether (x1,y1) is visible from (x0,y0) through a resistance grid.
type LineOfSight interface {
	IsReachable(res [][]float64, x0, y0, x1, y1 int) bool
}

var _ LineOfSight = geo.BresenhamLOS{}

// attackBand selects the vantage cells of an attack path.
type attackBand struct {
	min, max float64
	exact    bool
	los      LineOfSight
}

func (b attackBand) accepts(dist float64) bool {
	if b.exact {
		return b.los != nil && dist == b.min
	}
	return dist >= b.min && dist <= b.max
}

// FindAttackPath walks toward the nearest cell exactly preferredRange away from a
// target that can see that target. los must not be nil.
func (e *Engine) FindAttackPath(moveLength, preferredRange int, los LineOfSight, obstructions, passableAllies []geo.Point, start geo.Point, targets ...geo.Point) []geo.Point {
	r := float64(max(preferredRange, 0))
	return e.attackPath(1, moveLength, attackBand{min: r, max: r, exact: true, los: los}, obstructions, passableAllies, start, targets)
}

// FindAttackPathRange walks toward the nearest cell between minRange and maxRange of a
// target with sight of it. A nil los accepts every cell in the band.
func (e *Engine) FindAttackPathRange(moveLength, minRange, maxRange int, los LineOfSight, obstructions, passableAllies []geo.Point, start geo.Point, targets ...geo.Point) []geo.Point {
	return e.FindAttackPathLargeRange(1, moveLength, minRange, maxRange, los, obstructions, passableAllies, start, targets...)
}

// FindAttackPathLarge is FindAttackPath for a size x size creature. Sight may be
// taken from any cell of its block.
func (e *Engine) FindAttackPathLarge(size, moveLength, preferredRange int, los LineOfSight, obstructions, passableAllies []geo.Point, start geo.Point, targets ...geo.Point) []geo.Point {
	r := float64(max(preferredRange, 0))
	return e.attackPath(size, moveLength, attackBand{min: r, max: r, exact: true, los: los}, obstructions, passableAllies, start, targets)
}

// FindAttackPathLargeRange is FindAttackPathRange for a size x size creature.
func (e *Engine) FindAttackPathLargeRange(size, moveLength, minRange, maxRange int, los LineOfSight, obstructions, passableAllies []geo.Point, start geo.Point, targets ...geo.Point) []geo.Point {
	lo := max(minRange, 0)
	hi := max(maxRange, lo)
	return e.attackPath(size, moveLength, attackBand{min: float64(lo), max: float64(hi), los: los}, obstructions, passableAllies, start, targets)
}

func (e *Engine) attackPath(size, moveLength int, band attackBand, obstructions, passableAllies []geo.Point, start geo.Point, targets []geo.Point) []geo.Point {
	if !e.initialized {
		return nil
	}
	size = max(size, 1)
	res := e.wallResistance()
	w := newWalker(toGoal, moveLength, start, pointSet(passableAllies))
	return e.plan(w, pointSet(obstructions), func(blocked mapset.Set[geo.Point]) bool {
		e.ResetMap()
		for _, t := range targets {
			e.SetGoal(t)
		}
		if len(e.goals) == 0 {
			return false
		}

		saved := e.measurement
		if saved == geo.Euclidean {
			e.measurement = geo.Chebyshev
		}
		e.scan(blocked, size, -1)
		e.dropGoals()

		for x := range e.width {
			for y := range e.height {
				g := e.gradient[x][y]
				if g == geo.Wall || g == geo.Dark {
					continue
				}
				if band.accepts(g) && e.sees(band.los, res, x, y, size, targets) {
					e.goals[geo.Pt(x, y)] = geo.Goal
					e.gradient[x][y] = geo.Goal
					continue
				}
				e.gradient[x][y] = geo.Floor
			}
		}

		e.measurement = saved
		e.scan(blocked, size, -1)
		return true
	})
}

// sees reports whether any cell of the size x size block at (x,y) has sight of a target.
func (e *Engine) sees(los LineOfSight, res [][]float64, x, y, size int, targets []geo.Point) bool {
	if los == nil {
		return true
	}
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			if !e.contains(geo.Pt(x+i, y+j)) {
				continue
			}
			for _, t := range targets {
				if e.contains(t) && los.IsReachable(res, x+i, y+j, t.X, t.Y) {
					return true
				}
			}
		}
	}
	return false
}

// wallResistance is 1 on walls and 0 elsewhere.
func (e *Engine) wallResistance() [][]float64 {
	res := geo.NewGrid(e.width, e.height, 0)
	for x := range e.width {
		for y := range e.height {
			if e.physical[x][y] == geo.Wall {
				res[x][y] = 1
			}
		}
	}
	return res
}
