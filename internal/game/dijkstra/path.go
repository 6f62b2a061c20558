package dijkstra

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/udisondev/gridai/internal/game/geo"
)

// FindPath walks at most length steps from start toward the nearest target.
// The returned path excludes start. Obstructions are never entered; passable allies
// may be crossed but never ended on. An empty path means no route.
func (e *Engine) FindPath(length int, obstructions, passableAllies []geo.Point, start geo.Point, targets ...geo.Point) []geo.Point {
	return e.FindPathLarge(1, length, obstructions, passableAllies, start, targets...)
}

// FindPathLarge is FindPath for a creature occupying a size x size block anchored
// at its top-left cell.
func (e *Engine) FindPathLarge(size, length int, obstructions, passableAllies []geo.Point, start geo.Point, targets ...geo.Point) []geo.Point {
	if !e.initialized {
		return nil
	}
	w := newWalker(toGoal, length, start, pointSet(passableAllies))
	return e.plan(w, pointSet(obstructions), func(blocked mapset.Set[geo.Point]) bool {
		e.ResetMap()
		for _, t := range targets {
			e.SetGoal(t)
		}
		if len(e.goals) == 0 {
			return false
		}
		e.scan(blocked, max(size, 1), -1)
		return true
	})
}

// plan runs prepare and a walk until the walk no longer ends on an ally. Each ally it
// stops on is added to blocked. The frustration counter in w spans every attempt.
func (e *Engine) plan(w *walker, blocked mapset.Set[geo.Point], prepare func(mapset.Set[geo.Point]) bool) []geo.Point {
	defer e.dropGoals()
	for {
		if !prepare(blocked) {
			return []geo.Point{}
		}
		res := e.walk(w)
		e.dropGoals()
		if !res.replan {
			return res.path
		}
		if blocked.Has(res.ally) {
			return []geo.Point{}
		}
		e.log.Debug("path ends on an ally, re-planning", "ally", res.ally, "steps", w.frustration)
		blocked.Put(res.ally)
	}
}

// FloodFill returns every interior cell within radius steps of any start, mapped to
// its distance. The outermost ring of the grid is never included.
func (e *Engine) FloodFill(radius int, starts ...geo.Point) map[geo.Point]float64 {
	if !e.initialized {
		return nil
	}
	e.ResetMap()
	for _, p := range starts {
		e.SetGoal(p)
	}
	out := make(map[geo.Point]float64)
	if len(e.goals) == 0 {
		return out
	}
	e.scan(mapset.New[geo.Point](), 1, max(radius, 0))
	for x := 1; x < e.width-1; x++ {
		for y := 1; y < e.height-1; y++ {
			if g := e.gradient[x][y]; g < geo.Floor {
				out[geo.Pt(x, y)] = g
			}
		}
	}
	e.dropGoals()
	return out
}
