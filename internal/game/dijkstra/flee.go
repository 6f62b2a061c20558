package dijkstra

import (
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/udisondev/gridai/internal/game/geo"
)

// fleeKey identifies a flee field. Two keys match when every component is equal by value.
type fleeKey struct {
	size         int
	prefer       float64
	obstructions mapset.Set[geo.Point]
	fears        []geo.Point
}

func newFleeKey(size int, prefer float64, blocked mapset.Set[geo.Point], fears []geo.Point) fleeKey {
	obs := mapset.New[geo.Point]()
	blocked.Each(func(p geo.Point) { obs.Put(p) })
	sorted := slices.Clone(fears)
	slices.SortFunc(sorted, func(a, b geo.Point) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return fleeKey{size: size, prefer: prefer, obstructions: obs, fears: slices.Compact(sorted)}
}

func (k fleeKey) equal(o fleeKey) bool {
	if k.size != o.size || k.prefer != o.prefer || !slices.Equal(k.fears, o.fears) {
		return false
	}
	if k.obstructions.Size() != o.obstructions.Size() {
		return false
	}
	same := true
	k.obstructions.Each(func(p geo.Point) {
		if !o.obstructions.Has(p) {
			same = false
		}
	})
	return same
}

// fleeCache holds the most recent flee field. Any key mismatch replaces it.
type fleeCache struct {
	valid bool
	key   fleeKey
	field [][]float64
}

func (c *fleeCache) lookup(k fleeKey) ([][]float64, bool) {
	if !c.valid || !c.key.equal(k) {
		return nil, false
	}
	return c.field, true
}

func (c *fleeCache) store(k fleeKey, field [][]float64) {
	c.valid = true
	c.key = k
	c.field = field
}

// FindFleePath walks at most length steps away from the fear sources. Each step
// strictly increases the distance to the nearest fear; preferLongerPaths scales how
// strongly remote cells are favoured over merely near exits (1.2 is a common choice).
func (e *Engine) FindFleePath(length int, preferLongerPaths float64, obstructions, passableAllies []geo.Point, start geo.Point, fears ...geo.Point) []geo.Point {
	return e.FindFleePathLarge(1, length, preferLongerPaths, obstructions, passableAllies, start, fears...)
}

// FindFleePathLarge is FindFleePath for a size x size creature.
func (e *Engine) FindFleePathLarge(size, length int, preferLongerPaths float64, obstructions, passableAllies []geo.Point, start geo.Point, fears ...geo.Point) []geo.Point {
	if !e.initialized {
		return nil
	}
	size = max(size, 1)
	w := newWalker(fleeing, length, start, pointSet(passableAllies))
	return e.plan(w, pointSet(obstructions), func(blocked mapset.Set[geo.Point]) bool {
		key := newFleeKey(size, preferLongerPaths, blocked, fears)
		if field, ok := e.flee.lookup(key); ok {
			e.log.Debug("flee field cache hit", "start", start, "fears", len(fears))
			for x := range field {
				copy(e.gradient[x], field[x])
			}
			return true
		}
		e.log.Debug("flee field cache miss", "start", start, "fears", len(fears))

		e.ResetMap()
		for _, f := range fears {
			e.SetGoal(f)
		}
		if len(e.goals) == 0 {
			return false
		}
		e.scan(blocked, size, -1)
		for x := range e.width {
			for y := range e.height {
				if e.gradient[x][y] < geo.Floor {
					e.gradient[x][y] *= -preferLongerPaths
				}
			}
		}
		e.scan(blocked, size, -1)
		e.flee.store(key, geo.CloneGrid(e.gradient))
		return true
	})
}
