package dijkstra

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/udisondev/gridai/internal/game/geo"
)

// fallbackGoals is how many random floor cells a technique path wanders toward when
// no placement is reachable.
const fallbackGoals = 3

// Technique is an area ability the engine can plan an approach for.
type Technique interface {
	// SetMap binds the technique to the map being planned on.
	SetMap(m geo.Map)
	// MinRange and MaxRange bound the cast distance from the user.
	MinRange() int
	MaxRange() int
	// BestPlacement returns the best cast point for a user standing at user and how
	// many targets it hits; ok is false when no placement hits anything.
	BestPlacement(user geo.Point, targets, allies []geo.Point) (cast geo.Point, hits int, ok bool)
}

// FindTechniquePath walks at most moveLength steps toward a cell from which tech hits
// the most targets. The cast point chosen for every scored vantage cell is kept and
// can be read with TargetAt. When no placement is reachable the walk heads toward a
// few random floor cells instead.
func (e *Engine) FindTechniquePath(moveLength int, tech Technique, m geo.Map, los LineOfSight, obstructions, allies []geo.Point, start geo.Point, targets []geo.Point) []geo.Point {
	if !e.initialized {
		return nil
	}
	tech.SetMap(m)
	e.ResetTargetMap()
	if len(targets) == 0 || !e.contains(start) {
		return []geo.Point{}
	}

	res := e.wallResistance()
	friends := pointSet(allies)
	friends.Remove(start)
	friendList := make([]geo.Point, 0, friends.Size())
	friends.Each(func(p geo.Point) { friendList = append(friendList, p) })

	blocked := pointSet(obstructions)
	w := newWalker(casting, moveLength, start, friends)
	path := e.plan(w, blocked, func(blocked mapset.Set[geo.Point]) bool {
		return e.prepareTechnique(moveLength, tech, los, res, blocked, friendList, start, targets)
	})
	if len(path) > 0 {
		return path
	}

	e.log.Debug("no technique placement reachable, wandering", "start", start)
	var wander []geo.Point
	for range fallbackGoals {
		if p, ok := m.RandomFloor(e.rng); ok {
			wander = append(wander, p)
		}
	}
	return e.FindPath(moveLength, obstructions, friendList, start, wander...)
}

func (e *Engine) prepareTechnique(moveLength int, tech Technique, los LineOfSight, res [][]float64,
	blocked mapset.Set[geo.Point], friends []geo.Point, start geo.Point, targets []geo.Point) bool {
	e.ResetMap()
	e.SetGoal(start)
	userDistance := e.scan(blocked, 1, -1)
	e.ClearGoals()
	e.ResetMap()

	for _, t := range targets {
		e.SetGoal(t)
	}
	if len(e.goals) == 0 {
		return false
	}
	e.scan(blocked, 1, -1)
	e.ClearGoals()

	minRange, maxRange := float64(tech.MinRange()), float64(tech.MaxRange())
	reach := float64(moveLength * 2)
	worth := make(map[geo.Point]int)
	for x := range e.width {
		for y := range e.height {
			g := e.gradient[x][y]
			if g == geo.Wall || g == geo.Dark || userDistance[x][y] > reach {
				continue
			}
			if g < minRange || g > maxRange || !e.sees(los, res, x, y, 1, targets) {
				e.gradient[x][y] = geo.Floor
				continue
			}
			p := geo.Pt(x, y)
			if cast, hits, ok := tech.BestPlacement(p, targets, friends); ok {
				e.targets[p] = cast
				worth[p] = hits
				e.goals[p] = geo.Goal
				e.gradient[x][y] = geo.Goal
			}
		}
	}

	e.scan(blocked, 1, -1)
	if e.gradient[start.X][start.Y] > float64(moveLength) {
		return true
	}

	vantage := make([]geo.Point, 0, len(e.goals))
	for p := range e.goals {
		vantage = append(vantage, p)
	}
	e.ClearGoals()
	e.ResetMap()
	e.SetGoal(start)
	e.scan(blocked, 1, -1)
	e.dropGoals()
	for _, p := range vantage {
		if e.gradient[p.X][p.Y] <= float64(moveLength) && worth[p] > 0 {
			e.goals[p] = float64(-worth[p])
		}
	}
	e.ResetMap()
	e.scan(blocked, 1, -1)
	return true
}
