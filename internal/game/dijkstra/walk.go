package dijkstra

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/udisondev/gridai/internal/game/geo"
)

// maxFrustration caps the steps taken across every re-plan of one query.
const maxFrustration = 500

type walkMode int

const (
	// toGoal descends until a goal (0) is reached.
	toGoal walkMode = iota
	// fleeing descends a negated field; there is no goal to stop on.
	fleeing
	// casting descends toward weighted vantage cells and keeps partial progress.
	casting
)

// walker carries the frustration counter through every re-plan of a single query.
type walker struct {
	mode        walkMode
	length      int
	start       geo.Point
	allies      mapset.Set[geo.Point]
	frustration int
}

// walkResult is one descent. When replan is set the walk ended on an ally cell that
// must be blocked before planning again.
type walkResult struct {
	path   []geo.Point
	replan bool
	ally   geo.Point
}

func newWalker(mode walkMode, length int, start geo.Point, allies mapset.Set[geo.Point]) *walker {
	return &walker{mode: mode, length: length, start: start, allies: allies}
}

// walk greedily descends the gradient from w.start.
func (e *Engine) walk(w *walker) walkResult {
	path := make([]geo.Point, 0, max(w.length, 0))
	if w.length <= 0 || !e.contains(w.start) {
		return walkResult{path: path}
	}
	onPath := mapset.New[geo.Point]()
	dirs := append([]geo.Direction(nil), e.measurement.Directions()...)
	startValue := e.gradient[w.start.X][w.start.Y]
	cur := w.start

	for {
		if w.frustration > maxFrustration {
			e.log.Debug("walk abandoned", "start", w.start, "steps", w.frustration)
			return walkResult{path: path[:0]}
		}

		e.rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
		best := e.gradient[cur.X][cur.Y]
		next, found := cur, false
		for _, d := range dirs {
			p := cur.Step(d)
			if !e.contains(p) {
				continue
			}
			g := e.gradient[p.X][p.Y]
			switch {
			case g < best:
				best, next, found = g, p, true
			case found && g == best && onPath.Has(next) && !onPath.Has(p):
				next = p
			}
		}

		if !found {
			switch w.mode {
			case fleeing:
				return walkResult{path: path}
			case casting:
				if len(path) > 0 && w.allies.Has(cur) {
					return walkResult{path: path, replan: true, ally: cur}
				}
				return walkResult{path: path}
			default:
				if len(path) > 0 && e.gradient[cur.X][cur.Y] == geo.Goal {
					return walkResult{path: path}
				}
				return walkResult{path: path[:0]}
			}
		}
		if (w.mode != toGoal && best >= startValue) || e.physical[next.X][next.Y] > geo.Floor {
			return walkResult{path: path[:0]}
		}

		path = append(path, next)
		onPath.Put(next)
		cur = next
		w.frustration++

		if len(path) >= w.length {
			if w.allies.Has(cur) {
				return walkResult{path: path, replan: true, ally: cur}
			}
			return walkResult{path: path}
		}
		if w.mode == toGoal && best == geo.Goal {
			return walkResult{path: path}
		}
	}
}
