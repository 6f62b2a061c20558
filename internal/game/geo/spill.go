package geo

import (
	"math/rand/v2"

	"github.com/zyedidia/generic/mapset"
)

// Spill is a randomized, volume-limited flood fill. Each step picks a random frontier
// cell, claims it, and offers its neighbours to the frontier; under Euclidean
// measurement diagonal neighbours are offered with probability 1/sqrt(2).
type Spill struct {
	Measurement Measurement

	passable []bool
	spilled  []bool
	width    int
	height   int
	rng      *rand.Rand
	filled   int
}

// NewSpill binds a spill to m. rng must not be shared with other users.
func NewSpill(m Map, measurement Measurement, rng *rand.Rand) *Spill {
	s := &Spill{
		Measurement: measurement,
		width:       m.Width(),
		height:      m.Height(),
		rng:         rng,
	}
	s.passable = make([]bool, s.width*s.height)
	s.spilled = make([]bool, s.width*s.height)
	for x := range m {
		for y := range m[x] {
			s.passable[x*s.height+y] = m[x][y] != WallMarker
		}
	}
	return s
}

// SetRand replaces the random source, used to rewind a seeded spill.
func (s *Spill) SetRand(rng *rand.Rand) {
	s.rng = rng
}

// Reset forgets every spilled cell.
func (s *Spill) Reset() {
	clear(s.spilled)
	s.filled = 0
}

// Filled returns the number of cells claimed so far.
func (s *Spill) Filled() int {
	return s.filled
}

// Contains reports whether p has been spilled into.
func (s *Spill) Contains(p Point) bool {
	return p.Within(s.width, s.height) && s.spilled[p.X*s.height+p.Y]
}

// Cells returns every spilled cell in column-major order.
func (s *Spill) Cells() []Point {
	out := make([]Point, 0, s.filled)
	for x := range s.width {
		for y := range s.height {
			if s.spilled[x*s.height+y] {
				out = append(out, Point{X: x, Y: y})
			}
		}
	}
	return out
}

// Start spills up to volume new cells from entry, growing from any cells spilled by
// earlier calls as well. Blocked cells are never claimed. It returns the cells
// claimed by this call in claim order, or nil when entry is not passable or is blocked.
func (s *Spill) Start(entry Point, volume int, blocked mapset.Set[Point]) []Point {
	if !entry.Within(s.width, s.height) || !s.passable[entry.X*s.height+entry.Y] {
		return nil
	}
	if blocked.Has(entry) {
		return nil
	}

	var frontier []Point
	inFrontier := mapset.New[Point]()
	push := func(p Point) {
		if inFrontier.Has(p) {
			return
		}
		inFrontier.Put(p)
		frontier = append(frontier, p)
	}

	for x := range s.width {
		for y := range s.height {
			p := Point{X: x, Y: y}
			if !blocked.Has(p) && s.spilled[x*s.height+y] {
				push(p)
			}
		}
	}
	push(entry)

	pattern := make([]Point, 0, volume)
	dirs := s.Measurement.Directions()
	for len(frontier) > 0 && len(pattern) < volume {
		i := s.rng.IntN(len(frontier))
		cell := frontier[i]
		frontier = append(frontier[:i], frontier[i+1:]...)
		inFrontier.Remove(cell)

		if !s.spilled[cell.X*s.height+cell.Y] {
			s.spilled[cell.X*s.height+cell.Y] = true
			s.filled++
			pattern = append(pattern, cell)
		}

		for _, d := range dirs {
			adj := cell.Step(d)
			if !adj.Within(s.width, s.height) {
				continue
			}
			idx := adj.X*s.height + adj.Y
			if !s.passable[idx] || s.spilled[idx] {
				continue
			}
			if blocked.Has(adj) {
				continue
			}
			if s.rng.Float64() <= 1/s.Measurement.StepCost(d) {
				push(adj)
			}
		}
	}
	return pattern
}
