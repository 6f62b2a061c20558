package aoe

import (
	"fmt"
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/udisondev/gridai/internal/game/dijkstra"
	"github.com/udisondev/gridai/internal/game/geo"
)

// MaxTargets is the most targets IdealLocations scores at once; hits are tracked in
// a 64-bit mask.
const MaxTargets = 63

// Per-target cost of a cell that does not hit the target. Priority targets weigh
// four times as much, so a cell hitting one more priority target always wins.
const (
	lesserPenalty   = 99999.0
	priorityPenalty = 399999.0
)

// Placement is a cell to aim at and the targets an aim there would hit.
type Placement struct {
	Cell    geo.Point
	Targets []geo.Point
}

// IdealLocations finds the cells a should be aimed at to hit the most targets.
// Priority targets dominate: when any are given, lesser targets only count where a
// priority target is hit too. No returned placement covers an exclusion. Every cell
// tied for the best score is returned, ordered by x then y.
func IdealLocations(a AOE, priority, lesser, exclusions []geo.Point) ([]Placement, error) {
	total := len(priority) + len(lesser)
	if total > MaxTargets {
		return nil, fmt.Errorf("scoring %d targets, limit %d: %w", total, MaxTargets, ErrTooManyTargets)
	}
	m := a.boundMap()
	if m == nil {
		return nil, ErrNoMap
	}
	if total == 0 {
		return []Placement{}, nil
	}

	targets := make([]geo.Point, 0, total)
	targets = append(append(targets, priority...), lesser...)
	penalty := func(i int) float64 {
		if i < len(priority) {
			return priorityPenalty
		}
		return lesserPenalty
	}

	w, h := m.Width(), m.Height()
	idx := func(p geo.Point) int { return p.X*h + p.Y }
	unusable := make([]bool, w*h)
	excluded := mapset.New[geo.Point]()
	for _, ex := range exclusions {
		excluded.Put(ex)
		for p := range a.footprint(ex) {
			if m.Contains(p) {
				unusable[idx(p)] = true
			}
		}
	}
	origin, hasOrigin := a.Origin()
	if reach := a.Reach(); hasOrigin && reach.Limit != geo.Free {
		for x := range w {
			for y := range h {
				if !reach.Limit.Allows(origin, geo.Pt(x, y)) {
					unusable[x*h+y] = true
				}
			}
		}
	}

	if a.degenerate() {
		return selfPlacements(m, targets, excluded, unusable, idx), nil
	}

	values := make([][]float64, total)
	physical := geo.Physical(m)
	for i, t := range targets {
		values[i] = coverage(a, m, physical, t, penalty(i), unusable)
	}
	if len(priority) > 0 {
		for i := len(priority); i < total; i++ {
			for c := range values[i] {
				covered := false
				for j := range len(priority) {
					if values[j][c] < priorityPenalty {
						covered = true
						break
					}
				}
				if !covered {
					values[i][c] = lesserPenalty
				}
			}
		}
	}

	type candidate struct {
		cell    geo.Point
		quality float64
		hits    uint64
	}
	var candidates []candidate
	for x := range w {
		for y := range h {
			c := x*h + y
			var quality float64
			var hits uint64
			for i := range targets {
				v := values[i][c]
				quality += v
				if v < penalty(i) {
					hits |= 1 << i
				}
			}
			if hits != 0 {
				candidates = append(candidates, candidate{cell: geo.Pt(x, y), quality: quality, hits: hits})
			}
		}
	}
	slices.SortStableFunc(candidates, func(p, q candidate) int {
		switch {
		case p.quality < q.quality:
			return -1
		case p.quality > q.quality:
			return 1
		}
		return 0
	})

	out := []Placement{}
	var best float64
	for _, c := range candidates {
		if len(out) > 0 && c.quality > best {
			break
		}
		if !avoids(a, c.cell, excluded) {
			continue
		}
		best = c.quality
		hit := make([]geo.Point, 0, total)
		for i, t := range targets {
			if c.hits&(1<<i) != 0 {
				hit = append(hit, t)
			}
		}
		out = append(out, Placement{Cell: c.cell, Targets: hit})
	}
	return out, nil
}

// coverage scores every cell for one target: the distance from the target through
// the cells an aim at the target would cover, or penalty where the target is missed.
func coverage(a AOE, m geo.Map, physical [][]float64, t geo.Point, penalty float64, unusable []bool) []float64 {
	w, h := m.Width(), m.Height()
	out := make([]float64, w*h)
	for i := range out {
		out[i] = penalty
	}
	if !m.Contains(t) {
		return out
	}

	origin, hasOrigin := a.Origin()
	reach := a.Reach()
	lo := float64(reach.MinDistance) - a.spread()
	hi := float64(reach.MaxDistance) + a.spread()
	composite := geo.NewGrid(w, h, geo.Wall)
	for p, v := range a.footprint(t) {
		if v <= 0 || !m.Contains(p) {
			continue
		}
		if hasOrigin {
			if d := reach.Metric.Between(origin, p); d < lo || d > hi {
				continue
			}
		}
		composite[p.X][p.Y] = physical[p.X][p.Y]
	}
	if composite[t.X][t.Y] > geo.Floor {
		return out
	}

	e := dijkstra.New(dijkstra.WithMeasurement(reach.Metric.Measurement()), dijkstra.WithSeed(0))
	if err := e.InitializeCosts(composite); err != nil {
		return out
	}
	e.SetGoal(t)
	grid := e.Scan(nil)
	for x := range w {
		for y := range h {
			if v := grid[x][y]; v < geo.Floor && !unusable[x*h+y] {
				out[x*h+y] = v
			}
		}
	}
	return out
}

// avoids reports whether aiming a at cell keeps every excluded cell out of the area.
func avoids(a AOE, cell geo.Point, excluded mapset.Set[geo.Point]) bool {
	if excluded.Size() == 0 {
		return true
	}
	for p, v := range a.footprint(cell) {
		if v > 0 && excluded.Has(p) {
			return false
		}
	}
	return true
}

// selfPlacements maps every usable target to itself, priority targets first.
func selfPlacements(m geo.Map, targets []geo.Point, excluded mapset.Set[geo.Point], unusable []bool, idx func(geo.Point) int) []Placement {
	out := []Placement{}
	seen := mapset.New[geo.Point]()
	for _, t := range targets {
		if !m.Contains(t) || unusable[idx(t)] || excluded.Has(t) || seen.Has(t) {
			continue
		}
		seen.Put(t)
		out = append(out, Placement{Cell: t, Targets: []geo.Point{t}})
	}
	return out
}
