// Package aoe evaluates area-of-effect shapes on a grid and finds where to place
// them so they hit as many wanted targets as possible.
package aoe

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"github.com/udisondev/gridai/internal/game/geo"
)

var (
	ErrTooManyTargets = errors.New("aoe: too many targets")
	ErrUnknownShape   = errors.New("aoe: unknown shape")
	ErrNoMap          = errors.New("aoe: shape has no map")
)

// Kind names a shape family.
type Kind int

const (
	KindPoint Kind = iota
	KindBlast
	KindBurst
	KindCone
	KindBeam
	KindLine
	KindCloud
)

var kindNames = map[Kind]string{
	KindPoint: "point",
	KindBlast: "blast",
	KindBurst: "burst",
	KindCone:  "cone",
	KindBeam:  "beam",
	KindLine:  "line",
	KindCloud: "cloud",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a shape name to its Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return KindPoint, fmt.Errorf("%q: %w", s, ErrUnknownShape)
}

// AOE is an area shape bound to a map. The set of implementations is closed;
// FindArea maps every affected cell to an intensity in (0, 1].
type AOE interface {
	Kind() Kind
	// Shift moves or re-aims the shape at aim when the reach allows it.
	Shift(aim geo.Point)
	// MayContainTarget is a cheap pre-check: false means no target can be hit.
	MayContainTarget(targets []geo.Point) bool
	SetMap(m geo.Map)
	FindArea() map[geo.Point]float64
	Origin() (geo.Point, bool)
	SetOrigin(p geo.Point)
	ClearOrigin()
	Reach() geo.Reach
	SetReach(r geo.Reach)

	// footprint is the area the shape would cover if aimed at target.
	footprint(target geo.Point) map[geo.Point]float64
	// spread is how far the footprint reaches past its aim point.
	spread() float64
	// degenerate shapes affect only their aim cell.
	degenerate() bool
	boundMap() geo.Map
}

// base holds what every shape shares: the bound map, its reach and the user's cell.
type base struct {
	m         geo.Map
	res       [][]float64
	reach     geo.Reach
	origin    geo.Point
	hasOrigin bool
}

func newBase() base {
	return base{reach: geo.DefaultReach()}
}

func (b *base) SetMap(m geo.Map) {
	b.m = m
	b.res = geo.Resistances(m)
}

func (b *base) boundMap() geo.Map { return b.m }

func (b *base) Origin() (geo.Point, bool) { return b.origin, b.hasOrigin }

func (b *base) SetOrigin(p geo.Point) {
	b.origin = p
	b.hasOrigin = true
}

func (b *base) ClearOrigin() { b.hasOrigin = false }

func (b *base) Reach() geo.Reach { return b.reach }

func (b *base) SetReach(r geo.Reach) { b.reach = r }

// canAim reports whether aim is on the map and allowed by the aim limit.
func (b *base) canAim(aim geo.Point) bool {
	if b.m == nil || !b.m.Contains(aim) {
		return false
	}
	return !b.hasOrigin || b.reach.Limit.Allows(b.origin, aim)
}

func (b *base) lit(light [][]float64) map[geo.Point]float64 {
	area := make(map[geo.Point]float64)
	for x := range light {
		for y, v := range light[x] {
			if v > 0 {
				area[geo.Pt(x, y)] = v
			}
		}
	}
	return area
}

// trace returns the thickened line from one cell to another without its wall cells.
// The trace ends where the centre line itself hits a wall.
func (b *base) trace(from, to geo.Point) []geo.Point {
	spine := mapset.New[geo.Point]()
	for _, p := range geo.Line(from, to) {
		spine.Put(p)
	}
	var out []geo.Point
	for _, p := range geo.ThickLine(from, to, geo.DefaultThickness) {
		if !b.m.IsWall(p) {
			out = append(out, p)
			continue
		}
		if spine.Has(p) {
			break
		}
	}
	return out
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func anyWithin(metric geo.Radius, center geo.Point, targets []geo.Point, reach float64) bool {
	for _, t := range targets {
		if metric.Between(center, t) <= reach {
			return true
		}
	}
	return false
}

// nearLine reports whether t can lie within radius widening layers of the
// segment o-e, measured with metric. A Euclidean layer may step diagonally, so
// it reaches sqrt(2) cells.
func nearLine(metric geo.Radius, o, e, t geo.Point, radius int) bool {
	reach := float64(radius)
	if metric == geo.Circle {
		reach *= math.Sqrt2
	}
	d := metric.Between
	return d(o, t)+d(e, t)-d(o, e) <= 3+2*reach
}
