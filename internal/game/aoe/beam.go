package aoe

import (
	"math"

	"github.com/udisondev/gridai/internal/game/geo"
)

// Beam is a line from its origin running length cells toward a facing angle, or to
// an explicit end. It stops at the first wall.
type Beam struct {
	base
	length   int
	radius   int
	angle    float64 // radians
	end      geo.Point
	explicit bool
	metric   geo.Radius
}

// NewBeam creates a beam at origin facing angle degrees.
func NewBeam(origin geo.Point, length int, angle float64) *Beam {
	b := &Beam{base: newBase(), length: max(length, 0), angle: angle * math.Pi / 180, metric: geo.Square}
	b.SetOrigin(origin)
	return b
}

// NewBeamTo creates a beam from origin ending exactly at end.
func NewBeamTo(origin, end geo.Point) *Beam {
	b := NewBeam(origin, 0, 0)
	b.end, b.explicit = end, true
	b.length = int(geo.Square.Between(origin, end))
	b.angle = origin.Angle(end)
	return b
}

func (b *Beam) Kind() Kind { return KindBeam }

// Length is the number of cells from the origin to the end, in Square distance.
func (b *Beam) Length() int { return b.length }

func (b *Beam) Radius() int { return b.radius }

// SetRadius widens the beam by r layers on each side. Negative values mean 0.
func (b *Beam) SetRadius(r int) { b.radius = max(r, 0) }

func (b *Beam) Metric() geo.Radius { return b.metric }

// SetMetric sets the movement used to widen the beam and to filter targets.
func (b *Beam) SetMetric(m geo.Radius) { b.metric = m }

// End returns the cell the beam currently runs to, before wall clipping. An
// explicit end from NewBeamTo holds until the first Shift; after that the end
// follows the facing angle and is clamped to the map.
func (b *Beam) End() geo.Point {
	if b.explicit || b.m == nil {
		return b.end
	}
	return b.endAt(b.angle)
}

func (b *Beam) endAt(angle float64) geo.Point {
	x := b.origin.X + int(math.Round(math.Cos(angle)*float64(b.length)))
	y := b.origin.Y + int(math.Round(math.Sin(angle)*float64(b.length)))
	if b.m != nil {
		x = min(max(x, 0), b.m.Width()-1)
		y = min(max(y, 0), b.m.Height()-1)
	}
	return geo.Pt(x, y)
}

// Shift re-aims the beam at aim, keeping its length.
func (b *Beam) Shift(aim geo.Point) {
	if !b.hasOrigin || aim == b.origin || !b.canAim(aim) {
		return
	}
	b.angle = b.origin.Angle(aim)
	b.explicit = false
}

func (b *Beam) MayContainTarget(targets []geo.Point) bool {
	if !b.hasOrigin {
		return false
	}
	end := b.End()
	for _, t := range targets {
		if nearLine(b.metric, b.origin, end, t, b.radius) {
			return true
		}
	}
	return false
}

func (b *Beam) FindArea() map[geo.Point]float64 {
	if b.m == nil || !b.hasOrigin {
		return map[geo.Point]float64{}
	}
	return b.cover(b.End())
}

func (b *Beam) cover(end geo.Point) map[geo.Point]float64 {
	return widen(b.m, b.trace(b.origin, end), b.radius, b.metric, 0)
}

func (b *Beam) footprint(target geo.Point) map[geo.Point]float64 {
	if b.m == nil || !b.hasOrigin || target == b.origin {
		return map[geo.Point]float64{}
	}
	return b.cover(b.endAt(b.origin.Angle(target)))
}

func (b *Beam) spread() float64 { return float64(b.radius) }

func (b *Beam) degenerate() bool { return false }
