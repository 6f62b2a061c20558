package aoe

import (
	"math"

	"github.com/udisondev/gridai/internal/game/geo"
)

// Cone spreads from its origin (the user's cell) in a sector facing angle.
// The origin itself is never affected.
type Cone struct {
	base
	radius float64
	angle  float64 // radians
	span   float64 // radians
	metric geo.Radius
}

// NewCone creates a cone at origin facing angle degrees (0 = +x, 90 = +y) and
// spanning span degrees.
func NewCone(origin geo.Point, radius, angle, span float64) *Cone {
	c := &Cone{
		base:   newBase(),
		radius: radius,
		angle:  angle * math.Pi / 180,
		span:   span * math.Pi / 180,
		metric: geo.Circle,
	}
	c.SetOrigin(origin)
	return c
}

func (c *Cone) Kind() Kind { return KindCone }

// Radius is how far the cone reaches from its origin.
func (c *Cone) Radius() float64 { return c.radius }

// Angle returns the facing in degrees.
func (c *Cone) Angle() float64 { return c.angle * 180 / math.Pi }

// Span returns the sector width in degrees.
func (c *Cone) Span() float64 { return c.span * 180 / math.Pi }

func (c *Cone) Metric() geo.Radius { return c.metric }

func (c *Cone) SetMetric(m geo.Radius) { c.metric = m }

// Shift turns the cone to face aim. Radius and span are kept.
func (c *Cone) Shift(aim geo.Point) {
	if !c.hasOrigin || aim == c.origin || !c.canAim(aim) {
		return
	}
	c.angle = c.origin.Angle(aim)
}

func (c *Cone) MayContainTarget(targets []geo.Point) bool {
	return c.hasOrigin && anyWithin(c.metric, c.origin, targets, c.radius)
}

func (c *Cone) FindArea() map[geo.Point]float64 {
	return c.facing(c.angle)
}

func (c *Cone) facing(angle float64) map[geo.Point]float64 {
	if c.m == nil || !c.hasOrigin {
		return map[geo.Point]float64{}
	}
	area := c.lit(geo.CalculateConeFOV(c.res, c.origin.X, c.origin.Y, c.radius, c.metric, geo.RippleLoose, angle, c.span))
	delete(area, c.origin)
	return area
}

func (c *Cone) footprint(target geo.Point) map[geo.Point]float64 {
	if !c.hasOrigin || target == c.origin {
		return map[geo.Point]float64{}
	}
	return c.facing(c.origin.Angle(target))
}

func (c *Cone) spread() float64 { return c.radius }

func (c *Cone) degenerate() bool { return false }
