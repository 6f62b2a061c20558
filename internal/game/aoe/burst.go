package aoe

import "github.com/udisondev/gridai/internal/game/geo"

// Burst lights every cell around its center within radius that the center can see.
// A Burst casts hard shadows; a Blast (see NewBlast) leaks around small obstacles.
type Burst struct {
	base
	center geo.Point
	radius float64
	metric geo.Radius
	fov    geo.FOVKind
	kind   Kind
}

// NewBurst creates a shadowcast explosion.
func NewBurst(center geo.Point, radius float64) *Burst {
	return &Burst{base: newBase(), center: center, radius: radius, metric: geo.Circle, fov: geo.Shadow, kind: KindBurst}
}

// NewBlast creates an explosion that ripples around corners.
func NewBlast(center geo.Point, radius float64) *Burst {
	return &Burst{base: newBase(), center: center, radius: radius, metric: geo.Circle, fov: geo.RippleLoose, kind: KindBlast}
}

// Kind is KindBurst or KindBlast depending on the constructor.
func (b *Burst) Kind() Kind { return b.kind }

func (b *Burst) Center() geo.Point { return b.center }

func (b *Burst) Radius() float64 { return b.radius }

func (b *Burst) SetRadius(r float64) { b.radius = r }

func (b *Burst) Metric() geo.Radius { return b.metric }

// SetMetric sets the distance the radius is measured in. The default is Circle.
func (b *Burst) SetMetric(m geo.Radius) { b.metric = m }

// Shift moves the center to aim when the reach allows it.
func (b *Burst) Shift(aim geo.Point) {
	if b.canAim(aim) {
		b.center = aim
	}
}

func (b *Burst) MayContainTarget(targets []geo.Point) bool {
	return anyWithin(b.metric, b.center, targets, b.radius)
}

func (b *Burst) FindArea() map[geo.Point]float64 {
	return b.footprint(b.center)
}

func (b *Burst) footprint(target geo.Point) map[geo.Point]float64 {
	if b.m == nil {
		return map[geo.Point]float64{}
	}
	return b.lit(geo.CalculateFOV(b.res, target.X, target.Y, b.radius, b.metric, b.fov))
}

func (b *Burst) spread() float64 { return b.radius }

func (b *Burst) degenerate() bool { return b.radius <= 0 }
