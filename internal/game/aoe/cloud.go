package aoe

import (
	"math"

	"github.com/zyedidia/generic/mapset"

	"github.com/udisondev/gridai/internal/game/geo"
)

// Cloud spills a fixed number of cells outward from its center at random. The
// spill is reproducible from its seed. An expanding cloud keeps what it covered
// and grows by volume cells on every FindArea.
type Cloud struct {
	base
	center    geo.Point
	volume    int
	expanding bool
	seed      uint64
	metric    geo.Radius
	spill     *geo.Spill
}

// NewCloud creates a cloud of volume cells at center.
func NewCloud(center geo.Point, volume int, seed uint64) *Cloud {
	return &Cloud{base: newBase(), center: center, volume: max(volume, 1), seed: seed, metric: geo.Circle}
}

func (c *Cloud) Kind() Kind { return KindCloud }

// Center is where the next spill enters. Shift moves it.
func (c *Cloud) Center() geo.Point { return c.center }

func (c *Cloud) Volume() int { return c.volume }

func (c *Cloud) SetVolume(v int) { c.volume = max(v, 1) }

func (c *Cloud) Expanding() bool { return c.expanding }

// SetExpanding makes FindArea keep its spill between calls.
func (c *Cloud) SetExpanding(v bool) { c.expanding = v }

func (c *Cloud) Metric() geo.Radius { return c.metric }

// SetMetric changes the spill metric. It takes effect on the next SetMap.
func (c *Cloud) SetMetric(m geo.Radius) { c.metric = m }

// Reseed rewinds the spill to a new seed and forgets what it covered.
func (c *Cloud) Reseed(seed uint64) {
	c.seed = seed
	if c.spill != nil {
		c.spill.Reset()
		c.spill.SetRand(seeded(seed))
	}
}

func (c *Cloud) SetMap(m geo.Map) {
	c.base.SetMap(m)
	c.spill = geo.NewSpill(m, c.metric.Measurement(), seeded(c.seed))
}

func (c *Cloud) Shift(aim geo.Point) {
	if c.canAim(aim) {
		c.center = aim
	}
}

// MayContainTarget accepts targets a chain of volume cells could reach from the
// center or from any cell an expanding cloud already covers. Covered cells stay
// in the area after a Shift.
func (c *Cloud) MayContainTarget(targets []geo.Point) bool {
	if anyWithin(geo.Square, c.center, targets, float64(c.volume-1)) {
		return true
	}
	if c.spill == nil || c.spill.Filled() == 0 {
		return false
	}
	for _, p := range c.spill.Cells() {
		if anyWithin(geo.Square, p, targets, float64(c.volume)) {
			return true
		}
	}
	return false
}

func (c *Cloud) FindArea() map[geo.Point]float64 {
	if c.spill == nil {
		return map[geo.Point]float64{}
	}
	c.spill.Start(c.center, c.volume, mapset.New[geo.Point]())
	area := make(map[geo.Point]float64, c.spill.Filled())
	for _, p := range c.spill.Cells() {
		area[p] = 1
	}
	if !c.expanding {
		c.spill.Reset()
		c.spill.SetRand(seeded(c.seed))
	}
	return area
}

func (c *Cloud) footprint(target geo.Point) map[geo.Point]float64 {
	if c.m == nil {
		return map[geo.Point]float64{}
	}
	s := geo.NewSpill(c.m, c.metric.Measurement(), seeded(c.seed))
	area := make(map[geo.Point]float64, c.volume)
	for _, p := range s.Start(target, c.volume, mapset.New[geo.Point]()) {
		area[p] = 1
	}
	return area
}

func (c *Cloud) spread() float64 { return math.Sqrt(float64(c.volume)) * 0.75 }

func (c *Cloud) degenerate() bool { return c.volume <= 1 }
