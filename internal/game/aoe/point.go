package aoe

import "github.com/udisondev/gridai/internal/game/geo"

// Point affects a single cell.
type Point struct {
	base
	center geo.Point
}

// NewPoint creates a single-cell shape at center.
func NewPoint(center geo.Point) *Point {
	return &Point{base: newBase(), center: center}
}

func (p *Point) Kind() Kind { return KindPoint }

// Center returns the affected cell.
func (p *Point) Center() geo.Point { return p.center }

func (p *Point) Shift(aim geo.Point) {
	if p.canAim(aim) {
		p.center = aim
	}
}

func (p *Point) MayContainTarget(targets []geo.Point) bool {
	for _, t := range targets {
		if t == p.center {
			return true
		}
	}
	return false
}

func (p *Point) FindArea() map[geo.Point]float64 {
	return map[geo.Point]float64{p.center: 1}
}

func (p *Point) footprint(target geo.Point) map[geo.Point]float64 {
	return map[geo.Point]float64{target: 1}
}

func (p *Point) spread() float64 { return 0 }

func (p *Point) degenerate() bool { return true }
