package aoe

import (
	"github.com/udisondev/gridai/internal/game/dijkstra"
	"github.com/udisondev/gridai/internal/game/geo"
)

// Technique is a named ability that places an AOE relative to its user.
type Technique struct {
	Name string
	ID   string
	AOE  AOE

	m geo.Map
}

var _ dijkstra.Technique = (*Technique)(nil)

// NewTechnique creates a technique; its id is its name.
func NewTechnique(name string, a AOE) *Technique {
	return &Technique{Name: name, ID: name, AOE: a}
}

// SetMap binds the technique and its shape to m.
func (t *Technique) SetMap(m geo.Map) {
	t.m = m
	t.AOE.SetMap(m)
}

func (t *Technique) MinRange() int { return t.AOE.Reach().MinDistance }

func (t *Technique) MaxRange() int { return t.AOE.Reach().MaxDistance }

// IdealLocations scores placements for a user standing at user.
func (t *Technique) IdealLocations(user geo.Point, priority, lesser, exclusions []geo.Point) ([]Placement, error) {
	t.AOE.SetOrigin(user)
	return IdealLocations(t.AOE, priority, lesser, exclusions)
}

// BestPlacement returns the first ideal cast point for user and how many targets
// it hits, keeping allies out of the area.
func (t *Technique) BestPlacement(user geo.Point, targets, allies []geo.Point) (geo.Point, int, bool) {
	placements, err := t.IdealLocations(user, nil, targets, allies)
	if err != nil || len(placements) == 0 {
		return geo.Point{}, 0, false
	}
	return placements[0].Cell, len(placements[0].Targets), true
}

// Apply aims the technique from user at aim and returns the affected area.
func (t *Technique) Apply(user, aim geo.Point) map[geo.Point]float64 {
	t.AOE.SetOrigin(user)
	t.AOE.Shift(aim)
	return t.AOE.FindArea()
}

// CanTarget reports whether aim is within reach of user and no wall stands between them.
func (t *Technique) CanTarget(user, aim geo.Point) bool {
	if t.m == nil || !t.m.Contains(aim) || !t.AOE.Reach().Allows(user, aim) {
		return false
	}
	for _, p := range geo.Line(user, aim) {
		if p != user && t.m.IsWall(p) {
			return false
		}
	}
	return true
}

// PossibleTargets lists the cells user can see within reach, ordered by x then y.
func (t *Technique) PossibleTargets(user geo.Point) []geo.Point {
	if t.m == nil || !t.m.Contains(user) {
		return nil
	}
	reach := t.AOE.Reach()
	light := geo.CalculateFOV(geo.SimpleResistances(t.m), user.X, user.Y, float64(reach.MaxDistance+1), reach.Metric, geo.Shadow)
	var out []geo.Point
	for x := range light {
		for y, v := range light[x] {
			p := geo.Pt(x, y)
			if (v <= 0 && p != user) || t.m.IsWall(p) {
				continue
			}
			if reach.Allows(user, p) {
				out = append(out, p)
			}
		}
	}
	return out
}
