package scenario

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/gridai/internal/db"
	"github.com/udisondev/gridai/internal/game/aoe"
	"github.com/udisondev/gridai/internal/game/geo"
)

// TechniqueDef describes a technique and its shape. Fields a shape does not use
// are ignored. Angles and spans are in degrees. Metric sets both the reach metric
// and the shape's own.
type TechniqueDef struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Shape     string  `yaml:"shape"`
	Radius    float64 `yaml:"radius,omitempty"`
	Span      float64 `yaml:"span,omitempty"`
	Angle     float64 `yaml:"angle,omitempty"`
	Length    int     `yaml:"length,omitempty"`
	Volume    int     `yaml:"volume,omitempty"`
	Seed      uint64  `yaml:"seed,omitempty"`
	Expanding bool    `yaml:"expanding,omitempty"`
	MinRange  int     `yaml:"min_range,omitempty"`
	MaxRange  int     `yaml:"max_range,omitempty"`
	Metric    string  `yaml:"metric,omitempty"`
	Limit     string  `yaml:"limit,omitempty"`
}

// Key is the id, or the name when no id is set.
func (d TechniqueDef) Key() string {
	if d.ID != "" {
		return d.ID
	}
	return d.Name
}

// Build creates the technique with its shape placed at origin. seed is used
// when the definition has none.
func (d TechniqueDef) Build(origin geo.Point, seed uint64) (*aoe.Technique, error) {
	kind, err := aoe.ParseKind(d.Shape)
	if err != nil {
		return nil, fmt.Errorf("technique %q: %w", d.Key(), err)
	}
	reach := geo.DefaultReach()
	if d.MinRange > 0 || d.MaxRange > 0 {
		reach.MinDistance = d.MinRange
		reach.MaxDistance = max(d.MaxRange, d.MinRange)
	}
	if d.Metric != "" {
		if reach.Metric, err = geo.ParseRadius(d.Metric); err != nil {
			return nil, fmt.Errorf("technique %q: %w", d.Key(), err)
		}
	}
	if reach.Limit, err = geo.ParseAimLimit(d.Limit); err != nil {
		return nil, fmt.Errorf("technique %q: %w", d.Key(), err)
	}
	if d.Seed != 0 {
		seed = d.Seed
	}

	var shape aoe.AOE
	switch kind {
	case aoe.KindPoint:
		shape = aoe.NewPoint(origin)
	case aoe.KindBurst:
		shape = aoe.NewBurst(origin, d.Radius)
	case aoe.KindBlast:
		shape = aoe.NewBlast(origin, d.Radius)
	case aoe.KindCone:
		shape = aoe.NewCone(origin, d.Radius, d.Angle, d.Span)
	case aoe.KindBeam:
		b := aoe.NewBeam(origin, d.Length, d.Angle)
		b.SetRadius(int(d.Radius))
		shape = b
	case aoe.KindLine:
		l := aoe.NewLine(origin, origin, int(d.Radius))
		l.Reseed(seed)
		shape = l
	case aoe.KindCloud:
		c := aoe.NewCloud(origin, d.Volume, seed)
		c.SetExpanding(d.Expanding)
		shape = c
	}
	if m, ok := shape.(interface{ SetMetric(geo.Radius) }); ok && d.Metric != "" {
		m.SetMetric(reach.Metric)
	}
	shape.SetReach(reach)
	shape.SetOrigin(origin)

	name := d.Name
	if name == "" {
		name = d.Key()
	}
	t := aoe.NewTechnique(name, shape)
	t.ID = d.Key()
	return t, nil
}

// Canonical is the YAML encoding the catalog fingerprints.
func (d TechniqueDef) Canonical() ([]byte, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding technique %q: %w", d.Key(), err)
	}
	return out, nil
}

// Record converts the definition into a catalog row.
func (d TechniqueDef) Record() (db.TechniqueRecord, error) {
	def, err := d.Canonical()
	if err != nil {
		return db.TechniqueRecord{}, err
	}
	return db.TechniqueRecord{ID: d.Key(), Name: d.Name, Shape: d.Shape, Definition: def}, nil
}

// FromRecord decodes a catalog row.
func FromRecord(rec db.TechniqueRecord) (TechniqueDef, error) {
	var d TechniqueDef
	if err := yaml.Unmarshal(rec.Definition, &d); err != nil {
		return TechniqueDef{}, fmt.Errorf("decoding technique %q: %w", rec.ID, err)
	}
	if d.ID == "" {
		d.ID = rec.ID
	}
	return d, nil
}
