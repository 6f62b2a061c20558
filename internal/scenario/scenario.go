// Package scenario loads planning scenarios from YAML and runs their queries
// against the pathfinding engine and the AOE shapes.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/gridai/internal/game/geo"
)

var (
	ErrUnknownTechnique = errors.New("scenario: unknown technique")
	ErrUnknownQuery     = errors.New("scenario: unknown query kind")
	ErrUnknownActor     = errors.New("scenario: unknown actor")
)

// Scenario is a map, the actors standing on it and the questions to ask about them.
type Scenario struct {
	Name        string         `yaml:"name"`
	Map         []string       `yaml:"map"`
	Measurement string         `yaml:"measurement"`
	Actors      []Actor        `yaml:"actors"`
	Techniques  []TechniqueDef `yaml:"techniques"`
	Rules       Rules          `yaml:"rules"`
	Queries     []Query        `yaml:"queries"`
}

// Actor is anything standing on the map.
type Actor struct {
	Name string   `yaml:"name"`
	Team string   `yaml:"team"`
	X    int      `yaml:"x"`
	Y    int      `yaml:"y"`
	HP   int      `yaml:"hp"`
	Tags []string `yaml:"tags"`
}

func (a Actor) Pos() geo.Point { return geo.Pt(a.X, a.Y) }

// QueryKind selects which engine or shape operation a query runs.
type QueryKind string

const (
	QueryPath      QueryKind = "path"
	QueryAttack    QueryKind = "attack"
	QueryFlee      QueryKind = "flee"
	QueryTechnique QueryKind = "technique"
	QueryArea      QueryKind = "area"
	QueryIdeal     QueryKind = "ideal"
	QueryFlood     QueryKind = "flood"
)

func (k QueryKind) valid() bool {
	switch k {
	case QueryPath, QueryAttack, QueryFlee, QueryTechnique, QueryArea, QueryIdeal, QueryFlood:
		return true
	}
	return false
}

func (k QueryKind) needsTechnique() bool {
	return k == QueryTechnique || k == QueryArea || k == QueryIdeal
}

// Range is an inclusive distance band.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Cell is a map coordinate in YAML form.
type Cell struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (c Cell) Point() geo.Point { return geo.Pt(c.X, c.Y) }

// Query is one planning question asked on behalf of Actor. Targets name actors;
// when empty the rules pick them.
type Query struct {
	ID        string    `yaml:"id"`
	Kind      QueryKind `yaml:"kind"`
	Actor     string    `yaml:"actor"`
	Targets   []string  `yaml:"targets"`
	Length    int       `yaml:"length"`
	Range     Range     `yaml:"range"`
	Prefer    float64   `yaml:"prefer"`
	Technique string    `yaml:"technique"`
	Aim       *Cell     `yaml:"aim"`
	Size      int       `yaml:"size"`
	Radius    int       `yaml:"radius"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scenario and fills defaults. It does not check references; see Validate.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if s.Measurement == "" {
		s.Measurement = geo.Manhattan.String()
	}
	for i := range s.Queries {
		q := &s.Queries[i]
		if q.ID == "" {
			q.ID = fmt.Sprintf("%s-%d", q.Kind, i)
		}
		q.Size = max(q.Size, 1)
	}
	return &s, nil
}

// Validate checks that every query names a known kind, actor and technique.
// known holds techniques supplied from outside the scenario, such as a catalog.
func (s *Scenario) Validate(known map[string]TechniqueDef) error {
	if _, err := s.parseMap(); err != nil {
		return err
	}
	if _, err := geo.ParseMeasurement(s.Measurement); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	techs := s.techniqueIndex(known)
	for _, q := range s.Queries {
		if !q.Kind.valid() {
			return fmt.Errorf("query %q: %q: %w", q.ID, q.Kind, ErrUnknownQuery)
		}
		if _, ok := s.actor(q.Actor); !ok {
			return fmt.Errorf("query %q: %q: %w", q.ID, q.Actor, ErrUnknownActor)
		}
		for _, name := range q.Targets {
			if _, ok := s.actor(name); !ok {
				return fmt.Errorf("query %q target %q: %w", q.ID, name, ErrUnknownActor)
			}
		}
		if q.Kind.needsTechnique() {
			if _, ok := techs[q.Technique]; !ok {
				return fmt.Errorf("query %q: %q: %w", q.ID, q.Technique, ErrUnknownTechnique)
			}
		}
	}
	return nil
}

func (s *Scenario) parseMap() (geo.Map, error) {
	m, err := geo.ParseMap(s.Map)
	if err != nil {
		return nil, fmt.Errorf("scenario %q map: %w", s.Name, err)
	}
	return m, nil
}

func (s *Scenario) actor(name string) (Actor, bool) {
	for _, a := range s.Actors {
		if a.Name == name {
			return a, true
		}
	}
	return Actor{}, false
}

// techniqueIndex merges known techniques under the scenario's own definitions.
func (s *Scenario) techniqueIndex(known map[string]TechniqueDef) map[string]TechniqueDef {
	out := make(map[string]TechniqueDef, len(known)+len(s.Techniques))
	for id, def := range known {
		out[id] = def
	}
	for _, def := range s.Techniques {
		out[def.Key()] = def
	}
	return out
}
