package scenario

import (
	"fmt"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/udisondev/gridai/internal/game/geo"
)

// Rules classify the other actors from the point of view of the acting one.
// Each rule is a boolean expression over ActorEnv. Empty rules fall back to
// team membership: other teams are lesser targets, the own team is allied, and
// allies are also excluded from areas.
type Rules struct {
	Priority string `yaml:"priority"`
	Lesser   string `yaml:"lesser"`
	Exclude  string `yaml:"exclude"`
	Ally     string `yaml:"ally"`
}

const (
	defaultLesser = `team != self.team`
	defaultAlly   = `team == self.team`
)

// SelfEnv is the acting actor as seen by a rule.
type SelfEnv struct {
	Name string `expr:"name"`
	Team string `expr:"team"`
	HP   int    `expr:"hp"`
	X    int    `expr:"x"`
	Y    int    `expr:"y"`
}

// ActorEnv is what a rule sees about one other actor.
type ActorEnv struct {
	Name string   `expr:"name"`
	Team string   `expr:"team"`
	HP   int      `expr:"hp"`
	X    int      `expr:"x"`
	Y    int      `expr:"y"`
	Tags []string `expr:"tags"`
	// Distance is the Chebyshev distance to the acting actor.
	Distance int     `expr:"distance"`
	Self     SelfEnv `expr:"self"`
}

func (e ActorEnv) HasTag(tag string) bool { return slices.Contains(e.Tags, tag) }

// Roles splits the other actors' cells by what the acting actor wants of them.
type Roles struct {
	Priority []geo.Point
	Lesser   []geo.Point
	Excluded []geo.Point
	Allies   []geo.Point
	// Others are actors that are neither targets nor allies.
	Others []geo.Point
}

// Targets is priority followed by lesser.
func (r Roles) Targets() []geo.Point {
	out := make([]geo.Point, 0, len(r.Priority)+len(r.Lesser))
	return append(append(out, r.Priority...), r.Lesser...)
}

type compiledRules struct {
	priority, lesser, exclude, ally *vm.Program
}

func compileRule(name, src, fallback string) (*vm.Program, error) {
	if src == "" {
		src = fallback
	}
	if src == "" {
		return nil, nil
	}
	prog, err := expr.Compile(src, expr.Env(ActorEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile rule %q: %w", name, err)
	}
	return prog, nil
}

func compileRules(r Rules) (*compiledRules, error) {
	var (
		c   compiledRules
		err error
	)
	if c.priority, err = compileRule("priority", r.Priority, ""); err != nil {
		return nil, err
	}
	if c.lesser, err = compileRule("lesser", r.Lesser, defaultLesser); err != nil {
		return nil, err
	}
	if c.ally, err = compileRule("ally", r.Ally, defaultAlly); err != nil {
		return nil, err
	}
	if c.exclude, err = compileRule("exclude", r.Exclude, ""); err != nil {
		return nil, err
	}
	return &c, nil
}

func match(prog *vm.Program, env ActorEnv) (bool, error) {
	if prog == nil {
		return false, nil
	}
	out, err := vm.Run(prog, env)
	if err != nil {
		return false, err
	}
	ok, _ := out.(bool)
	return ok, nil
}

// classify sorts every actor but self. An actor is a priority target before a
// lesser one, and an ally only when it is not a target. Allies are excluded
// unless an exclude rule is given.
func (c *compiledRules) classify(self Actor, actors []Actor) (Roles, error) {
	var roles Roles
	me := SelfEnv{Name: self.Name, Team: self.Team, HP: self.HP, X: self.X, Y: self.Y}
	for _, a := range actors {
		if a.Name == self.Name {
			continue
		}
		env := ActorEnv{
			Name: a.Name, Team: a.Team, HP: a.HP, X: a.X, Y: a.Y, Tags: a.Tags,
			Distance: int(geo.Square.Between(self.Pos(), a.Pos())),
			Self:     me,
		}
		p := a.Pos()

		priority, err := match(c.priority, env)
		if err != nil {
			return Roles{}, fmt.Errorf("rule priority on %q: %w", a.Name, err)
		}
		lesser, err := match(c.lesser, env)
		if err != nil {
			return Roles{}, fmt.Errorf("rule lesser on %q: %w", a.Name, err)
		}
		ally, err := match(c.ally, env)
		if err != nil {
			return Roles{}, fmt.Errorf("rule ally on %q: %w", a.Name, err)
		}
		excluded := ally
		if c.exclude != nil {
			if excluded, err = match(c.exclude, env); err != nil {
				return Roles{}, fmt.Errorf("rule exclude on %q: %w", a.Name, err)
			}
		}

		switch {
		case priority:
			roles.Priority = append(roles.Priority, p)
		case lesser:
			roles.Lesser = append(roles.Lesser, p)
		case ally:
			roles.Allies = append(roles.Allies, p)
		default:
			roles.Others = append(roles.Others, p)
		}
		if excluded && !priority && !lesser {
			roles.Excluded = append(roles.Excluded, p)
		}
	}
	return roles, nil
}
