package scenario

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zyedidia/generic/mapset"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/gridai/internal/db"
	"github.com/udisondev/gridai/internal/game/aoe"
	"github.com/udisondev/gridai/internal/game/dijkstra"
	"github.com/udisondev/gridai/internal/game/geo"
)

// defaultPrefer is how much longer a flee route may be than the shortest one.
const defaultPrefer = 1.2

// TechniqueCatalog lists stored technique definitions.
type TechniqueCatalog interface {
	List(ctx context.Context) ([]db.TechniqueRecord, error)
}

// TechniqueSyncer stores technique definitions.
type TechniqueSyncer interface {
	Sync(ctx context.Context, records []db.TechniqueRecord) (int, error)
}

// Result is the answer to one query.
type Result struct {
	QueryID string
	Kind    QueryKind
	Actor   string
	Path    []geo.Point
	// Cast is where a technique query would aim once its path is walked.
	Cast       *geo.Point
	Area       map[geo.Point]float64
	Placements []aoe.Placement
}

// Runner runs scenario queries concurrently. Every query gets its own engine
// and its own copy of the technique it uses.
type Runner struct {
	workers int
	seed    uint64
	log     *slog.Logger
	known   map[string]TechniqueDef
}

// NewRunner creates a runner. Query i is seeded with seed+i.
func NewRunner(workers int, seed uint64, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		workers: max(workers, 1),
		seed:    seed,
		log:     log,
		known:   make(map[string]TechniqueDef),
	}
}

// AddTechniques makes defs available to every scenario. Scenario definitions
// with the same id win.
func (r *Runner) AddTechniques(defs ...TechniqueDef) {
	for _, d := range defs {
		r.known[d.Key()] = d
	}
}

// LoadCatalog adds every catalog technique.
func (r *Runner) LoadCatalog(ctx context.Context, c TechniqueCatalog) error {
	records, err := c.List(ctx)
	if err != nil {
		return fmt.Errorf("loading technique catalog: %w", err)
	}
	for _, rec := range records {
		d, err := FromRecord(rec)
		if err != nil {
			return err
		}
		r.AddTechniques(d)
	}
	r.log.Info("technique catalog loaded", "count", len(records))
	return nil
}

// SyncCatalog stores the scenario's techniques and returns how many changed.
func SyncCatalog(ctx context.Context, store TechniqueSyncer, s *Scenario) (int, error) {
	records := make([]db.TechniqueRecord, 0, len(s.Techniques))
	for _, d := range s.Techniques {
		rec, err := d.Record()
		if err != nil {
			return 0, err
		}
		records = append(records, rec)
	}
	n, err := store.Sync(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("syncing techniques of %q: %w", s.Name, err)
	}
	return n, nil
}

// plan is what every query of one scenario shares. It is read-only once built.
type plan struct {
	m           geo.Map
	measurement geo.Measurement
	rules       *compiledRules
	techniques  map[string]TechniqueDef
}

// Run answers every query of s. Results are in query order. The first failing
// query cancels the rest.
func (r *Runner) Run(ctx context.Context, s *Scenario) ([]Result, error) {
	if err := s.Validate(r.known); err != nil {
		return nil, err
	}
	m, err := s.parseMap()
	if err != nil {
		return nil, err
	}
	measurement, err := geo.ParseMeasurement(s.Measurement)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	rules, err := compileRules(s.Rules)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	p := &plan{m: m, measurement: measurement, rules: rules, techniques: s.techniqueIndex(r.known)}

	results := make([]Result, len(s.Queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, q := range s.Queries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.runQuery(s, p, i, q)
			if err != nil {
				return fmt.Errorf("query %q: %w", q.ID, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.log.Info("scenario done", "name", s.Name, "queries", len(results))
	return results, nil
}

func (r *Runner) runQuery(s *Scenario, p *plan, i int, q Query) (Result, error) {
	seed := r.seed + uint64(i)
	self, _ := s.actor(q.Actor)
	start := self.Pos()

	roles, err := p.rules.classify(self, s.Actors)
	if err != nil {
		return Result{}, err
	}
	priority, lesser := roles.Priority, roles.Lesser
	obstructions, allies := roles.Others, roles.Allies
	if len(q.Targets) > 0 {
		named := mapset.New[geo.Point]()
		for _, name := range q.Targets {
			a, _ := s.actor(name)
			named.Put(a.Pos())
		}
		// Rule-picked targets the query did not name are in the way.
		obstructions = append([]geo.Point{}, roles.Others...)
		for _, t := range roles.Targets() {
			if !named.Has(t) {
				obstructions = append(obstructions, t)
			}
		}
		priority, lesser = nil, make([]geo.Point, 0, len(q.Targets))
		for _, name := range q.Targets {
			a, _ := s.actor(name)
			lesser = append(lesser, a.Pos())
		}
	}
	targets := append(append([]geo.Point{}, priority...), lesser...)

	e, err := dijkstra.NewFromMap(p.m,
		dijkstra.WithMeasurement(p.measurement),
		dijkstra.WithSeed(seed),
		dijkstra.WithLogger(r.log.With("query", q.ID)),
	)
	if err != nil {
		return Result{}, err
	}
	los := geo.NewBresenhamLOS()

	res := Result{QueryID: q.ID, Kind: q.Kind, Actor: self.Name}
	switch q.Kind {
	case QueryPath:
		if q.Size > 1 {
			res.Path = e.FindPathLarge(q.Size, q.Length, obstructions, allies, start, targets...)
		} else {
			res.Path = e.FindPath(q.Length, obstructions, allies, start, targets...)
		}

	case QueryAttack:
		lo, hi := max(q.Range.Min, 0), q.Range.Max
		if hi == 0 {
			hi = max(lo, 1)
		}
		switch {
		case q.Size > 1 && lo == hi:
			res.Path = e.FindAttackPathLarge(q.Size, q.Length, lo, los, obstructions, allies, start, targets...)
		case q.Size > 1:
			res.Path = e.FindAttackPathLargeRange(q.Size, q.Length, lo, hi, los, obstructions, allies, start, targets...)
		case lo == hi:
			res.Path = e.FindAttackPath(q.Length, lo, los, obstructions, allies, start, targets...)
		default:
			res.Path = e.FindAttackPathRange(q.Length, lo, hi, los, obstructions, allies, start, targets...)
		}

	case QueryFlee:
		prefer := q.Prefer
		if prefer == 0 {
			prefer = defaultPrefer
		}
		if q.Size > 1 {
			res.Path = e.FindFleePathLarge(q.Size, q.Length, prefer, obstructions, allies, start, targets...)
		} else {
			res.Path = e.FindFleePath(q.Length, prefer, obstructions, allies, start, targets...)
		}

	case QueryTechnique, QueryArea, QueryIdeal:
		tech, err := p.techniques[q.Technique].Build(start, seed)
		if err != nil {
			return Result{}, err
		}
		tech.SetMap(p.m)
		switch q.Kind {
		case QueryTechnique:
			res.Path = e.FindTechniquePath(q.Length, tech, p.m, los, obstructions, allies, start, targets)
			end := start
			if len(res.Path) > 0 {
				end = res.Path[len(res.Path)-1]
			}
			if cast, ok := e.TargetAt(end); ok {
				res.Cast = &cast
			}
		case QueryArea:
			aim, ok := aimFor(q, targets)
			if !ok {
				res.Area = map[geo.Point]float64{}
				break
			}
			res.Area = tech.Apply(start, aim)
		case QueryIdeal:
			res.Placements, err = tech.IdealLocations(start, priority, lesser, roles.Excluded)
			if err != nil {
				return Result{}, err
			}
		}

	case QueryFlood:
		res.Area = e.FloodFill(q.Radius, start)

	default:
		return Result{}, fmt.Errorf("%q: %w", q.Kind, ErrUnknownQuery)
	}

	r.log.Debug("query answered", "id", q.ID, "kind", q.Kind, "path", len(res.Path),
		"area", len(res.Area), "placements", len(res.Placements))
	return res, nil
}

func aimFor(q Query, targets []geo.Point) (geo.Point, bool) {
	if q.Aim != nil {
		return q.Aim.Point(), true
	}
	if len(targets) > 0 {
		return targets[0], true
	}
	return geo.Point{}, false
}
